package cmd

import (
	stderrors "errors"

	"github.com/spf13/cobra"

	"github.com/totara-db/totara/internal/errors"
	"github.com/totara-db/totara/internal/ui"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Deletes a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		Logger.Infof("Starting delete command for document %s", id)
		spinner, cleanup := startSpinner("Deleting document...", verbose)
		defer cleanup()

		artifact, err := loadArtifact()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to load certificate: %v", err)
		}
		database, err := openDB()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to open store: %v", err)
		}

		if err := database.Delete(artifact, id); err != nil {
			if stderrors.Is(err, errors.ErrNotFound) {
				spinner.FinalMSG = ui.Error.Sprint("✗") + " Document " + ui.Highlight.Sprint(id) + " does not exist"
				return err
			}
			spinner.FinalMSG = ui.Error.Sprint("✗") + " Failed to delete document " + ui.Highlight.Sprint(id)
			return err
		}

		Logger.Infof("Document %s deleted", id)
		spinner.FinalMSG = ui.Success.Sprint("✓") + " Document " + ui.Highlight.Sprint(id) + " deleted"
		return nil
	},
}
