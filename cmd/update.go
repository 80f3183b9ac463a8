package cmd

import (
	stderrors "errors"

	"github.com/spf13/cobra"

	"github.com/totara-db/totara/internal/errors"
	"github.com/totara-db/totara/internal/ui"
)

var updateCmd = &cobra.Command{
	Use:   "update <id> [json]",
	Short: "Replaces the payload of an existing document",
	Long: `Replaces the payload of an existing document. The id and creation time are
preserved. Fails if the document does not exist.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		Logger.Infof("Starting update command for document %s", id)
		spinner, cleanup := startSpinner("Updating document...", verbose)
		defer cleanup()

		artifact, err := loadArtifact()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to load certificate: %v", err)
		}
		payload, err := readPayload(args, 1)
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to read payload: %v", err)
		}

		database, err := openDB()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to open store: %v", err)
		}

		doc, err := database.Update(artifact, id, payload)
		if err != nil {
			if stderrors.Is(err, errors.ErrNotFound) {
				spinner.FinalMSG = ui.Error.Sprint("✗") + " Document " + ui.Highlight.Sprint(id) + " does not exist\n" +
					ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("totara create "+id) + " to create it"
				return err
			}
			spinner.FinalMSG = ui.Error.Sprint("✗") + " Failed to update document " + ui.Highlight.Sprint(id)
			return err
		}

		Logger.Infof("Document %s updated", id)
		if jsonOutput {
			spinner.FinalMSG = formatDocument(doc)
			return nil
		}
		spinner.FinalMSG = ui.Success.Sprint("✓") + " Document " + ui.Highlight.Sprint(id) + " updated\n" +
			formatDocument(doc)
		return nil
	},
}
