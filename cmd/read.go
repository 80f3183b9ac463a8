package cmd

import (
	stderrors "errors"

	"github.com/spf13/cobra"

	"github.com/totara-db/totara/internal/errors"
	"github.com/totara-db/totara/internal/ui"
)

var readCmd = &cobra.Command{
	Use:   "read <id>",
	Short: "Reads a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		Logger.Infof("Starting read command for document %s", id)
		spinner, cleanup := startSpinner("Reading document...", verbose)
		defer cleanup()

		artifact, err := loadArtifact()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to load certificate: %v", err)
		}
		database, err := openDB()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to open store: %v", err)
		}

		doc, err := database.Read(artifact, id)
		if err != nil {
			switch {
			case stderrors.Is(err, errors.ErrNotFound):
				spinner.FinalMSG = ui.Error.Sprint("✗") + " Document " + ui.Highlight.Sprint(id) + " does not exist"
			case stderrors.Is(err, errors.ErrDecryptionFailed):
				spinner.FinalMSG = ui.Error.Sprint("✗") + " Document " + ui.Highlight.Sprint(id) + " could not be decrypted\n" +
					ui.Info.Sprint("→") + " Check the key passed with " + ui.Code.Sprint("--key") + " or " + ui.Code.Sprint("TOTARA_KEY")
			default:
				spinner.FinalMSG = ui.Error.Sprint("✗") + " Failed to read document " + ui.Highlight.Sprint(id)
			}
			return err
		}

		spinner.FinalMSG = formatDocument(doc)
		return nil
	},
}
