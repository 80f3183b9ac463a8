package cmd

import (
	stderrors "errors"

	"github.com/spf13/cobra"

	"github.com/totara-db/totara/internal/errors"
	"github.com/totara-db/totara/internal/ui"
)

var createCmd = &cobra.Command{
	Use:   "create <id> [json]",
	Short: "Creates a new document",
	Long: `Creates a new document with the given id. The payload is the JSON argument,
or standard input when --stdin is set. Fails if the id is already taken.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		Logger.Infof("Starting create command for document %s", id)
		spinner, cleanup := startSpinner("Creating document...", verbose)
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

		doc, err := database.Create(artifact, id, payload)
		if err != nil {
			if stderrors.Is(err, errors.ErrDuplicateID) {
				spinner.FinalMSG = ui.Error.Sprint("✗") + " Document " + ui.Highlight.Sprint(id) + " already exists\n" +
					ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("totara update "+id) + " to replace its payload"
				return err
			}
			spinner.FinalMSG = ui.Error.Sprint("✗") + " Failed to create document " + ui.Highlight.Sprint(id)
			return err
		}

		Logger.Infof("Document %s created", id)
		if jsonOutput {
			spinner.FinalMSG = formatDocument(doc)
			return nil
		}
		spinner.FinalMSG = ui.Success.Sprint("✓") + " Document " + ui.Highlight.Sprint(id) + " created\n" +
			formatDocument(doc)
		return nil
	},
}
