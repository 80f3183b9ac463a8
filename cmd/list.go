package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/totara-db/totara/internal/ui"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists all document ids",
	Long: `Lists every document id in the store, lexicographically sorted. Listing
never opens a payload, so it works without an encryption key.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting list command")
		spinner, cleanup := startSpinner("Listing documents...", verbose)
		defer cleanup()

		artifact, err := loadArtifact()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to load certificate: %v", err)
		}
		database, err := openDB()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to open store: %v", err)
		}

		ids, err := database.List(artifact)
		if err != nil {
			spinner.FinalMSG = ui.Error.Sprint("✗") + " Failed to list documents"
			return err
		}

		if jsonOutput {
			data, err := json.Marshal(ids)
			if err != nil {
				return Logger.ErrorfAndReturn("Failed to encode id list: %v", err)
			}
			spinner.FinalMSG = string(data)
			return nil
		}

		if len(ids) == 0 {
			spinner.FinalMSG = ui.Muted.Sprint("store is empty")
			return nil
		}
		msg := "Documents:\n"
		for _, id := range ids {
			msg += "  - " + ui.Highlight.Sprint(id) + "\n"
		}
		spinner.FinalMSG = msg
		return nil
	},
}
