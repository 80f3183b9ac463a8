package cmd

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"github.com/totara-db/totara/internal/cert"
	"github.com/totara-db/totara/internal/ui"
)

var certListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists issued certificates",
	Long: `Lists every certificate the store has ever issued, including revoked
ones. Revoked entries stay in the registry forever as an audit trail.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting cert list command")
		spinner, cleanup := startSpinner("Listing certificates...", verbose)
		defer cleanup()

		artifact := loadArtifactOptional()
		database, err := openDB()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to open store: %v", err)
		}

		entries, err := database.ListCertificates(artifact)
		if err != nil {
			spinner.FinalMSG = ui.Error.Sprint("✗") + " Failed to list certificates"
			return err
		}

		if jsonOutput {
			type entryJSON struct {
				Principal   string `json:"principal"`
				Fingerprint string `json:"fingerprint"`
				Status      string `json:"status"`
				IssuedAt    string `json:"issued_at"`
			}
			out := make([]entryJSON, 0, len(entries))
			for _, e := range entries {
				out = append(out, entryJSON{
					Principal:   e.Principal,
					Fingerprint: e.Fingerprint,
					Status:      string(e.Status),
					IssuedAt:    e.IssuedAt.UTC().Format(time.RFC3339),
				})
			}
			data, err := json.Marshal(out)
			if err != nil {
				return Logger.ErrorfAndReturn("Failed to encode certificate list: %v", err)
			}
			spinner.FinalMSG = string(data)
			return nil
		}

		if len(entries) == 0 {
			spinner.FinalMSG = ui.Muted.Sprint("no certificates issued yet") + "\n" +
				ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("totara cert generate <principal>") + " to issue the first one"
			return nil
		}

		msg := "Certificates:\n"
		for _, e := range entries {
			status := ui.Success.Sprint(string(e.Status))
			if e.Status == cert.StatusRevoked {
				status = ui.Error.Sprint(string(e.Status))
			}
			msg += "  - " + ui.Highlight.Sprint(e.Principal) +
				" (" + status + ", issued " + e.IssuedAt.UTC().Format(time.RFC3339) + ")\n"
		}
		spinner.FinalMSG = msg
		return nil
	},
}
