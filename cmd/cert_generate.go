package cmd

import (
	"encoding/base64"
	"encoding/json"
	stderrors "errors"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/totara-db/totara/internal/errors"
	"github.com/totara-db/totara/internal/ui"
)

var certOutputDir string

var certGenerateCmd = &cobra.Command{
	Use:   "generate <principal>",
	Short: "Issues a certificate for a principal",
	Long: `Issues a new certificate for the named principal and writes it to
<principal>.cert in the output directory. Each principal gets exactly one
certificate, ever; a revoked principal cannot be reissued under the same
name.

On a store with no certificates yet, no certificate is required to run
this command. After the first one, provide --cert or --cert-content.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		principal := args[0]
		Logger.Infof("Starting cert generate command for principal %s", principal)
		spinner, cleanup := startSpinner("Issuing certificate...", verbose)
		defer cleanup()

		artifact := loadArtifactOptional()
		database, err := openDB()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to open store: %v", err)
		}

		issued, err := database.GenerateCertificate(artifact, principal)
		if err != nil {
			if stderrors.Is(err, errors.ErrDuplicateID) {
				spinner.FinalMSG = ui.Error.Sprint("✗") + " A certificate was already issued for " + ui.Highlight.Sprint(principal) + "\n" +
					ui.Info.Sprint("→") + " Principals are never reissued, pick a new name"
				return err
			}
			spinner.FinalMSG = ui.Error.Sprint("✗") + " Failed to issue certificate for " + ui.Highlight.Sprint(principal)
			return err
		}

		outPath := filepath.Join(certOutputDir, principal+".cert")
		if err := issued.WriteArtifactFile(outPath); err != nil {
			return Logger.ErrorfAndReturn("Failed to write certificate file: %v", err)
		}

		encoded, err := issued.Encode()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to encode certificate: %v", err)
		}
		inline := base64.StdEncoding.EncodeToString(encoded)

		Logger.Infof("Certificate for %s written to %s", principal, outPath)
		if jsonOutput {
			data, err := json.Marshal(map[string]string{
				"principal":    principal,
				"path":         outPath,
				"cert_content": inline,
			})
			if err != nil {
				return Logger.ErrorfAndReturn("Failed to encode output: %v", err)
			}
			spinner.FinalMSG = string(data)
			return nil
		}
		spinner.FinalMSG = ui.Success.Sprint("✓") + " Certificate for " + ui.Highlight.Sprint(principal) + " written to " + ui.Path.Sprint(outPath) + "\n" +
			ui.Info.Sprint("→") + " Keep this file safe, the store only remembers its fingerprint\n" +
			ui.Info.Sprint("→") + " For CI, pass it inline with " + ui.Code.Sprint("--cert-content "+truncate(inline, 16)+"...")
		return nil
	},
}

func init() {
	certGenerateCmd.Flags().StringVarP(&certOutputDir, "output", "o", ".", "directory to write the certificate file into")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
