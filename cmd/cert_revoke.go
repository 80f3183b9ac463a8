package cmd

import (
	stderrors "errors"

	"github.com/spf13/cobra"

	"github.com/totara-db/totara/internal/errors"
	"github.com/totara-db/totara/internal/ui"
)

var certRevokeCmd = &cobra.Command{
	Use:   "revoke <principal>",
	Short: "Revokes a principal's certificate",
	Long: `Revokes the named principal's certificate. Revocation is permanent: the
registry entry stays behind with a revoked status and the name can never
be reissued. Revoking an already-revoked principal succeeds quietly.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		principal := args[0]
		Logger.Infof("Starting cert revoke command for principal %s", principal)
		spinner, cleanup := startSpinner("Revoking certificate...", verbose)
		defer cleanup()

		artifact := loadArtifactOptional()
		database, err := openDB()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to open store: %v", err)
		}

		if err := database.RevokeCertificate(artifact, principal); err != nil {
			if stderrors.Is(err, errors.ErrNotFound) {
				spinner.FinalMSG = ui.Error.Sprint("✗") + " No certificate found for " + ui.Highlight.Sprint(principal) + "\n" +
					ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("totara cert list") + " to see issued certificates"
				return err
			}
			spinner.FinalMSG = ui.Error.Sprint("✗") + " Failed to revoke certificate for " + ui.Highlight.Sprint(principal)
			return err
		}

		Logger.Infof("Certificate for %s revoked", principal)
		spinner.FinalMSG = ui.Success.Sprint("✓") + " Certificate for " + ui.Highlight.Sprint(principal) + " revoked\n" +
			ui.Info.Sprint("→") + " This principal can no longer access the store"
		return nil
	},
}
