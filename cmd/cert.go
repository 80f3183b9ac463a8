package cmd

import (
	"github.com/spf13/cobra"

	"github.com/totara-db/totara/internal/cert"
)

var certCmd = &cobra.Command{
	Use:   "cert",
	Short: "Manages store certificates",
	Long: `Manages the certificates that gate access to the store.

Certificates are issued once per principal and can be revoked but never
reissued under the same name. On a fresh store the first certificate is
issued without presenting one; every certificate operation after that is
authorized like any other.`,
}

func init() {
	certCmd.AddCommand(certGenerateCmd)
	certCmd.AddCommand(certListCmd)
	certCmd.AddCommand(certRevokeCmd)
}

// loadArtifactOptional is loadArtifact for commands that can legitimately
// run without a certificate, like issuing the very first one. Absence is
// not an error here; the authority decides whether a gate applies.
func loadArtifactOptional() *cert.Artifact {
	artifact, err := loadArtifact()
	if err != nil {
		Logger.Debugf("No certificate presented: %v", err)
		return nil
	}
	return artifact
}
