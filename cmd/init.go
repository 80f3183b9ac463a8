package cmd

import (
	"os"
	"path/filepath"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"

	"github.com/totara-db/totara/internal/configs"
	"github.com/totara-db/totara/internal/ui"
)

var storeName string

func init() {
	initCmd.Flags().StringVar(&storeName, "name", "", "display name for the store (defaults to the directory name)")
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initializes a new document store",
	RunE: func(cmd *cobra.Command, args []string) error {
		root := resolveStorePath()

		if !jsonOutput {
			banner := figure.NewColorFigure("Totara", "alligator2", "green", true)
			banner.Print()
		}

		spinner, cleanup := startSpinner("Initializing store...", verbose)
		defer cleanup()

		name := storeName
		if name == "" {
			name = "totara"
		}

		config, err := configs.InitStoreConfig(root, name)
		if err != nil {
			spinner.FinalMSG = ui.Error.Sprint("✗") + " Store has already been initialized\n" +
				ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("totara cert generate <principal>") + " to issue a certificate"
			return err
		}
		Logger.Infof("Store config created with UUID %s", config.Store.UUID)

		// Opening the database lays down the documents/ and certs/
		// directories and the git repository.
		if _, err := openDB(); err != nil {
			return Logger.ErrorfAndReturn("Failed to create store layout: %v", err)
		}

		// Keep empty directories visible to git.
		for _, dir := range []string{"documents", "certs"} {
			keep := filepath.Join(root, dir, ".gitkeep")
			if err := os.WriteFile(keep, nil, 0644); err != nil {
				Logger.Warnf("Failed to write %s: %v", keep, err)
			}
		}

		spinner.FinalMSG = ui.Success.Sprint("✓") + " Store initialized at " + ui.Path.Sprint(root) + "\n" +
			ui.Info.Sprint("→") + " Issue your first certificate with " + ui.Code.Sprint("totara cert generate <principal> --output <dir>") + "\n" +
			ui.Info.Sprint("→") + " Then pass it to every command with " + ui.Code.Sprint("--cert") + " or " + ui.Code.Sprint("TOTARA_CERT")
		return nil
	},
}
