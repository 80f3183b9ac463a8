package cmd

import (
	"encoding/json"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/totara-db/totara/internal/audit"
	"github.com/totara-db/totara/internal/ui"
)

var logTail int

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Shows the store's audit trail",
	Long: `Shows the append-only audit trail recorded under the store root. Every
authorized operation leaves an entry with the acting principal, so the
log answers who did what, when.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting log command")
		spinner, cleanup := startSpinner("Reading audit log...", verbose)
		defer cleanup()

		root := resolveStorePath()
		entries, err := audit.ReadEntries(root)
		if err != nil {
			spinner.FinalMSG = ui.Error.Sprint("✗") + " Failed to read audit log at " + ui.Path.Sprint(audit.LogPath(root))
			return err
		}

		if logTail > 0 && len(entries) > logTail {
			entries = entries[len(entries)-logTail:]
		}

		if jsonOutput {
			if entries == nil {
				spinner.FinalMSG = "[]"
				return nil
			}
			data, err := json.Marshal(entries)
			if err != nil {
				return Logger.ErrorfAndReturn("Failed to encode audit entries: %v", err)
			}
			spinner.FinalMSG = string(data)
			return nil
		}

		if len(entries) == 0 {
			spinner.FinalMSG = ui.Muted.Sprint("audit log is empty")
			return nil
		}

		msg := ""
		for _, e := range entries {
			line := e.Timestamp + "  " + ui.Highlight.Sprint(e.Operation)
			if e.Principal != "" {
				line += " by " + e.Principal
			}
			switch {
			case e.DocID != "":
				line += "  " + ui.Code.Sprint(e.DocID)
			case e.TargetPrincipal != "":
				line += "  " + ui.Code.Sprint(e.TargetPrincipal)
			case e.Operation == "find":
				line += "  " + ui.Muted.Sprint(strconv.Itoa(e.Matched)+" matched")
			}
			msg += line + "\n"
		}
		spinner.FinalMSG = msg
		return nil
	},
}

func init() {
	logCmd.Flags().IntVarP(&logTail, "tail", "n", 0, "show only the last N entries")
}
