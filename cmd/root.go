package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	logger "github.com/totara-db/totara/internal/logging"
)

var (
	storePath   string
	keyValue    string
	certFile    string
	certContent string
	useStdin    bool
	jsonOutput  bool
	noCommit    bool
	verbose     bool
	debug       bool

	Logger logger.Logger

	rootCmd = &cobra.Command{
		Use:   "totara",
		Short: "Tōtara - a document database that lives in your git repository.",
		Long: `Tōtara stores JSON documents as individual files in a git-versioned tree,
gated by certificate authentication and optionally encrypted at rest.

Every document is one artifact on disk, so the usual version-control
workflow (diff, merge, review, sync) applies to your data. Access requires
a certificate issued by the store; payloads and certificate material are
sealed with an AEAD cipher when a key is configured.

Run 'totara help <command>' for more details on a specific command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			Logger.Debugf("Initializing totara with verbose=%t, debug=%t", verbose, debug)
		},
	}
)

func init() {
	addStoreFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(readCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(findCmd)
	rootCmd.AddCommand(certCmd)
	rootCmd.AddCommand(logCmd)
}

// addStoreFlags registers the flags every command shares. Split out so the
// same set can be attached to additional flag sets in tests.
func addStoreFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&storePath, "path", "p", "", "path to the store root (env TOTARA_PATH, default .totara)")
	fs.StringVarP(&keyValue, "key", "k", "", "encryption key, base64 or raw 32 bytes (env TOTARA_KEY)")
	fs.StringVarP(&certFile, "cert", "c", "", "certificate file for authentication (env TOTARA_CERT)")
	fs.StringVar(&certContent, "cert-content", "", "certificate content, base64 encoded (env TOTARA_CERT_CONTENT)")
	fs.BoolVar(&useStdin, "stdin", false, "read data from stdin instead of the command line")
	fs.BoolVar(&jsonOutput, "json", false, "print machine-readable JSON output")
	fs.BoolVar(&noCommit, "no-commit", false, "do not git-commit the tree after mutations")
	fs.BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	fs.BoolVarP(&debug, "debug", "d", false, "enable debug output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// Helper functions for testing

// GetRootCmd returns the root command for testing.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

// ResetGlobalState resets all flag variables to their defaults for testing.
func ResetGlobalState() {
	storePath = ""
	keyValue = ""
	certFile = ""
	certContent = ""
	useStdin = false
	jsonOutput = false
	noCommit = false
	verbose = false
	debug = false
}
