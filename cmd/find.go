package cmd

import (
	stderrors "errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/totara-db/totara/internal/errors"
	"github.com/totara-db/totara/internal/filter"
	"github.com/totara-db/totara/internal/ui"
)

var findCmd = &cobra.Command{
	Use:   "find [filter-json]",
	Short: "Finds documents matching a filter",
	Long: `Finds documents whose payload matches a filter expression, given as JSON
inline or on standard input with --stdin:

  {"type": "condition", "field": "address.city", "op": "eq", "value": "NYC"}
  {"type": "and", "conditions": [...]}
  {"type": "or",  "conditions": [...]}

Operators: eq, gt, lt, gte, lte, contains, startsWith, endsWith.
Results are ordered by document id.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting find command")
		spinner, cleanup := startSpinner("Searching documents...", verbose)
		defer cleanup()

		raw, err := readPayload(args, 0)
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to read filter: %v", err)
		}
		query, err := filter.Parse(raw)
		if err != nil {
			spinner.FinalMSG = ui.Error.Sprint("✗") + " Invalid filter: " + err.Error() + "\n" +
				ui.Info.Sprint("→") + " See " + ui.Code.Sprint("totara help find") + " for the filter grammar"
			return err
		}

		artifact, err := loadArtifact()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to load certificate: %v", err)
		}
		database, err := openDB()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to open store: %v", err)
		}

		docs, err := database.Find(artifact, query)
		if err != nil {
			if stderrors.Is(err, errors.ErrDecryptionFailed) {
				spinner.FinalMSG = ui.Error.Sprint("✗") + " A document could not be decrypted, aborting the search\n" +
					ui.Info.Sprint("→") + " Check the key passed with " + ui.Code.Sprint("--key") + " or " + ui.Code.Sprint("TOTARA_KEY")
				return err
			}
			spinner.FinalMSG = ui.Error.Sprint("✗") + " Search failed"
			return err
		}

		Logger.Infof("Find matched %d documents", len(docs))
		if jsonOutput {
			spinner.FinalMSG = formatDocuments(docs)
			return nil
		}
		spinner.FinalMSG = fmt.Sprintf("%s %d matching document(s)\n", ui.Success.Sprint("✓"), len(docs)) +
			formatDocuments(docs)
		return nil
	},
}
