package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/briandowns/spinner"

	"github.com/totara-db/totara/internal/cert"
	"github.com/totara-db/totara/internal/crypto"
	"github.com/totara-db/totara/internal/db"
	"github.com/totara-db/totara/internal/gitops"
	"github.com/totara-db/totara/internal/ui"
)

// startSpinner creates and starts a spinner with the given message when not
// in verbose or debug mode. Returns the spinner and a function that should
// be deferred to clean up.
//
// spinner.FinalMSG values do NOT need trailing newlines; the cleanup
// function calls ui.EnsureNewline() on the final message before printing.
func startSpinner(message string, verbose bool) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	if err := s.Color("cyan"); err != nil {
		// If we can't set spinner color, just continue without it.
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	if !verbose && !debug {
		s.Start()
		// Ensure log output is discarded unless in verbose mode.
		log.SetOutput(io.Discard)
	} else {
		Logger.Infof("Running in verbose or debug mode: %s", message)
	}

	cleanup := func() {
		if !verbose && !debug {
			log.SetOutput(os.Stdout)
		}

		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Clear FinalMSG so s.Stop() doesn't print it.
			s.FinalMSG = ""
		}

		if !verbose && !debug {
			s.Stop()
		}

		// Print final message to stdout (for tests and pipes to capture).
		if finalMsg != "" {
			fmt.Print(finalMsg)
		}
	}

	return s, cleanup
}

// resolveStorePath returns the store root from the flag, environment, or
// default, in that order.
func resolveStorePath() string {
	if storePath != "" {
		return storePath
	}
	if env := os.Getenv("TOTARA_PATH"); env != "" {
		return env
	}
	return ".totara"
}

// resolveKey parses the encryption key from the flag or environment. A nil
// return with nil error means no key is configured.
func resolveKey() ([]byte, error) {
	value := keyValue
	if value == "" {
		value = os.Getenv("TOTARA_KEY")
	}
	if value == "" {
		return nil, nil
	}
	return crypto.ParseKey(value)
}

// openDB opens the store with the resolved path, key, and committer.
func openDB() (*db.DB, error) {
	root := resolveStorePath()
	Logger.Debugf("Store root: %s", root)

	key, err := resolveKey()
	if err != nil {
		return nil, err
	}

	opts := []db.Option{db.WithLogger(Logger)}
	if !noCommit {
		if err := os.MkdirAll(root, 0755); err != nil {
			return nil, fmt.Errorf("failed to create store root: %w", err)
		}
		repo, err := gitops.Open(root)
		if err != nil {
			// The store works without git; the tree just won't be committed.
			Logger.WarnfUser("Git unavailable, changes will not be committed: %v", err)
		} else {
			opts = append(opts, db.WithCommitter(repo))
		}
	}

	return db.Open(root, key, opts...)
}

// loadArtifact reads the caller's certificate from --cert, --cert-content,
// or their environment equivalents.
func loadArtifact() (*cert.Artifact, error) {
	path := certFile
	if path == "" {
		path = os.Getenv("TOTARA_CERT")
	}
	content := certContent
	if content == "" {
		content = os.Getenv("TOTARA_CERT_CONTENT")
	}

	switch {
	case path != "":
		Logger.Debugf("Loading certificate from file: %s", path)
		return cert.ReadArtifactFile(path)
	case content != "":
		Logger.Debugf("Loading certificate from inline content")
		return cert.DecodeArtifactBase64(content)
	default:
		return nil, fmt.Errorf("certificate required: provide --cert or --cert-content")
	}
}

// readPayload returns the JSON payload from the positional argument or,
// with --stdin, from standard input.
func readPayload(args []string, index int) ([]byte, error) {
	if useStdin {
		Logger.Debugf("Reading payload from stdin")
		return io.ReadAll(os.Stdin)
	}
	if len(args) > index {
		return []byte(args[index]), nil
	}
	return nil, fmt.Errorf("no data provided: pass a JSON argument or use --stdin")
}

// formatDocument renders a document for the final message, honoring --json.
func formatDocument(doc *db.Document) string {
	if jsonOutput {
		data, _ := json.Marshal(doc)
		return string(data)
	}

	var pretty json.RawMessage = doc.Data
	if indented, err := json.MarshalIndent(json.RawMessage(doc.Data), "", "  "); err == nil {
		pretty = indented
	}
	return "ID: " + ui.Highlight.Sprint(doc.ID) + "\n" +
		"Created: " + time.Unix(doc.CreatedAt, 0).UTC().Format(time.RFC3339) + "\n" +
		"Updated: " + time.Unix(doc.UpdatedAt, 0).UTC().Format(time.RFC3339) + "\n" +
		"Data: " + string(pretty)
}

// formatDocuments renders a find result set, honoring --json.
func formatDocuments(docs []*db.Document) string {
	if jsonOutput {
		if docs == nil {
			return "[]"
		}
		data, _ := json.Marshal(docs)
		return string(data)
	}

	if len(docs) == 0 {
		return ui.Muted.Sprint("no matching documents")
	}
	out := ""
	for i, doc := range docs {
		if i > 0 {
			out += "\n"
		}
		out += formatDocument(doc) + "\n"
	}
	return out
}
