package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Entry represents a single audit log entry.
type Entry struct {
	Timestamp string `json:"ts"`        // RFC3339 with microseconds.
	Principal string `json:"principal"` // Authorized principal performing the action.
	Operation string `json:"op"`        // Operation name.
	StoreUUID string `json:"store,omitempty"`

	// Optional fields depending on operation.
	DocID           string `json:"doc_id,omitempty"`    // For create/read/update/delete.
	TargetPrincipal string `json:"target,omitempty"`    // For cert generate/revoke.
	Matched         int    `json:"matched,omitempty"`   // For find.
	Encrypted       bool   `json:"encrypted,omitempty"` // Whether the payload was sealed.
}

// Log appends an entry to audit.jsonl under the store root. Logging is
// best-effort: operations must not fail because the audit trail could not
// be written, so errors are swallowed.
func Log(root string, entry Entry) {
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format("2006-01-02T15:04:05.000000Z")
	}

	// #nosec G306 -- the audit log is committed alongside the store and
	// should be readable by collaborators.
	f, err := os.OpenFile(LogPath(root), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	_, _ = f.Write(append(data, '\n'))
}

// LogPath returns the path to the audit log file under root.
func LogPath(root string) string {
	return filepath.Join(root, "audit.jsonl")
}

// ReadEntries reads all entries from the audit log under root. Returns an
// empty slice if the log doesn't exist.
func ReadEntries(root string) ([]Entry, error) {
	data, err := os.ReadFile(LogPath(root))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ParseEntries(data)
}

// ParseEntries parses JSON Lines data into audit entries.
// Malformed lines are silently skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var entries []Entry
	start := 0
	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			line := data[start:i]
			start = i + 1

			if len(line) == 0 {
				continue
			}
			var entry Entry
			if err := json.Unmarshal(line, &entry); err != nil {
				// Skip malformed entries.
				continue
			}
			entries = append(entries, entry)
		}
	}
	return entries, nil
}
