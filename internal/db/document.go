package db

import "encoding/json"

// Document is the stored envelope around a payload. The envelope itself is
// what lands in the artifact (encrypted or not); timestamps are unix
// seconds and survive updates: UpdatedAt moves, CreatedAt never does.
type Document struct {
	ID        string          `json:"id"`
	Data      json.RawMessage `json:"data"`
	CreatedAt int64           `json:"created_at"`
	UpdatedAt int64           `json:"updated_at"`
}
