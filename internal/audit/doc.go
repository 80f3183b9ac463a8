// Package audit appends operation records to a JSON Lines file at the
// store root.
//
// Every authorized operation logs one line: timestamp, principal, the
// operation, and what it touched. The file is append-only and committed
// with the store, giving the team a shared trail of who did what. Audit
// writes are best-effort; a store operation never fails because the log
// could not be written.
package audit
