// Package errors defines sentinel errors for Tōtara operations.
//
// Errors are grouped by subsystem: authorization, store, crypto, and
// filter. Callers match them with errors.Is after any number of
// fmt.Errorf %w wraps:
//
//	if errors.Is(err, errors.ErrNotFound) {
//	    // handle missing document
//	}
//
// Every error is surfaced to the caller unmodified; there are no silent
// retries and no partial recovery. A failed mutating operation leaves the
// store exactly as it was before the call.
package errors
