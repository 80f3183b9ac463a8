// Package store is the filesystem-backed artifact layer of Tōtara.
//
// Each document occupies exactly one file, documents/<id>.json under the
// store root, so the tree stays diffable and mergeable by the version
// control system that commits it. The store performs no version-control
// action itself; it only guarantees that when a call returns, the tree is
// complete and commit-ready.
//
// # Atomicity
//
// Every mutation writes to a temp file in the documents directory and
// renames it into place. A concurrent reader of the tree sees either the
// old artifact or the new one, never a partial write. Failed writes remove
// their temp file and leave the store untouched.
//
// # Encryption envelope
//
// With a key configured, artifacts are written as an envelope: a header
// line identifying the format, then the base64 of nonce plus ciphertext.
// Without a key they are the raw JSON bytes. The envelope is sniffed at
// read time rather than inferred from the current invocation's flags, so
// stores holding a mix of encrypted and plaintext artifacts decode each
// one correctly.
package store
