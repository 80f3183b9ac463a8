// Package db is the operation surface of Tōtara: an authenticated,
// optionally encrypted document database over a version-controlled file
// tree.
//
// Control flow for every operation is authorize-then-act. The certificate
// authority gates the call; on success the document store (create, read,
// update, delete, list) or the filter engine (find) does the work, with
// the crypto engine applied transparently whenever a key is configured.
// An optional Committer snapshots the tree after each mutation.
//
// The DB holds no in-memory state between operations beyond its
// configuration: the registry and document set are re-read from disk by
// the layers below, so a single process sees exactly what is on disk.
// Cross-process coordination is the version-control system's job.
package db
