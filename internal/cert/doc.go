// Package cert implements the certificate authority gating every Tōtara
// operation.
//
// # Registry
//
// Issued certificates are tracked in certs/registry.toml under the store
// root. Each entry stores a SHA-256 fingerprint of the certificate's
// plaintext secret material, a status (active or revoked), and an issue
// timestamp. The secret itself and any encryption key are never written to
// the registry, so the file is safe to commit and diff like any other
// store artifact.
//
// The registry is reloaded from disk at the start of every operation.
// Mutations rewrite it atomically (temp file plus rename).
//
// # Artifacts
//
// GenerateCertificate returns an Artifact: a small TOML file holding the
// principal and its secret material, optionally AEAD-encrypted. The caller
// persists it (a file, a CI secret, a password manager); Tōtara keeps no
// copy. Presenting the artifact later proves possession: Authorize hashes
// the (decrypted) secret and compares it to the registry fingerprint.
//
// Revocation is one-way. A revoked entry stays in the registry forever and
// its principal can never be re-issued, which is what makes the duplicate
// check on issue meaningful.
package cert
