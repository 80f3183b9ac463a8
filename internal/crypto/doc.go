// Package crypto provides the AEAD primitive shared by the certificate
// authority and the document store.
//
// Encryption uses ChaCha20-Poly1305 with a 32-byte key and a random
// 96-bit nonce drawn fresh for every Encrypt call. The nonce is prepended
// to the ciphertext so a blob decrypts with nothing but the key. Sealing
// the same plaintext twice therefore produces different output
// (non-deterministic encryption).
//
// Decryption verifies the Poly1305 tag; a wrong key and tampered data are
// indistinguishable and both surface as errors.ErrDecryptionFailed.
package crypto
