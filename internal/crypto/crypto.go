package crypto

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/totara-db/totara/internal/errors"
)

// KeySize is the required encryption key length in bytes.
const KeySize = chacha20poly1305.KeySize

// Cipher performs authenticated encryption with a caller-supplied 32-byte
// key. The key is used as-is; no derivation is performed.
type Cipher struct {
	aead cipher.AEAD
}

// New creates a Cipher from a 32-byte key.
func New(key []byte) (*Cipher, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", errors.ErrInvalidKeyLength, KeySize, len(key))
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("failed to construct AEAD: %w", err)
	}
	return &Cipher{aead: aead}, nil
}

// Encrypt seals plaintext under a fresh random 96-bit nonce and returns
// nonce followed by ciphertext and tag. The nonce is drawn from
// crypto/rand on every call; it is never reused for the same key.
func (c *Cipher) Encrypt(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, chacha20poly1305.NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to draw nonce: %w", err)
	}
	return c.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt opens a blob produced by Encrypt. The nonce is read from the
// front of the blob, so decryption is self-contained.
func (c *Cipher) Decrypt(blob []byte) ([]byte, error) {
	if len(blob) < chacha20poly1305.NonceSize {
		return nil, fmt.Errorf("%w: data too short to carry a nonce", errors.ErrDecryptionFailed)
	}
	nonce, ciphertext := blob[:chacha20poly1305.NonceSize], blob[chacha20poly1305.NonceSize:]
	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		// Tag mismatch: wrong key or tampered data.
		return nil, errors.ErrDecryptionFailed
	}
	return plaintext, nil
}

// RandomKey generates a new random 32-byte key.
func RandomKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	return key, nil
}

// ParseKey decodes a key supplied on the command line or environment.
// Base64 (standard encoding) is tried first; a raw 32-character string is
// accepted as literal key bytes for compatibility with simple setups.
func ParseKey(s string) ([]byte, error) {
	if decoded, err := base64.StdEncoding.DecodeString(s); err == nil && len(decoded) == KeySize {
		return decoded, nil
	}
	if len(s) == KeySize {
		return []byte(s), nil
	}
	return nil, fmt.Errorf("%w: key must be %d bytes, base64 or raw", errors.ErrInvalidKeyLength, KeySize)
}

// EncodeKey renders a key in the base64 form ParseKey accepts.
func EncodeKey(key []byte) string {
	return base64.StdEncoding.EncodeToString(key)
}
