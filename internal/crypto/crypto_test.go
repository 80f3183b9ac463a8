package crypto

import (
	"bytes"
	stderrors "errors"
	"testing"

	"github.com/totara-db/totara/internal/errors"
)

func testKey(t *testing.T) []byte {
	t.Helper()
	key, err := RandomKey()
	if err != nil {
		t.Fatalf("Failed to generate key: %v", err)
	}
	return key
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	c, err := New(testKey(t))
	if err != nil {
		t.Fatalf("Failed to create cipher: %v", err)
	}

	plaintext := []byte(`{"name":"Alice","age":30}`)
	blob, err := c.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if bytes.Contains(blob, []byte(`"name"`)) {
		t.Error("Ciphertext contains plaintext substring")
	}

	decrypted, err := c.Decrypt(blob)
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if !bytes.Equal(decrypted, plaintext) {
		t.Errorf("Round trip mismatch: got %q, want %q", decrypted, plaintext)
	}
}

func TestEncryptDrawsFreshNonce(t *testing.T) {
	c, err := New(testKey(t))
	if err != nil {
		t.Fatalf("Failed to create cipher: %v", err)
	}

	plaintext := []byte("same input")
	first, err := c.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	second, err := c.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	if bytes.Equal(first, second) {
		t.Error("Two encryptions of the same plaintext produced identical output")
	}
	if bytes.Equal(first[:12], second[:12]) {
		t.Error("Nonce was reused across Encrypt calls")
	}
}

func TestDecryptWithWrongKey(t *testing.T) {
	c1, err := New(testKey(t))
	if err != nil {
		t.Fatalf("Failed to create cipher: %v", err)
	}
	c2, err := New(testKey(t))
	if err != nil {
		t.Fatalf("Failed to create cipher: %v", err)
	}

	blob, err := c1.Encrypt([]byte("secret"))
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	if _, err := c2.Decrypt(blob); !stderrors.Is(err, errors.ErrDecryptionFailed) {
		t.Errorf("Expected ErrDecryptionFailed, got: %v", err)
	}
}

func TestDecryptTamperedCiphertext(t *testing.T) {
	c, err := New(testKey(t))
	if err != nil {
		t.Fatalf("Failed to create cipher: %v", err)
	}

	blob, err := c.Encrypt([]byte("secret"))
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	blob[len(blob)-1] ^= 0x01

	if _, err := c.Decrypt(blob); !stderrors.Is(err, errors.ErrDecryptionFailed) {
		t.Errorf("Expected ErrDecryptionFailed, got: %v", err)
	}
}

func TestDecryptShortBlob(t *testing.T) {
	c, err := New(testKey(t))
	if err != nil {
		t.Fatalf("Failed to create cipher: %v", err)
	}

	if _, err := c.Decrypt([]byte("short")); !stderrors.Is(err, errors.ErrDecryptionFailed) {
		t.Errorf("Expected ErrDecryptionFailed for short input, got: %v", err)
	}
}

func TestNewRejectsBadKeyLength(t *testing.T) {
	for _, n := range []int{0, 16, 31, 33, 64} {
		if _, err := New(make([]byte, n)); !stderrors.Is(err, errors.ErrInvalidKeyLength) {
			t.Errorf("Expected ErrInvalidKeyLength for %d-byte key, got: %v", n, err)
		}
	}
}

func TestParseKey(t *testing.T) {
	key := testKey(t)

	parsed, err := ParseKey(EncodeKey(key))
	if err != nil {
		t.Fatalf("ParseKey failed on base64 input: %v", err)
	}
	if !bytes.Equal(parsed, key) {
		t.Error("Base64 key did not round trip")
	}

	raw := "0123456789abcdef0123456789abcdef" // 32 characters
	parsed, err = ParseKey(raw)
	if err != nil {
		t.Fatalf("ParseKey failed on raw input: %v", err)
	}
	if string(parsed) != raw {
		t.Error("Raw key was not accepted as literal bytes")
	}

	if _, err := ParseKey("too-short"); !stderrors.Is(err, errors.ErrInvalidKeyLength) {
		t.Errorf("Expected ErrInvalidKeyLength, got: %v", err)
	}
}
