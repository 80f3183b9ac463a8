package cert

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/totara-db/totara/internal/errors"
)

// Artifact is an exported certificate: the file a caller presents to pass
// the authorization gate. The registry never stores one; it keeps only a
// fingerprint of the plaintext secret.
type Artifact struct {
	Principal string `toml:"principal"`
	Secret    []byte `toml:"-"`
	Encrypted bool   `toml:"encrypted"`

	// SecretB64 is the wire form of Secret. TOML has no native bytes type.
	SecretB64 string `toml:"secret"`
}

// Encode renders the artifact as a TOML document suitable for writing to a
// file or base64 transport through a secret store.
func (a *Artifact) Encode() ([]byte, error) {
	out := Artifact{
		Principal: a.Principal,
		Encrypted: a.Encrypted,
		SecretB64: base64.StdEncoding.EncodeToString(a.Secret),
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(out); err != nil {
		return nil, fmt.Errorf("failed to encode certificate: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeArtifact parses an artifact previously produced by Encode.
func DecodeArtifact(data []byte) (*Artifact, error) {
	var a Artifact
	if err := toml.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("%w: not a certificate file", errors.ErrInvalidCertificate)
	}
	if a.Principal == "" || a.SecretB64 == "" {
		return nil, fmt.Errorf("%w: missing principal or secret", errors.ErrInvalidCertificate)
	}
	secret, err := base64.StdEncoding.DecodeString(a.SecretB64)
	if err != nil {
		return nil, fmt.Errorf("%w: secret is not valid base64", errors.ErrInvalidCertificate)
	}
	a.Secret = secret
	return &a, nil
}

// DecodeArtifactBase64 parses an artifact transported inline as base64,
// e.g. through a CI secret variable.
func DecodeArtifactBase64(content string) (*Artifact, error) {
	raw, err := base64.StdEncoding.DecodeString(content)
	if err != nil {
		return nil, fmt.Errorf("%w: inline certificate is not valid base64", errors.ErrInvalidCertificate)
	}
	return DecodeArtifact(raw)
}

// ReadArtifactFile loads an artifact from disk.
func ReadArtifactFile(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read certificate file: %w", err)
	}
	return DecodeArtifact(data)
}

// WriteArtifactFile persists an artifact, readable only by the owner.
func (a *Artifact) WriteArtifactFile(path string) error {
	data, err := a.Encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write certificate file: %w", err)
	}
	return nil
}
