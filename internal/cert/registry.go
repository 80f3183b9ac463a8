package cert

import (
	"bytes"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/totara-db/totara/internal/crypto"
	"github.com/totara-db/totara/internal/errors"
)

// Status of a registry entry. The only transition is active to revoked.
type Status string

const (
	StatusActive  Status = "active"
	StatusRevoked Status = "revoked"
)

const secretSize = 32

// Entry is the registry's record of an issued certificate. Entries are
// never physically deleted; revocation flips the status and the record
// stays behind as an audit trail.
type Entry struct {
	Principal   string    `toml:"-"`
	Fingerprint string    `toml:"fingerprint"`
	Status      Status    `toml:"status"`
	IssuedAt    time.Time `toml:"issued_at"`
}

// Authority issues, validates, and revokes certificates. The registry
// lives at certs/registry.toml under the store root and is reloaded from
// disk at the start of every operation, so there is no process-wide state
// to keep coherent.
type Authority struct {
	certsDir string
}

// NewAuthority prepares the certs directory under root.
func NewAuthority(root string) (*Authority, error) {
	certsDir := filepath.Join(root, "certs")
	if err := os.MkdirAll(certsDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create certs directory: %w", err)
	}
	return &Authority{certsDir: certsDir}, nil
}

func (a *Authority) registryPath() string {
	return filepath.Join(a.certsDir, "registry.toml")
}

type registryFile struct {
	Certificates map[string]Entry `toml:"certificates"`
}

func (a *Authority) load() (*registryFile, error) {
	reg := &registryFile{Certificates: make(map[string]Entry)}
	data, err := os.ReadFile(a.registryPath())
	if os.IsNotExist(err) {
		return reg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read certificate registry: %w", err)
	}
	if err := toml.Unmarshal(data, reg); err != nil {
		return nil, fmt.Errorf("failed to parse certificate registry: %w", err)
	}
	if reg.Certificates == nil {
		reg.Certificates = make(map[string]Entry)
	}
	return reg, nil
}

// save writes the registry atomically: encode to a temp file in the same
// directory, then rename over the old registry.
func (a *Authority) save(reg *registryFile) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(reg); err != nil {
		return fmt.Errorf("failed to encode certificate registry: %w", err)
	}

	tmp, err := os.CreateTemp(a.certsDir, ".registry-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp registry: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp registry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp registry: %w", err)
	}
	if err := os.Rename(tmpPath, a.registryPath()); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace registry: %w", err)
	}
	return nil
}

func fingerprint(secret []byte) string {
	sum := sha256.Sum256(secret)
	return hex.EncodeToString(sum[:])
}

// GenerateCertificate issues a certificate for principal. It fails with
// ErrDuplicateID if the principal has ever been issued one, active or
// revoked. When cipher is non-nil the artifact's secret material is
// encrypted; the registry records only the fingerprint of the plaintext
// secret, never the secret or the key.
func (a *Authority) GenerateCertificate(principal string, cipher *crypto.Cipher) (*Artifact, error) {
	if principal == "" {
		return nil, fmt.Errorf("%w: principal must not be empty", errors.ErrInvalidID)
	}

	reg, err := a.load()
	if err != nil {
		return nil, err
	}
	if _, exists := reg.Certificates[principal]; exists {
		return nil, fmt.Errorf("%w: certificate already issued for %q", errors.ErrDuplicateID, principal)
	}

	secret := make([]byte, secretSize)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("failed to generate secret material: %w", err)
	}

	artifact := &Artifact{Principal: principal, Secret: secret}
	if cipher != nil {
		sealed, err := cipher.Encrypt(secret)
		if err != nil {
			return nil, fmt.Errorf("failed to encrypt secret material: %w", err)
		}
		artifact.Secret = sealed
		artifact.Encrypted = true
	}

	reg.Certificates[principal] = Entry{
		Fingerprint: fingerprint(secret),
		Status:      StatusActive,
		IssuedAt:    time.Now().UTC(),
	}
	if err := a.save(reg); err != nil {
		return nil, err
	}
	return artifact, nil
}

// ListCertificates returns all registry entries ordered by principal.
func (a *Authority) ListCertificates() ([]Entry, error) {
	reg, err := a.load()
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(reg.Certificates))
	for principal, entry := range reg.Certificates {
		entry.Principal = principal
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Principal < entries[j].Principal
	})
	return entries, nil
}

// RevokeCertificate marks the principal's certificate revoked. Revocation
// is terminal; revoking an already-revoked principal is a no-op success.
func (a *Authority) RevokeCertificate(principal string) error {
	reg, err := a.load()
	if err != nil {
		return err
	}
	entry, exists := reg.Certificates[principal]
	if !exists {
		return fmt.Errorf("%w: no certificate for %q", errors.ErrNotFound, principal)
	}
	if entry.Status == StatusRevoked {
		return nil
	}
	entry.Status = StatusRevoked
	reg.Certificates[principal] = entry
	return a.save(reg)
}

// Authorize is the gate every store and filter operation passes first. It
// verifies the artifact's secret material against the registry fingerprint
// and returns the principal for audit purposes. Authorization is flat:
// every authorized principal has equal rights over the store.
func (a *Authority) Authorize(artifact *Artifact, cipher *crypto.Cipher) (string, error) {
	if artifact == nil {
		return "", fmt.Errorf("%w: no certificate presented", errors.ErrInvalidCertificate)
	}

	reg, err := a.load()
	if err != nil {
		return "", err
	}
	entry, exists := reg.Certificates[artifact.Principal]
	if !exists {
		return "", fmt.Errorf("%w: %q", errors.ErrCertificateNotFound, artifact.Principal)
	}
	if entry.Status == StatusRevoked {
		return "", fmt.Errorf("%w: %q", errors.ErrCertificateRevoked, artifact.Principal)
	}

	secret := artifact.Secret
	if artifact.Encrypted {
		if cipher == nil {
			return "", fmt.Errorf("%w: certificate is encrypted and no key was supplied", errors.ErrInvalidCertificate)
		}
		secret, err = cipher.Decrypt(artifact.Secret)
		if err != nil {
			return "", fmt.Errorf("%w: could not decrypt secret material", errors.ErrInvalidCertificate)
		}
	}
	if fingerprint(secret) != entry.Fingerprint {
		return "", fmt.Errorf("%w: secret material does not match registry", errors.ErrInvalidCertificate)
	}
	return artifact.Principal, nil
}

// Bootstrapped reports whether any certificate has ever been issued. An
// empty registry means the store is being set up and the first certificate
// must be issuable without one.
func (a *Authority) Bootstrapped() (bool, error) {
	reg, err := a.load()
	if err != nil {
		return false, err
	}
	return len(reg.Certificates) > 0, nil
}
