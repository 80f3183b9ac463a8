package store

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/totara-db/totara/internal/crypto"
	"github.com/totara-db/totara/internal/errors"
)

// envelopeHeader marks an encrypted artifact. The envelope is decided per
// artifact at write time and sniffed back at read time, so a store can hold
// a mix of encrypted and plaintext documents and each stays decodable.
const envelopeHeader = "#totara:enc:v1\n"

// Store persists one artifact per document id under documents/ in the
// store root. It knows nothing about authorization; the db facade gates
// every call before it reaches here.
type Store struct {
	documentsDir string
	cipher       *crypto.Cipher
}

// New prepares the documents directory under root. A nil cipher means
// artifacts are written as plain JSON.
func New(root string, cipher *crypto.Cipher) (*Store, error) {
	documentsDir := filepath.Join(root, "documents")
	if err := os.MkdirAll(documentsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create documents directory: %w", err)
	}
	return &Store{documentsDir: documentsDir, cipher: cipher}, nil
}

// ValidateID rejects ids that cannot safely name a file in the tree.
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: id must not be empty", errors.ErrInvalidID)
	}
	if strings.ContainsAny(id, "/\\") || id == "." || id == ".." {
		return fmt.Errorf("%w: id must not contain path separators", errors.ErrInvalidID)
	}
	if strings.HasPrefix(id, ".") {
		return fmt.Errorf("%w: id must not start with a dot", errors.ErrInvalidID)
	}
	return nil
}

func (s *Store) path(id string) string {
	return filepath.Join(s.documentsDir, id+".json")
}

// Exists reports whether an artifact for id is present.
func (s *Store) Exists(id string) (bool, error) {
	if err := ValidateID(id); err != nil {
		return false, err
	}
	_, err := os.Stat(s.path(id))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat artifact for %q: %w", id, err)
	}
	return true, nil
}

// Create writes a new artifact for id. Fails with ErrDuplicateID when one
// already exists. The write is atomic; on failure nothing is left behind.
func (s *Store) Create(id string, data []byte) error {
	exists, err := s.Exists(id)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: document %q", errors.ErrDuplicateID, id)
	}
	return s.write(id, data)
}

// Update atomically replaces the artifact for an existing id. Fails with
// ErrNotFound when absent. Old content is never observable mid-write.
func (s *Store) Update(id string, data []byte) error {
	exists, err := s.Exists(id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: document %q", errors.ErrNotFound, id)
	}
	return s.write(id, data)
}

// Read returns the decoded content of the artifact for id. Enveloped
// artifacts are decrypted; a missing or wrong key is ErrDecryptionFailed.
func (s *Store) Read(id string) ([]byte, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(s.path(id))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: document %q", errors.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact for %q: %w", id, err)
	}
	return s.decode(raw)
}

// Delete removes the artifact for id. Fails with ErrNotFound when absent.
func (s *Store) Delete(id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	err := os.Remove(s.path(id))
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: document %q", errors.ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("failed to delete artifact for %q: %w", id, err)
	}
	return nil
}

// List returns all document ids in lexicographic order. It never opens an
// artifact, so it works without any key.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.documentsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}

// write encodes data (encrypting when a cipher is configured), writes it
// to a temp file in the documents directory, and renames it into place.
func (s *Store) write(id string, data []byte) error {
	encoded, err := s.encode(data)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.documentsDir, "."+id+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp artifact: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(encoded); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp artifact: %w", err)
	}
	if err := os.Rename(tmpPath, s.path(id)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to place artifact for %q: %w", id, err)
	}
	return nil
}

func (s *Store) encode(data []byte) ([]byte, error) {
	if s.cipher == nil {
		return data, nil
	}
	sealed, err := s.cipher.Encrypt(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt artifact: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString(envelopeHeader)
	buf.WriteString(base64.StdEncoding.EncodeToString(sealed))
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func (s *Store) decode(raw []byte) ([]byte, error) {
	if !bytes.HasPrefix(raw, []byte(envelopeHeader)) {
		// Plaintext artifact; readable regardless of the configured key.
		return raw, nil
	}
	if s.cipher == nil {
		return nil, fmt.Errorf("%w: artifact is encrypted and no key was supplied", errors.ErrDecryptionFailed)
	}
	body := strings.TrimSpace(string(raw[len(envelopeHeader):]))
	sealed, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return nil, fmt.Errorf("%w: envelope body is not valid base64", errors.ErrDecryptionFailed)
	}
	return s.cipher.Decrypt(sealed)
}
