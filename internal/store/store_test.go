package store

import (
	"bytes"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/totara-db/totara/internal/crypto"
	"github.com/totara-db/totara/internal/errors"
)

func newTestStore(t *testing.T, cipher *crypto.Cipher) (*Store, string) {
	t.Helper()
	root := t.TempDir()
	s, err := New(root, cipher)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	return s, root
}

func testCipher(t *testing.T) *crypto.Cipher {
	t.Helper()
	key, err := crypto.RandomKey()
	if err != nil {
		t.Fatalf("Failed to generate key: %v", err)
	}
	c, err := crypto.New(key)
	if err != nil {
		t.Fatalf("Failed to create cipher: %v", err)
	}
	return c
}

func TestCreateReadRoundTrip(t *testing.T) {
	s, _ := newTestStore(t, nil)

	payload := []byte(`{"name":"Alice","age":30}`)
	if err := s.Create("user-1", payload); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := s.Read("user-1")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("Round trip mismatch: got %s, want %s", got, payload)
	}
}

func TestCreateDuplicateKeepsOriginal(t *testing.T) {
	s, _ := newTestStore(t, nil)

	original := []byte(`{"v":1}`)
	if err := s.Create("doc", original); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := s.Create("doc", []byte(`{"v":2}`)); !stderrors.Is(err, errors.ErrDuplicateID) {
		t.Fatalf("Expected ErrDuplicateID, got: %v", err)
	}

	got, err := s.Read("doc")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !bytes.Equal(got, original) {
		t.Errorf("Stored value changed after failed create: got %s", got)
	}
}

func TestUpdateReplacesPayload(t *testing.T) {
	s, _ := newTestStore(t, nil)

	if err := s.Create("doc", []byte(`{"v":1}`)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	replacement := []byte(`{"v":2}`)
	if err := s.Update("doc", replacement); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := s.Read("doc")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !bytes.Equal(got, replacement) {
		t.Errorf("Expected %s, got %s", replacement, got)
	}

	ids, err := s.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(ids) != 1 {
		t.Errorf("Document count changed on update: %v", ids)
	}
}

func TestUpdateMissingDocument(t *testing.T) {
	s, _ := newTestStore(t, nil)

	if err := s.Update("ghost", []byte(`{}`)); !stderrors.Is(err, errors.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got: %v", err)
	}
}

func TestDeleteThenRead(t *testing.T) {
	s, _ := newTestStore(t, nil)

	if err := s.Create("doc", []byte(`{}`)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := s.Delete("doc"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Read("doc"); !stderrors.Is(err, errors.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got: %v", err)
	}
	if err := s.Delete("doc"); !stderrors.Is(err, errors.ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second delete, got: %v", err)
	}
}

func TestListSorted(t *testing.T) {
	s, _ := newTestStore(t, nil)

	for _, id := range []string{"b", "a", "c"} {
		if err := s.Create(id, []byte(`{}`)); err != nil {
			t.Fatalf("Create(%s) failed: %v", id, err)
		}
	}

	ids, err := s.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	want := []string{"a", "b", "c"}
	if len(ids) != len(want) {
		t.Fatalf("Expected %v, got %v", want, ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("Expected %v, got %v", want, ids)
			break
		}
	}
}

func TestListEmptyStore(t *testing.T) {
	s, _ := newTestStore(t, nil)

	ids, err := s.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("Expected empty list, got %v", ids)
	}
}

func TestEncryptedArtifactOnDisk(t *testing.T) {
	cipher := testCipher(t)
	s, root := newTestStore(t, cipher)

	payload := []byte(`{"x":1}`)
	if err := s.Create("doc", payload); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(root, "documents", "doc.json"))
	if err != nil {
		t.Fatalf("Failed to read raw artifact: %v", err)
	}
	if bytes.Contains(raw, []byte(`"x":1`)) {
		t.Error("Encrypted artifact contains plaintext payload")
	}
	if !strings.HasPrefix(string(raw), envelopeHeader) {
		t.Error("Encrypted artifact is missing the envelope header")
	}

	got, err := s.Read("doc")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("Encrypted round trip mismatch: got %s", got)
	}
}

func TestReadEncryptedWithWrongKey(t *testing.T) {
	root := t.TempDir()
	s1, err := New(root, testCipher(t))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	if err := s1.Create("doc", []byte(`{"x":1}`)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	s2, err := New(root, testCipher(t))
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	if _, err := s2.Read("doc"); !stderrors.Is(err, errors.ErrDecryptionFailed) {
		t.Errorf("Expected ErrDecryptionFailed with wrong key, got: %v", err)
	}
}

func TestReadEncryptedWithoutKey(t *testing.T) {
	root := t.TempDir()
	s1, err := New(root, testCipher(t))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	if err := s1.Create("doc", []byte(`{"x":1}`)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	s2, err := New(root, nil)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	if _, err := s2.Read("doc"); !stderrors.Is(err, errors.ErrDecryptionFailed) {
		t.Errorf("Expected ErrDecryptionFailed without key, got: %v", err)
	}
}

func TestMixedStoreRemainsDecodable(t *testing.T) {
	root := t.TempDir()

	plain, err := New(root, nil)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	if err := plain.Create("open", []byte(`{"public":true}`)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Reopen with a key and add an encrypted document alongside.
	cipher := testCipher(t)
	sealed, err := New(root, cipher)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	if err := sealed.Create("secret", []byte(`{"public":false}`)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// The keyed store reads both: the plaintext artifact is not enveloped,
	// so it decodes without touching the cipher.
	for _, id := range []string{"open", "secret"} {
		if _, err := sealed.Read(id); err != nil {
			t.Errorf("Read(%s) on mixed store failed: %v", id, err)
		}
	}
}

func TestNoTempFilesLeftBehind(t *testing.T) {
	s, root := newTestStore(t, nil)

	if err := s.Create("doc", []byte(`{}`)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := s.Update("doc", []byte(`{"v":2}`)); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	entries, err := os.ReadDir(filepath.Join(root, "documents"))
	if err != nil {
		t.Fatalf("Failed to read documents dir: %v", err)
	}
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".tmp") {
			t.Errorf("Temp file left behind: %s", entry.Name())
		}
	}
}

func TestValidateID(t *testing.T) {
	valid := []string{"doc", "user-1", "a_b.c", "UPPER"}
	for _, id := range valid {
		if err := ValidateID(id); err != nil {
			t.Errorf("Expected %q to be valid, got: %v", id, err)
		}
	}

	invalid := []string{"", ".", "..", ".hidden", "a/b", `a\b`}
	for _, id := range invalid {
		if err := ValidateID(id); !stderrors.Is(err, errors.ErrInvalidID) {
			t.Errorf("Expected ErrInvalidID for %q, got: %v", id, err)
		}
	}
}

func TestIDsAreCaseSensitive(t *testing.T) {
	s, _ := newTestStore(t, nil)

	if err := s.Create("Doc", []byte(`{"case":"upper"}`)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := s.Create("doc", []byte(`{"case":"lower"}`)); err != nil {
		t.Fatalf("Create with different case failed: %v", err)
	}

	ids, err := s.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("Expected 2 documents, got %v", ids)
	}
}
