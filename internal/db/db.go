package db

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/totara-db/totara/internal/audit"
	"github.com/totara-db/totara/internal/cert"
	"github.com/totara-db/totara/internal/configs"
	"github.com/totara-db/totara/internal/crypto"
	"github.com/totara-db/totara/internal/errors"
	"github.com/totara-db/totara/internal/filter"
	logger "github.com/totara-db/totara/internal/logging"
	"github.com/totara-db/totara/internal/store"
)

// Committer snapshots the store tree after a mutation. The db never
// merges, pushes, or resolves conflicts; that stays with the external
// version-control workflow.
type Committer interface {
	CommitAll(message string) error
}

// DB ties the store, certificate authority, and crypto engine together.
// Every public operation authorizes the presented certificate before
// touching storage; on authorization failure the operation aborts with no
// side effect.
type DB struct {
	root      string
	store     *store.Store
	authority *cert.Authority
	cipher    *crypto.Cipher
	committer Committer
	storeUUID string
	log       logger.Logger
}

// Option configures a DB during Open.
type Option func(*DB)

// WithCommitter makes the DB commit the tree after each successful
// mutation.
func WithCommitter(c Committer) Option {
	return func(d *DB) { d.committer = c }
}

// WithLogger routes the DB's warnings (best-effort commit failures)
// through the given logger.
func WithLogger(l logger.Logger) Option {
	return func(d *DB) { d.log = l }
}

// Open prepares a DB rooted at root. A nil key opens the store without
// encryption; a 32-byte key enables transparent AEAD for both document
// payloads and certificate material. The key is held in memory for this
// invocation only and never persisted.
func Open(root string, key []byte, opts ...Option) (*DB, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store root: %w", err)
	}

	var cipher *crypto.Cipher
	if key != nil {
		var err error
		cipher, err = crypto.New(key)
		if err != nil {
			return nil, err
		}
	}

	s, err := store.New(root, cipher)
	if err != nil {
		return nil, err
	}
	authority, err := cert.NewAuthority(root)
	if err != nil {
		return nil, err
	}
	config, err := configs.LoadStoreConfig(root)
	if err != nil {
		return nil, err
	}

	d := &DB{
		root:      root,
		store:     s,
		authority: authority,
		cipher:    cipher,
		storeUUID: config.Store.UUID,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Create stores a new document. The payload must be valid JSON and the id
// must be free.
func (d *DB) Create(artifact *cert.Artifact, id string, payload []byte) (*Document, error) {
	principal, err := d.authority.Authorize(artifact, d.cipher)
	if err != nil {
		return nil, err
	}
	if !json.Valid(payload) {
		return nil, fmt.Errorf("%w: document %q", errors.ErrMalformedPayload, id)
	}

	now := time.Now().Unix()
	doc := &Document{ID: id, Data: payload, CreatedAt: now, UpdatedAt: now}
	encoded, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document %q: %w", id, err)
	}
	if err := d.store.Create(id, encoded); err != nil {
		return nil, err
	}

	d.audit(audit.Entry{Principal: principal, Operation: "create", DocID: id})
	d.commit(fmt.Sprintf("Create document %s", id))
	return doc, nil
}

// Read returns the document for id, decrypting as configured.
func (d *DB) Read(artifact *cert.Artifact, id string) (*Document, error) {
	if _, err := d.authority.Authorize(artifact, d.cipher); err != nil {
		return nil, err
	}
	return d.read(id)
}

// Update replaces the payload of an existing document. The id and
// CreatedAt are preserved; UpdatedAt moves to now.
func (d *DB) Update(artifact *cert.Artifact, id string, payload []byte) (*Document, error) {
	principal, err := d.authority.Authorize(artifact, d.cipher)
	if err != nil {
		return nil, err
	}
	if !json.Valid(payload) {
		return nil, fmt.Errorf("%w: document %q", errors.ErrMalformedPayload, id)
	}

	doc, err := d.read(id)
	if err != nil {
		return nil, err
	}
	doc.Data = payload
	doc.UpdatedAt = time.Now().Unix()

	encoded, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document %q: %w", id, err)
	}
	if err := d.store.Update(id, encoded); err != nil {
		return nil, err
	}

	d.audit(audit.Entry{Principal: principal, Operation: "update", DocID: id})
	d.commit(fmt.Sprintf("Update document %s", id))
	return doc, nil
}

// Delete removes the document for id.
func (d *DB) Delete(artifact *cert.Artifact, id string) error {
	principal, err := d.authority.Authorize(artifact, d.cipher)
	if err != nil {
		return err
	}
	if err := d.store.Delete(id); err != nil {
		return err
	}

	d.audit(audit.Entry{Principal: principal, Operation: "delete", DocID: id})
	d.commit(fmt.Sprintf("Delete document %s", id))
	return nil
}

// List returns all document ids in lexicographic order. No payload is
// opened, so List works without any key even on fully encrypted stores.
func (d *DB) List(artifact *cert.Artifact) ([]string, error) {
	if _, err := d.authority.Authorize(artifact, d.cipher); err != nil {
		return nil, err
	}
	return d.store.List()
}

// Find evaluates f against every document and returns the matches ordered
// by id. A document that fails to decrypt aborts the whole Find: silently
// dropping it would make results depend invisibly on the supplied key.
func (d *DB) Find(artifact *cert.Artifact, f filter.Filter) ([]*Document, error) {
	principal, err := d.authority.Authorize(artifact, d.cipher)
	if err != nil {
		return nil, err
	}

	ids, err := d.store.List()
	if err != nil {
		return nil, err
	}

	var matches []*Document
	for _, id := range ids {
		doc, err := d.read(id)
		if err != nil {
			return nil, err
		}
		var payload any
		if err := json.Unmarshal(doc.Data, &payload); err != nil {
			return nil, fmt.Errorf("failed to decode payload of %q: %w", id, err)
		}
		if filter.Eval(f, payload) {
			matches = append(matches, doc)
		}
	}

	d.audit(audit.Entry{Principal: principal, Operation: "find", Matched: len(matches)})
	return matches, nil
}

// GenerateCertificate issues a certificate for principal. On a fresh store
// (no certificate ever issued) no artifact is required; once the registry
// has entries, certificate operations authorize like everything else.
func (d *DB) GenerateCertificate(artifact *cert.Artifact, principal string) (*cert.Artifact, error) {
	actor, err := d.gateCertOp(artifact)
	if err != nil {
		return nil, err
	}

	issued, err := d.authority.GenerateCertificate(principal, d.cipher)
	if err != nil {
		return nil, err
	}

	d.audit(audit.Entry{Principal: actor, Operation: "generate-cert", TargetPrincipal: principal, Encrypted: issued.Encrypted})
	d.commit(fmt.Sprintf("Issue certificate for %s", principal))
	return issued, nil
}

// ListCertificates returns the registry entries ordered by principal.
func (d *DB) ListCertificates(artifact *cert.Artifact) ([]cert.Entry, error) {
	if _, err := d.gateCertOp(artifact); err != nil {
		return nil, err
	}
	return d.authority.ListCertificates()
}

// RevokeCertificate permanently revokes the principal's certificate.
func (d *DB) RevokeCertificate(artifact *cert.Artifact, principal string) error {
	actor, err := d.gateCertOp(artifact)
	if err != nil {
		return err
	}
	if err := d.authority.RevokeCertificate(principal); err != nil {
		return err
	}

	d.audit(audit.Entry{Principal: actor, Operation: "revoke-cert", TargetPrincipal: principal})
	d.commit(fmt.Sprintf("Revoke certificate for %s", principal))
	return nil
}

// gateCertOp authorizes certificate operations. The first certificate must
// be issuable on a fresh store, so an empty registry waives the gate.
func (d *DB) gateCertOp(artifact *cert.Artifact) (string, error) {
	bootstrapped, err := d.authority.Bootstrapped()
	if err != nil {
		return "", err
	}
	if !bootstrapped {
		return "", nil
	}
	return d.authority.Authorize(artifact, d.cipher)
}

func (d *DB) read(id string) (*Document, error) {
	data, err := d.store.Read(id)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: artifact for %q is not a document", errors.ErrMalformedPayload, id)
	}
	return &doc, nil
}

func (d *DB) audit(entry audit.Entry) {
	entry.StoreUUID = d.storeUUID
	audit.Log(d.root, entry)
}

// commit is best-effort: the tree is already complete when it runs, so a
// failure is a warning, not an operation error.
func (d *DB) commit(message string) {
	if d.committer == nil {
		return
	}
	if err := d.committer.CommitAll(message); err != nil {
		d.log.WarnfUser("Failed to commit store tree: %v", err)
	}
}
