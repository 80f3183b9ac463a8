package errors

import "errors"

// Authorization errors indicate the presented certificate cannot pass the gate.
var (
	// ErrCertificateNotFound indicates the certificate's principal has no registry entry.
	ErrCertificateNotFound = errors.New("certificate not found in registry")

	// ErrCertificateRevoked indicates the certificate has been revoked.
	ErrCertificateRevoked = errors.New("certificate has been revoked")

	// ErrInvalidCertificate indicates the certificate's secret material does not
	// match the registry fingerprint, or an encrypted certificate was presented
	// without the matching key.
	ErrInvalidCertificate = errors.New("certificate is invalid")
)

// Store errors indicate issues with document identity or payloads.
var (
	// ErrDuplicateID indicates the id is already taken.
	ErrDuplicateID = errors.New("id already exists")

	// ErrNotFound indicates no entry exists for the given id.
	ErrNotFound = errors.New("not found")

	// ErrMalformedPayload indicates the payload is not valid JSON.
	ErrMalformedPayload = errors.New("payload is not valid JSON")

	// ErrInvalidID indicates the id cannot name a storage artifact.
	ErrInvalidID = errors.New("invalid document id")
)

// Cryptographic errors indicate failures during encryption or decryption.
var (
	// ErrDecryptionFailed indicates the ciphertext could not be opened.
	// The key is wrong or missing, or the data has been tampered with.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrInvalidKeyLength indicates the encryption key has an unexpected length.
	ErrInvalidKeyLength = errors.New("invalid encryption key length")
)

// Filter errors indicate issues with the filter input.
var (
	// ErrInvalidFilterSyntax indicates the filter JSON does not parse into a
	// known variant.
	ErrInvalidFilterSyntax = errors.New("invalid filter syntax")
)
