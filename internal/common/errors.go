// Package common defines shared constants and sentinel errors used across
// posvault components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Queue quota violations. The two specific sentinels identify which
	// limit was hit so the UI can explain the remedy; IsCapacity matches
	// the family.
	ErrTooManyItems = errors.New("queue item limit exceeded")
	ErrTooManyBytes = errors.New("queue byte limit exceeded")

	// ErrEncryptionUnavailable indicates key material could not be
	// materialized or the platform cipher could not be constructed.
	ErrEncryptionUnavailable = errors.New("encryption unavailable")

	// ErrDecryptionFailed indicates tamper or key mismatch on a specific
	// record. It is isolated per record and never aborts batch listing.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrStorageUnavailable indicates the underlying medium is inaccessible.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")
)

// IsCapacity reports whether err is either queue quota violation.
func IsCapacity(err error) bool {
	return errors.Is(err, ErrTooManyItems) || errors.Is(err, ErrTooManyBytes)
}
