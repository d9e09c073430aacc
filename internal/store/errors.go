package store

import "errors"

// Sentinel errors returned by the store. Callers should use [errors.Is] to
// match against these values. Key errors come from the crypto package
// (crypto.ErrLocked, crypto.ErrWrongPassphrase, ...) and are returned as is.
var (
	// ErrUnknownSection is returned when a write targets a section name that
	// is neither a singleton nor a member of a known numbered family.
	ErrUnknownSection = errors.New("unknown section")

	// ErrTxClosed is returned when a committed or closed transaction is used.
	ErrTxClosed = errors.New("transaction already closed")

	// ErrReadOnlyTx is returned when a write is attempted inside View.
	ErrReadOnlyTx = errors.New("read-only transaction")

	// ErrPersist wraps a failed physical save. The document stays marked as
	// unsaved and the next commit retries.
	ErrPersist = errors.New("failed to persist configuration")

	// ErrInvalidSnapshot is returned by Restore when the snapshot cannot be
	// parsed or does not match the supplied key.
	ErrInvalidSnapshot = errors.New("invalid configuration snapshot")
)
