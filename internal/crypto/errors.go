// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import "errors"

var (
	// ErrWrongPassphrase is returned when the passphrase key does not unwrap
	// the stored config key.
	ErrWrongPassphrase = errors.New("incorrect passphrase")

	// ErrLocked is returned when an operation needs the document key or a
	// master key and none is available.
	ErrLocked = errors.New("configuration is locked")

	// ErrKeyConflict is returned when unlocking would replace a different
	// document key that is already active.
	ErrKeyConflict = errors.New("a different document key is already active")

	// ErrExhausted is returned when the master key chain reached its
	// generation ceiling.
	ErrExhausted = errors.New("master key generations exhausted")

	// ErrMasterKeyExists is returned when asked to create a master key
	// generation that is already present. Master keys are never overwritten.
	ErrMasterKeyExists = errors.New("refusing to overwrite master key")

	// ErrNoncesExhausted is returned when a nonce source has handed out
	// every counter value.
	ErrNoncesExhausted = errors.New("nonce counter exhausted")
)
