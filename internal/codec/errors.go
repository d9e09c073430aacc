// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package codec

import "errors"

var (
	// ErrFormat is returned when a token (or the document around it) is not
	// well formed. Malformed input is never coerced into a default value.
	ErrFormat = errors.New("malformed token")

	// ErrAuthentication is returned when a private token fails its integrity
	// check: the ciphertext was modified or the key is wrong.
	ErrAuthentication = errors.New("private token failed authentication")

	// ErrUnsupportedType is returned by Encode for values the token grammar
	// cannot represent.
	ErrUnsupportedType = errors.New("unsupported value type")

	// ErrTypeMismatch is returned by the As* helpers when a decoded value does
	// not have the requested shape.
	ErrTypeMismatch = errors.New("decoded value has unexpected type")

	// ErrInvalidKey is returned when an encryption key is not a valid
	// AES-256 key.
	ErrInvalidKey = errors.New("invalid encryption key")

	// ErrInvalidNonce is returned when a nonce does not have NonceSize bytes.
	ErrInvalidNonce = errors.New("invalid nonce")
)
