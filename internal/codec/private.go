// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package codec

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
	"strings"
)

const (
	// Marker prefixes every private token.
	Marker = "::"

	// NonceSize is the nonce length expected by EncodePrivate: four 32-bit
	// words.
	NonceSize = 16

	// KeySize is the AES-256 key length.
	KeySize = 32

	privateVersion = 'A'
)

// Sealed is the placeholder handed out instead of a private value when the
// caller asked for a non-failing read and no key is available. It holds the
// undecoded token.
type Sealed string

// String never reveals the token.
func (s Sealed) String() string {
	return "(encrypted)"
}

// IsPrivate reports whether token carries the private marker.
func IsPrivate(token string) bool {
	return strings.HasPrefix(token, Marker)
}

// EncodePrivate seals the plain token of v with AES-256-GCM under key and
// returns Marker + version + base64url(nonce ‖ ciphertext ‖ tag).
//
// The caller owns nonce uniqueness for a given key.
func EncodePrivate(v any, key, nonce []byte) (string, error) {
	plain, err := Encode(v)
	if err != nil {
		return "", err
	}
	if len(nonce) != NonceSize {
		return "", fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidNonce, len(nonce), NonceSize)
	}

	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	blob := make([]byte, 0, NonceSize+len(plain)+gcm.Overhead())
	blob = append(blob, nonce...)
	blob = gcm.Seal(blob, nonce, []byte(plain), nil)

	return Marker + string(privateVersion) + b64.EncodeToString(blob), nil
}

// DecodePrivate opens a token produced by EncodePrivate. It returns
// [ErrFormat] for malformed framing and [ErrAuthentication] when the tag does
// not verify under key.
func DecodePrivate(token string, key []byte) (any, error) {
	if !IsPrivate(token) {
		return nil, fmt.Errorf("%w: missing private marker", ErrFormat)
	}
	body := token[len(Marker):]
	if body == "" || body[0] != privateVersion {
		return nil, fmt.Errorf("%w: unknown private token version", ErrFormat)
	}

	blob, err := b64.DecodeString(body[1:])
	if err != nil {
		return nil, fmt.Errorf("%w: bad private payload: %v", ErrFormat, err)
	}

	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(blob) < NonceSize+gcm.Overhead() {
		return nil, fmt.Errorf("%w: private payload too short", ErrFormat)
	}

	nonce, ciphertext := blob[:NonceSize], blob[NonceSize:]
	plain, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrAuthentication
	}

	return Decode(string(plain))
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidKey, len(key), KeySize)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, NonceSize)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}
	return gcm, nil
}
