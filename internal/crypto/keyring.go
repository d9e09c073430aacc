// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/subtle"
	"sync"

	"github.com/MKhiriev/go-conf-vault/internal/codec"
)

// Keyring holds the active document key and seals/opens private tokens with
// it. The zero document key means locked.
type Keyring struct {
	mu     sync.RWMutex
	docKey []byte
	nonces *NonceSource
}

// NewKeyring returns a locked keyring drawing nonces from nonces.
func NewKeyring(nonces *NonceSource) *Keyring {
	return &Keyring{nonces: nonces}
}

// Unlocked reports whether a document key is held.
func (k *Keyring) Unlocked() bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.docKey != nil
}

// DocumentKey returns a copy of the active key or [ErrLocked].
func (k *Keyring) DocumentKey() ([]byte, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	if k.docKey == nil {
		return nil, ErrLocked
	}
	return append([]byte(nil), k.docKey...), nil
}

// SetDocumentKey activates key. Setting the key that is already active is a
// no-op; setting a different one fails with [ErrKeyConflict].
func (k *Keyring) SetDocumentKey(key []byte) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.docKey != nil {
		if subtle.ConstantTimeCompare(k.docKey, key) == 1 {
			return nil
		}
		return ErrKeyConflict
	}
	k.docKey = append([]byte(nil), key...)
	return nil
}

// ReplaceDocumentKey swaps the active key unconditionally.
func (k *Keyring) ReplaceDocumentKey(key []byte) {
	k.mu.Lock()
	defer k.mu.Unlock()
	wipe(k.docKey)
	k.docKey = append([]byte(nil), key...)
}

// Lock wipes and forgets the active key.
func (k *Keyring) Lock() {
	k.mu.Lock()
	defer k.mu.Unlock()
	wipe(k.docKey)
	k.docKey = nil
}

// NextNonce returns a fresh nonce from the keyring's source.
func (k *Keyring) NextNonce() (Nonce, error) {
	return k.nonces.Next()
}

// Seal encrypts v under the active key.
func (k *Keyring) Seal(v any) (string, error) {
	key, err := k.DocumentKey()
	if err != nil {
		return "", err
	}
	defer wipe(key)
	return k.SealWith(key, v)
}

// Open decrypts a private token with the active key.
func (k *Keyring) Open(token string) (any, error) {
	key, err := k.DocumentKey()
	if err != nil {
		return nil, err
	}
	defer wipe(key)
	return codec.DecodePrivate(token, key)
}

// SealWith encrypts v under an explicit key, using the keyring's nonces.
func (k *Keyring) SealWith(key []byte, v any) (string, error) {
	nonce, err := k.NextNonce()
	if err != nil {
		return "", err
	}
	return codec.EncodePrivate(v, key, nonce.Bytes())
}

// OpenWith decrypts a private token with an explicit key.
func (k *Keyring) OpenWith(key []byte, token string) (any, error) {
	return codec.DecodePrivate(token, key)
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
