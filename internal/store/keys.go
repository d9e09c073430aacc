// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-conf-vault/internal/codec"
	"github.com/MKhiriev/go-conf-vault/internal/crypto"
)

// Unlock activates the document key for passphrase, creating the config key
// and the first master key on first use. Unlocking again with the same
// passphrase changes nothing. Passphrase stretching runs before the lock is
// taken.
func (s *Store) Unlock(passphrase string) error {
	passKey, err := s.manager.KeyChain().DerivePassphraseKey(passphrase)
	if err != nil {
		return err
	}
	return s.UnlockWithKey(passKey)
}

// UnlockWithKey is Unlock with an already stretched passphrase key.
func (s *Store) UnlockWithKey(passKey []byte) error {
	return s.Update(func(tx *Tx) error {
		return s.UnlockWithKeyTx(tx, passKey)
	})
}

// UnlockTx is Unlock inside tx. The passphrase is stretched while tx holds
// the lock.
func (s *Store) UnlockTx(tx *Tx, passphrase string) error {
	passKey, err := s.manager.KeyChain().DerivePassphraseKey(passphrase)
	if err != nil {
		return err
	}
	return s.UnlockWithKeyTx(tx, passKey)
}

// UnlockWithKeyTx is UnlockWithKey inside tx. On failure the document is
// left as it was before the call.
func (s *Store) UnlockWithKeyTx(tx *Tx, passKey []byte) error {
	return tx.Update(func(tx *Tx) error {
		created, err := s.manager.UnlockWithKey(passKey, tx)
		if err != nil {
			if errors.Is(err, crypto.ErrKeyConflict) {
				s.logger.Warn().Msg("unlock refused: a different document key is active")
			} else {
				s.logger.Warn().Err(err).Msg("unlock failed")
			}
			return err
		}
		if created {
			s.logger.Info().Msg("generated new config key")
		}
		if created, err := s.manager.EnsureMasterKey(tx); err != nil {
			return err
		} else if created {
			s.logger.Info().Msg("generated master key")
		}
		s.logger.Info().Msg("configuration unlocked")
		return nil
	})
}

// UnlockWithDocumentKey activates a raw document key, as recovered from a
// snapshot. The key must open the stored master key when there is one.
func (s *Store) UnlockWithDocumentKey(key []byte) error {
	return s.Update(func(tx *Tx) error {
		return s.UnlockWithDocumentKeyTx(tx, key)
	})
}

// UnlockWithDocumentKeyTx is UnlockWithDocumentKey inside tx.
func (s *Store) UnlockWithDocumentKeyTx(tx *Tx, key []byte) error {
	if err := tx.writable(); err != nil {
		return err
	}
	if raw, ok := tx.Raw(SecretsSection, crypto.MasterKeyOption); ok {
		if _, err := codec.DecodePrivate(raw, key); err != nil {
			return fmt.Errorf("%w: %v", crypto.ErrWrongPassphrase, err)
		}
	}
	return s.manager.Keyring().SetDocumentKey(key)
}

// Lock forgets the document key.
func (s *Store) Lock() {
	s.manager.Keyring().Lock()
	s.logger.Info().Msg("configuration locked")
}

// Unlocked reports whether the document key is active.
func (s *Store) Unlocked() bool {
	return s.manager.Keyring().Unlocked()
}

// HasCryptoEnabled reports whether the document has a config key, i.e. was
// unlocked at least once.
func (s *Store) HasCryptoEnabled() bool {
	var ok bool
	_ = s.View(func(tx *Tx) error {
		ok = tx.Has(SecretsSection, crypto.ConfigKeyOption)
		return nil
	})
	return ok
}

// RotateMasterKey appends a master key generation and returns its index.
func (s *Store) RotateMasterKey() (int, error) {
	var gen int
	err := s.Update(func(tx *Tx) error {
		var err error
		gen, err = s.RotateMasterKeyTx(tx)
		return err
	})
	return gen, err
}

// RotateMasterKeyTx is RotateMasterKey inside tx.
func (s *Store) RotateMasterKeyTx(tx *Tx) (int, error) {
	var gen int
	err := tx.Update(func(tx *Tx) error {
		var err error
		gen, err = s.manager.RotateMasterKey(tx)
		return err
	})
	if err != nil {
		return 0, err
	}
	s.logger.Info().Int("generation", gen).Msg("master key rotated")
	return gen, nil
}

// MasterKeys returns every master key generation, oldest first.
func (s *Store) MasterKeys() ([][]byte, error) {
	var keys [][]byte
	err := s.View(func(tx *Tx) error {
		var err error
		keys, err = s.MasterKeysTx(tx)
		return err
	})
	return keys, err
}

// MasterKeysTx is MasterKeys inside tx, which may be read-only.
func (s *Store) MasterKeysTx(tx *Tx) ([][]byte, error) {
	if tx.closed {
		return nil, ErrTxClosed
	}
	return s.manager.MasterKeys(tx)
}

// ChangePassphrase re-encrypts the document under a new passphrase in one
// transaction. On failure the document and the active key are unchanged.
func (s *Store) ChangePassphrase(newPassphrase string) error {
	passKey, err := s.manager.KeyChain().DerivePassphraseKey(newPassphrase)
	if err != nil {
		return err
	}
	return s.Update(func(tx *Tx) error {
		return s.changePassphrase(tx, newPassphrase, passKey)
	})
}

// ChangePassphraseTx is ChangePassphrase inside tx. The new passphrase is
// stretched while tx holds the lock.
func (s *Store) ChangePassphraseTx(tx *Tx, newPassphrase string) error {
	passKey, err := s.manager.KeyChain().DerivePassphraseKey(newPassphrase)
	if err != nil {
		return err
	}
	return s.changePassphrase(tx, newPassphrase, passKey)
}

func (s *Store) changePassphrase(tx *Tx, newPassphrase string, passKey []byte) error {
	err := tx.Update(func(tx *Tx) error {
		return s.manager.ChangePassphraseWithKey(newPassphrase, passKey, tx)
	})
	if err != nil {
		return err
	}
	s.logger.Info().Msg("passphrase changed")
	return nil
}

// Snapshot returns the rendered document and a copy of the document key.
// Together they reproduce every value, private ones included.
func (s *Store) Snapshot() ([]byte, []byte, error) {
	var data, key []byte
	err := s.View(func(tx *Tx) error {
		var err error
		data, key, err = s.SnapshotTx(tx)
		return err
	})
	return data, key, err
}

// SnapshotTx is Snapshot inside tx, which may be read-only.
func (s *Store) SnapshotTx(tx *Tx) ([]byte, []byte, error) {
	if tx.closed {
		return nil, nil, ErrTxClosed
	}
	key, err := s.manager.Keyring().DocumentKey()
	if err != nil {
		return nil, nil, err
	}
	var buf bytes.Buffer
	if err := renderDocument(s.doc, &buf); err != nil {
		return nil, nil, err
	}
	return buf.Bytes(), key, nil
}

// Restore replaces the document with a snapshot and activates its key. The
// key must open the snapshot's master key. The restored document is saved.
func (s *Store) Restore(data, key []byte) error {
	return s.Update(func(tx *Tx) error {
		return s.RestoreTx(tx, data, key)
	})
}

// RestoreTx is Restore inside tx. The document is saved by the outermost
// commit.
func (s *Store) RestoreTx(tx *Tx, data, key []byte) error {
	if err := tx.writable(); err != nil {
		return err
	}
	doc, _, err := parseDocument(data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	raw, ok := doc.raw(SecretsSection, crypto.MasterKeyOption)
	if !ok {
		return fmt.Errorf("%w: no master key", ErrInvalidSnapshot)
	}
	if _, err := codec.DecodePrivate(raw, key); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	s.doc = doc
	s.manager.Keyring().ReplaceDocumentKey(key)
	tx.touch()
	s.logger.Info().Msg("configuration restored from snapshot")
	return nil
}
