// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-conf-vault/internal/clock"
	"github.com/MKhiriev/go-conf-vault/internal/codec"
)

// Secrets section layout.
const (
	SecretsSection     = "Secrets"
	ConfigKeyOption    = "config_key"
	MasterKeyOption    = "master_key"
	LastRotationOption = "last_key_rotation"
	PassphraseOption   = "passphrase"
)

// DefaultMasterKeyLimit is the number of master key generations a document
// may hold, counting the initial master_key.
const DefaultMasterKeyLimit = 1000

// KeyManager runs the key lifecycle of one configuration document: unlocking
// with a passphrase, the master key chain and passphrase changes.
type KeyManager struct {
	keychain KeyChainService
	keyring  *Keyring
	clock    clock.Clock
	limit    int
}

// NewKeyManager builds a manager. limit <= 0 means [DefaultMasterKeyLimit].
func NewKeyManager(keychain KeyChainService, keyring *Keyring, clk clock.Clock, limit int) *KeyManager {
	if limit <= 0 {
		limit = DefaultMasterKeyLimit
	}
	if clk == nil {
		clk = clock.Real()
	}
	return &KeyManager{
		keychain: keychain,
		keyring:  keyring,
		clock:    clk,
		limit:    limit,
	}
}

// Keyring returns the keyring the manager activates keys on.
func (m *KeyManager) Keyring() *Keyring {
	return m.keyring
}

// KeyChain returns the underlying key material service.
func (m *KeyManager) KeyChain() KeyChainService {
	return m.keychain
}

// Unlock stretches passphrase and calls [KeyManager.UnlockWithKey].
func (m *KeyManager) Unlock(passphrase string, doc SecretsDocument) (bool, error) {
	passKey, err := m.keychain.DerivePassphraseKey(passphrase)
	if err != nil {
		return false, err
	}
	defer wipe(passKey)
	return m.UnlockWithKey(passKey, doc)
}

// UnlockWithKey activates the document key that passKey unwraps. When the
// document has no config key yet one is generated and stored; the returned
// flag reports that case. Nothing is written unless the unlock succeeds.
func (m *KeyManager) UnlockWithKey(passKey []byte, doc SecretsDocument) (bool, error) {
	raw, ok := doc.Raw(SecretsSection, ConfigKeyOption)
	if !ok {
		return true, m.createConfigKey(passKey, doc)
	}

	value, err := codec.DecodePrivate(raw, passKey)
	if err != nil {
		if errors.Is(err, codec.ErrAuthentication) || errors.Is(err, codec.ErrFormat) {
			return false, ErrWrongPassphrase
		}
		return false, err
	}
	configKey, ok := value.(string)
	if !ok || !strings.HasPrefix(configKey, ConfigKeyTag) {
		return false, ErrWrongPassphrase
	}

	docKey := m.keychain.DeriveDocumentKey(configKey)
	defer wipe(docKey)
	return false, m.keyring.SetDocumentKey(docKey)
}

func (m *KeyManager) createConfigKey(passKey []byte, doc SecretsDocument) error {
	if m.keyring.Unlocked() {
		return ErrKeyConflict
	}
	configKey, err := m.keychain.GenerateConfigKey()
	if err != nil {
		return err
	}
	wrapped, err := m.keyring.SealWith(passKey, configKey)
	if err != nil {
		return fmt.Errorf("seal config key: %w", err)
	}
	docKey := m.keychain.DeriveDocumentKey(configKey)
	defer wipe(docKey)

	if err := m.keyring.SetDocumentKey(docKey); err != nil {
		return err
	}
	if err := doc.PutRaw(SecretsSection, ConfigKeyOption, wrapped); err != nil {
		m.keyring.Lock()
		return err
	}
	return nil
}

// EnsureMasterKey creates the first master key generation when it is absent.
// It reports whether a key was created.
func (m *KeyManager) EnsureMasterKey(doc SecretsDocument) (bool, error) {
	if _, ok := doc.Raw(SecretsSection, MasterKeyOption); ok {
		return false, nil
	}
	if err := m.generateMasterKey(doc, MasterKeyOption); err != nil {
		return false, err
	}
	return true, nil
}

// RotateMasterKey appends a new master key generation and returns its index.
// Index 0 is master_key, index N is master_key_N.
func (m *KeyManager) RotateMasterKey(doc SecretsDocument) (int, error) {
	if !m.keyring.Unlocked() {
		return 0, ErrLocked
	}
	for gen := 0; gen < m.limit; gen++ {
		option := masterKeyOption(gen)
		if _, ok := doc.Raw(SecretsSection, option); ok {
			continue
		}
		if err := m.generateMasterKey(doc, option); err != nil {
			return 0, err
		}
		return gen, nil
	}
	return 0, ErrExhausted
}

func (m *KeyManager) generateMasterKey(doc SecretsDocument, option string) error {
	if _, ok := doc.Raw(SecretsSection, option); ok {
		return fmt.Errorf("%w: %s", ErrMasterKeyExists, option)
	}
	secret, err := m.keychain.GenerateMasterKey()
	if err != nil {
		return err
	}
	token, err := m.keyring.Seal(secret)
	if err != nil {
		return err
	}
	if err := doc.PutRaw(SecretsSection, option, token); err != nil {
		return err
	}
	return doc.PutRaw(SecretsSection, LastRotationOption, codec.MustEncode(m.clock.Now().Unix()))
}

// MasterKeys returns every master key generation oldest first, stopping at
// the first gap.
func (m *KeyManager) MasterKeys(doc SecretsDocument) ([][]byte, error) {
	if !m.keyring.Unlocked() {
		return nil, ErrLocked
	}
	var keys [][]byte
	for gen := 0; gen < m.limit; gen++ {
		raw, ok := doc.Raw(SecretsSection, masterKeyOption(gen))
		if !ok {
			break
		}
		value, err := m.keyring.Open(raw)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", masterKeyOption(gen), err)
		}
		secret, err := codec.AsString(value)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", masterKeyOption(gen), err)
		}
		keys = append(keys, []byte(secret))
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: master key is unset", ErrLocked)
	}
	return keys, nil
}

// ChangePassphrase stretches newPassphrase and calls
// [KeyManager.ChangePassphraseWithKey].
func (m *KeyManager) ChangePassphrase(newPassphrase string, doc SecretsDocument) error {
	passKey, err := m.keychain.DerivePassphraseKey(newPassphrase)
	if err != nil {
		return err
	}
	defer wipe(passKey)
	return m.ChangePassphraseWithKey(newPassphrase, passKey, doc)
}

// ChangePassphraseWithKey generates a new config key wrapped under passKey and
// re-encrypts every private field with the document key derived from it. A
// stored plaintext passphrase that no longer matches is removed. The keyring
// switches to the new key only after the document was fully rewritten.
func (m *KeyManager) ChangePassphraseWithKey(newPassphrase string, passKey []byte, doc SecretsDocument) error {
	oldKey, err := m.keyring.DocumentKey()
	if err != nil {
		return err
	}
	defer wipe(oldKey)

	configKey, err := m.keychain.GenerateConfigKey()
	if err != nil {
		return err
	}
	wrapped, err := m.keyring.SealWith(passKey, configKey)
	if err != nil {
		return fmt.Errorf("seal config key: %w", err)
	}
	newKey := m.keychain.DeriveDocumentKey(configKey)
	defer wipe(newKey)

	for _, section := range doc.Sections() {
		for _, option := range doc.Options(section) {
			if section == SecretsSection && option == ConfigKeyOption {
				continue
			}
			raw, ok := doc.Raw(section, option)
			if !ok || !codec.IsPrivate(raw) {
				continue
			}
			value, err := codec.DecodePrivate(raw, oldKey)
			if err != nil {
				return fmt.Errorf("re-encrypt %s/%s: %w", section, option, err)
			}
			token, err := m.keyring.SealWith(newKey, value)
			if err != nil {
				return fmt.Errorf("re-encrypt %s/%s: %w", section, option, err)
			}
			if err := doc.PutRaw(section, option, token); err != nil {
				return err
			}
		}
	}
	if err := doc.PutRaw(SecretsSection, ConfigKeyOption, wrapped); err != nil {
		return err
	}

	if raw, ok := doc.Raw(SecretsSection, PassphraseOption); ok && !codec.IsPrivate(raw) {
		if stored, err := codec.Decode(raw); err != nil || stored != newPassphrase {
			if err := doc.DeleteRaw(SecretsSection, PassphraseOption); err != nil {
				return err
			}
		}
	}

	m.keyring.ReplaceDocumentKey(newKey)
	return nil
}

func masterKeyOption(gen int) string {
	if gen == 0 {
		return MasterKeyOption
	}
	return fmt.Sprintf("%s_%d", MasterKeyOption, gen)
}
