// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base32"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/scrypt"
)

const (
	// ConfigKeyTag prefixes every config key. A decrypted config key without
	// it means the passphrase was wrong.
	ConfigKeyTag = "CONF_KEY:"

	passphraseSalt  = "config"
	documentKeyInfo = "conf-vault document key"
	keyLen          = 32
	passcodeBytes   = 20
)

var passcodeEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// Params tunes the cost of passphrase stretching.
type Params struct {
	// ScryptN is the CPU/memory cost. Must be a power of two greater than 1.
	ScryptN int
	// ScryptR is the block size.
	ScryptR int
	// ScryptP is the parallelization factor.
	ScryptP int
}

// DefaultParams are the interactive-login scrypt parameters.
func DefaultParams() Params {
	return Params{
		ScryptN: 1 << 15,
		ScryptR: 8,
		ScryptP: 1,
	}
}

// keyChainService is the private implementation of [KeyChainService].
type keyChainService struct {
	params Params
}

// NewKeyChainService constructs a [KeyChainService] with the given scrypt
// parameters. Zero fields fall back to [DefaultParams].
func NewKeyChainService(params Params) KeyChainService {
	def := DefaultParams()
	if params.ScryptN == 0 {
		params.ScryptN = def.ScryptN
	}
	if params.ScryptR == 0 {
		params.ScryptR = def.ScryptR
	}
	if params.ScryptP == 0 {
		params.ScryptP = def.ScryptP
	}
	return &keyChainService{params: params}
}

// DerivePassphraseKey implements [KeyChainService]. The salt is fixed: the
// result must be reproducible from the passphrase alone, and the random
// config key behind it is what gives every profile distinct field keys.
func (k *keyChainService) DerivePassphraseKey(passphrase string) ([]byte, error) {
	key, err := scrypt.Key(
		[]byte(passphrase),
		[]byte(passphraseSalt),
		k.params.ScryptN,
		k.params.ScryptR,
		k.params.ScryptP,
		keyLen,
	)
	if err != nil {
		return nil, fmt.Errorf("stretch passphrase: %w", err)
	}
	return key, nil
}

// DeriveDocumentKey implements [KeyChainService].
func (k *keyChainService) DeriveDocumentKey(secret string) []byte {
	return DeriveSubkey([]byte(secret), documentKeyInfo)
}

// GenerateConfigKey implements [KeyChainService].
func (k *keyChainService) GenerateConfigKey() (string, error) {
	code, err := generatePasscode()
	if err != nil {
		return "", err
	}
	return ConfigKeyTag + code, nil
}

// GenerateMasterKey implements [KeyChainService].
func (k *keyChainService) GenerateMasterKey() (string, error) {
	return generatePasscode()
}

// DeriveSubkey expands secret into a 256-bit key bound to purpose. Consumers
// of the master key chain use it to get one key per use instead of using the
// master key bytes directly.
func DeriveSubkey(secret []byte, purpose string) []byte {
	out := make([]byte, keyLen)
	r := hkdf.New(sha256.New, secret, nil, []byte(purpose))
	if _, err := io.ReadFull(r, out); err != nil {
		// HKDF-SHA256 can produce 255*32 bytes; 32 never fails.
		panic("crypto: hkdf expand failed: " + err.Error())
	}
	return out
}

// generatePasscode returns 160 random bits as unpadded base32.
func generatePasscode() (string, error) {
	buf := make([]byte, passcodeBytes)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return "", fmt.Errorf("generate passcode: %w", err)
	}
	return passcodeEncoding.EncodeToString(buf), nil
}
