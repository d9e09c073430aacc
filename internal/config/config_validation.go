// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

const maxBackups = 99

// validate checks that the final merged [StructuredConfig] satisfies all
// invariants before it is used at startup.
func (cfg *StructuredConfig) validate() error {
	s := cfg.Store
	if s.ProfileDir == "" || s.FileName == "" || strings.ContainsAny(s.FileName, `/\`) {
		return fmt.Errorf("%w: profile dir and a plain file name are required", ErrInvalidStoreConfigs)
	}
	if s.Backups < 0 || s.Backups > maxBackups {
		return fmt.Errorf("%w: backups must be within 0..%d", ErrInvalidStoreConfigs, maxBackups)
	}
	if s.BackupBase <= 0 || s.BackupGrowth < 1 {
		return fmt.Errorf("%w: backup base must be positive and growth at least 1", ErrInvalidStoreConfigs)
	}

	c := cfg.Crypto
	if c.ScryptN < 2 || c.ScryptN&(c.ScryptN-1) != 0 || c.ScryptR < 1 || c.ScryptP < 1 {
		return fmt.Errorf("%w: scrypt N must be a power of two > 1, r and p positive", ErrInvalidCryptoConfigs)
	}
	if c.MasterKeyLimit < 1 {
		return fmt.Errorf("%w: master key limit must be positive", ErrInvalidCryptoConfigs)
	}

	if cfg.Access.TokenTTL <= 0 {
		return ErrInvalidAccessConfigs
	}

	if _, err := zerolog.ParseLevel(cfg.Log.Level); err != nil && cfg.Log.Level != "" {
		return fmt.Errorf("%w: unknown level %q", ErrInvalidLogConfigs, cfg.Log.Level)
	}

	return nil
}
