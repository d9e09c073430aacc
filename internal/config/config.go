// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// StructuredConfig is the top-level configuration container for go-conf-vault.
// It aggregates all sub-configurations and is populated by merging defaults,
// environment variables, command-line flags and an optional JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env:       direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Store holds the location of the configuration document and its backup
	// policy.
	Store Store `envPrefix:"VAULT_STORE_"`

	// Crypto holds passphrase stretching cost and the master key ceiling.
	Crypto Crypto `envPrefix:"VAULT_CRYPTO_"`

	// Access holds access token settings.
	Access Access `envPrefix:"VAULT_ACCESS_"`

	// Log holds logging settings.
	Log Log `envPrefix:"VAULT_LOG_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the VAULT_CONFIG environment variable or the -c / -config
	// flag.
	JSONFilePath string `env:"VAULT_CONFIG"`
}

// Store configures the on-disk document.
type Store struct {
	// ProfileDir is the directory holding the document, its backups and logs.
	// Created with mode 0700 when missing.
	// Env: VAULT_STORE_PROFILE_DIR
	ProfileDir string `env:"PROFILE_DIR"`

	// FileName is the document's file name inside ProfileDir.
	// Env: VAULT_STORE_FILE_NAME
	FileName string `env:"FILE_NAME"`

	// Backups is the number of backup slots used when the document itself
	// does not set App/config_backups.
	// Env: VAULT_STORE_BACKUPS
	Backups int `env:"BACKUPS"`

	// BackupBase and BackupGrowth shape the backup age thresholds.
	// Env: VAULT_STORE_BACKUP_BASE, VAULT_STORE_BACKUP_GROWTH
	BackupBase   time.Duration `env:"BACKUP_BASE"`
	BackupGrowth float64       `env:"BACKUP_GROWTH"`
}

// Path returns the full path of the document.
func (s Store) Path() string {
	return filepath.Join(s.ProfileDir, s.FileName)
}

// Crypto configures key derivation.
type Crypto struct {
	// Env: VAULT_CRYPTO_SCRYPT_N, VAULT_CRYPTO_SCRYPT_R, VAULT_CRYPTO_SCRYPT_P
	ScryptN int `env:"SCRYPT_N"`
	ScryptR int `env:"SCRYPT_R"`
	ScryptP int `env:"SCRYPT_P"`

	// MasterKeyLimit is the maximum number of master key generations.
	// Env: VAULT_CRYPTO_MASTER_KEY_LIMIT
	MasterKeyLimit int `env:"MASTER_KEY_LIMIT"`
}

// Access configures access tokens.
type Access struct {
	// TokenTTL is the lifetime of issued tokens and the age past which
	// token resolution drops them.
	// Env: VAULT_ACCESS_TOKEN_TTL
	TokenTTL time.Duration `env:"TOKEN_TTL"`
}

// Log configures logging.
type Log struct {
	// Level is a zerolog level name ("debug", "info", ...). When empty the
	// document's App/log_level decides once the store is open.
	// Env: VAULT_LOG_LEVEL
	Level string `env:"LEVEL"`

	// ToFile sends logs to <ProfileDir>/logs instead of stderr.
	// Env: VAULT_LOG_TO_FILE
	ToFile bool `env:"TO_FILE"`
}

// ZerologLevel parses Level. An empty Level yields warn, the level used until
// the document's own setting is known.
func (l Log) ZerologLevel() zerolog.Level {
	lvl, err := zerolog.ParseLevel(l.Level)
	if err != nil || l.Level == "" {
		return zerolog.WarnLevel
	}
	return lvl
}

// FromDocument reports whether the level is left to the document.
func (l Log) FromDocument() bool {
	return l.Level == ""
}

// Default returns the built-in configuration every other source overrides.
func Default() *StructuredConfig {
	return &StructuredConfig{
		Store: Store{
			ProfileDir:   defaultProfileDir(),
			FileName:     "config.rc",
			Backups:      10,
			BackupBase:   5 * time.Minute,
			BackupGrowth: 2,
		},
		Crypto: Crypto{
			ScryptN:        1 << 15,
			ScryptR:        8,
			ScryptP:        1,
			MasterKeyLimit: 1000,
		},
		Access: Access{
			TokenTTL: 7 * 24 * time.Hour,
		},
		Log: Log{},
	}
}

func defaultProfileDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".conf-vault"
	}
	return filepath.Join(dir, "conf-vault")
}

// GetStructuredConfig loads, merges, and validates the configuration from all
// available sources in the following priority order (later sources override
// earlier non-zero fields):
//  1. Built-in defaults
//  2. Environment variables
//  3. Command-line flags parsed from args
//  4. JSON file (path resolved from sources 2 and 3)
//
// It returns the merged config and the positional arguments left after flag
// parsing.
func GetStructuredConfig(args []string) (*StructuredConfig, []string, error) {
	b := newConfigBuilder().
		withDefaults().
		withEnv().
		withFlags(args).
		withJSON()

	cfg, err := b.build()
	if err != nil {
		return nil, nil, err
	}
	return cfg, b.rest, nil
}
