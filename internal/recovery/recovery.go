// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package recovery exports the unlocked configuration as a self-contained
// bundle and splits it into shares for social recovery.
package recovery

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/MKhiriev/go-conf-vault/internal/logger"
	"github.com/MKhiriev/go-conf-vault/internal/store"
	"github.com/MKhiriev/go-conf-vault/internal/utils"
)

// Bundle format.
const (
	Version            = "conf-vault-recovery-1.0"
	DefaultDescription = "conf-vault configuration recovery data"
)

// Bundle is the exported form of the configuration. Config holds the
// rendered document and AESKey the document key that opens its private
// values. []byte fields are base64 in JSON.
type Bundle struct {
	Version     string    `json:"version"`
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Created     time.Time `json:"created"`
	AESKey      []byte    `json:"aes_key"`
	Config      []byte    `json:"config"`
}

// Service exports and restores the store.
type Service struct {
	store  *store.Store
	ids    *utils.UUIDGenerator
	logger *logger.Logger
}

// NewService returns a recovery service over s.
func NewService(s *store.Store, log *logger.Logger) *Service {
	if log == nil {
		log = s.Logger()
	}
	return &Service{
		store:  s,
		ids:    utils.NewUUIDGenerator(),
		logger: log.WithComponent("recovery"),
	}
}

// Export returns the JSON bundle of the current configuration. The store
// must be unlocked; otherwise crypto.ErrLocked is returned.
func (svc *Service) Export(description string) ([]byte, error) {
	var out []byte
	err := svc.store.View(func(tx *store.Tx) error {
		var err error
		out, err = svc.ExportTx(tx, description)
		return err
	})
	return out, err
}

// ExportTx is Export inside tx, which may be read-only.
func (svc *Service) ExportTx(tx *store.Tx, description string) ([]byte, error) {
	data, key, err := svc.store.SnapshotTx(tx)
	if err != nil {
		return nil, err
	}
	if description == "" {
		description = DefaultDescription
	}
	b := Bundle{
		Version:     Version,
		ID:          svc.ids.Generate(),
		Description: description,
		Created:     svc.store.Clock().Now().UTC(),
		AESKey:      key,
		Config:      data,
	}
	out, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("marshal bundle: %w", err)
	}
	svc.logger.Info().Str("id", b.ID).Msg("recovery bundle exported")
	return out, nil
}

// ParseBundle decodes and checks a JSON bundle.
func ParseBundle(data []byte) (*Bundle, error) {
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadBundle, err)
	}
	if b.Version != Version {
		return nil, fmt.Errorf("%w: unsupported version %q", ErrBadBundle, b.Version)
	}
	if len(b.AESKey) == 0 || len(b.Config) == 0 {
		return nil, fmt.Errorf("%w: missing key or config", ErrBadBundle)
	}
	return &b, nil
}

// Import replaces the configuration with the bundle's and unlocks the store
// with its key.
func (svc *Service) Import(data []byte) error {
	return svc.store.Update(func(tx *store.Tx) error {
		return svc.ImportTx(tx, data)
	})
}

// ImportTx is Import inside tx.
func (svc *Service) ImportTx(tx *store.Tx, data []byte) error {
	b, err := ParseBundle(data)
	if err != nil {
		return err
	}
	if err := svc.store.RestoreTx(tx, b.Config, b.AESKey); err != nil {
		return err
	}
	svc.logger.Info().Str("id", b.ID).Time("created", b.Created).Msg("recovery bundle imported")
	return nil
}

// Protect exports the configuration and splits the bundle into shares as
// configured in the Recovery section.
func (svc *Service) Protect() ([]*Share, error) {
	var shares []*Share
	err := svc.store.View(func(tx *store.Tx) error {
		var err error
		shares, err = svc.ProtectTx(tx)
		return err
	})
	return shares, err
}

// ProtectTx is Protect inside tx, which may be read-only.
func (svc *Service) ProtectTx(tx *store.Tx) ([]*Share, error) {
	settings, err := svc.SettingsTx(tx)
	if err != nil {
		return nil, err
	}
	if !settings.Enabled {
		return nil, ErrDisabled
	}
	bundle, err := svc.ExportTx(tx, settings.Description)
	if err != nil {
		return nil, err
	}
	return Split(bundle, settings.Threshold, settings.Total)
}

// Recover rebuilds a bundle from shares and imports it.
func (svc *Service) Recover(shares []*Share) error {
	bundle, err := Combine(shares)
	if err != nil {
		return err
	}
	return svc.Import(bundle)
}
