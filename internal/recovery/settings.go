package recovery

import (
	"fmt"

	"github.com/MKhiriev/go-conf-vault/internal/store"
)

// Recovery option names.
const (
	optEnabled     = "enabled"
	optThreshold   = "threshold"
	optTotal       = "shares"
	optDescription = "description"
)

// Settings is the Recovery section.
type Settings struct {
	Enabled     bool
	Threshold   int
	Total       int
	Description string
}

// DefaultSettings has recovery off, two of three shares.
func DefaultSettings() Settings {
	return Settings{Threshold: 2, Total: 3}
}

// Settings reads the Recovery section, filling in defaults.
func (svc *Service) Settings() (*Settings, error) {
	var out *Settings
	err := svc.store.View(func(tx *store.Tx) error {
		var err error
		out, err = svc.SettingsTx(tx)
		return err
	})
	return out, err
}

// SettingsTx is Settings inside tx.
func (svc *Service) SettingsTx(tx *store.Tx) (*Settings, error) {
	out := DefaultSettings()
	v, err := tx.Get(store.RecoverySection, optEnabled, false)
	if err != nil {
		return nil, err
	}
	enabled, ok := v.(bool)
	if !ok {
		return nil, fmt.Errorf("%s/%s: want bool, got %T", store.RecoverySection, optEnabled, v)
	}
	out.Enabled = enabled

	n, err := tx.GetInt(store.RecoverySection, optThreshold, int64(out.Threshold))
	if err != nil {
		return nil, err
	}
	out.Threshold = int(n)
	if n, err = tx.GetInt(store.RecoverySection, optTotal, int64(out.Total)); err != nil {
		return nil, err
	}
	out.Total = int(n)

	if out.Description, err = tx.GetString(store.RecoverySection, optDescription, ""); err != nil {
		return nil, err
	}
	return &out, nil
}

// SaveSettings writes the Recovery section.
func (svc *Service) SaveSettings(s *Settings) error {
	return svc.store.Update(func(tx *store.Tx) error {
		return svc.SaveSettingsTx(tx, s)
	})
}

// SaveSettingsTx is SaveSettings inside tx.
func (svc *Service) SaveSettingsTx(tx *store.Tx, s *Settings) error {
	if s.Threshold < 2 || s.Total < s.Threshold {
		return fmt.Errorf("%w: %d of %d", ErrBadShare, s.Threshold, s.Total)
	}
	return tx.Update(func(tx *store.Tx) error {
		for option, v := range map[string]any{
			optEnabled:   s.Enabled,
			optThreshold: int64(s.Threshold),
			optTotal:     int64(s.Total),
		} {
			if err := tx.Set(store.RecoverySection, option, v); err != nil {
				return err
			}
		}
		var desc any
		if s.Description != "" {
			desc = s.Description
		}
		return tx.Set(store.RecoverySection, optDescription, desc)
	})
}
