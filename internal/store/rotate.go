// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/MKhiriev/go-conf-vault/internal/codec"
)

const (
	backupDir         = "backups"
	backupsOption     = "config_backups"
	maxBackupInterval = 24 * time.Hour
)

// backupThresholds returns, for slots 1..count, the age a slot must exceed
// before it is replaced by the younger one: base*growth for slot 1, then
// min(base*growth^i, previous+24h).
func backupThresholds(count int, base time.Duration, growth float64) []time.Duration {
	out := make([]time.Duration, count)
	for i := 1; i <= count; i++ {
		t := time.Duration(float64(base) * math.Pow(growth, float64(i)))
		if i > 1 && t > out[i-2]+maxBackupInterval {
			t = out[i-2] + maxBackupInterval
		}
		out[i-1] = t
	}
	return out
}

func (s *Store) backupPath(slot int) string {
	return filepath.Join(s.cfg.ProfileDir, backupDir, fmt.Sprintf("%s.%02d", s.cfg.FileName, slot))
}

// backupCount reads App/config_backups, falling back to the configured
// default when it is missing or unreadable.
func (s *Store) backupCount() int {
	raw, ok := s.doc.raw(AppSection, backupsOption)
	if !ok {
		return s.cfg.Backups
	}
	v, err := codec.Decode(raw)
	if err != nil {
		return s.cfg.Backups
	}
	n, err := codec.AsInt(v)
	if err != nil || n < 0 {
		return s.cfg.Backups
	}
	return int(n)
}

// rotateBackups shifts the live file into the backup chain before a save.
// Slots are walked oldest first; a slot whose age exceeds its threshold is
// replaced by the next younger one (the live file for slot 1) and empty slots
// are always filled. Filesystem errors are logged and skipped: a failed
// backup never blocks the save itself.
func (s *Store) rotateBackups() {
	count := s.backupCount()
	if count <= 0 {
		return
	}
	if _, err := os.Stat(s.path); err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Join(s.cfg.ProfileDir, backupDir), 0o700); err != nil {
		s.logger.Warn().Err(err).Msg("cannot create backup directory")
		return
	}

	now := s.clock.Now()
	thresholds := backupThresholds(count, s.cfg.BackupBase, s.cfg.BackupGrowth)

	for slot := count; slot >= 1; slot-- {
		dest := s.backupPath(slot)
		src := s.path
		if slot > 1 {
			src = s.backupPath(slot - 1)
		}

		srcInfo, err := os.Stat(src)
		if err != nil {
			continue
		}

		destInfo, err := os.Stat(dest)
		switch {
		case err == nil:
			if now.Sub(destInfo.ModTime()) <= thresholds[slot-1] {
				continue
			}
		case !errors.Is(err, fs.ErrNotExist):
			s.logger.Warn().Err(err).Str("backup", dest).Msg("cannot stat backup slot")
			continue
		}

		if slot == 1 {
			err = copyFile(src, dest, srcInfo.ModTime())
		} else {
			err = os.Rename(src, dest)
		}
		if err != nil {
			s.logger.Warn().Err(err).Str("backup", dest).Msg("backup rotation step failed")
			continue
		}
		s.logger.Debug().Int("slot", slot).Msg("backup slot updated")
	}
}
