// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package recovery

import (
	"encoding/hex"
	"fmt"

	"github.com/SSSaaS/sssa-golang"
)

// Share is one part of a secret split with Shamir's scheme. Any Threshold
// of the Total shares rebuild the secret.
type Share struct {
	Index     int    `json:"index"`
	Threshold int    `json:"threshold"`
	Total     int    `json:"total"`
	Value     string `json:"value"`
}

// Validate checks the share's metadata.
func (s *Share) Validate() error {
	switch {
	case s.Threshold < 2:
		return fmt.Errorf("%w: threshold %d", ErrBadShare, s.Threshold)
	case s.Total < s.Threshold:
		return fmt.Errorf("%w: total %d below threshold %d", ErrBadShare, s.Total, s.Threshold)
	case s.Index < 1 || s.Index > s.Total:
		return fmt.Errorf("%w: index %d out of range", ErrBadShare, s.Index)
	case s.Value == "":
		return fmt.Errorf("%w: empty value", ErrBadShare)
	}
	return nil
}

// Split divides secret into total shares of which any threshold rebuild it.
func Split(secret []byte, threshold, total int) ([]*Share, error) {
	if threshold < 2 {
		return nil, fmt.Errorf("%w: threshold must be at least 2, got %d", ErrBadShare, threshold)
	}
	if total < threshold {
		return nil, fmt.Errorf("%w: total shares (%d) must be >= threshold (%d)", ErrBadShare, total, threshold)
	}
	if total > 255 {
		return nil, fmt.Errorf("%w: total shares cannot exceed 255, got %d", ErrBadShare, total)
	}
	if len(secret) == 0 {
		return nil, fmt.Errorf("%w: secret cannot be empty", ErrBadShare)
	}

	// sssa trims trailing NUL bytes on combine, hex keeps the secret clear of them
	values, err := sssa.Create(threshold, total, hex.EncodeToString(secret))
	if err != nil {
		return nil, fmt.Errorf("split secret: %w", err)
	}

	shares := make([]*Share, len(values))
	for i, v := range values {
		shares[i] = &Share{Index: i + 1, Threshold: threshold, Total: total, Value: v}
	}
	return shares, nil
}

// Combine rebuilds the secret from at least threshold shares.
func Combine(shares []*Share) ([]byte, error) {
	if len(shares) == 0 {
		return nil, fmt.Errorf("%w: no shares provided", ErrBadShare)
	}
	threshold, total := shares[0].Threshold, shares[0].Total

	values := make([]string, len(shares))
	for i, s := range shares {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("share %d: %w", i, err)
		}
		if s.Threshold != threshold || s.Total != total {
			return nil, fmt.Errorf("%w: share %d belongs to another split", ErrBadShare, i)
		}
		if !sssa.IsValidShare(s.Value) {
			return nil, fmt.Errorf("%w: share %d is corrupt", ErrBadShare, i)
		}
		values[i] = s.Value
	}
	if len(shares) < threshold {
		return nil, fmt.Errorf("%w: need at least %d shares, got %d", ErrBadShare, threshold, len(shares))
	}

	secretHex, err := sssa.Combine(values)
	if err != nil {
		return nil, fmt.Errorf("combine shares: %w", err)
	}
	secret, err := hex.DecodeString(secretHex)
	if err != nil {
		return nil, fmt.Errorf("%w: combined secret is not valid: %v", ErrBadShare, err)
	}
	return secret, nil
}
