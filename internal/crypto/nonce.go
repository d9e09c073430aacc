// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sync/atomic"
	"time"
)

// Nonce is a 128-bit AEAD nonce made of four 32-bit words.
type Nonce [4]uint32

// Bytes returns the little-endian encoding of the four words.
func (n Nonce) Bytes() []byte {
	out := make([]byte, 16)
	for i, w := range n {
		binary.LittleEndian.PutUint32(out[i*4:], w)
	}
	return out
}

// NonceSource hands out nonces that never repeat within one process.
//
// The first three words are fixed at construction (two random words and the
// Unix start time truncated to 32 bits); the fourth is a counter. Once the
// counter reaches its maximum the source is spent and Next fails with
// [ErrNoncesExhausted].
type NonceSource struct {
	prefix  [3]uint32
	counter atomic.Uint32
}

// NewNonceSource seeds a source from crypto/rand and the given start time.
func NewNonceSource(now time.Time) (*NonceSource, error) {
	var seed [8]byte
	if _, err := io.ReadFull(rand.Reader, seed[:]); err != nil {
		return nil, fmt.Errorf("seed nonce source: %w", err)
	}
	s := &NonceSource{}
	s.prefix[0] = binary.LittleEndian.Uint32(seed[0:4])
	s.prefix[1] = binary.LittleEndian.Uint32(seed[4:8])
	s.prefix[2] = uint32(now.Unix())
	return s, nil
}

// Next returns a fresh nonce. Safe for concurrent use.
func (s *NonceSource) Next() (Nonce, error) {
	for {
		c := s.counter.Load()
		if c == math.MaxUint32 {
			return Nonce{}, ErrNoncesExhausted
		}
		if s.counter.CompareAndSwap(c, c+1) {
			return Nonce{s.prefix[0], s.prefix[1], s.prefix[2], c + 1}, nil
		}
	}
}
