// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"strings"
	"sync"
)

// builtinPrivate lists the fields that are always encrypted.
var builtinPrivate = []string{
	"Secrets/config_key",
	"Secrets/master_key",
	"Secrets/master_key_N",
	"Account N/mailbox_password",
	"Account N/sendmail_password",
}

// Policy is the write-time table of fields that must be stored encrypted.
// Keys are normalized with [NormalizeKey] so that one entry covers every
// numbered instance of a section or option.
type Policy struct {
	mu   sync.RWMutex
	keys map[string]struct{}
}

// NewPolicy returns a policy holding the built-in private fields.
func NewPolicy() *Policy {
	p := &Policy{keys: make(map[string]struct{}, len(builtinPrivate))}
	for _, k := range builtinPrivate {
		p.keys[k] = struct{}{}
	}
	return p
}

// NormalizeKey returns "section/option" with every run of digits replaced by
// a single "N".
func NormalizeKey(section, option string) string {
	return collapseDigits(section) + "/" + collapseDigits(option)
}

func collapseDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inDigits := false
	for i := 0; i < len(s); i++ {
		if isDigit(s[i]) {
			if !inDigits {
				b.WriteByte('N')
			}
			inDigits = true
			continue
		}
		inDigits = false
		b.WriteByte(s[i])
	}
	return b.String()
}

// MarkPrivate registers section/option (normalized) as private.
func (p *Policy) MarkPrivate(section, option string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys[NormalizeKey(section, option)] = struct{}{}
}

// IsPrivate reports whether section/option must be encrypted.
func (p *Policy) IsPrivate(section, option string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.keys[NormalizeKey(section, option)]
	return ok
}
