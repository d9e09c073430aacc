// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package access

import (
	"fmt"
	"sort"

	"github.com/MKhiriev/go-conf-vault/internal/codec"
	"github.com/MKhiriev/go-conf-vault/internal/store"
)

// Access option names.
const (
	optName           = "name"
	optDescription    = "description"
	optDefaultContext = "default_context"
	optRoles          = "roles"
	optTokens         = "tokens"
)

// Grant is a snapshot of one "Access N" section.
type Grant struct {
	Key         string
	Name        string
	Description string
	DefaultCtx  string
	Roles       map[string]string // context section → role letters
	Tokens      map[string]int64  // token → issued-at unix seconds
}

// DefaultContext returns the configured default context, or the first
// context the grant has a role in.
func (g *Grant) DefaultContext() string {
	if g.DefaultCtx != "" {
		return g.DefaultCtx
	}
	keys := make([]string, 0, len(g.Roles))
	for k := range g.Roles {
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Slice(keys, func(i, j int) bool { return store.NaturalLess(keys[i], keys[j]) })
	return keys[0]
}

// TokenList returns the grant's tokens, newest first.
func (g *Grant) TokenList() []string {
	out := make([]string, 0, len(g.Tokens))
	for t := range g.Tokens {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if g.Tokens[out[i]] != g.Tokens[out[j]] {
			return g.Tokens[out[i]] > g.Tokens[out[j]]
		}
		return out[i] < out[j]
	})
	return out
}

func loadGrant(tx *store.Tx, key string) (*Grant, error) {
	if !tx.HasSection(key) {
		return nil, fmt.Errorf("%w: %q", ErrNoGrant, key)
	}
	g := &Grant{Key: key}

	var err error
	if g.Name, err = tx.GetString(key, optName, ""); err != nil {
		return nil, err
	}
	if g.Description, err = tx.GetString(key, optDescription, ""); err != nil {
		return nil, err
	}
	if g.DefaultCtx, err = tx.GetString(key, optDefaultContext, ""); err != nil {
		return nil, err
	}

	v, err := tx.Get(key, optRoles, nil)
	if err != nil {
		return nil, err
	}
	if g.Roles, err = codec.AsStringMap(v); err != nil {
		return nil, fmt.Errorf("%s/%s: %w", key, optRoles, err)
	}

	v, err = tx.Get(key, optTokens, nil)
	if err != nil {
		return nil, err
	}
	if g.Tokens, err = codec.AsIntMap(v); err != nil {
		return nil, fmt.Errorf("%s/%s: %w", key, optTokens, err)
	}
	return g, nil
}

func saveGrant(tx *store.Tx, g *Grant) error {
	return tx.Update(func(tx *store.Tx) error {
		if err := tx.EnsureSection(g.Key); err != nil {
			return err
		}
		set := func(option string, v any) error {
			return tx.Set(g.Key, option, v)
		}
		if err := set(optName, orNil(g.Name)); err != nil {
			return err
		}
		if err := set(optDescription, orNil(g.Description)); err != nil {
			return err
		}
		if err := set(optDefaultContext, orNil(g.DefaultCtx)); err != nil {
			return err
		}
		var roles, tokens any
		if len(g.Roles) > 0 {
			roles = g.Roles
		}
		if len(g.Tokens) > 0 {
			tokens = g.Tokens
		}
		if err := set(optRoles, roles); err != nil {
			return err
		}
		return set(optTokens, tokens)
	})
}

func orNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}
