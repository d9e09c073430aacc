// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package schema maps the numbered context sections of the document onto
// typed structs.
package schema

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/go-conf-vault/internal/codec"
	"github.com/MKhiriev/go-conf-vault/internal/store"
)

// ContextZero is the section of the default context.
const ContextZero = store.ContextPrefix + "0"

// DefaultContextName is the name given to [ContextZero] when it is created.
const DefaultContextName = "My Mail"

// Context option names.
const (
	optName            = "name"
	optDescription     = "description"
	optDefaultIdentity = "default_identity"
	optScopeSearch     = "scope_search"
	optTagNamespace    = "tag_namespace"
	optTags            = "tags"
	optExtraTags       = "extra_tags"
	optIdentities      = "identities"
	optAccounts        = "accounts"
)

// Context is a snapshot of one "Context N" section.
type Context struct {
	Key             string
	Name            string
	Description     string
	DefaultIdentity string
	ScopeSearch     string
	TagNamespace    string
	Tags            []string
	ExtraTags       []string
	Identities      []string
	Accounts        []string
}

// ErrNoContext is returned by LoadContext for a missing section.
var ErrNoContext = errors.New("context does not exist")

// ContextKeys returns the context sections in natural order.
func ContextKeys(tx *store.Tx) []string {
	return tx.SectionKeys(store.ContextPrefix)
}

// LoadContext reads the context stored in section key.
func LoadContext(tx *store.Tx, key string) (*Context, error) {
	if !tx.HasSection(key) {
		return nil, fmt.Errorf("%w: %q", ErrNoContext, key)
	}
	c := &Context{Key: key}

	strs := []struct {
		option string
		dst    *string
	}{
		{optName, &c.Name},
		{optDescription, &c.Description},
		{optDefaultIdentity, &c.DefaultIdentity},
		{optScopeSearch, &c.ScopeSearch},
		{optTagNamespace, &c.TagNamespace},
	}
	for _, f := range strs {
		v, err := tx.GetString(key, f.option, "")
		if err != nil {
			return nil, err
		}
		*f.dst = v
	}

	lists := []struct {
		option string
		dst    *[]string
	}{
		{optTags, &c.Tags},
		{optExtraTags, &c.ExtraTags},
		{optIdentities, &c.Identities},
		{optAccounts, &c.Accounts},
	}
	for _, f := range lists {
		v, err := tx.Get(key, f.option, nil)
		if err != nil {
			return nil, err
		}
		items, err := codec.AsStringSlice(v)
		if err != nil {
			return nil, fmt.Errorf("%s/%s: %w", key, f.option, err)
		}
		*f.dst = items
	}
	return c, nil
}

// SaveContext writes c back to its section. Empty strings and lists remove
// the option.
func SaveContext(tx *store.Tx, c *Context) error {
	return tx.Update(func(tx *store.Tx) error {
		if err := tx.EnsureSection(c.Key); err != nil {
			return err
		}
		strs := map[string]string{
			optName:            c.Name,
			optDescription:     c.Description,
			optDefaultIdentity: c.DefaultIdentity,
			optScopeSearch:     c.ScopeSearch,
			optTagNamespace:    c.TagNamespace,
		}
		for option, v := range strs {
			if err := tx.Set(c.Key, option, nonEmpty(v)); err != nil {
				return err
			}
		}
		lists := map[string][]string{
			optTags:       c.Tags,
			optExtraTags:  c.ExtraTags,
			optIdentities: c.Identities,
			optAccounts:   c.Accounts,
		}
		for option, v := range lists {
			var val any
			if len(v) > 0 {
				val = v
			}
			if err := tx.Set(c.Key, option, val); err != nil {
				return err
			}
		}
		return nil
	})
}

// NextContextKey returns the first unused "Context N" section.
func NextContextKey(tx *store.Tx) string {
	return NextKey(tx, store.ContextPrefix)
}

// NextKey returns the first "<prefix>N" section name that does not exist.
func NextKey(tx *store.Tx, prefix string) string {
	for i := 0; ; i++ {
		key := fmt.Sprintf("%s%d", prefix, i)
		if !tx.HasSection(key) {
			return key
		}
	}
}

// EnsureContextZero names [ContextZero] when it has no name yet. The change
// is kept in memory only: it does not on its own cause a save.
func EnsureContextZero(tx *store.Tx) error {
	if tx.Has(ContextZero, optName) {
		return nil
	}
	child := tx.Begin()
	if err := child.Set(ContextZero, optName, DefaultContextName); err != nil {
		child.Discard()
		_ = child.Close()
		return err
	}
	child.Discard()
	return child.Close()
}

func nonEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
