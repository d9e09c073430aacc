// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"sort"
	"strings"

	"github.com/MKhiriev/go-conf-vault/internal/crypto"
)

// Singleton sections.
const (
	AppSection      = "App"
	SecretsSection  = crypto.SecretsSection
	RecoverySection = "Recovery"
)

// Prefixes of the numbered section families.
const (
	AccessPrefix   = "Access "
	AccountPrefix  = "Account "
	IdentityPrefix = "Identity "
	ContextPrefix  = "Context "
)

var singletons = []string{AppSection, SecretsSection, RecoverySection}

var prefixes = []string{AccessPrefix, AccountPrefix, IdentityPrefix, ContextPrefix}

// ValidSection reports whether name may be created in the document.
func ValidSection(name string) bool {
	for _, s := range singletons {
		if name == s {
			return true
		}
	}
	for _, p := range prefixes {
		if strings.HasPrefix(name, p) && len(name) > len(p) {
			return true
		}
	}
	return false
}

// SectionKeys returns the sections in names that start with prefix, in
// natural order.
func SectionKeys(names []string, prefix string) []string {
	var out []string
	for _, n := range names {
		if strings.HasPrefix(n, prefix) {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return NaturalLess(out[i], out[j]) })
	return out
}

// sortSections puts the singletons first, in their fixed order, and the rest
// in natural order.
func sortSections(names []string) []string {
	out := append([]string(nil), names...)
	rank := func(n string) int {
		for i, s := range singletons {
			if n == s {
				return i
			}
		}
		return len(singletons)
	}
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := rank(out[i]), rank(out[j])
		if ri != rj {
			return ri < rj
		}
		return NaturalLess(out[i], out[j])
	})
	return out
}

// NaturalLess orders strings with embedded numbers by value, so that
// "Context 2" sorts before "Context 10".
func NaturalLess(a, b string) bool {
	for a != "" && b != "" {
		if isDigit(a[0]) && isDigit(b[0]) {
			na, ra := splitDigits(a)
			nb, rb := splitDigits(b)
			ta, tb := strings.TrimLeft(na, "0"), strings.TrimLeft(nb, "0")
			if len(ta) != len(tb) {
				return len(ta) < len(tb)
			}
			if ta != tb {
				return ta < tb
			}
			if len(na) != len(nb) {
				return len(na) < len(nb)
			}
			a, b = ra, rb
			continue
		}
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		a, b = a[1:], b[1:]
	}
	return len(a) < len(b)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func splitDigits(s string) (string, string) {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return s[:i], s[i:]
}
