// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package access

import (
	"fmt"
	"strings"
)

// Grant letters. A role is an unordered set of them.
const (
	GrantAll         = 'A'
	GrantAccess      = 'a'
	GrantFiles       = 'F'
	GrantNetwork     = 'N'
	GrantTagEdit     = 'T'
	GrantTagRW       = 't'
	GrantContactsAll = 'P'
	GrantContacts    = 'p'
	GrantCalendarAll = 'E'
	GrantCalendar    = 'e'
	GrantSend        = 'x'
	GrantCompose     = 'w'
	GrantRead        = 'r'
)

// Letters holds every valid grant letter.
const Letters = "AaFNTtPpEexwr"

// Role presets.
var Presets = map[string]string{
	"owner": "A",
	"admin": "aPpEeTtrwx",
	"user":  "PpEeTtrwx",
	"guest": "rcp",
}

// ParseRole resolves a preset name or validates a string of grant letters.
// Repeated letters are dropped.
//
// The guest preset carries a 'c' letter that is not part of the vocabulary;
// presets are accepted as they are.
func ParseRole(role string) (string, error) {
	if letters, ok := Presets[role]; ok {
		return letters, nil
	}
	if role == "" {
		return "", fmt.Errorf("%w: empty", ErrBadRole)
	}
	seen := make(map[rune]bool, len(role))
	var out []rune
	for _, r := range role {
		if !strings.ContainsRune(Letters, r) {
			return "", fmt.Errorf("%w: unknown letter %q", ErrBadRole, r)
		}
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	return string(out), nil
}

// Allows reports whether role holds every letter of required. The all
// letter allows everything.
func Allows(role, required string) bool {
	if strings.ContainsRune(role, GrantAll) {
		return true
	}
	for _, r := range required {
		if !strings.ContainsRune(role, r) {
			return false
		}
	}
	return true
}
