package access

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the access service. Callers should use
// [errors.Is] to match against these values.
var (
	// ErrNoAccess is returned when a token or signature does not resolve to
	// a grant, or the grant lacks a required role.
	ErrNoAccess = errors.New("no access")

	// ErrRoleDenied is returned by Evaluate when the grant's role for the
	// context misses a required letter. It wraps ErrNoAccess.
	ErrRoleDenied = fmt.Errorf("%w: role lacks a required grant", ErrNoAccess)

	// ErrNoRelation is returned by Evaluate when the grant, the context, or
	// a role linking them does not exist.
	ErrNoRelation = errors.New("grant has no role in context")

	// ErrNoGrant is returned when an access section does not exist.
	ErrNoGrant = errors.New("access grant does not exist")

	// ErrBadRole is returned for role strings with letters outside the
	// grant vocabulary.
	ErrBadRole = errors.New("invalid role")
)
