// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package access manages the access grants kept in the "Access N" sections:
// per-context roles, bearer tokens and token signatures.
package access

import (
	"crypto/rand"
	"encoding/base32"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-conf-vault/internal/config"
	"github.com/MKhiriev/go-conf-vault/internal/logger"
	"github.com/MKhiriev/go-conf-vault/internal/schema"
	"github.com/MKhiriev/go-conf-vault/internal/store"
	"github.com/MKhiriev/go-conf-vault/internal/utils"
)

// AccessZero is the grant used for local access.
const AccessZero = store.AccessPrefix + "0"

// tokenBytes is the amount of randomness in a token (80 bits).
const tokenBytes = 10

// Decision is the outcome of a successful [Service.Evaluate].
type Decision struct {
	Role         string
	TagNamespace string
	Scope        string
}

type cachedToken struct {
	grant  string
	issued int64
}

// Service reads and writes access grants through the store.
//
// Each method runs in its own transaction. Code that already holds a
// transaction uses the matching *Tx method instead: the store lock is not
// re-entrant.
type Service struct {
	store  *store.Store
	ttl    time.Duration
	logger *logger.Logger

	// mu guards the token index. Lock order: store lock first, then mu.
	mu       sync.Mutex
	cache    map[string]cachedToken
	cacheGen uint64
}

// NewService returns an access service over s. Tokens older than
// cfg.TokenTTL are dropped on resolution.
func NewService(s *store.Store, cfg config.Access, log *logger.Logger) *Service {
	if log == nil {
		log = s.Logger()
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = config.Default().Access.TokenTTL
	}
	return &Service{
		store:  s,
		ttl:    ttl,
		logger: log.WithComponent("access"),
	}
}

// TTL returns the default token lifetime.
func (svc *Service) TTL() time.Duration {
	return svc.ttl
}

func (svc *Service) now() time.Time {
	return svc.store.Clock().Now()
}

// CreateGrant adds a grant in the first free "Access N" section, N >= 1.
// Role values may be preset names.
func (svc *Service) CreateGrant(name string, roles map[string]string) (*Grant, error) {
	var g *Grant
	err := svc.store.Update(func(tx *store.Tx) error {
		var err error
		g, err = svc.CreateGrantTx(tx, name, roles)
		return err
	})
	return g, err
}

// CreateGrantTx is CreateGrant inside tx.
func (svc *Service) CreateGrantTx(tx *store.Tx, name string, roles map[string]string) (*Grant, error) {
	parsed, err := parseRoles(roles)
	if err != nil {
		return nil, err
	}

	key := ""
	for i := 1; ; i++ {
		key = fmt.Sprintf("%s%d", store.AccessPrefix, i)
		if !tx.HasSection(key) {
			break
		}
	}
	g := &Grant{Key: key, Name: name, Roles: parsed, Tokens: map[string]int64{}}
	if err := saveGrant(tx, g); err != nil {
		return nil, err
	}
	svc.logger.Info().Str("grant", g.Key).Str("name", name).Msg("access grant created")
	return g, nil
}

// Grant returns the grant stored in section key.
func (svc *Service) Grant(key string) (*Grant, error) {
	var g *Grant
	err := svc.store.View(func(tx *store.Tx) error {
		var err error
		g, err = svc.GrantTx(tx, key)
		return err
	})
	return g, err
}

// GrantTx is Grant inside tx.
func (svc *Service) GrantTx(tx *store.Tx, key string) (*Grant, error) {
	return loadGrant(tx, key)
}

// Grants returns every grant in natural section order.
func (svc *Service) Grants() ([]*Grant, error) {
	var out []*Grant
	err := svc.store.View(func(tx *store.Tx) error {
		var err error
		out, err = svc.GrantsTx(tx)
		return err
	})
	return out, err
}

// GrantsTx is Grants inside tx.
func (svc *Service) GrantsTx(tx *store.Tx) ([]*Grant, error) {
	var out []*Grant
	for _, key := range tx.SectionKeys(store.AccessPrefix) {
		g, err := loadGrant(tx, key)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}

// SetRole sets the grant's role in context. An empty role removes it.
func (svc *Service) SetRole(key, context, role string) error {
	return svc.store.Update(func(tx *store.Tx) error {
		return svc.SetRoleTx(tx, key, context, role)
	})
}

// SetRoleTx is SetRole inside tx.
func (svc *Service) SetRoleTx(tx *store.Tx, key, context, role string) error {
	if role != "" {
		var err error
		if role, err = ParseRole(role); err != nil {
			return err
		}
	}
	return modifyTx(tx, key, func(g *Grant) error {
		if role == "" {
			delete(g.Roles, context)
		} else {
			g.Roles[context] = role
		}
		return nil
	})
}

// IssueToken mints a new token for the grant, recording the current time as
// its issue time. Live tokens are not limited in number.
func (svc *Service) IssueToken(key string) (string, error) {
	var token string
	err := svc.store.Update(func(tx *store.Tx) error {
		var err error
		token, err = svc.IssueTokenTx(tx, key)
		return err
	})
	return token, err
}

// IssueTokenTx is IssueToken inside tx.
func (svc *Service) IssueTokenTx(tx *store.Tx, key string) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}
	issued := svc.now().Unix()
	err = modifyTx(tx, key, func(g *Grant) error {
		g.Tokens[token] = issued
		return nil
	})
	if err != nil {
		return "", err
	}
	svc.logger.Debug().Str("grant", key).Msg("token issued")
	return token, nil
}

// FreshestToken returns the grant's newest token with its issue time. When
// that token has less than ttl/2 of its life left, or there is none, a new
// one is issued instead. A zero ttl means the service default.
//
// The check and the issue happen in one transaction, so concurrent callers
// share a single new token.
func (svc *Service) FreshestToken(key string, ttl time.Duration) (string, time.Time, error) {
	var (
		token  string
		issued time.Time
	)
	err := svc.store.Update(func(tx *store.Tx) error {
		var err error
		token, issued, err = svc.FreshestTokenTx(tx, key, ttl)
		return err
	})
	if err != nil {
		return "", time.Time{}, err
	}
	return token, issued, nil
}

// FreshestTokenTx is FreshestToken inside tx.
func (svc *Service) FreshestTokenTx(tx *store.Tx, key string, ttl time.Duration) (string, time.Time, error) {
	if ttl <= 0 {
		ttl = svc.ttl
	}
	g, err := loadGrant(tx, key)
	if err != nil {
		return "", time.Time{}, err
	}

	now := svc.now()
	if tokens := g.TokenList(); len(tokens) > 0 {
		newest := tokens[0]
		issued := time.Unix(g.Tokens[newest], 0)
		if issued.Add(ttl).Sub(now) >= ttl/2 {
			return newest, issued, nil
		}
	}

	token, err := svc.IssueTokenTx(tx, key)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, time.Unix(now.Unix(), 0), nil
}

// ExpireTokens removes the grant's tokens issued more than maxAge ago and
// returns how many were removed.
func (svc *Service) ExpireTokens(key string, maxAge time.Duration) (int, error) {
	var removed int
	err := svc.store.Update(func(tx *store.Tx) error {
		var err error
		removed, err = svc.ExpireTokensTx(tx, key, maxAge)
		return err
	})
	return removed, err
}

// ExpireTokensTx is ExpireTokens inside tx.
func (svc *Service) ExpireTokensTx(tx *store.Tx, key string, maxAge time.Duration) (int, error) {
	removed := 0
	err := modifyTx(tx, key, func(g *Grant) error {
		removed = expire(g, svc.now(), maxAge)
		return nil
	})
	return removed, err
}

// RevokeToken removes token from the grant. Revoking an unknown token is a
// no-op.
func (svc *Service) RevokeToken(key, token string) error {
	return svc.store.Update(func(tx *store.Tx) error {
		return svc.RevokeTokenTx(tx, key, token)
	})
}

// RevokeTokenTx is RevokeToken inside tx.
func (svc *Service) RevokeTokenTx(tx *store.Tx, key, token string) error {
	return modifyTx(tx, key, func(g *Grant) error {
		delete(g.Tokens, token)
		return nil
	})
}

// Resolve returns the grant that owns token. The token index is rebuilt
// whenever the document changed since it was last built; the rebuild first
// drops tokens older than the service TTL from every grant.
func (svc *Service) Resolve(token string) (*Grant, error) {
	if svc.indexStale() {
		if err := svc.store.Update(svc.refreshIndex); err != nil {
			return nil, err
		}
	}
	var g *Grant
	err := svc.store.View(func(tx *store.Tx) error {
		var err error
		g, err = svc.lookup(tx, token)
		return err
	})
	return g, err
}

// ResolveTx is Resolve inside tx. Rebuilding a stale index writes, so tx
// must be writable unless the index is current.
func (svc *Service) ResolveTx(tx *store.Tx, token string) (*Grant, error) {
	if svc.indexStale() {
		if err := tx.Update(svc.refreshIndex); err != nil {
			return nil, err
		}
	}
	return svc.lookup(tx, token)
}

func (svc *Service) indexStale() bool {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return svc.cache == nil || svc.cacheGen != svc.store.Generation()
}

// refreshIndex rebuilds the token index from tx unless another caller
// already did.
func (svc *Service) refreshIndex(tx *store.Tx) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	if svc.cache != nil && svc.cacheGen == svc.store.Generation() {
		return nil
	}

	cache := make(map[string]cachedToken)
	now := svc.now()
	for _, key := range tx.SectionKeys(store.AccessPrefix) {
		g, err := loadGrant(tx, key)
		if err != nil {
			return err
		}
		if n := expire(g, now, svc.ttl); n > 0 {
			svc.logger.Info().Str("grant", key).Int("tokens", n).Msg("expired stale tokens")
			if err := saveGrant(tx, g); err != nil {
				return err
			}
		}
		for t, issued := range g.Tokens {
			cache[t] = cachedToken{grant: key, issued: issued}
		}
	}
	svc.cache = cache
	svc.cacheGen = svc.store.Generation()
	return nil
}

func (svc *Service) lookup(tx *store.Tx, token string) (*Grant, error) {
	svc.mu.Lock()
	entry, ok := svc.cache[token]
	svc.mu.Unlock()

	if !ok || svc.now().Unix() > entry.issued+int64(svc.ttl/time.Second) {
		svc.logger.Debug().Msg("token does not resolve to a grant")
		return nil, ErrNoAccess
	}
	g, err := loadGrant(tx, entry.grant)
	if errors.Is(err, ErrNoGrant) {
		return nil, ErrNoAccess
	}
	return g, err
}

// Evaluate checks that the grant's role in context holds every letter of
// required. It fails with ErrNoRelation when the grant, the context or the
// role is missing, and with ErrRoleDenied when a letter is missing.
//
// The scope is the context's tags as "in:t1 +in:t2" followed by its
// scope_search. A scope_search applied to a context without tags that starts
// with a negation is based on "all:mail" instead.
func (svc *Service) Evaluate(key, context, required string) (*Decision, error) {
	var d *Decision
	err := svc.store.View(func(tx *store.Tx) error {
		var err error
		d, err = svc.EvaluateTx(tx, key, context, required)
		return err
	})
	return d, err
}

// EvaluateTx is Evaluate inside tx.
func (svc *Service) EvaluateTx(tx *store.Tx, key, context, required string) (*Decision, error) {
	g, err := loadGrant(tx, key)
	if errors.Is(err, ErrNoGrant) {
		return nil, fmt.Errorf("%w: %s", ErrNoRelation, key)
	}
	if err != nil {
		return nil, err
	}
	role, ok := g.Roles[context]
	if !ok || role == "" {
		return nil, fmt.Errorf("%w: %s in %s", ErrNoRelation, key, context)
	}
	ctx, err := schema.LoadContext(tx, context)
	if errors.Is(err, schema.ErrNoContext) {
		return nil, fmt.Errorf("%w: %s", ErrNoRelation, context)
	}
	if err != nil {
		return nil, err
	}
	if !Allows(role, required) {
		return nil, fmt.Errorf("%w: %s has %q in %s, needs %q", ErrRoleDenied, key, role, context, required)
	}
	return &Decision{
		Role:         role,
		TagNamespace: ctx.TagNamespace,
		Scope:        scope(ctx),
	}, nil
}

func scope(ctx *schema.Context) string {
	parts := make([]string, len(ctx.Tags))
	for i, t := range ctx.Tags {
		parts[i] = "+in:" + strings.ToLower(t)
	}
	s := strings.Join(parts, " ")
	if s != "" {
		s = s[1:]
	}
	if ctx.ScopeSearch != "" {
		s += " " + ctx.ScopeSearch
		if strings.HasPrefix(s, " -") {
			s = "all:mail" + s
		}
	}
	return strings.TrimSpace(s)
}

// Sign returns the signature of parts under token.
func Sign(token string, parts ...string) string {
	return utils.HashParts(token, parts...)
}

// Verify finds the grant's token that produced signature over parts and
// returns it. It fails with ErrNoAccess when no token matches.
func (svc *Service) Verify(key, signature string, parts ...string) (string, error) {
	var token string
	err := svc.store.View(func(tx *store.Tx) error {
		var err error
		token, err = svc.VerifyTx(tx, key, signature, parts...)
		return err
	})
	return token, err
}

// VerifyTx is Verify inside tx.
func (svc *Service) VerifyTx(tx *store.Tx, key, signature string, parts ...string) (string, error) {
	g, err := loadGrant(tx, key)
	if errors.Is(err, ErrNoGrant) {
		return "", ErrNoAccess
	}
	if err != nil {
		return "", err
	}
	for _, token := range g.TokenList() {
		if utils.EqualHashes(signature, Sign(token, parts...)) {
			return token, nil
		}
	}
	svc.logger.Warn().Str("grant", key).Msg("bad signature")
	return "", ErrNoAccess
}

// EnsureAccessZero sets up the local access grant: full access to every
// context, creating the default context when there is none. The changes are
// kept in memory only and do not on their own cause a save.
func (svc *Service) EnsureAccessZero() (*Grant, error) {
	var g *Grant
	err := svc.store.Update(func(tx *store.Tx) error {
		var err error
		g, err = svc.EnsureAccessZeroTx(tx)
		return err
	})
	return g, err
}

// EnsureAccessZeroTx is EnsureAccessZero inside tx.
func (svc *Service) EnsureAccessZeroTx(tx *store.Tx) (*Grant, error) {
	var g *Grant
	err := tx.Update(func(tx *store.Tx) error {
		if len(schema.ContextKeys(tx)) == 0 {
			if err := schema.EnsureContextZero(tx); err != nil {
				return err
			}
		}
		existing, err := loadGrant(tx, AccessZero)
		switch {
		case errors.Is(err, ErrNoGrant):
			existing = &Grant{Key: AccessZero, Roles: map[string]string{}, Tokens: map[string]int64{}}
		case err != nil:
			return err
		}
		existing.Name = "Local access"
		for _, ctx := range schema.ContextKeys(tx) {
			existing.Roles[ctx] = string(GrantAll)
		}
		child := tx.Begin()
		defer child.Close()
		defer child.Discard()
		if err := saveGrant(child, existing); err != nil {
			return err
		}
		g = existing
		return nil
	})
	return g, err
}

func modifyTx(tx *store.Tx, key string, fn func(*Grant) error) error {
	return tx.Update(func(tx *store.Tx) error {
		g, err := loadGrant(tx, key)
		if err != nil {
			return err
		}
		if err := fn(g); err != nil {
			return err
		}
		return saveGrant(tx, g)
	})
}

func expire(g *Grant, now time.Time, maxAge time.Duration) int {
	cutoff := now.Add(-maxAge).Unix()
	removed := 0
	for t, issued := range g.Tokens {
		if issued < cutoff {
			delete(g.Tokens, t)
			removed++
		}
	}
	return removed
}

func parseRoles(roles map[string]string) (map[string]string, error) {
	out := make(map[string]string, len(roles))
	for ctx, role := range roles {
		letters, err := ParseRole(role)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ctx, err)
		}
		out[ctx] = letters
	}
	return out, nil
}

func newToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return base32.StdEncoding.EncodeToString(buf), nil
}
