// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package store keeps the configuration document in memory, encrypts the
// fields its policy marks private, and persists the document atomically with
// a rolling set of backups.
//
// All access goes through transactions. A write transaction holds the
// store's write lock until the outermost Commit; nested transactions share
// it and fold their pending changes into the parent, so the file is written
// once per outermost transaction.
package store

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"sync/atomic"

	"github.com/MKhiriev/go-conf-vault/internal/clock"
	"github.com/MKhiriev/go-conf-vault/internal/codec"
	"github.com/MKhiriev/go-conf-vault/internal/config"
	"github.com/MKhiriev/go-conf-vault/internal/crypto"
	"github.com/MKhiriev/go-conf-vault/internal/logger"
)

// LogLevelOption is the App option holding the numeric log level.
const LogLevelOption = "log_level"

// Initial App settings, written into a document that lacks them. They do not
// on their own cause the file to be saved.
var initialSettings = []struct {
	option string
	value  any
}{
	{"config_backups", int64(10)},
	{"default_cli_context", "Context 0"},
	{LogLevelOption, int64(40)},
}

// Store is the encrypted configuration document.
type Store struct {
	mu      sync.RWMutex
	doc     *document
	unsaved bool

	path       string
	cfg        config.Store
	policy     *Policy
	manager    *crypto.KeyManager
	clock      clock.Clock
	logger     *logger.Logger
	generation atomic.Uint64
}

// Option customizes [Open].
type Option func(*options)

type options struct {
	clock    clock.Clock
	keychain crypto.KeyChainService
	policy   *Policy
}

// WithClock replaces the wall clock. Tests use [clock.Fake].
func WithClock(c clock.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithKeyChain replaces the key material service built from the crypto
// config.
func WithKeyChain(k crypto.KeyChainService) Option {
	return func(o *options) { o.keychain = k }
}

// WithPolicy shares a privacy policy between stores.
func WithPolicy(p *Policy) Option {
	return func(o *options) { o.policy = p }
}

// Open loads the document at cfg.Store.Path(), creating the profile
// directory when needed. A missing file yields an empty document.
//
// When the document stores a plaintext Secrets/passphrase the store unlocks
// itself with it. This mode trades security for convenience and is only as
// safe as the file's permissions.
func Open(cfg *config.StructuredConfig, log *logger.Logger, opts ...Option) (*Store, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.clock == nil {
		o.clock = clock.Real()
	}
	if o.keychain == nil {
		o.keychain = crypto.NewKeyChainService(crypto.Params{
			ScryptN: cfg.Crypto.ScryptN,
			ScryptR: cfg.Crypto.ScryptR,
			ScryptP: cfg.Crypto.ScryptP,
		})
	}
	if o.policy == nil {
		o.policy = NewPolicy()
	}
	if log == nil {
		log = logger.Nop()
	}

	log.Info().Str("path", cfg.Store.Path()).Msg("opening configuration...")

	if err := os.MkdirAll(cfg.Store.ProfileDir, 0o700); err != nil {
		return nil, fmt.Errorf("create profile dir: %w", err)
	}

	doc, err := loadDocument(cfg.Store.Path(), log)
	if err != nil {
		return nil, err
	}

	nonces, err := crypto.NewNonceSource(o.clock.Now())
	if err != nil {
		return nil, err
	}

	s := &Store{
		doc:     doc,
		path:    cfg.Store.Path(),
		cfg:     cfg.Store,
		policy:  o.policy,
		manager: crypto.NewKeyManager(o.keychain, crypto.NewKeyring(nonces), o.clock, cfg.Crypto.MasterKeyLimit),
		clock:   o.clock,
		logger:  log,
	}

	for _, setting := range initialSettings {
		if _, ok := s.doc.raw(AppSection, setting.option); !ok {
			s.doc.put(AppSection, setting.option, codec.MustEncode(setting.value))
		}
	}

	if err := s.autoUnlock(); err != nil {
		log.Warn().Err(err).Msg("auto-unlock with stored passphrase failed")
	}

	return s, nil
}

func loadDocument(path string, log *logger.Logger) (*document, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Info().Msg("no configuration file yet, starting empty")
		return newDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read configuration: %w", err)
	}

	doc, stray, err := parseDocument(data)
	if err != nil {
		return nil, err
	}
	if len(stray) > 0 {
		log.Warn().Strs("options", stray).Msg("ignoring options outside any section")
	}
	for _, name := range doc.sectionNames() {
		if !ValidSection(name) {
			log.Warn().Str("section", name).Msg("keeping unknown section")
		}
	}
	return doc, nil
}

func (s *Store) autoUnlock() error {
	raw, ok := s.doc.raw(SecretsSection, crypto.PassphraseOption)
	if !ok || codec.IsPrivate(raw) {
		return nil
	}
	v, err := codec.Decode(raw)
	if err != nil {
		return err
	}
	passphrase, err := codec.AsString(v)
	if err != nil {
		return err
	}
	return s.Unlock(passphrase)
}

// Path returns the document's file path.
func (s *Store) Path() string {
	return s.path
}

// Policy returns the store's privacy policy.
func (s *Store) Policy() *Policy {
	return s.policy
}

// Clock returns the store's clock.
func (s *Store) Clock() clock.Clock {
	return s.clock
}

// Logger returns the store's logger.
func (s *Store) Logger() *logger.Logger {
	return s.logger
}

// Generation returns a counter bumped on every mutation of the document.
// Readers use it to invalidate derived caches.
func (s *Store) Generation() uint64 {
	return s.generation.Load()
}

// MarkPrivate registers section/option as private for all future writes.
func (s *Store) MarkPrivate(section, option string) {
	s.policy.MarkPrivate(section, option)
}

// Persist writes the document now, regardless of pending changes.
func (s *Store) Persist() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked()
}

// persistLocked rotates backups and writes the document. The caller holds
// the write lock.
func (s *Store) persistLocked() error {
	var buf bytes.Buffer
	if err := renderDocument(s.doc, &buf); err != nil {
		s.unsaved = true
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}

	s.rotateBackups()

	if err := writeFileAtomic(s.path, buf.Bytes(), s.clock.Now()); err != nil {
		s.unsaved = true
		s.logger.Error().Err(err).Str("path", s.path).Msg("saving configuration failed")
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}

	s.unsaved = false
	s.logger.Debug().Str("path", s.path).Msg("configuration saved")
	return nil
}

// decode turns a stored token into a value. Private tokens need the document
// key; without it strict reads fail with crypto.ErrLocked and sealed reads
// return a [codec.Sealed] placeholder.
func (s *Store) decode(token string, sealed bool) (any, error) {
	if !codec.IsPrivate(token) {
		return codec.Decode(token)
	}
	if !s.manager.Keyring().Unlocked() && sealed {
		return codec.Sealed(token), nil
	}
	return s.manager.Keyring().Open(token)
}

// encode turns a value into a token for section/option, encrypting it when
// the policy says so or when the stored value is already private.
func (s *Store) encode(section, option string, v any) (string, error) {
	private := s.policy.IsPrivate(section, option)
	if !private {
		if cur, ok := s.doc.raw(section, option); ok && codec.IsPrivate(cur) {
			private = true
		}
	}
	if private {
		return s.manager.Keyring().Seal(v)
	}
	return codec.Encode(v)
}
