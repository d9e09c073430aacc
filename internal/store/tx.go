// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"fmt"

	"github.com/MKhiriev/go-conf-vault/internal/codec"
)

// Tx is a transaction over the document. The outermost write transaction
// holds the store's write lock from Begin until Commit or Close; nested
// transactions created with [Tx.Begin] share it.
//
// A Tx is not safe for concurrent use; it belongs to the goroutine that
// began it.
type Tx struct {
	s        *Store
	parent   *Tx
	pending  int
	closed   bool
	readOnly bool
}

// Begin starts an outermost write transaction. It blocks until every other
// transaction has finished, including one held by the calling goroutine:
// code running inside a transaction nests with [Tx.Begin] instead.
func (s *Store) Begin() *Tx {
	s.mu.Lock()
	return &Tx{s: s}
}

// Begin starts a nested transaction. Its changes are folded into tx on
// Commit; the file is only written by the outermost Commit.
func (tx *Tx) Begin() *Tx {
	return &Tx{s: tx.s, parent: tx, readOnly: tx.readOnly, closed: tx.closed}
}

// Commit ends the transaction. A nested commit hands its pending changes to
// the parent. The outermost commit writes the file when anything changed, or
// when an earlier save failed, and then releases the lock. A failed save is
// returned; the in-memory document keeps the changes.
func (tx *Tx) Commit() error {
	if tx.closed {
		return ErrTxClosed
	}
	tx.closed = true

	if tx.parent != nil {
		tx.parent.pending += tx.pending
		return nil
	}
	if tx.readOnly {
		tx.s.mu.RUnlock()
		return nil
	}

	defer tx.s.mu.Unlock()
	if tx.pending == 0 && !tx.s.unsaved {
		return nil
	}
	return tx.s.persistLocked()
}

// Discard cancels the save requested by this level's changes so far. The
// changes stay in memory and are written by the next save.
func (tx *Tx) Discard() {
	tx.pending = 0
}

// Close commits the transaction if it is still open. It is meant for defer.
func (tx *Tx) Close() error {
	if tx.closed {
		return nil
	}
	return tx.Commit()
}

// release ends an outermost write transaction without saving.
func (tx *Tx) release() {
	if tx.closed {
		return
	}
	tx.closed = true
	if tx.parent == nil {
		tx.s.mu.Unlock()
	}
}

// Update runs fn in a nested transaction. When fn fails or panics the
// document is restored to its state before the call.
func (tx *Tx) Update(fn func(*Tx) error) error {
	if err := tx.writable(); err != nil {
		return err
	}
	snapshot := tx.s.doc.clone()
	child := tx.Begin()
	done := false
	defer func() {
		if !done {
			tx.s.rollback(snapshot)
			child.closed = true
		}
	}()
	if err := fn(child); err != nil {
		return err
	}
	done = true
	return child.Close()
}

// Update runs fn in an outermost write transaction and commits it. When fn
// fails or panics the document is restored, nothing is saved and the lock is
// released.
//
// The lock is not re-entrant: fn must use tx and the *Tx variants of store
// and service methods, never the store-level shortcuts.
func (s *Store) Update(fn func(*Tx) error) error {
	tx := s.Begin()
	snapshot := s.doc.clone()
	done := false
	defer func() {
		if !done {
			s.rollback(snapshot)
			tx.release()
		}
	}()
	if err := fn(tx); err != nil {
		return err
	}
	done = true
	return tx.Close()
}

// View runs fn in a read-only transaction under the read lock.
func (s *Store) View(fn func(*Tx) error) error {
	s.mu.RLock()
	tx := &Tx{s: s, readOnly: true}
	defer tx.Close()
	return fn(tx)
}

func (s *Store) rollback(snapshot *document) {
	s.doc = snapshot
	s.generation.Add(1)
}

func (tx *Tx) writable() error {
	if tx.closed {
		return ErrTxClosed
	}
	if tx.readOnly {
		return ErrReadOnlyTx
	}
	return nil
}

func (tx *Tx) touch() {
	tx.pending++
	tx.s.generation.Add(1)
}

// ── reads ────────────────────────────────────────────────────────────────────

// Lookup returns the decoded value of section/option and whether it exists.
// Private values need the document key: while locked Lookup fails with
// crypto.ErrLocked.
func (tx *Tx) Lookup(section, option string) (any, bool, error) {
	if tx.closed {
		return nil, false, ErrTxClosed
	}
	raw, ok := tx.s.doc.raw(section, option)
	if !ok {
		return nil, false, nil
	}
	v, err := tx.s.decode(raw, false)
	if err != nil {
		return nil, true, fmt.Errorf("%s/%s: %w", section, option, err)
	}
	return v, true, nil
}

// Get returns the value of section/option, or def when it is absent.
func (tx *Tx) Get(section, option string, def any) (any, error) {
	v, ok, err := tx.Lookup(section, option)
	if err != nil {
		return nil, err
	}
	if !ok {
		return def, nil
	}
	return v, nil
}

// GetSealed is Get that never fails on a locked private value: it returns a
// [codec.Sealed] placeholder instead.
func (tx *Tx) GetSealed(section, option string, def any) (any, error) {
	if tx.closed {
		return nil, ErrTxClosed
	}
	raw, ok := tx.s.doc.raw(section, option)
	if !ok {
		return def, nil
	}
	v, err := tx.s.decode(raw, true)
	if err != nil {
		return nil, fmt.Errorf("%s/%s: %w", section, option, err)
	}
	return v, nil
}

// GetString returns a string value or def.
func (tx *Tx) GetString(section, option, def string) (string, error) {
	v, ok, err := tx.Lookup(section, option)
	if err != nil || !ok {
		return def, err
	}
	return codec.AsString(v)
}

// GetInt returns an integer value or def.
func (tx *Tx) GetInt(section, option string, def int64) (int64, error) {
	v, ok, err := tx.Lookup(section, option)
	if err != nil || !ok {
		return def, err
	}
	return codec.AsInt(v)
}

// Has reports whether section/option is present, without decoding it.
func (tx *Tx) Has(section, option string) bool {
	_, ok := tx.s.doc.raw(section, option)
	return ok
}

// HasSection reports whether the section exists.
func (tx *Tx) HasSection(section string) bool {
	return tx.s.doc.hasSection(section)
}

// Sections returns the section names in document order.
func (tx *Tx) Sections() []string {
	return tx.s.doc.sectionNames()
}

// SectionKeys returns the sections starting with prefix in natural order.
func (tx *Tx) SectionKeys(prefix string) []string {
	return SectionKeys(tx.s.doc.sectionNames(), prefix)
}

// Options returns the options of section in document order.
func (tx *Tx) Options(section string) []string {
	return tx.s.doc.options(section)
}

// Raw returns the stored token of section/option.
func (tx *Tx) Raw(section, option string) (string, bool) {
	return tx.s.doc.raw(section, option)
}

// ── writes ───────────────────────────────────────────────────────────────────

// Set stores v under section/option, encrypting it when the policy marks the
// field private. A nil v deletes the option. Private writes while locked fail
// with crypto.ErrLocked. Setting a plain value to what is already stored
// records no change.
func (tx *Tx) Set(section, option string, v any) error {
	if v == nil {
		return tx.Delete(section, option)
	}
	if err := tx.writable(); err != nil {
		return err
	}
	if !ValidSection(section) {
		return fmt.Errorf("%w: %q", ErrUnknownSection, section)
	}

	token, err := tx.s.encode(section, option, v)
	if err != nil {
		return fmt.Errorf("%s/%s: %w", section, option, err)
	}
	if cur, ok := tx.s.doc.raw(section, option); ok && cur == token {
		return nil
	}
	tx.s.doc.put(section, option, token)
	tx.touch()
	return nil
}

// SetPrivate marks section/option private and stores v encrypted.
func (tx *Tx) SetPrivate(section, option string, v any) error {
	if err := tx.writable(); err != nil {
		return err
	}
	tx.s.policy.MarkPrivate(section, option)
	return tx.Set(section, option, v)
}

// Delete removes section/option. Deleting a missing option is a no-op.
func (tx *Tx) Delete(section, option string) error {
	if err := tx.writable(); err != nil {
		return err
	}
	if tx.s.doc.del(section, option) {
		tx.touch()
	}
	return nil
}

// EnsureSection creates an empty section. Empty sections are not persisted.
func (tx *Tx) EnsureSection(section string) error {
	if err := tx.writable(); err != nil {
		return err
	}
	if !ValidSection(section) {
		return fmt.Errorf("%w: %q", ErrUnknownSection, section)
	}
	tx.s.doc.ensureSection(section)
	return nil
}

// PutRaw stores an already encoded token, bypassing the policy. The key
// manager uses it for fields it encrypts itself.
func (tx *Tx) PutRaw(section, option, token string) error {
	if err := tx.writable(); err != nil {
		return err
	}
	if !ValidSection(section) {
		return fmt.Errorf("%w: %q", ErrUnknownSection, section)
	}
	if cur, ok := tx.s.doc.raw(section, option); ok && cur == token {
		return nil
	}
	tx.s.doc.put(section, option, token)
	tx.touch()
	return nil
}

// DeleteRaw is Delete for the key manager.
func (tx *Tx) DeleteRaw(section, option string) error {
	return tx.Delete(section, option)
}
