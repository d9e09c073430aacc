package store

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/MKhiriev/go-conf-vault/internal/clock"
	"github.com/MKhiriev/go-conf-vault/internal/codec"
	"github.com/MKhiriev/go-conf-vault/internal/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_EmptyProfileHasInitialSettings(t *testing.T) {
	cfg := testConfig(t)
	s := openTestStore(t, cfg, clock.NewFake(testStart))

	v, err := s.Get(AppSection, "config_backups", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(10), v)

	v, err = s.Get(AppSection, "default_cli_context", nil)
	require.NoError(t, err)
	assert.Equal(t, "Context 0", v)

	v, err = s.Get(AppSection, "log_level", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(40), v)

	assert.False(t, fileExists(s.Path()), "initial settings alone do not save")
	assert.False(t, s.Unlocked())
	assert.False(t, s.HasCryptoEnabled())
}

func TestStore_SetPersistsAndReloads(t *testing.T) {
	cfg := testConfig(t)
	s := openTestStore(t, cfg, clock.NewFake(testStart))

	require.NoError(t, s.Set("Context 1", "name", "Work"))
	require.NoError(t, s.Set("Context 1", "tags", []string{"inbox", "work"}))

	info, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	assert.Equal(t, testStart.Unix(), info.ModTime().Unix())

	again := openTestStore(t, cfg, clock.NewFake(testStart))
	v, err := again.Get("Context 1", "name", nil)
	require.NoError(t, err)
	assert.Equal(t, "Work", v)

	v, err = again.Get("Context 1", "tags", nil)
	require.NoError(t, err)
	assert.Equal(t, []any{"inbox", "work"}, v)
}

func TestStore_GetDefaultAndDelete(t *testing.T) {
	s := openTestStore(t, testConfig(t), clock.NewFake(testStart))

	v, err := s.Get("Context 1", "missing", "fallback")
	require.NoError(t, err)
	assert.Equal(t, "fallback", v)

	require.NoError(t, s.Set("Context 1", "name", "x"))
	require.NoError(t, s.Set("Context 1", "name", nil))

	v, err = s.Get("Context 1", "name", "gone")
	require.NoError(t, err)
	assert.Equal(t, "gone", v)
	assert.NotContains(t, readFile(t, s.Path()), "[Context 1]")
}

func TestStore_UnknownSection(t *testing.T) {
	s := openTestStore(t, testConfig(t), clock.NewFake(testStart))

	err := s.Set("Mailbox 1", "path", "/tmp")
	assert.ErrorIs(t, err, ErrUnknownSection)
}

func TestStore_UnsupportedType(t *testing.T) {
	s := openTestStore(t, testConfig(t), clock.NewFake(testStart))

	err := s.Set("App", "weird", 3.5)
	assert.ErrorIs(t, err, codec.ErrUnsupportedType)
}

func TestStore_PrivateFieldsNeedKey(t *testing.T) {
	cfg := testConfig(t)
	s := openTestStore(t, cfg, clock.NewFake(testStart))

	err := s.Set("Account 1", "mailbox_password", "hunter2")
	assert.ErrorIs(t, err, crypto.ErrLocked)

	require.NoError(t, s.Unlock("pw"))
	require.NoError(t, s.Set("Account 1", "mailbox_password", "hunter2"))

	text := readFile(t, s.Path())
	assert.NotContains(t, text, "hunter2")
	assert.Contains(t, text, "mailbox_password")

	v, err := s.Get("Account 1", "mailbox_password", nil)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", v)

	s.Lock()
	_, err = s.Get("Account 1", "mailbox_password", nil)
	assert.ErrorIs(t, err, crypto.ErrLocked)

	sealed, err := s.GetSealed("Account 1", "mailbox_password", nil)
	require.NoError(t, err)
	assert.IsType(t, codec.Sealed(""), sealed)
	assert.Equal(t, "(encrypted)", sealed.(codec.Sealed).String())
}

func TestStore_SetPrivateMarksPolicy(t *testing.T) {
	s := openTestStore(t, testConfig(t), clock.NewFake(testStart))
	require.NoError(t, s.Unlock("pw"))

	require.NoError(t, s.SetPrivate("Identity 1", "signature", "-- me"))

	assert.True(t, s.Policy().IsPrivate("Identity 2", "signature"))
	raw := ""
	require.NoError(t, s.View(func(tx *Tx) error {
		raw, _ = tx.Raw("Identity 1", "signature")
		return nil
	}))
	assert.True(t, codec.IsPrivate(raw))
}

func TestStore_PrivateStaysPrivate(t *testing.T) {
	s := openTestStore(t, testConfig(t), clock.NewFake(testStart))
	require.NoError(t, s.Unlock("pw"))
	require.NoError(t, s.SetPrivate("Identity 1", "signature", "-- me"))

	// a fresh policy without the hint still keeps the stored value encrypted
	s.policy = NewPolicy()
	require.NoError(t, s.Set("Identity 1", "signature", "-- you"))

	require.NoError(t, s.View(func(tx *Tx) error {
		raw, _ := tx.Raw("Identity 1", "signature")
		assert.True(t, codec.IsPrivate(raw))
		return nil
	}))
}

func TestStore_UnlockIsIdempotent(t *testing.T) {
	clk := clock.NewFake(testStart)
	s := openTestStore(t, testConfig(t), clk)

	require.NoError(t, s.Unlock("pw"))
	assert.True(t, s.HasCryptoEnabled())
	before := readFile(t, s.Path())
	gen := s.Generation()

	clk.Advance(time.Hour)
	require.NoError(t, s.Unlock("pw"))

	assert.Equal(t, before, readFile(t, s.Path()))
	assert.Equal(t, gen, s.Generation())
	info, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.Equal(t, testStart.Unix(), info.ModTime().Unix(), "no save on repeated unlock")
}

func TestStore_WrongPassphraseChangesNothing(t *testing.T) {
	cfg := testConfig(t)
	s := openTestStore(t, cfg, clock.NewFake(testStart))
	require.NoError(t, s.Unlock("pw"))
	before := readFile(t, s.Path())

	fresh := openTestStore(t, cfg, clock.NewFake(testStart))
	err := fresh.Unlock("wrong")
	assert.ErrorIs(t, err, crypto.ErrWrongPassphrase)
	assert.False(t, fresh.Unlocked())
	assert.Equal(t, before, readFile(t, s.Path()))

	// wrong passphrase after a successful unlock keeps the key
	err = s.Unlock("wrong")
	assert.ErrorIs(t, err, crypto.ErrWrongPassphrase)
	assert.True(t, s.Unlocked())
}

func TestStore_RotateMasterKeyAppends(t *testing.T) {
	clk := clock.NewFake(testStart)
	s := openTestStore(t, testConfig(t), clk)

	_, err := s.RotateMasterKey()
	assert.ErrorIs(t, err, crypto.ErrLocked)

	require.NoError(t, s.Unlock("pw"))
	first, err := s.MasterKeys()
	require.NoError(t, err)
	require.Len(t, first, 1)

	clk.Advance(time.Minute)
	gen, err := s.RotateMasterKey()
	require.NoError(t, err)
	assert.Equal(t, 1, gen)

	clk.Advance(time.Minute)
	gen, err = s.RotateMasterKey()
	require.NoError(t, err)
	assert.Equal(t, 2, gen)

	keys, err := s.MasterKeys()
	require.NoError(t, err)
	require.Len(t, keys, 3)
	assert.Equal(t, first[0], keys[0])

	v, err := s.Get(SecretsSection, "last_key_rotation", nil)
	require.NoError(t, err)
	assert.Equal(t, clk.Now().Unix(), v)
}

func TestStore_ChangePassphrase(t *testing.T) {
	cfg := testConfig(t)
	s := openTestStore(t, cfg, clock.NewFake(testStart))
	require.NoError(t, s.Unlock("old"))
	require.NoError(t, s.Set("Account 1", "mailbox_password", "imap-secret"))
	keys, err := s.MasterKeys()
	require.NoError(t, err)

	require.NoError(t, s.ChangePassphrase("new"))

	v, err := s.Get("Account 1", "mailbox_password", nil)
	require.NoError(t, err)
	assert.Equal(t, "imap-secret", v)

	reopened := openTestStore(t, cfg, clock.NewFake(testStart))
	assert.ErrorIs(t, reopened.Unlock("old"), crypto.ErrWrongPassphrase)
	require.NoError(t, reopened.Unlock("new"))

	v, err = reopened.Get("Account 1", "mailbox_password", nil)
	require.NoError(t, err)
	assert.Equal(t, "imap-secret", v)

	after, err := reopened.MasterKeys()
	require.NoError(t, err)
	assert.Equal(t, keys, after)
}

func TestStore_ChangePassphraseLocked(t *testing.T) {
	s := openTestStore(t, testConfig(t), clock.NewFake(testStart))

	assert.ErrorIs(t, s.ChangePassphrase("new"), crypto.ErrLocked)
}

func TestStore_AutoUnlockWithStoredPassphrase(t *testing.T) {
	cfg := testConfig(t)
	s := openTestStore(t, cfg, clock.NewFake(testStart))
	require.NoError(t, s.Set(SecretsSection, "passphrase", "auto"))
	assert.False(t, s.Unlocked())

	reopened := openTestStore(t, cfg, clock.NewFake(testStart))
	assert.True(t, reopened.Unlocked())
	keys, err := reopened.MasterKeys()
	require.NoError(t, err)
	assert.Len(t, keys, 1)
}

func TestStore_SnapshotRestore(t *testing.T) {
	src := openTestStore(t, testConfig(t), clock.NewFake(testStart))
	_, _, err := src.Snapshot()
	assert.ErrorIs(t, err, crypto.ErrLocked)

	require.NoError(t, src.Unlock("pw"))
	require.NoError(t, src.Set("Account 1", "mailbox_password", "secret"))
	require.NoError(t, src.Set("Context 1", "name", "Work"))

	data, key, err := src.Snapshot()
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")

	dst := openTestStore(t, testConfig(t), clock.NewFake(testStart))
	assert.ErrorIs(t, dst.Restore(data, make([]byte, 32)), ErrInvalidSnapshot)
	assert.ErrorIs(t, dst.Restore([]byte("[App\n"), key), ErrInvalidSnapshot)

	require.NoError(t, dst.Restore(data, key))
	assert.True(t, dst.Unlocked())

	v, err := dst.Get("Account 1", "mailbox_password", nil)
	require.NoError(t, err)
	assert.Equal(t, "secret", v)
	assert.Contains(t, readFile(t, dst.Path()), "[Context 1]")

	// the restored document still opens with its original passphrase
	require.NoError(t, dst.Unlock("pw"))
}

func TestStore_UnlockWithDocumentKey(t *testing.T) {
	cfg := testConfig(t)
	src := openTestStore(t, cfg, clock.NewFake(testStart))
	require.NoError(t, src.Unlock("pw"))
	_, key, err := src.Snapshot()
	require.NoError(t, err)

	other := openTestStore(t, cfg, clock.NewFake(testStart))
	err = other.UnlockWithDocumentKey(make([]byte, 32))
	assert.ErrorIs(t, err, crypto.ErrWrongPassphrase)
	assert.False(t, other.Unlocked())

	require.NoError(t, other.UnlockWithDocumentKey(key))
	assert.True(t, other.Unlocked())
}

func TestStore_SectionsAndOptions(t *testing.T) {
	s := openTestStore(t, testConfig(t), clock.NewFake(testStart))
	require.NoError(t, s.Set("Context 1", "name", "a"))
	require.NoError(t, s.Set("Context 1", "description", "b"))

	assert.Contains(t, s.Sections(), "Context 1")
	assert.Equal(t, []string{"name", "description"}, s.Options("Context 1"))
	assert.True(t, strings.HasPrefix(s.Sections()[0], "App"))
}

func TestStore_KeyOperationsShareOneTransaction(t *testing.T) {
	cfg := testConfig(t)
	s := openTestStore(t, cfg, clock.NewFake(testStart))

	tx := s.Begin()
	require.NoError(t, s.UnlockTx(tx, "pw"))
	require.NoError(t, tx.Set("Account 1", "mailbox_password", "imap-secret"))
	gen, err := s.RotateMasterKeyTx(tx)
	require.NoError(t, err)
	assert.Equal(t, 1, gen)
	keys, err := s.MasterKeysTx(tx)
	require.NoError(t, err)
	assert.Len(t, keys, 2)
	assert.False(t, fileExists(s.Path()), "nothing is saved before the outer commit")
	require.NoError(t, tx.Commit())

	reopened := openTestStore(t, cfg, clock.NewFake(testStart))
	require.NoError(t, reopened.Unlock("pw"))
	v, err := reopened.Get("Account 1", "mailbox_password", nil)
	require.NoError(t, err)
	assert.Equal(t, "imap-secret", v)
	after, err := reopened.MasterKeys()
	require.NoError(t, err)
	assert.Equal(t, keys, after)
}

func TestStore_FailedUnlockTxKeepsEarlierChanges(t *testing.T) {
	cfg := testConfig(t)
	first := openTestStore(t, cfg, clock.NewFake(testStart))
	require.NoError(t, first.Unlock("pw"))

	s := openTestStore(t, cfg, clock.NewFake(testStart))
	tx := s.Begin()
	require.NoError(t, tx.Set("Context 1", "name", "kept"))
	assert.ErrorIs(t, s.UnlockTx(tx, "wrong"), crypto.ErrWrongPassphrase)
	assert.True(t, tx.Has("Context 1", "name"))
	assert.False(t, s.Unlocked())
	require.NoError(t, tx.Commit())

	assert.Contains(t, readFile(t, s.Path()), "[Context 1]")
}

func TestStore_UpdatePanicReleasesLock(t *testing.T) {
	s := openTestStore(t, testConfig(t), clock.NewFake(testStart))

	assert.Panics(t, func() {
		_ = s.Update(func(tx *Tx) error {
			require.NoError(t, tx.Set("Context 1", "name", "lost"))
			panic("boom")
		})
	})

	done := make(chan error, 1)
	go func() { done <- s.Set("Context 2", "name", "next") }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("write lock still held after a panicking update")
	}

	assert.NotContains(t, s.Sections(), "Context 1")
	assert.Contains(t, s.Sections(), "Context 2")
}
