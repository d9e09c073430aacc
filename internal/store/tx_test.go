package store

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/MKhiriev/go-conf-vault/internal/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTx_NestedSavesOnce(t *testing.T) {
	s := openTestStore(t, testConfig(t), clock.NewFake(testStart))

	tx := s.Begin()
	require.NoError(t, tx.Set("Context 1", "name", "outer"))

	child := tx.Begin()
	require.NoError(t, child.Set("Context 2", "name", "inner"))
	require.NoError(t, child.Commit())
	assert.False(t, fileExists(s.Path()), "nested commit does not save")

	require.NoError(t, tx.Commit())
	text := readFile(t, s.Path())
	assert.Contains(t, text, "[Context 1]")
	assert.Contains(t, text, "[Context 2]")
}

func TestTx_DiscardCancelsSave(t *testing.T) {
	s := openTestStore(t, testConfig(t), clock.NewFake(testStart))

	tx := s.Begin()
	require.NoError(t, tx.Set("Context 0", "name", "My Mail"))
	tx.Discard()
	require.NoError(t, tx.Commit())

	assert.False(t, fileExists(s.Path()))
	v, err := s.Get("Context 0", "name", nil)
	require.NoError(t, err)
	assert.Equal(t, "My Mail", v, "discarded changes stay in memory")

	// and are written by the next save
	require.NoError(t, s.Set("Context 1", "name", "Work"))
	assert.Contains(t, readFile(t, s.Path()), "[Context 0]")
}

func TestTx_DiscardOnlyAffectsOwnLevel(t *testing.T) {
	s := openTestStore(t, testConfig(t), clock.NewFake(testStart))

	tx := s.Begin()
	require.NoError(t, tx.Set("Context 1", "name", "kept"))
	child := tx.Begin()
	require.NoError(t, child.Set("Context 2", "name", "discarded"))
	child.Discard()
	require.NoError(t, child.Commit())
	require.NoError(t, tx.Commit())

	assert.True(t, fileExists(s.Path()))
}

func TestTx_CommitTwice(t *testing.T) {
	s := openTestStore(t, testConfig(t), clock.NewFake(testStart))

	tx := s.Begin()
	require.NoError(t, tx.Commit())
	assert.ErrorIs(t, tx.Commit(), ErrTxClosed)
	assert.NoError(t, tx.Close())
	assert.ErrorIs(t, tx.Set("App", "x", "y"), ErrTxClosed)

	child := tx.Begin()
	assert.ErrorIs(t, child.Set("App", "x", "y"), ErrTxClosed)
}

func TestTx_CloseCommits(t *testing.T) {
	s := openTestStore(t, testConfig(t), clock.NewFake(testStart))

	func() {
		tx := s.Begin()
		defer tx.Close()
		require.NoError(t, tx.Set("Context 1", "name", "deferred"))
	}()

	assert.Contains(t, readFile(t, s.Path()), "deferred")
}

func TestStore_UpdateRollsBackOnError(t *testing.T) {
	s := openTestStore(t, testConfig(t), clock.NewFake(testStart))
	require.NoError(t, s.Set("Context 1", "name", "before"))
	boom := errors.New("boom")

	err := s.Update(func(tx *Tx) error {
		require.NoError(t, tx.Set("Context 1", "name", "after"))
		require.NoError(t, tx.Set("Context 2", "name", "new"))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	v, err := s.Get("Context 1", "name", nil)
	require.NoError(t, err)
	assert.Equal(t, "before", v)
	require.NoError(t, s.View(func(tx *Tx) error {
		assert.False(t, tx.HasSection("Context 2"))
		return nil
	}))
	assert.NotContains(t, readFile(t, s.Path()), "after")
}

func TestTx_UpdateNestedRollback(t *testing.T) {
	s := openTestStore(t, testConfig(t), clock.NewFake(testStart))

	err := s.Update(func(tx *Tx) error {
		require.NoError(t, tx.Set("Context 1", "name", "outer"))
		inner := tx.Update(func(child *Tx) error {
			require.NoError(t, child.Set("Context 2", "name", "inner"))
			return errors.New("inner failed")
		})
		assert.Error(t, inner)
		return nil
	})
	require.NoError(t, err)

	text := readFile(t, s.Path())
	assert.Contains(t, text, "[Context 1]")
	assert.NotContains(t, text, "[Context 2]")
}

func TestStore_ViewIsReadOnly(t *testing.T) {
	s := openTestStore(t, testConfig(t), clock.NewFake(testStart))

	err := s.View(func(tx *Tx) error {
		return tx.Set("App", "x", "y")
	})
	assert.ErrorIs(t, err, ErrReadOnlyTx)
}

func TestStore_GenerationBumpsOnMutation(t *testing.T) {
	s := openTestStore(t, testConfig(t), clock.NewFake(testStart))
	g0 := s.Generation()

	require.NoError(t, s.Set("Context 1", "name", "a"))
	g1 := s.Generation()
	assert.Greater(t, g1, g0)

	require.NoError(t, s.Set("Context 1", "name", "a"))
	assert.Equal(t, g1, s.Generation(), "unchanged value is not a mutation")

	require.NoError(t, s.Delete("Context 1", "name"))
	assert.Greater(t, s.Generation(), g1)
}

func TestStore_FailedSaveIsRetried(t *testing.T) {
	cfg := testConfig(t)
	s := openTestStore(t, cfg, clock.NewFake(testStart))
	require.NoError(t, s.Set("Context 1", "name", "first"))

	// replace the profile dir with a file so the next save fails
	dir := cfg.Store.ProfileDir
	require.NoError(t, os.RemoveAll(dir))
	require.NoError(t, os.WriteFile(dir, []byte("in the way"), 0o600))

	err := s.Set("Context 1", "name", "second")
	assert.ErrorIs(t, err, ErrPersist)

	require.NoError(t, os.Remove(dir))
	require.NoError(t, os.MkdirAll(dir, 0o700))

	// an empty transaction retries the failed save
	require.NoError(t, s.Begin().Commit())
	assert.Contains(t, readFile(t, filepath.Join(dir, cfg.Store.FileName)), "second")
}

func TestStore_ConcurrentWriters(t *testing.T) {
	s := openTestStore(t, testConfig(t), clock.NewFake(testStart))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				_ = s.Update(func(tx *Tx) error {
					n, err := tx.GetInt("App", "counter", 0)
					if err != nil {
						return err
					}
					return tx.Set("App", "counter", n+1)
				})
			}
		}()
	}
	wg.Wait()

	v, err := s.Get("App", "counter", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(80), v)
}
