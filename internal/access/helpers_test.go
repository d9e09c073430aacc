package access

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/MKhiriev/go-conf-vault/internal/clock"
	"github.com/MKhiriev/go-conf-vault/internal/config"
	"github.com/MKhiriev/go-conf-vault/internal/logger"
	"github.com/MKhiriev/go-conf-vault/internal/schema"
	"github.com/MKhiriev/go-conf-vault/internal/store"
	"github.com/stretchr/testify/require"
)

var testStart = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	cfg   *config.StructuredConfig
	clock *clock.Fake
	store *store.Store
	svc   *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := config.Default()
	cfg.Store.ProfileDir = filepath.Join(t.TempDir(), "profile")
	cfg.Crypto.ScryptN = 16
	cfg.Crypto.ScryptR = 1
	cfg.Crypto.ScryptP = 1
	cfg.Access.TokenTTL = time.Hour

	clk := clock.NewFake(testStart)
	s, err := store.Open(cfg, logger.Nop(), store.WithClock(clk))
	require.NoError(t, err)

	return &fixture{
		cfg:   cfg,
		clock: clk,
		store: s,
		svc:   NewService(s, cfg.Access, logger.Nop()),
	}
}

func (f *fixture) addContext(t *testing.T, c *schema.Context) {
	t.Helper()
	require.NoError(t, f.store.Update(func(tx *store.Tx) error {
		return schema.SaveContext(tx, c)
	}))
}
