package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MKhiriev/go-conf-vault/internal/clock"
	"github.com/MKhiriev/go-conf-vault/internal/config"
	"github.com/MKhiriev/go-conf-vault/internal/logger"
	"github.com/stretchr/testify/require"
)

var testStart = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// testConfig returns a valid config rooted in a fresh temp dir with cheap
// scrypt parameters.
func testConfig(t *testing.T) *config.StructuredConfig {
	t.Helper()
	cfg := config.Default()
	cfg.Store.ProfileDir = filepath.Join(t.TempDir(), "profile")
	cfg.Crypto.ScryptN = 16
	cfg.Crypto.ScryptR = 1
	cfg.Crypto.ScryptP = 1
	return cfg
}

func openTestStore(t *testing.T, cfg *config.StructuredConfig, clk clock.Clock) *Store {
	t.Helper()
	s, err := Open(cfg, logger.Nop(), WithClock(clk))
	require.NoError(t, err)
	return s
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
