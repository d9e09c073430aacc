package store

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/MKhiriev/go-conf-vault/internal/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderDocument_OrderAndPruning(t *testing.T) {
	doc := newDocument()
	doc.put("Context 10", "name", codec.MustEncode("ten"))
	doc.put("Context 2", "name", codec.MustEncode("two"))
	doc.put("Secrets", "last_key_rotation", codec.MustEncode(int64(5)))
	doc.ensureSection("Account 1")
	doc.put("App", "log_level", codec.MustEncode(int64(40)))
	doc.put("App", "config_backups", codec.MustEncode(int64(10)))

	var buf bytes.Buffer
	require.NoError(t, renderDocument(doc, &buf))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, preamble))
	assert.NotContains(t, out, "[Account 1]", "empty sections are pruned")
	assert.NotContains(t, out, "[DEFAULT]")

	order := []string{"[App]", "config_backups", "log_level", "[Secrets]", "[Context 2]", "[Context 10]"}
	last := -1
	for _, marker := range order {
		idx := strings.Index(out, marker)
		require.GreaterOrEqual(t, idx, 0, marker)
		assert.Greater(t, idx, last, "%s out of order", marker)
		last = idx
	}
}

func TestParseDocument_RoundTrip(t *testing.T) {
	doc := newDocument()
	values := map[string]any{
		"plain":  "hello world",
		"tricky": " #;=\"'`\\ ::x\n",
		"num":    int64(-3),
		"flag":   true,
		"list":   []string{"a", "b"},
		"bytes":  []byte{0, 1, 2},
	}
	for k, v := range values {
		doc.put("App", k, codec.MustEncode(v))
	}
	doc.put("Secrets", "config_key", "::Aabcdef")

	var buf bytes.Buffer
	require.NoError(t, renderDocument(doc, &buf))

	parsed, stray, err := parseDocument(buf.Bytes())
	require.NoError(t, err)
	assert.Empty(t, stray)

	for k, v := range values {
		raw, ok := parsed.raw("App", k)
		require.True(t, ok, k)
		got, err := codec.Decode(raw)
		require.NoError(t, err)
		if s, isSlice := v.([]string); isSlice {
			assert.Equal(t, []any{s[0], s[1]}, got)
			continue
		}
		assert.Equal(t, v, got, k)
	}
	raw, _ := parsed.raw("Secrets", "config_key")
	assert.Equal(t, "::Aabcdef", raw)
}

func TestParseDocument_StrayKeysAndUnknownSections(t *testing.T) {
	data := []byte("orphan = Ux\n\n[Mystery]\nkey = d1\n\n[App]\nlog_level = d40\n")

	doc, stray, err := parseDocument(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"orphan"}, stray)
	assert.True(t, doc.hasSection("Mystery"))
	raw, ok := doc.raw("App", "log_level")
	require.True(t, ok)
	assert.Equal(t, "d40", raw)
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.rc")
	mtime := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)

	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))
	require.NoError(t, writeFileAtomic(path, []byte("new"), mtime))

	assert.Equal(t, "new", readFile(t, path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	assert.Equal(t, mtime.Unix(), info.ModTime().Unix())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}
