package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"servers":         []string{"https://a.example:8448", "https://b.example:8448"},
		"token":           "tok",
		"database_path":   "state.db",
		"blob_dir":        "media",
		"request_timeout": "10s",
	})

	t.Run("loads from flags", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, []string{"https://a.example:8448", "https://b.example:8448"}, cfg.Servers)
		assert.Equal(t, "tok", cfg.Token)
		assert.Equal(t, "state.db", cfg.DatabasePath)
		assert.Equal(t, "media", cfg.BlobDir)
		assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	})

	t.Run("timeout as integer nanoseconds", func(t *testing.T) {
		path := writeTempJSON(t, dir, "nanos.json", map[string]any{
			"request_timeout": int64(5 * time.Second),
		})
		os.Args = []string{"testbin", "-config", path}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	})

	t.Run("absent fields keep defaults", func(t *testing.T) {
		path := writeTempJSON(t, dir, "partial.json", map[string]any{
			"token": "only-token",
		})
		os.Args = []string{"testbin", "-config", path}

		cfg := &Config{}
		cfg.LoadDefaults()
		want := cfg.RequestTimeout
		parseJson(cfg)

		assert.Equal(t, "only-token", cfg.Token)
		assert.Equal(t, want, cfg.RequestTimeout)
		assert.Equal(t, "shuttle.db", cfg.DatabasePath)
	})

	t.Run("no CONFIG and no flags → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{
			Token:          "defaults",
			RequestTimeout: 42 * time.Second,
		}
		parseJson(cfg)

		assert.Equal(t, "defaults", cfg.Token)
		assert.Equal(t, 42*time.Second, cfg.RequestTimeout)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})
}
