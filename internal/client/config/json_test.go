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

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJSON(t *testing.T) {
	t.Run("partial file only touches named keys", func(t *testing.T) {
		path := writeTempJSON(t, map[string]any{
			"mode":            "production",
			"search_debounce": "500ms",
		})
		cfg := &Config{}
		cfg.LoadDefaults()

		require.NoError(t, parseJSON(cfg, []string{"-config", path}))
		assert.Equal(t, ModeProduction, cfg.Mode)
		assert.Equal(t, 500*time.Millisecond, cfg.SearchDebounce)
		assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
		assert.Equal(t, ".eduadmin", cfg.DataDir)
	})

	t.Run("no flag, no changes", func(t *testing.T) {
		cfg := &Config{DataDir: "keep"}
		require.NoError(t, parseJSON(cfg, nil))
		assert.Equal(t, "keep", cfg.DataDir)
	})

	t.Run("missing file", func(t *testing.T) {
		cfg := &Config{}
		err := parseJSON(cfg, []string{"-c", filepath.Join(t.TempDir(), "nope.json")})
		require.Error(t, err)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))
		err := parseJSON(&Config{}, []string{"-c", bad})
		require.Error(t, err)
	})
}
