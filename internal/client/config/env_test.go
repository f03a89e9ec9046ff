package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
}

func defaults() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	return cfg
}

func TestLoadEnv_ProcessEnvironment(t *testing.T) {
	cfg := defaults()
	env := envconfig.MapLookuper(map[string]string{
		"EDU_MODE":            "production",
		"EDU_REQUEST_TIMEOUT": "30s",
		"EDU_OTLP_INSECURE":   "true",
	})

	require.NoError(t, loadEnv(cfg, t.TempDir(), env))

	assert.Equal(t, ModeProduction, cfg.Mode)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.OTLPInsecure)
	assert.Equal(t, 300*time.Millisecond, cfg.SearchDebounce, "unset variables keep earlier values")
}

func TestLoadEnv_DotenvFilesAndPrecedence(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".env", "EDU_MODE=production\nEDU_LOG_LEVEL=warn\nEDU_DATA_DIR=/srv/common\n")
	writeFile(t, dir, ".env.production", "EDU_DATA_DIR=/srv/prod\nEDU_API_BASE_URL=https://mirror.example.uz/api\n")

	cfg := defaults()
	env := envconfig.MapLookuper(map[string]string{"EDU_LOG_LEVEL": "debug"})

	require.NoError(t, loadEnv(cfg, dir, env))

	assert.Equal(t, ModeProduction, cfg.Mode, "mode picked from .env")
	assert.Equal(t, "/srv/prod", cfg.DataDir, ".env.<mode> wins over .env")
	assert.Equal(t, "https://mirror.example.uz/api", cfg.BaseURL())
	assert.Equal(t, "debug", cfg.LogLevel, "process environment wins over files")
}

func TestLoadEnv_NoFilesNoVariables(t *testing.T) {
	cfg := defaults()
	require.NoError(t, loadEnv(cfg, t.TempDir(), envconfig.MapLookuper(nil)))
	assert.Equal(t, defaults(), cfg)
}

func TestLoadEnv_BadDuration(t *testing.T) {
	cfg := defaults()
	env := envconfig.MapLookuper(map[string]string{"EDU_SEARCH_DEBOUNCE": "later"})
	require.Error(t, loadEnv(cfg, t.TempDir(), env))
}
