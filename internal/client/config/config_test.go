package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ModeDevelopment, c.Mode)
	assert.Equal(t, DevelopmentBaseURL, c.BaseURL())
	assert.Equal(t, 15*time.Second, c.RequestTimeout)
	assert.Equal(t, 300*time.Millisecond, c.SearchDebounce)
	assert.Equal(t, "console", c.LogFormat)
	require.NoError(t, c.Validate())
}

func TestBaseURL(t *testing.T) {
	c := Config{Mode: ModeProduction}
	assert.Equal(t, ProductionBaseURL, c.BaseURL())

	c.APIBaseURL = "https://staging.example.uz/api/"
	assert.Equal(t, "https://staging.example.uz/api", c.BaseURL(), "explicit url wins and loses trailing slash")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errSub string
	}{
		{name: "unknown mode", mutate: func(c *Config) { c.Mode = "staging" }, errSub: "unknown mode"},
		{name: "bad scheme", mutate: func(c *Config) { c.APIBaseURL = "ftp://host/api" }, errSub: "scheme"},
		{name: "no host", mutate: func(c *Config) { c.APIBaseURL = "http:///api" }, errSub: "missing host"},
		{name: "zero timeout", mutate: func(c *Config) { c.RequestTimeout = 0 }, errSub: "timeout"},
		{name: "negative debounce", mutate: func(c *Config) { c.SearchDebounce = -time.Second }, errSub: "debounce"},
		{name: "empty data dir", mutate: func(c *Config) { c.DataDir = "" }, errSub: "data dir"},
		{name: "bad log format", mutate: func(c *Config) { c.LogFormat = "xml" }, errSub: "log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Config
			c.LoadDefaults()
			tt.mutate(&c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSub)
		})
	}
}

func TestLoadConfig_FlagsOverrideDefaults(t *testing.T) {
	cfg, err := LoadConfig([]string{"-m", "production", "-t", "5s", "-log-stderr"})
	require.NoError(t, err)

	assert.Equal(t, ModeProduction, cfg.Mode)
	assert.Equal(t, ProductionBaseURL, cfg.BaseURL())
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.LogToStderr)
}

func TestLoadConfig_InvalidResultIsAnError(t *testing.T) {
	_, err := LoadConfig([]string{"-m", "qa"})
	require.Error(t, err)
}
