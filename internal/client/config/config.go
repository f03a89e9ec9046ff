package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Mode is the build/run mode; it picks the default API base URL.
type Mode string

const (
	ModeDevelopment Mode = "development"
	ModeProduction  Mode = "production"
)

const (
	DevelopmentBaseURL = "http://127.0.0.1:8000/api"
	ProductionBaseURL  = "https://tagayev.uz/api"
)

// Config holds runtime settings for the console.
type Config struct {
	Mode Mode
	// APIBaseURL overrides the mode default when non-empty.
	APIBaseURL     string
	DataDir        string
	RequestTimeout time.Duration
	SearchDebounce time.Duration
	LogLevel       string
	LogFormat      string
	LogToStderr    bool
	OTLPEndpoint   string
	OTLPInsecure   bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.Mode = ModeDevelopment
	c.APIBaseURL = ""
	c.DataDir = ".eduadmin"
	c.RequestTimeout = 15 * time.Second
	c.SearchDebounce = 300 * time.Millisecond
	c.LogLevel = "info"
	c.LogFormat = "console"
	c.LogToStderr = false
	c.OTLPEndpoint = ""
	c.OTLPInsecure = false
}

// BaseURL returns the REST base URL without a trailing slash.
func (c *Config) BaseURL() string {
	base := c.APIBaseURL
	if base == "" {
		if c.Mode == ModeProduction {
			base = ProductionBaseURL
		} else {
			base = DevelopmentBaseURL
		}
	}
	return strings.TrimRight(base, "/")
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeDevelopment, ModeProduction:
	default:
		return fmt.Errorf("unknown mode %q", c.Mode)
	}

	u, err := url.Parse(c.BaseURL())
	if err != nil {
		return fmt.Errorf("invalid api base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid api base url %q: scheme must be http or https", c.BaseURL())
	}
	if u.Host == "" {
		return fmt.Errorf("invalid api base url %q: missing host", c.BaseURL())
	}

	if c.RequestTimeout <= 0 {
		return errors.New("request timeout must be positive")
	}
	if c.SearchDebounce < 0 {
		return errors.New("search debounce must not be negative")
	}
	if c.DataDir == "" {
		return errors.New("data dir must not be empty")
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	return nil
}

// LoadConfig builds a Config from defaults, the environment (plus .env files
// found in the working directory), an optional JSON file and finally the
// command-line flags in args (usually os.Args[1:]).
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := loadEnv(cfg, ".", nil); err != nil {
		return nil, err
	}
	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
