package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// envConfig mirrors the settings that may come from the environment. Fields
// are pre-filled from the current Config so unset variables keep the value
// from earlier layers.
type envConfig struct {
	Mode           string        `env:"EDU_MODE, overwrite"`
	APIBaseURL     string        `env:"EDU_API_BASE_URL, overwrite"`
	DataDir        string        `env:"EDU_DATA_DIR, overwrite"`
	RequestTimeout time.Duration `env:"EDU_REQUEST_TIMEOUT, overwrite"`
	SearchDebounce time.Duration `env:"EDU_SEARCH_DEBOUNCE, overwrite"`
	LogLevel       string        `env:"EDU_LOG_LEVEL, overwrite"`
	LogFormat      string        `env:"EDU_LOG_FORMAT, overwrite"`
	OTLPEndpoint   string        `env:"EDU_OTLP_ENDPOINT, overwrite"`
	OTLPInsecure   bool          `env:"EDU_OTLP_INSECURE, overwrite"`
}

// loadEnv overlays cfg with environment variables. base is consulted first
// (the process environment when nil); ".env" and ".env.<mode>" files in dir
// fill in whatever base does not define.
func loadEnv(cfg *Config, dir string, base envconfig.Lookuper) error {
	if base == nil {
		base = envconfig.OsLookuper()
	}

	common, err := readDotenv(filepath.Join(dir, ".env"))
	if err != nil {
		return err
	}

	mode := string(cfg.Mode)
	if v, ok := base.Lookup("EDU_MODE"); ok && v != "" {
		mode = v
	} else if v, ok := common["EDU_MODE"]; ok && v != "" {
		mode = v
	}

	specific, err := readDotenv(filepath.Join(dir, ".env."+mode))
	if err != nil {
		return err
	}

	files := make(map[string]string, len(common)+len(specific))
	for k, v := range common {
		files[k] = v
	}
	for k, v := range specific {
		files[k] = v
	}

	ec := envConfig{
		Mode:           string(cfg.Mode),
		APIBaseURL:     cfg.APIBaseURL,
		DataDir:        cfg.DataDir,
		RequestTimeout: cfg.RequestTimeout,
		SearchDebounce: cfg.SearchDebounce,
		LogLevel:       cfg.LogLevel,
		LogFormat:      cfg.LogFormat,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		OTLPInsecure:   cfg.OTLPInsecure,
	}

	err = envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target:   &ec,
		Lookuper: envconfig.MultiLookuper(base, envconfig.MapLookuper(files)),
	})
	if err != nil {
		return fmt.Errorf("read environment: %w", err)
	}

	cfg.Mode = Mode(ec.Mode)
	cfg.APIBaseURL = ec.APIBaseURL
	cfg.DataDir = ec.DataDir
	cfg.RequestTimeout = ec.RequestTimeout
	cfg.SearchDebounce = ec.SearchDebounce
	cfg.LogLevel = ec.LogLevel
	cfg.LogFormat = ec.LogFormat
	cfg.OTLPEndpoint = ec.OTLPEndpoint
	cfg.OTLPInsecure = ec.OTLPInsecure
	return nil
}

// readDotenv returns the variables in path, or nothing when it does not exist.
func readDotenv(path string) (map[string]string, error) {
	vars, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return vars, nil
}
