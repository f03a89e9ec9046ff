package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/eduadmin/internal/flagx"
	"github.com/dmitrijs2005/eduadmin/internal/timex"
)

// JSONConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish "absent" from "zero", so a partial file only touches
// the keys it names.
type JSONConfig struct {
	Mode           *string         `json:"mode"`
	APIBaseURL     *string         `json:"api_base_url"`
	DataDir        *string         `json:"data_dir"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	SearchDebounce *timex.Duration `json:"search_debounce"`
	LogLevel       *string         `json:"log_level"`
	LogFormat      *string         `json:"log_format"`
	OTLPEndpoint   *string         `json:"otlp_endpoint"`
	OTLPInsecure   *bool           `json:"otlp_insecure"`
}

// parseJSON overlays cfg with the file named by -c/-config in args. Without
// such a flag it does nothing.
func parseJSON(cfg *Config, args []string) error {
	path := flagx.JSONConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JSONConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if jc.Mode != nil {
		cfg.Mode = Mode(*jc.Mode)
	}
	if jc.APIBaseURL != nil {
		cfg.APIBaseURL = *jc.APIBaseURL
	}
	if jc.DataDir != nil {
		cfg.DataDir = *jc.DataDir
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.SearchDebounce != nil {
		cfg.SearchDebounce = jc.SearchDebounce.Duration
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
	if jc.LogFormat != nil {
		cfg.LogFormat = *jc.LogFormat
	}
	if jc.OTLPEndpoint != nil {
		cfg.OTLPEndpoint = *jc.OTLPEndpoint
	}
	if jc.OTLPInsecure != nil {
		cfg.OTLPInsecure = *jc.OTLPInsecure
	}
	return nil
}
