package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/eduadmin/internal/flagx"
)

var knownFlags = []string{"-m", "-a", "-d", "-t", "-debounce", "-l", "-log-format", "-log-stderr"}

// parseFlags populates cfg from the flags in args. Flags owned by other
// loaders (-c, -config) are filtered out first.
func parseFlags(cfg *Config, args []string) error {
	filtered := flagx.FilterArgs(args, knownFlags, "-log-stderr")

	fs := flag.NewFlagSet("eduadmin", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	mode := fs.String("m", string(cfg.Mode), "mode: development or production")
	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "API base URL")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "request timeout")
	fs.DurationVar(&cfg.SearchDebounce, "debounce", cfg.SearchDebounce, "list filter debounce")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format: console or json")
	fs.BoolVar(&cfg.LogToStderr, "log-stderr", cfg.LogToStderr, "write logs to stderr")

	if err := fs.Parse(filtered); err != nil {
		return err
	}
	cfg.Mode = Mode(*mode)
	return nil
}
