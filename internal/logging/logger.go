// Package logging defines the structured-logging interface used across the
// console. Two backends are provided: slog (JSON lines) and zerolog (human
// readable console output).
package logging

import (
	"context"
	"io"
	"strings"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "request finished", "path", "/core/students/", "status", 200)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

// Format selects the backend built by New.
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

// Options controls New.
type Options struct {
	// Level is one of debug, info, warn, error. Unknown values mean info.
	Level  string
	Format Format
	Output io.Writer
}

// New builds a Logger for the requested format. Console output goes through
// zerolog, everything else through slog's JSON handler.
func New(opts Options) Logger {
	out := opts.Output
	if out == nil {
		out = io.Discard
	}

	if opts.Format == FormatJSON {
		return newJSONSlog(out, opts.Level)
	}
	return NewZerologLogger(newConsoleZerolog(out, opts.Level))
}

// Nop returns a logger that drops everything.
func Nop() Logger {
	return newJSONSlog(io.Discard, "error")
}

func normalizeLevel(level string) string {
	switch l := strings.ToLower(strings.TrimSpace(level)); l {
	case "debug", "info", "warn", "error":
		return l
	case "warning":
		return "warn"
	default:
		return "info"
	}
}
