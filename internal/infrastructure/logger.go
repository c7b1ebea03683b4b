// Package infrastructure wires the process-level plumbing: the
// structured logger every component shares and the Prometheus
// collectors the transport exposes.
package infrastructure

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// LoggerConfig controls the process logger.
type LoggerConfig struct {
	Level    string // debug | info | warn | error
	Format   string // json | text
	Output   string // console | file | both
	FilePath string
}

// ParseLevel converts a level string to a slog.Level. Unknown values
// fall back to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the slog logger for the process and installs it as
// slog's default so library fallbacks land in the same stream.
func NewLogger(cfg LoggerConfig) (*slog.Logger, error) {
	var out io.Writer = os.Stderr

	switch strings.ToLower(cfg.Output) {
	case "", "console":
	case "file", "both":
		if cfg.FilePath == "" {
			return nil, fmt.Errorf("log output %q requires a file path", cfg.Output)
		}
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		if strings.ToLower(cfg.Output) == "both" {
			out = io.MultiWriter(os.Stderr, f)
		} else {
			out = f
		}
	default:
		return nil, fmt.Errorf("unknown log output %q", cfg.Output)
	}

	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "text" {
		handler = slog.NewTextHandler(out, opts)
	} else {
		handler = slog.NewJSONHandler(out, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, nil
}
