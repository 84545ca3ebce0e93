// Package logger configures the process-wide slog logger.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// New builds a logger for env and installs it as the slog default.
// "dev" gets a human-readable text handler, everything else JSON.
func New(env string, level int) *slog.Logger {
	l := newLogger(os.Stdout, env, level)
	slog.SetDefault(l)
	return l
}

func newLogger(w io.Writer, env string, level int) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.Level(level)}
	if env == "dev" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
