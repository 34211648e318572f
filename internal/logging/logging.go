// Package logging provides the single structured logger used across the
// CLI layer. internal/* packages never log directly; they return errors
// and notes for cmd/kubectl-smart to report.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// New builds a text-handler slog.Logger writing to stderr at the given
// level ("debug", "info", "warn", "error"; unrecognized values fall back
// to info).
func New(level string) *slog.Logger {
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLevel(level)})
	return slog.New(h)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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
