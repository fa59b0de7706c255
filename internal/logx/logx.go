// Package logx configures the process-wide slog logger from CLI verbosity
// flags.
package logx

import (
	"io"
	"log/slog"
)

// UserLevel is the level selected by the last call to Setup.
var UserLevel = slog.LevelWarn

// LevelFromFlags maps verbosity flags to a level:
//   - vv: [slog.LevelDebug]
//   - v: [slog.LevelInfo]
//   - q: [slog.LevelError]
//   - (default: [slog.LevelWarn])
//
// Flags are checked in that order, so vv wins over q.
func LevelFromFlags(vv, v, q bool) slog.Level {
	switch {
	case vv:
		return slog.LevelDebug
	case v:
		return slog.LevelInfo
	case q:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// Setup installs a text logger writing to w at level as the slog default.
func Setup(w io.Writer, level slog.Level) *slog.Logger {
	UserLevel = level
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}
