package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// ErrInvalidLogLevel is returned for an unknown EASYAPPLY_LOG_LEVEL value.
var ErrInvalidLogLevel = errors.New("invalid log level")

// resolveLogLevel picks the log level. Flags win over the environment;
// the default is info.
func resolveLogLevel(verbose, quiet bool, envValue string) (slog.Level, error) {
	switch {
	case verbose:
		return slog.LevelDebug, nil
	case quiet:
		return slog.LevelError, nil
	}

	switch strings.ToLower(strings.TrimSpace(envValue)) {
	case "":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: %q (want debug, info, warn or error)", ErrInvalidLogLevel, envValue)
	}
}

// newLogger returns a text logger writing to w.
func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
