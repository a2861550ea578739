package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

var logger = slog.Default()

// newLogger builds a text logger writing to w.
func newLogger(w io.Writer, level slog.Level, addSource bool) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: addSource,
	}))
}

// setupLogging configures the package logger: stdout when no log path is
// given, otherwise the file at flags.logPath (appended to, created if needed).
//
// Parameters:
//   - flags: Parsed command line flags.
//
// Returns:
//   - *os.File: The opened log file the caller must close, or nil for stdout.
//   - error: Non-nil if the log file cannot be opened.
func setupLogging(flags *Flags) (*os.File, error) {
	level := slog.LevelInfo
	if flags.debug {
		level = slog.LevelDebug
	}

	if flags.logPath == "" {
		logger = newLogger(os.Stdout, level, false)
		slog.SetDefault(logger)
		return nil, nil
	}

	// Ensure directory exists for file logging
	if err := os.MkdirAll(filepath.Dir(flags.logPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", filepath.Dir(flags.logPath), err)
	}
	f, err := os.OpenFile(flags.logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	logger = newLogger(f, level, true).With("component", name)
	slog.SetDefault(logger)
	logger.Info("=== LOG INITIALIZED ===")
	return f, nil
}
