// Package logging configures the diagnostic logger shared by the CLI, the
// runner and the storage backends. Test progress itself is printed by the
// console reporter, not through this logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// New creates a logger writing to w at the given level ("debug", "info", "warn", "error")
func New(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          "gtr",
		ReportTimestamp: lvl == log.DebugLevel,
	}), nil
}

// ParseLevel converts a level name into a log level. An empty name means warn.
func ParseLevel(level string) (log.Level, error) {
	if strings.TrimSpace(level) == "" {
		return log.WarnLevel, nil
	}
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return lvl, nil
}

// Stderr returns a logger on standard error, falling back to warn on a bad level
func Stderr(level string) *log.Logger {
	logger, err := New(os.Stderr, level)
	if err != nil {
		logger, _ = New(os.Stderr, "warn")
		logger.Warn("Falling back to warn level", "error", err)
	}
	return logger
}

// Discard returns a logger that drops everything, for tests
func Discard() *log.Logger {
	return log.New(io.Discard)
}
