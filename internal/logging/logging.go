// Package logging configures the process-wide zerolog logger from the
// LOG_LEVEL and LOG_FILE environment variables.
package logging

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/rs/zerolog"
)

// Setup builds the root logger. LOG_LEVEL is 0 (silent, the default), 1
// (info), or 2 (debug). LOG_FILE, when set, must be an existing writable
// file; violations are startup-fatal and reported as errors so callers can
// abort before any artifact is processed.
func Setup() (zerolog.Logger, error) {
	level, err := levelFromEnv()
	if err != nil {
		return zerolog.Nop(), err
	}

	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stderr}
	if path := os.Getenv("LOG_FILE"); path != "" {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("invalid LOG_FILE path %q: %w", path, err)
		}
		out = f
	}

	if level == zerolog.Disabled {
		return zerolog.Nop(), nil
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}

func levelFromEnv() (zerolog.Level, error) {
	raw := os.Getenv("LOG_LEVEL")
	if raw == "" {
		return zerolog.Disabled, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return zerolog.Disabled, fmt.Errorf("LOG_LEVEL must be an integer, got %q", raw)
	}
	switch n {
	case 0:
		return zerolog.Disabled, nil
	case 1:
		return zerolog.InfoLevel, nil
	case 2:
		return zerolog.DebugLevel, nil
	default:
		return zerolog.Disabled, fmt.Errorf("LOG_LEVEL must be 0, 1, or 2, got %d", n)
	}
}
