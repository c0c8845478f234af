package metrics

import (
	"errors"
	"fmt"
)

// ConfigError is a fatal configuration problem: a registered metric without a
// weight, or an empty registry. It aborts the whole run before any artifact
// is processed, unlike per-artifact and per-metric failures which are
// converted to result data.
type ConfigError struct {
	msg string
}

func (e *ConfigError) Error() string { return e.msg }

func configErrorf(format string, args ...any) error {
	return &ConfigError{msg: fmt.Sprintf(format, args...)}
}

// IsConfigError reports whether err is (or wraps) a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
