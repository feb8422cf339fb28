package api

import (
	"errors"
	"fmt"
	"time"
)

// ConfigurationError reports invalid graph construction, such as a
// Sequential or Parallel with no stages. It is always returned at
// construction time, never from Execute.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "invalid configuration: " + e.Reason
}

func newConfigurationError(format string, args ...any) error {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

// IsConfiguration reports whether err is a ConfigurationError.
func IsConfiguration(err error) bool {
	var c *ConfigurationError
	return errors.As(err, &c)
}

// TimeoutError is returned by a Timeout decorator with no fallback when the
// deadline wins the race. It carries the configured limit and the name of
// the primitive that overran it.
type TimeoutError struct {
	Primitive string
	Limit     time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out after %s", e.Primitive, e.Limit)
}

// IsTimeout returns the configured limit and true if err indicates that a
// Timeout decorator's deadline was exceeded.
func IsTimeout(err error) (time.Duration, bool) {
	var t *TimeoutError
	if errors.As(err, &t) {
		return t.Limit, true
	}
	return 0, false
}
