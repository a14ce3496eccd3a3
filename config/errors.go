package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfiguration is the sentinel every resolution failure
// matches through errors.Is.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// ConfigurationError reports an invalid or incomplete configuration.
// It is fatal at setup: callers should abort instead of continuing
// with a partial configuration.
type ConfigurationError struct {
	details error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidConfiguration, e.details)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrInvalidConfiguration
}

func (e *ConfigurationError) Unwrap() error {
	return e.details
}

func configErrorf(format string, args ...any) error {
	return &ConfigurationError{details: fmt.Errorf(format, args...)}
}
