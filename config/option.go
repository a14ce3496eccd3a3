package config

import (
	"errors"
	"time"

	"github.com/palisade-io/go-jwt-auth/token"
)

type options struct {
	settingsFile string
	logger       Logger
	overrides    []func(*Config)
}

// Option configures Resolve. Value options take precedence over the
// settings file, which takes precedence over the built-in defaults.
type Option func(*options) error

// WithSettingsFile replaces the default "settings.yaml" path.
func WithSettingsFile(path string) Option {
	return func(o *options) error {
		if path == "" {
			return errors.New("settings file path cannot be empty")
		}
		o.settingsFile = path
		return nil
	}
}

// WithLogger replaces the default logger (slog.Default()).
func WithLogger(logger Logger) Option {
	return func(o *options) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		o.logger = logger
		return nil
	}
}

// WithAlgorithm pins the signing algorithm.
func WithAlgorithm(algorithm token.Algorithm) Option {
	return override(func(c *Config) { c.Algorithm = algorithm })
}

// WithAccessTokenTTL sets the access token lifetime.
func WithAccessTokenTTL(ttl time.Duration) Option {
	return override(func(c *Config) { c.AccessTokenTTL = ttl })
}

// WithRefreshTokenTTL sets the refresh token lifetime.
func WithRefreshTokenTTL(ttl time.Duration) Option {
	return override(func(c *Config) { c.RefreshTokenTTL = ttl })
}

// WithMode selects the deployment mode.
func WithMode(mode Mode) Option {
	return override(func(c *Config) { c.Mode = mode })
}

// WithInternalAPIURL sets the internal document API endpoint.
func WithInternalAPIURL(url string) Option {
	return override(func(c *Config) { c.InternalAPIURL = url })
}

// WithPublicAPIURL sets the public document API endpoint.
func WithPublicAPIURL(url string) Option {
	return override(func(c *Config) { c.PublicAPIURL = url })
}

// WithBlacklistCollection names the revocation collection.
func WithBlacklistCollection(collection string) Option {
	return override(func(c *Config) { c.BlacklistCollection = collection })
}

// WithBlacklistEnabled switches the revocation check on or off.
func WithBlacklistEnabled(enabled bool) Option {
	return override(func(c *Config) { c.BlacklistEnabled = enabled })
}

// WithDebug switches verbose logging on or off.
func WithDebug(debug bool) Option {
	return override(func(c *Config) { c.Debug = debug })
}

// override defers a field write until after the settings file has been
// applied, which is what gives explicit options the last word. Values
// are checked by Validate once everything is in place.
func override(apply func(*Config)) Option {
	return func(o *options) error {
		o.overrides = append(o.overrides, apply)
		return nil
	}
}
