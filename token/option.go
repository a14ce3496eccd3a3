package token

import (
	"errors"
	"time"
)

// Option configures the Codec. Options return errors so invalid values
// fail construction instead of surfacing later.
type Option func(*Codec) error

// WithAccessTTL sets the lifetime applied by IssueAccess.
//
// Default: 30 minutes.
func WithAccessTTL(ttl time.Duration) Option {
	return func(c *Codec) error {
		if ttl <= 0 {
			return errors.New("access token lifetime must be positive")
		}
		c.accessTTL = ttl
		return nil
	}
}

// WithRefreshTTL sets the lifetime applied by IssueRefresh.
//
// Default: 24 hours.
func WithRefreshTTL(ttl time.Duration) Option {
	return func(c *Codec) error {
		if ttl <= 0 {
			return errors.New("refresh token lifetime must be positive")
		}
		c.refreshTTL = ttl
		return nil
	}
}

// WithClock overrides the time source used for issued-at and expiry
// evaluation. Tests use it to freeze or advance time.
//
// Default: time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) error {
		if now == nil {
			return errors.New("clock cannot be nil")
		}
		c.now = now
		return nil
	}
}
