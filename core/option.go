package core

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/palisade-io/go-jwt-auth/config"
	"github.com/palisade-io/go-jwt-auth/revocation"
	"github.com/palisade-io/go-jwt-auth/token"
)

// Option is how options for the Engine are set up.
type Option func(*Engine) error

// New constructs an Engine from the supplied options. A token codec is
// required. Unless WithRevocation says otherwise, revocation checks are
// enabled exactly when a store is configured.
func New(opts ...Option) (*Engine, error) {
	engine := &Engine{
		logger: slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(engine); err != nil {
			return nil, err
		}
	}

	if err := engine.validate(); err != nil {
		return nil, err
	}

	return engine, nil
}

func (e *Engine) validate() error {
	if e.codec == nil {
		return errors.New("codec cannot be nil (use WithCodec option)")
	}
	if !e.revocationConfigured {
		e.revocationEnabled = e.store != nil
	}
	if e.revocationEnabled && e.store == nil {
		return errors.New("revocation is enabled but no store is configured (use WithStore option)")
	}
	return nil
}

// NewFromConfig builds an Engine from resolved configuration: a codec
// for the configured secret and lifetimes, and an HTTP revocation store
// when the blacklist is enabled. Options are applied after the
// configuration-derived settings and may override them.
func NewFromConfig(cfg *config.Config, opts ...Option) (*Engine, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	codec, err := token.NewCodec(cfg.Secret, cfg.Algorithm,
		token.WithAccessTTL(cfg.AccessTokenTTL),
		token.WithRefreshTTL(cfg.RefreshTokenTTL),
	)
	if err != nil {
		return nil, fmt.Errorf("could not build token codec: %w", err)
	}

	engineOpts := []Option{WithCodec(codec)}
	if cfg.BlacklistEnabled {
		store, err := revocation.NewHTTPStore(cfg.StoreURL(), cfg.BlacklistCollection)
		if err != nil {
			return nil, fmt.Errorf("could not build revocation store: %w", err)
		}
		engineOpts = append(engineOpts, WithStore(store), WithRevocation(true))
	}
	engineOpts = append(engineOpts, opts...)

	return New(engineOpts...)
}

// WithCodec sets the codec used to issue and verify tokens. Required.
func WithCodec(codec *token.Codec) Option {
	return func(e *Engine) error {
		if codec == nil {
			return errors.New("codec cannot be nil")
		}
		e.codec = codec
		return nil
	}
}

// WithStore sets the revocation store consulted during verification.
func WithStore(store Store) Option {
	return func(e *Engine) error {
		if store == nil {
			return errors.New("store cannot be nil")
		}
		e.store = store
		return nil
	}
}

// WithRevocation explicitly enables or disables revocation checks,
// overriding the default of enabling them when a store is present.
// Enabling revocation without a store is a construction error.
func WithRevocation(enabled bool) Option {
	return func(e *Engine) error {
		e.revocationEnabled = enabled
		e.revocationConfigured = true
		return nil
	}
}

// WithCredentialsOptional sets up if credentials are optional or not.
// If set to true then CheckToken treats an empty token as anonymous
// access instead of an error.
//
// Default value: false.
func WithCredentialsOptional(value bool) Option {
	return func(e *Engine) error {
		e.credentialsOptional = value
		return nil
	}
}

// WithLogger sets the logger the engine reports through.
//
// Default value: slog.Default().
func WithLogger(logger Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		e.logger = logger
		return nil
	}
}
