package jwtauthecho

import (
	"github.com/labstack/echo/v4"

	jwtauth "github.com/palisade-io/go-jwt-auth"
)

// Option configures the echo adapter.
type Option func(*config)

// WithErrorHandler sets a custom error handler. The handler is expected
// to write a response; the chain stops either way.
func WithErrorHandler(handler func(echo.Context, error)) Option {
	return func(cfg *config) {
		cfg.errorHandler = handler
	}
}

// WithContextKey sets the echo context key claims are stored under.
func WithContextKey(key string) Option {
	return func(cfg *config) {
		cfg.contextKey = key
	}
}

// WithTokenExtractor sets a custom token extractor on the underlying
// middleware.
func WithTokenExtractor(extractor jwtauth.TokenExtractor) Option {
	return func(cfg *config) {
		cfg.middlewareOpts = append(cfg.middlewareOpts, jwtauth.WithTokenExtractor(extractor))
	}
}

// WithMiddlewareOptions forwards options to the underlying middleware,
// for anything the adapter does not expose directly (authorization
// predicates, URL exclusions, optional credentials and so on).
func WithMiddlewareOptions(opts ...jwtauth.Option) Option {
	return func(cfg *config) {
		cfg.middlewareOpts = append(cfg.middlewareOpts, opts...)
	}
}
