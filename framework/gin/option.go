package jwtauthgin

import (
	"github.com/gin-gonic/gin"

	jwtauth "github.com/palisade-io/go-jwt-auth"
)

// Option configures the gin adapter.
type Option func(*config)

// WithErrorHandler sets a custom error handler. The handler is expected
// to write a response and abort the chain.
func WithErrorHandler(handler func(*gin.Context, error)) Option {
	return func(cfg *config) {
		cfg.errorHandler = handler
	}
}

// WithContextKey sets the gin context key claims are stored under.
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
