package grpc

import (
	"errors"

	"github.com/palisade-io/go-jwt-auth/core"
)

// Option configures the JWT interceptor.
type Option func(*JWTInterceptor) error

// Logger defines an optional logging interface compatible with log/slog.
// This is the same interface used by core for consistent logging across
// the stack.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// WithTokenExtractor sets a custom token extractor function.
// Default is MetadataTokenExtractor which extracts from "authorization"
// metadata.
func WithTokenExtractor(extractor TokenExtractor) Option {
	return func(i *JWTInterceptor) error {
		if extractor == nil {
			return errors.New("token extractor cannot be nil")
		}
		i.tokenExtractor = extractor
		return nil
	}
}

// WithErrorHandler sets a custom error handler function.
// Default is DefaultErrorHandler which maps errors to gRPC status codes.
func WithErrorHandler(handler ErrorHandler) Option {
	return func(i *JWTInterceptor) error {
		if handler == nil {
			return errors.New("error handler cannot be nil")
		}
		i.errorHandler = handler
		return nil
	}
}

// WithExcludedMethods excludes specific gRPC methods from token
// verification. Methods should be provided in the full format:
// "/package.Service/Method".
// Example: "/myapp.MyService/PublicMethod", "/grpc.health.v1.Health/Check"
func WithExcludedMethods(methods ...string) Option {
	return func(i *JWTInterceptor) error {
		if len(methods) == 0 {
			return errors.New("excluded methods list cannot be empty")
		}
		for _, method := range methods {
			i.excludedMethods[method] = true
		}
		return nil
	}
}

// WithCredentialsOptional allows requests without tokens to proceed.
// When set to true, requests without tokens will not return an error,
// but the context will not contain any claims.
//
// Default: false (credentials required)
func WithCredentialsOptional(optional bool) Option {
	return func(i *JWTInterceptor) error {
		i.credentialsOptional = optional
		return nil
	}
}

// WithAuthorization adds authorization predicates evaluated against the
// verified claims after token verification succeeds. All predicates
// must pass for the request to be allowed. Predicates also run for
// anonymous requests when credentials are optional, so a method guarded
// by a role predicate can never be reached without a token.
//
// Example:
//
//	interceptor, _ := grpc.New(engine,
//	    grpc.WithAuthorization(core.RequireAnyRole("editor", "admin")),
//	)
func WithAuthorization(predicates ...core.Predicate) Option {
	return func(i *JWTInterceptor) error {
		if len(predicates) == 0 {
			return errors.New("authorization predicates list cannot be empty")
		}
		for _, predicate := range predicates {
			if predicate == nil {
				return errors.New("authorization predicate cannot be nil")
			}
		}
		i.predicates = append(i.predicates, predicates...)
		return nil
	}
}

// WithLogger sets an optional logger for the interceptor.
//
// The logger interface is compatible with log/slog.Logger and similar
// loggers.
//
// Example:
//
//	interceptor, _ := grpc.New(engine,
//	    grpc.WithLogger(slog.Default()),
//	)
func WithLogger(logger Logger) Option {
	return func(i *JWTInterceptor) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		i.logger = logger
		return nil
	}
}
