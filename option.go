package jwtauth

import (
	"errors"
	"net/http"

	"github.com/palisade-io/go-jwt-auth/core"
)

// Option configures the JWTMiddleware.
// Returns error for validation failures.
type Option func(*JWTMiddleware) error

// WithCredentialsOptional sets whether credentials are optional.
// If set to true, a request without a token passes through without
// claims instead of being rejected.
//
// Default: false (credentials required)
func WithCredentialsOptional(value bool) Option {
	return func(m *JWTMiddleware) error {
		m.credentialsOptional = value
		return nil
	}
}

// WithValidateOnOptions sets whether OPTIONS requests should have their
// token verified.
//
// Default: true (OPTIONS requests are verified)
func WithValidateOnOptions(value bool) Option {
	return func(m *JWTMiddleware) error {
		m.validateOnOptions = value
		return nil
	}
}

// WithErrorHandler sets the handler called when errors occur during
// token verification. See the ErrorHandler type for more information.
//
// Default: DefaultErrorHandler
func WithErrorHandler(h ErrorHandler) Option {
	return func(m *JWTMiddleware) error {
		if h == nil {
			return ErrErrorHandlerNil
		}
		m.errorHandler = h
		return nil
	}
}

// WithTokenExtractor sets the function to extract the token from the request.
//
// Default: AuthHeaderTokenExtractor
func WithTokenExtractor(e TokenExtractor) Option {
	return func(m *JWTMiddleware) error {
		if e == nil {
			return ErrTokenExtractorNil
		}
		m.tokenExtractor = e
		return nil
	}
}

// WithExclusionUrls configures URL patterns to exclude from token
// verification. URLs can be full URLs or just paths.
func WithExclusionUrls(exclusions []string) Option {
	return func(m *JWTMiddleware) error {
		if len(exclusions) == 0 {
			return ErrExclusionUrlsEmpty
		}
		m.exclusionUrlHandler = func(r *http.Request) bool {
			requestFullURL := r.URL.String()
			requestPath := r.URL.Path

			for _, exclusion := range exclusions {
				if requestFullURL == exclusion || requestPath == exclusion {
					return true
				}
			}
			return false
		}
		return nil
	}
}

// WithExclusionUrlHandler configures a custom handler deciding which
// requests to exclude from token verification. Use it when exclusion
// needs more than exact URL matching, e.g. path prefixes.
func WithExclusionUrlHandler(handler ExclusionUrlHandler) Option {
	return func(m *JWTMiddleware) error {
		if handler == nil {
			return ErrExclusionUrlHandlerNil
		}
		m.exclusionUrlHandler = handler
		return nil
	}
}

// WithAuthorization adds predicates every verified request must satisfy
// before reaching the wrapped handler. A failing predicate results in an
// authorization denial, not an authentication failure.
//
// Example:
//
//	middleware, err := jwtauth.New(engine,
//	    jwtauth.WithAuthorization(core.RequireAnyRole("editor", "admin")),
//	)
func WithAuthorization(predicates ...core.Predicate) Option {
	return func(m *JWTMiddleware) error {
		if len(predicates) == 0 {
			return ErrPredicatesEmpty
		}
		for _, predicate := range predicates {
			if predicate == nil {
				return ErrPredicateNil
			}
		}
		m.predicates = append(m.predicates, predicates...)
		return nil
	}
}

// WithLogger sets an optional logger for the middleware.
//
// The logger interface is compatible with log/slog.Logger and similar
// loggers; adapters for zap, zerolog and logrus live in this package.
//
// Example:
//
//	middleware, err := jwtauth.New(engine,
//	    jwtauth.WithLogger(slog.Default()),
//	)
func WithLogger(logger Logger) Option {
	return func(m *JWTMiddleware) error {
		if logger == nil {
			return ErrLoggerNil
		}
		m.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics sink request outcomes are reported to.
//
// Default: NoopMetrics
func WithMetrics(metrics Metrics) Option {
	return func(m *JWTMiddleware) error {
		if metrics == nil {
			return ErrMetricsNil
		}
		m.metrics = metrics
		return nil
	}
}

// WithTracer sets the tracer a span per verification is reported to.
//
// Default: NoopTracer
func WithTracer(tracer Tracer) Option {
	return func(m *JWTMiddleware) error {
		if tracer == nil {
			return ErrTracerNil
		}
		m.tracer = tracer
		return nil
	}
}

// Sentinel errors for configuration validation
var (
	ErrEngineNil              = errors.New("engine cannot be nil")
	ErrErrorHandlerNil        = errors.New("errorHandler cannot be nil")
	ErrTokenExtractorNil      = errors.New("tokenExtractor cannot be nil")
	ErrExclusionUrlsEmpty     = errors.New("exclusion URLs list cannot be empty")
	ErrExclusionUrlHandlerNil = errors.New("exclusionUrlHandler cannot be nil")
	ErrPredicatesEmpty        = errors.New("authorization predicates list cannot be empty")
	ErrPredicateNil           = errors.New("authorization predicate cannot be nil")
	ErrLoggerNil              = errors.New("logger cannot be nil")
	ErrMetricsNil             = errors.New("metrics cannot be nil")
	ErrTracerNil              = errors.New("tracer cannot be nil")
)
