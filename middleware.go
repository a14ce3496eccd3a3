package jwtauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/palisade-io/go-jwt-auth/core"
	"github.com/palisade-io/go-jwt-auth/revocation"
	"github.com/palisade-io/go-jwt-auth/token"
)

// JWTMiddleware wraps a verification engine as net/http middleware.
type JWTMiddleware struct {
	engine              *core.Engine
	errorHandler        ErrorHandler
	tokenExtractor      TokenExtractor
	validateOnOptions   bool
	credentialsOptional bool
	exclusionUrlHandler ExclusionUrlHandler
	predicates          []core.Predicate
	logger              Logger
	metrics             Metrics
	tracer              Tracer
}

// ExclusionUrlHandler is a function that takes in a http.Request and returns
// true if the request should be excluded from token validation.
type ExclusionUrlHandler func(r *http.Request) bool

// New constructs a new JWTMiddleware instance around an engine, with
// behavior adjusted by the supplied options.
//
// Example:
//
//	middleware, err := jwtauth.New(engine,
//	    jwtauth.WithCredentialsOptional(false),
//	)
//	if err != nil {
//	    log.Fatalf("failed to create middleware: %v", err)
//	}
func New(engine *core.Engine, opts ...Option) (*JWTMiddleware, error) {
	if engine == nil {
		return nil, ErrEngineNil
	}

	m := &JWTMiddleware{
		engine:            engine,
		validateOnOptions: true,
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	m.applyDefaults()

	return m, nil
}

// applyDefaults sets default values for optional fields not set by options.
func (m *JWTMiddleware) applyDefaults() {
	if m.errorHandler == nil {
		m.errorHandler = DefaultErrorHandler
	}
	if m.tokenExtractor == nil {
		m.tokenExtractor = AuthHeaderTokenExtractor
	}
	if m.metrics == nil {
		m.metrics = &NoopMetrics{}
	}
	if m.tracer == nil {
		m.tracer = &NoopTracer{}
	}
}

// Engine returns the verification engine the middleware wraps. Handlers
// use it for the non-middleware operations: issuing, refreshing and
// revoking tokens.
func (m *JWTMiddleware) Engine() *core.Engine {
	return m.engine
}

// GetClaims retrieves verified claims from the context.
//
// Example:
//
//	claims, err := jwtauth.GetClaims(r.Context())
//	if err != nil {
//	    http.Error(w, "failed to get claims", http.StatusInternalServerError)
//	    return
//	}
//	fmt.Println(claims.Subject)
func GetClaims(ctx context.Context) (*token.Claims, error) {
	return core.GetClaims(ctx)
}

// MustGetClaims retrieves verified claims from the context or panics.
// Use only when you are certain claims exist (e.g., after the middleware
// has run with credentials required).
func MustGetClaims(ctx context.Context) *token.Claims {
	claims, err := core.GetClaims(ctx)
	if err != nil {
		panic(err)
	}
	return claims
}

// HasClaims checks if verified claims exist in the context.
func HasClaims(ctx context.Context) bool {
	return core.HasClaims(ctx)
}

// CheckJWT is the main JWTMiddleware function which performs the main
// logic. It is passed a http.Handler which will be called only if the
// token passes verification and any configured authorization predicates.
func (m *JWTMiddleware) CheckJWT(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// If there's an exclusion handler and the URL matches, skip verification.
		if m.exclusionUrlHandler != nil && m.exclusionUrlHandler(r) {
			if m.logger != nil {
				m.logger.Debug("Skipping token verification for excluded URL",
					"method", r.Method,
					"path", r.URL.Path)
			}
			next.ServeHTTP(w, r)
			return
		}

		// If we don't validate on OPTIONS and this is OPTIONS
		// then continue onto next without validating.
		if !m.validateOnOptions && r.Method == http.MethodOptions {
			if m.logger != nil {
				m.logger.Debug("Skipping token verification for OPTIONS request")
			}
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		span := m.tracer.StartSpan("jwtauth.verify")

		raw, err := m.tokenExtractor(r)
		if err != nil {
			// This is not a missing token: the extractor found an attempt
			// to pass one but could not make sense of it.
			m.deny(w, r, span, start, fmt.Errorf("%w: %s", token.ErrInvalid, err))
			return
		}

		claims, err := m.engine.CheckToken(r.Context(), raw)
		if err != nil {
			if m.credentialsOptional && errors.Is(err, core.ErrTokenMissing) {
				err = nil
			} else {
				m.deny(w, r, span, start, err)
				return
			}
		}

		// Predicates run even for anonymous requests so that an endpoint
		// requiring a role can never be reached without a token.
		if len(m.predicates) > 0 {
			if err := core.Authorize(claims, m.predicates...); err != nil {
				m.deny(w, r, span, start, err)
				return
			}
		}

		m.observe(span, start, resultSuccess)

		if claims == nil {
			if m.logger != nil {
				m.logger.Debug("No credentials provided, continuing without claims")
			}
			next.ServeHTTP(w, r)
			return
		}

		r = r.Clone(core.SetClaims(r.Context(), claims))
		next.ServeHTTP(w, r)
	})
}

// deny records the outcome and hands the error to the error handler.
// A revocation store outage is reported at Error level so operators can
// tell an infrastructure problem apart from ordinary denials.
func (m *JWTMiddleware) deny(w http.ResponseWriter, r *http.Request, span Span, start time.Time, err error) {
	result := resultLabel(err)

	if m.logger != nil {
		if errors.Is(err, revocation.ErrStoreUnavailable) {
			m.logger.Error("Revocation store unreachable, request denied",
				"error", err,
				"method", r.Method,
				"path", r.URL.Path)
		} else {
			m.logger.Warn("Token verification failed",
				"error", err,
				"result", result,
				"method", r.Method,
				"path", r.URL.Path)
		}
	}

	m.observe(span, start, result)
	m.errorHandler(w, r, err)
}

// observe closes the verification span and records request metrics.
func (m *JWTMiddleware) observe(span Span, start time.Time, result string) {
	span.SetTag("result", result)
	span.Finish()

	tags := map[string]string{"result": result}
	m.metrics.IncCounter(metricRequestsTotal, tags)
	m.metrics.ObserveHistogram(metricRequestDuration, time.Since(start).Seconds(), tags)
}

// resultLabel maps a verification error onto the result label used in
// metrics and logs.
func resultLabel(err error) string {
	switch {
	case err == nil:
		return resultSuccess
	case errors.Is(err, core.ErrTokenMissing):
		return resultMissing
	case errors.Is(err, token.ErrExpired):
		return resultExpired
	case errors.Is(err, core.ErrTokenRevoked):
		return resultRevoked
	case errors.Is(err, revocation.ErrStoreUnavailable):
		return resultStoreUnavailable
	case errors.Is(err, core.ErrAuthorizationDenied):
		return resultDenied
	case errors.Is(err, token.ErrInvalid):
		return resultInvalid
	default:
		return resultError
	}
}
