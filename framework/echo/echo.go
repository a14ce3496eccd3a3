package jwtauthecho

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	jwtauth "github.com/palisade-io/go-jwt-auth"
	"github.com/palisade-io/go-jwt-auth/core"
	"github.com/palisade-io/go-jwt-auth/token"
)

// DefaultClaimsKey is the echo context key verified claims are stored under.
const DefaultClaimsKey = "jwt"

// echoContextKey carries the echo.Context through the request context so
// the error handler can reach it.
type echoContextKey struct{}

type config struct {
	errorHandler   func(echo.Context, error)
	contextKey     string
	middlewareOpts []jwtauth.Option
}

// New creates an echo middleware that verifies the request token against
// the engine before the handler runs. Verified claims are stored both in
// the request context and on the echo context under the configured
// claims key.
func New(engine *core.Engine, opts ...Option) (echo.MiddlewareFunc, error) {
	cfg := &config{
		errorHandler: DefaultErrorHandler,
		contextKey:   DefaultClaimsKey,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	middlewareOpts := append([]jwtauth.Option{
		jwtauth.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			if c, ok := r.Context().Value(echoContextKey{}).(echo.Context); ok && c != nil {
				cfg.errorHandler(c, err)
				return
			}
			jwtauth.DefaultErrorHandler(w, r, err)
		}),
	}, cfg.middlewareOpts...)

	middleware, err := jwtauth.New(engine, middlewareOpts...)
	if err != nil {
		return nil, err
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Make the echo context reachable from the error handler.
			ctx := context.WithValue(c.Request().Context(), echoContextKey{}, c)
			c.SetRequest(c.Request().WithContext(ctx))

			var nextErr error
			handled := false
			var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
				handled = true
				c.SetRequest(r)

				if claims, err := jwtauth.GetClaims(r.Context()); err == nil {
					c.Set(cfg.contextKey, claims)
				}

				nextErr = next(c)
			}

			middleware.CheckJWT(handler).ServeHTTP(c.Response(), c.Request())

			if !handled {
				// The error handler already wrote the response.
				return nil
			}

			return nextErr
		}
	}, nil
}

// DefaultErrorHandler writes the same JSON error responses as the plain
// net/http middleware.
func DefaultErrorHandler(c echo.Context, err error) {
	jwtauth.DefaultErrorHandler(c.Response(), c.Request(), err)
}

// GetClaims retrieves verified claims stored on the echo context. An
// empty contextKey falls back to DefaultClaimsKey.
func GetClaims(c echo.Context, contextKey string) (*token.Claims, bool) {
	if contextKey == "" {
		contextKey = DefaultClaimsKey
	}

	claims, ok := c.Get(contextKey).(*token.Claims)
	return claims, ok
}
