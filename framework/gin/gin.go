package jwtauthgin

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	jwtauth "github.com/palisade-io/go-jwt-auth"
	"github.com/palisade-io/go-jwt-auth/core"
	"github.com/palisade-io/go-jwt-auth/token"
)

// DefaultClaimsKey is the gin context key verified claims are stored under.
const DefaultClaimsKey = "jwt"

var (
	ErrMissingClaims = errors.New("no claims found in context")
	ErrInvalidClaims = errors.New("invalid claims type")
)

// ginContextKey carries the *gin.Context through the request context so
// the error handler can reach it.
type ginContextKey struct{}

type config struct {
	errorHandler   func(*gin.Context, error)
	contextKey     string
	middlewareOpts []jwtauth.Option
}

// New creates a gin middleware that verifies the request token against
// the engine before the rest of the chain runs. Verified claims are
// stored both in the request context and on the gin context under the
// configured claims key.
func New(engine *core.Engine, opts ...Option) (gin.HandlerFunc, error) {
	cfg := &config{
		errorHandler: DefaultErrorHandler,
		contextKey:   DefaultClaimsKey,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	middlewareOpts := append([]jwtauth.Option{
		jwtauth.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			if c, ok := r.Context().Value(ginContextKey{}).(*gin.Context); ok && c != nil {
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

	return func(c *gin.Context) {
		// Make the gin context reachable from the error handler.
		ctx := context.WithValue(c.Request.Context(), ginContextKey{}, c)
		c.Request = c.Request.WithContext(ctx)

		handled := false
		var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
			handled = true
			c.Request = r

			if claims, err := jwtauth.GetClaims(r.Context()); err == nil {
				c.Set(cfg.contextKey, claims)
			}

			c.Next()
		}

		middleware.CheckJWT(handler).ServeHTTP(c.Writer, c.Request)

		if !handled {
			c.Abort()
		}
	}, nil
}

// DefaultErrorHandler writes the same JSON error responses as the plain
// net/http middleware and aborts the chain.
func DefaultErrorHandler(c *gin.Context, err error) {
	jwtauth.DefaultErrorHandler(c.Writer, c.Request, err)
	c.Abort()
}

// GetClaims retrieves verified claims stored on the gin context. An
// empty contextKey falls back to DefaultClaimsKey.
func GetClaims(c *gin.Context, contextKey string) (*token.Claims, error) {
	if contextKey == "" {
		contextKey = DefaultClaimsKey
	}

	value, exists := c.Get(contextKey)
	if !exists {
		return nil, ErrMissingClaims
	}

	claims, ok := value.(*token.Claims)
	if !ok {
		return nil, ErrInvalidClaims
	}

	return claims, nil
}
