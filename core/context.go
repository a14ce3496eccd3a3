package core

import (
	"context"

	"github.com/palisade-io/go-jwt-auth/token"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey int

const claimsKey contextKey = iota

// SetClaims returns a child context carrying the verified claims.
// Middleware calls it after verification so handlers downstream can
// read the caller's identity.
func SetClaims(ctx context.Context, claims *token.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// GetClaims retrieves the verified claims stored by SetClaims. It
// returns ErrClaimsNotFound when the context does not carry any, which
// usually means the handler ran outside the middleware.
func GetClaims(ctx context.Context) (*token.Claims, error) {
	claims, ok := ctx.Value(claimsKey).(*token.Claims)
	if !ok || claims == nil {
		return nil, ErrClaimsNotFound
	}
	return claims, nil
}

// HasClaims reports whether the context carries verified claims.
func HasClaims(ctx context.Context) bool {
	claims, ok := ctx.Value(claimsKey).(*token.Claims)
	return ok && claims != nil
}
