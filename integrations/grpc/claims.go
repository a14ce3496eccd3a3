package grpc

import (
	"context"

	"github.com/palisade-io/go-jwt-auth/core"
	"github.com/palisade-io/go-jwt-auth/token"
)

// GetClaims retrieves the verified claims from the context.
//
// It returns an error if the claims are not found, which usually means
// the handler ran without the interceptor or the request was anonymous.
//
// Example:
//
//	claims, err := grpc.GetClaims(ctx)
//	if err != nil {
//	    return nil, status.Error(codes.Internal, "failed to get claims")
//	}
//	fmt.Println(claims.Subject)
func GetClaims(ctx context.Context) (*token.Claims, error) {
	return core.GetClaims(ctx)
}

// MustGetClaims retrieves the verified claims from the context or
// panics. Use only when you are certain claims exist (e.g., after the
// interceptor has run with credentials required).
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
