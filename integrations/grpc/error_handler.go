package grpc

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/palisade-io/go-jwt-auth/core"
	"github.com/palisade-io/go-jwt-auth/revocation"
	"github.com/palisade-io/go-jwt-auth/token"
)

// ErrorHandler converts a verification error into the gRPC status
// error returned to the client.
type ErrorHandler func(err error) error

// DefaultErrorHandler maps verification errors onto gRPC status codes.
// Missing, expired, revoked and invalid tokens become Unauthenticated,
// authorization failures become PermissionDenied, malformed
// authorization metadata becomes InvalidArgument, and a revocation
// store outage becomes Unavailable.
func DefaultErrorHandler(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, core.ErrTokenMissing):
		return status.Error(codes.Unauthenticated, "missing credentials")
	case errors.Is(err, token.ErrExpired):
		return status.Error(codes.Unauthenticated, "token has expired")
	case errors.Is(err, core.ErrTokenRevoked):
		return status.Error(codes.Unauthenticated, "token has been revoked")
	case errors.Is(err, revocation.ErrStoreUnavailable):
		return status.Error(codes.Unavailable, "unable to verify token")
	case errors.Is(err, core.ErrAuthorizationDenied):
		return status.Error(codes.PermissionDenied, "access denied")
	case errors.Is(err, ErrMultipleAuthHeaders),
		errors.Is(err, ErrInvalidAuthFormat),
		errors.Is(err, ErrUnsupportedScheme):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, token.ErrInvalid):
		return status.Error(codes.Unauthenticated, "invalid token")
	default:
		return status.Error(codes.Unauthenticated, "invalid or malformed token")
	}
}
