package grpc

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc/metadata"
)

// Extraction errors returned by MetadataTokenExtractor.
var (
	ErrMultipleAuthHeaders = errors.New("multiple authorization metadata entries are not allowed")
	ErrInvalidAuthFormat   = errors.New("invalid authorization metadata format, expected: Bearer <token>")
	ErrUnsupportedScheme   = errors.New("unsupported authorization scheme, expected: Bearer")
)

// TokenExtractor is a function that takes an incoming request context
// and returns either a token or an error. An error should only be
// returned if a token was present but malformed; an empty string with
// no error signals an anonymous request.
type TokenExtractor func(ctx context.Context) (string, error)

// MetadataTokenExtractor extracts a bearer token from the
// "authorization" entry of the incoming gRPC metadata. The scheme is
// matched case-insensitively.
func MetadataTokenExtractor(ctx context.Context) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", nil
	}

	values := md.Get("authorization")
	if len(values) == 0 {
		return "", nil
	}
	if len(values) > 1 {
		return "", ErrMultipleAuthHeaders
	}

	parts := strings.Fields(values[0])
	if len(parts) != 2 {
		return "", ErrInvalidAuthFormat
	}
	if !strings.EqualFold(parts[0], "bearer") {
		return "", ErrUnsupportedScheme
	}

	return parts[1], nil
}
