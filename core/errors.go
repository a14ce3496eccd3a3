package core

import (
	"errors"
	"fmt"
)

var (
	// ErrTokenMissing is returned when no token is supplied and
	// credentials are not optional.
	ErrTokenMissing = errors.New("token missing")

	// ErrTokenRevoked is returned when a structurally valid token is
	// found in the revocation store.
	ErrTokenRevoked = errors.New("token revoked")

	// ErrRevocationDisabled is returned by revocation operations when
	// the engine was built without a revocation store.
	ErrRevocationDisabled = errors.New("revocation is not enabled")

	// ErrAuthorizationDenied is returned when verified claims fail an
	// authorization predicate.
	ErrAuthorizationDenied = errors.New("authorization denied")

	// ErrClaimsNotFound is returned when claims are requested from a
	// context that does not carry any.
	ErrClaimsNotFound = errors.New("claims not found in context")
)

type deniedError struct {
	requirement string
}

func (e *deniedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrAuthorizationDenied, e.requirement)
}

func (e *deniedError) Is(target error) bool {
	return target == ErrAuthorizationDenied
}
