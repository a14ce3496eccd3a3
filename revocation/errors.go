package revocation

import (
	"errors"
	"fmt"
)

// ErrStoreUnavailable is returned when a revocation backend cannot be
// reached or answers with something other than a well-formed response.
// Verification treats it as fatal for the request being checked rather
// than letting a possibly revoked token through.
var ErrStoreUnavailable = errors.New("revocation store unavailable")

type unavailableError struct {
	details error
}

func (e *unavailableError) Error() string {
	return fmt.Sprintf("%s: %s", ErrStoreUnavailable, e.details)
}

func (e *unavailableError) Is(target error) bool {
	return target == ErrStoreUnavailable
}

func (e *unavailableError) Unwrap() error {
	return e.details
}
