package token

import (
	"errors"
	"fmt"
)

// Sentinel errors reported by the codec. Signature and expiry failures
// are always distinct: a token that fails signature verification is
// ErrInvalid even if it is also past its expiry.
var (
	// ErrInvalid is returned for tokens that are malformed, carry a bad
	// signature, or were signed with an unexpected algorithm.
	ErrInvalid = errors.New("token invalid")

	// ErrExpired is returned for structurally valid, correctly signed
	// tokens whose expiry has passed.
	ErrExpired = errors.New("token expired")
)

// invalidError wraps a parse failure with ErrInvalid so callers can use
// errors.Is while the message keeps the underlying detail.
type invalidError struct {
	details error
}

func (e *invalidError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalid, e.details)
}

func (e *invalidError) Is(target error) bool {
	return target == ErrInvalid
}

func (e *invalidError) Unwrap() error {
	return e.details
}

// expiredError wraps an expiry failure with ErrExpired.
type expiredError struct {
	details error
}

func (e *expiredError) Error() string {
	return fmt.Sprintf("%s: %s", ErrExpired, e.details)
}

func (e *expiredError) Is(target error) bool {
	return target == ErrExpired
}

func (e *expiredError) Unwrap() error {
	return e.details
}
