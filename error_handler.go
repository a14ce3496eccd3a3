package jwtauth

import (
	"errors"
	"net/http"

	"github.com/palisade-io/go-jwt-auth/core"
	"github.com/palisade-io/go-jwt-auth/revocation"
	"github.com/palisade-io/go-jwt-auth/token"
)

// ErrorHandler is a handler which is called when an error occurs in the
// JWTMiddleware. Among some general errors, this handler also determines
// the response of the JWTMiddleware when a token is missing, invalid,
// expired or revoked. The err can be checked against core.ErrTokenMissing,
// token.ErrInvalid, token.ErrExpired, core.ErrTokenRevoked,
// revocation.ErrStoreUnavailable and core.ErrAuthorizationDenied for
// specific cases. If you implement your own ErrorHandler you MUST take
// these error types into consideration: responding improperly to a
// store-unavailable error in particular would turn a fail-closed check
// into a fail-open one.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// DefaultErrorHandler is the default error handler implementation for
// the JWTMiddleware. If an error handler is not provided via the
// WithErrorHandler option this will be used.
//
// Every authentication failure answers 401 so a probing client cannot
// distinguish a revoked token from an unknown one by status code alone;
// the body differs for legitimate clients. A store outage also answers
// 401: the token could not be cleared against the blacklist and the
// check fails closed. Authorization failures answer 403.
func DefaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	w.Header().Set("Content-Type", "application/json")

	switch {
	case errors.Is(err, core.ErrTokenMissing):
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Token is missing"}`))
	case errors.Is(err, token.ErrExpired):
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Token has expired"}`))
	case errors.Is(err, core.ErrTokenRevoked):
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Token has been revoked"}`))
	case errors.Is(err, revocation.ErrStoreUnavailable):
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Unable to verify token"}`))
	case errors.Is(err, token.ErrInvalid):
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Invalid token"}`))
	case errors.Is(err, core.ErrAuthorizationDenied):
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"Access denied"}`))
	default:
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Something went wrong while checking the token"}`))
	}
}
