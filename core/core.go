package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/palisade-io/go-jwt-auth/token"
)

// Logger defines an optional logging interface for the engine.
// *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Store is the slice of the revocation store the engine consumes.
// Every store in the revocation package satisfies it.
type Store interface {
	Record(ctx context.Context, rawToken, reason string) error
	IsRevoked(ctx context.Context, rawToken string) (bool, error)
}

// Engine is the framework-agnostic token verification engine.
//
// It is stateless beyond its immutable wiring: every call is
// independently safe for concurrent use. When revocation is enabled
// there is no local cache; every verification may reach the store.
type Engine struct {
	codec                *token.Codec
	store                Store
	revocationEnabled    bool
	revocationConfigured bool
	credentialsOptional  bool
	logger               Logger
}

// Codec returns the codec the engine verifies with. Callers that built
// the engine via NewFromConfig use it to issue tokens.
func (e *Engine) Codec() *token.Codec {
	return e.codec
}

// Verify runs the full verification sequence on a raw token and
// returns its claims.
//
// Failures map onto the error taxonomy: malformed tokens, bad
// signatures and kind mismatches match token.ErrInvalid; expiry
// matches token.ErrExpired; a revoked token matches ErrTokenRevoked;
// a revocation backend that cannot answer surfaces its own error
// (matching revocation.ErrStoreUnavailable for the bundled stores)
// so operators can tell an outage apart from an unauthorized user.
// The check fails closed: an unanswerable revocation check never
// passes a token through.
func (e *Engine) Verify(ctx context.Context, raw string, kind token.Kind) (*token.Claims, error) {
	start := time.Now()

	claims, err := e.codec.Parse(raw)
	if err != nil {
		if e.logger != nil {
			e.logger.Error("Token verification failed", "error", err, "duration", time.Since(start))
		}
		return nil, err
	}

	if claims.Kind != kind {
		err := fmt.Errorf("%w: token is %q, expected %q", token.ErrInvalid, claims.Kind, kind)
		if e.logger != nil {
			e.logger.Error("Token verification failed", "error", err, "duration", time.Since(start))
		}
		return nil, err
	}

	if e.revocationEnabled {
		revoked, err := e.store.IsRevoked(ctx, raw)
		if err != nil {
			if e.logger != nil {
				e.logger.Error("Revocation check failed", "error", err, "duration", time.Since(start))
			}
			return nil, err
		}
		if revoked {
			if e.logger != nil {
				e.logger.Warn("Token has been revoked", "subject", claims.Subject)
			}
			return nil, ErrTokenRevoked
		}
	}

	if e.logger != nil {
		e.logger.Debug("Token verified successfully", "subject", claims.Subject, "kind", string(claims.Kind), "duration", time.Since(start))
	}

	return claims, nil
}

// CheckToken verifies a raw access token and returns its claims.
//
// This is the middleware entrypoint:
//   - If raw is empty and credentials are optional, returns (nil, nil)
//   - If raw is empty otherwise, returns ErrTokenMissing
//   - Otherwise runs Verify with the access kind
func (e *Engine) CheckToken(ctx context.Context, raw string) (*token.Claims, error) {
	if raw == "" {
		if e.credentialsOptional {
			if e.logger != nil {
				e.logger.Debug("No token provided, but credentials are optional")
			}
			return nil, nil
		}

		if e.logger != nil {
			e.logger.Warn("No token provided and credentials are required")
		}

		return nil, ErrTokenMissing
	}

	return e.Verify(ctx, raw, token.KindAccess)
}

// Refresh exchanges a valid refresh token for a brand-new access token
// carrying the same subject, roles, permissions and custom claims with
// a fresh jti, issue time and expiry.
//
// The refresh token itself is left untouched: whether it should be
// revoked after use is the caller's policy, via Revoke or RevokePair.
func (e *Engine) Refresh(ctx context.Context, refreshRaw string) (string, error) {
	claims, err := e.Verify(ctx, refreshRaw, token.KindRefresh)
	if err != nil {
		return "", err
	}

	access, err := e.codec.IssueAccess(*claims)
	if err != nil {
		return "", err
	}

	if e.logger != nil {
		e.logger.Info("Access token refreshed", "subject", claims.Subject)
	}

	return access, nil
}

// Revoke verifies the token (either kind) and records it in the
// revocation store. Returns ErrRevocationDisabled when the engine runs
// without revocation.
func (e *Engine) Revoke(ctx context.Context, raw, reason string) error {
	if !e.revocationEnabled {
		return ErrRevocationDisabled
	}

	// Only tokens that still verify are worth recording; anything else
	// is rejected by verification on its own.
	claims, err := e.codec.Parse(raw)
	if err != nil {
		return err
	}

	if err := e.store.Record(ctx, raw, reason); err != nil {
		if e.logger != nil {
			e.logger.Error("Failed to record revocation", "error", err, "subject", claims.Subject)
		}
		return err
	}

	if e.logger != nil {
		e.logger.Info("Token revoked", "subject", claims.Subject, "reason", reason)
	}

	return nil
}

// RevokePair revokes an access/refresh pair in one call, suffixing the
// reason with "_access" and "_refresh" respectively. The second
// revocation is attempted even when the first fails; failures are
// joined into the returned error.
func (e *Engine) RevokePair(ctx context.Context, accessRaw, refreshRaw, reason string) error {
	return errors.Join(
		e.Revoke(ctx, accessRaw, reason+"_access"),
		e.Revoke(ctx, refreshRaw, reason+"_refresh"),
	)
}
