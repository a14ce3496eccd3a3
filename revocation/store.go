// Package revocation provides storage backends for revoked tokens.
//
// A Store marks tokens as invalid before their natural expiry. Token
// identity at the store boundary is the SHA-256 digest of the raw
// token: stores hash locally before any remote call, so raw tokens
// never cross into persistent storage. Entries carry the token's own
// expiry so a backend can drop them once the token would have died
// anyway.
package revocation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/palisade-io/go-jwt-auth/token"
)

// Entry is a single revoked token record.
type Entry struct {
	// TokenHash is the SHA-256 hex digest of the raw token.
	TokenHash string `json:"token_hash"`

	// Reason records why the token was revoked, e.g. "logout".
	Reason string `json:"reason"`

	// RevokedAt is the instant the revocation was recorded.
	RevokedAt time.Time `json:"revoked_at"`

	// ExpiresAt is the token's natural expiry. Nil when the token
	// carries no expiry claim; such entries are never purged.
	ExpiresAt *time.Time `json:"expires_at"`
}

// Stats summarizes the contents of a Store.
type Stats struct {
	Total   int64 `json:"total"`
	Active  int64 `json:"active"`
	Expired int64 `json:"expired"`
}

// Store persists revoked tokens by hash.
//
// Implementations must be safe for concurrent use. IsRevoked sits on
// the hot path of request verification and should answer cheaply; the
// remaining operations are administrative.
type Store interface {
	// Record marks the token as revoked. Recording the same token
	// twice is not an error; the newer entry wins.
	Record(ctx context.Context, rawToken, reason string) error

	// IsRevoked reports whether the token has been recorded. Entries
	// past their natural expiry still count as revoked until purged.
	IsRevoked(ctx context.Context, rawToken string) (bool, error)

	// Remove deletes the entry for the token and reports whether one
	// existed. Revocation is reversible.
	Remove(ctx context.Context, rawToken string) (bool, error)

	// PurgeExpired deletes entries whose natural expiry has passed and
	// returns the number deleted. Entries without an expiry are kept.
	PurgeExpired(ctx context.Context) (int64, error)

	// Stats reports entry counts, for observability only.
	Stats(ctx context.Context) (Stats, error)
}

// HashToken returns the SHA-256 hex digest of a raw token. Stores hold
// digests rather than raw tokens so a leaked revocation list cannot be
// replayed against the API.
func HashToken(raw string) string {
	digest := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(digest[:])
}

// newEntry builds the record for a raw token. The token's expiry is
// decoded locally, without signature verification, so the store knows
// when the entry becomes garbage-collectable. Tokens whose expiry
// cannot be decoded are stored without one and stay until removed.
func newEntry(rawToken, reason string, now time.Time) Entry {
	entry := Entry{
		TokenHash: HashToken(rawToken),
		Reason:    reason,
		RevokedAt: now,
	}

	if expiry, err := token.ExpiryOf(rawToken); err == nil && !expiry.IsZero() {
		entry.ExpiresAt = &expiry
	}

	return entry
}
