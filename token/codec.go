// Package token creates and parses the signed, expiring tokens this
// module authorizes requests with.
//
// The codec is deliberately narrow: it signs claims with a shared HMAC
// secret, verifies signatures and expiry on the way back in, and knows
// nothing about revocation or transport. The verification engine in
// package core composes it with a revocation store.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Default token lifetimes, applied when no explicit lifetime is
// configured. They mirror the common 30 minute access / 24 hour
// refresh split.
const (
	DefaultAccessTTL  = 30 * time.Minute
	DefaultRefreshTTL = 24 * time.Hour
)

// Codec issues and parses signed tokens for a single secret/algorithm
// pair. It is immutable after construction and safe for concurrent use.
type Codec struct {
	secret     []byte
	method     jwt.SigningMethod
	algorithm  Algorithm
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewCodec constructs a Codec for the given shared secret and signing
// algorithm. The secret must be non-empty and the algorithm one of the
// supported HMAC algorithms.
func NewCodec(secret string, algorithm Algorithm, opts ...Option) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("secret cannot be empty")
	}
	if !supportedAlgorithms[algorithm] {
		return nil, errors.New("unsupported signing algorithm: " + string(algorithm))
	}

	c := &Codec{
		secret:     []byte(secret),
		method:     jwt.GetSigningMethod(string(algorithm)),
		algorithm:  algorithm,
		accessTTL:  DefaultAccessTTL,
		refreshTTL: DefaultRefreshTTL,
		now:        time.Now,
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Issue signs claims as a token of the given kind expiring after
// lifetime. A fresh token identifier (jti) is generated on every call
// so two tokens issued in the same instant for the same subject remain
// independently revocable. Issued-at is always the codec's clock
// reading, never caller-supplied, which prevents back-dating; any
// caller-provided jti, iat or exp values are overwritten.
func (c *Codec) Issue(claims Claims, kind Kind, lifetime time.Duration) (string, error) {
	if lifetime <= 0 {
		return "", errors.New("token lifetime must be positive")
	}

	now := c.now().UTC()
	claims.Kind = kind
	claims.ID = uuid.NewString()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(lifetime))

	signed, err := jwt.NewWithClaims(c.method, &claims).SignedString(c.secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// IssueAccess issues an access token with the configured access lifetime.
func (c *Codec) IssueAccess(claims Claims) (string, error) {
	return c.Issue(claims, KindAccess, c.accessTTL)
}

// IssueRefresh issues a refresh token with the configured refresh lifetime.
func (c *Codec) IssueRefresh(claims Claims) (string, error) {
	return c.Issue(claims, KindRefresh, c.refreshTTL)
}

// IssuePair issues an access and refresh token carrying the same claims.
// The two tokens get independent identifiers and their own lifetimes.
func (c *Codec) IssuePair(claims Claims) (Pair, error) {
	access, err := c.IssueAccess(claims)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := c.IssueRefresh(claims)
	if err != nil {
		return Pair{}, err
	}
	return Pair{AccessToken: access, RefreshToken: refresh}, nil
}

// Parse verifies raw against the codec's secret and pinned algorithm
// and returns the decoded claims. Signature and expiry are independent
// checks with distinct error kinds: a bad signature or malformed token
// is ErrInvalid, a good token past its expiry is ErrExpired. Expiry is
// evaluated against the codec's clock.
func (c *Codec) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, c.keyFunc,
		jwt.WithValidMethods([]string{string(c.algorithm)}),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, &expiredError{details: err}
		}
		return nil, &invalidError{details: err}
	}
	return claims, nil
}

func (c *Codec) keyFunc(t *jwt.Token) (any, error) {
	return c.secret, nil
}

// ExpiryOf decodes the expiry claim of raw without verifying the
// signature. Revocation stores use it to learn when a blacklist entry
// becomes safe to garbage-collect; it must never be used to decide
// whether a token is valid. A token without an expiry claim yields the
// zero time and no error.
func ExpiryOf(raw string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return time.Time{}, &invalidError{details: err}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, &invalidError{details: err}
	}
	if exp == nil {
		return time.Time{}, nil
	}
	return exp.Time, nil
}
