/*
Package core provides framework-agnostic token verification that can be
used across different transport layers (HTTP, gRPC, etc.).

The Engine type composes a token codec with an optional revocation store
and encapsulates the verification sequence without dependencies on any
specific transport protocol. This allows the same verification code to
be reused across multiple frameworks and transports.

# Architecture

The core package implements the engine in an engine-adapter split:

	┌──────────────────────────────────────────────┐
	│         Transport Adapters                   │
	│  (HTTP, gRPC, Gin, Echo - Framework Specific)│
	└────────────────┬─────────────────────────────┘
	                 │
	                 ▼
	┌──────────────────────────────────────────────┐
	│       Verification Engine (THIS PACKAGE)     │
	│  • Signature, expiry and kind checks         │
	│  • Revocation lookup (fail closed)           │
	│  • Refresh and revocation operations         │
	│  • Authorization predicates                  │
	└───────────┬─────────────────────┬────────────┘
	            │                     │
	            ▼                     ▼
	┌───────────────────┐   ┌────────────────────┐
	│   token.Codec     │   │  revocation.Store  │
	│  (sign / parse)   │   │  (blacklist)       │
	└───────────────────┘   └────────────────────┘

# Basic Usage

Create an Engine with a codec and options:

	import (
	    "github.com/palisade-io/go-jwt-auth/core"
	    "github.com/palisade-io/go-jwt-auth/revocation"
	    "github.com/palisade-io/go-jwt-auth/token"
	)

	codec, err := token.NewCodec(secret, token.HS256)
	if err != nil {
	    log.Fatal(err)
	}

	store, err := revocation.NewMemoryStore()
	if err != nil {
	    log.Fatal(err)
	}

	engine, err := core.New(
	    core.WithCodec(codec),
	    core.WithStore(store),
	)
	if err != nil {
	    log.Fatal(err)
	}

	claims, err := engine.CheckToken(ctx, tokenString)
	if err != nil {
	    // Handle verification error
	}

NewFromConfig assembles the same wiring from a resolved configuration.

# Verification Order

Verify applies its checks in a fixed short-circuiting order: signature
and structure first, then expiry, then the token kind, and only for a
token that passed all three, the revocation store. Each failure mode has
a distinct error so callers can tell an expired token from a forged one
from a revoked one:

	claims, err := engine.CheckToken(ctx, tokenString)
	if err != nil {
	    switch {
	    case errors.Is(err, core.ErrTokenMissing):
	    case errors.Is(err, token.ErrExpired):
	    case errors.Is(err, token.ErrInvalid):
	    case errors.Is(err, core.ErrTokenRevoked):
	    case errors.Is(err, revocation.ErrStoreUnavailable):
	        // Store outage: the token could not be cleared. Fail closed.
	    }
	}

# Context Helpers

Claims travel through request contexts via SetClaims, GetClaims and
HasClaims:

	ctx = core.SetClaims(ctx, claims)

	claims, err := core.GetClaims(ctx)
	if err != nil {
	    // Claims not found
	}

# Authorization

Predicates express requirements on verified claims. Authorize runs them
and reports the first failure:

	err := core.Authorize(claims,
	    core.RequireAnyRole("editor", "admin"),
	    core.RequireAllPermissions("articles:write"),
	)
	if errors.Is(err, core.ErrAuthorizationDenied) {
	    // 403
	}
*/
package core
