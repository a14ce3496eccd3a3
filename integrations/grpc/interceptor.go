package grpc

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc"

	"github.com/palisade-io/go-jwt-auth/core"
	"github.com/palisade-io/go-jwt-auth/revocation"
)

// ErrEngineNil is returned by New when no engine is supplied.
var ErrEngineNil = errors.New("engine cannot be nil")

// JWTInterceptor verifies bearer tokens on unary and streaming gRPC
// requests using a verification engine.
type JWTInterceptor struct {
	engine              *core.Engine
	tokenExtractor      TokenExtractor
	errorHandler        ErrorHandler
	excludedMethods     map[string]bool
	credentialsOptional bool
	predicates          []core.Predicate
	logger              Logger
}

// New creates a gRPC JWT interceptor around an engine, with behavior
// adjusted by the supplied options.
func New(engine *core.Engine, opts ...Option) (*JWTInterceptor, error) {
	if engine == nil {
		return nil, ErrEngineNil
	}

	interceptor := &JWTInterceptor{
		engine:          engine,
		tokenExtractor:  MetadataTokenExtractor,
		errorHandler:    DefaultErrorHandler,
		excludedMethods: make(map[string]bool),
	}

	for _, opt := range opts {
		if err := opt(interceptor); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	return interceptor, nil
}

// UnaryServerInterceptor returns a grpc.UnaryServerInterceptor that
// verifies the request token and makes the claims available in the
// handler context.
func (i *JWTInterceptor) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if i.excludedMethods[info.FullMethod] {
			if i.logger != nil {
				i.logger.Debug("Skipping token verification for excluded method",
					"method", info.FullMethod)
			}
			return handler(ctx, req)
		}

		verifiedCtx, err := i.verifyRequest(ctx, info.FullMethod)
		if err != nil {
			return nil, err
		}

		return handler(verifiedCtx, req)
	}
}

// StreamServerInterceptor returns a grpc.StreamServerInterceptor that
// verifies the request token and makes the claims available in the
// stream context.
func (i *JWTInterceptor) StreamServerInterceptor() grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		if i.excludedMethods[info.FullMethod] {
			if i.logger != nil {
				i.logger.Debug("Skipping token verification for excluded method",
					"method", info.FullMethod)
			}
			return handler(srv, ss)
		}

		verifiedCtx, err := i.verifyRequest(ss.Context(), info.FullMethod)
		if err != nil {
			return err
		}

		return handler(srv, &wrappedServerStream{ServerStream: ss, ctx: verifiedCtx})
	}
}

// verifyRequest extracts and verifies the token from the context,
// returning a context enriched with the verified claims. Errors are
// already converted to gRPC status errors.
func (i *JWTInterceptor) verifyRequest(ctx context.Context, method string) (context.Context, error) {
	raw, err := i.tokenExtractor(ctx)
	if err != nil {
		i.logDenied(method, err)
		return ctx, i.errorHandler(err)
	}

	claims, err := i.engine.CheckToken(ctx, raw)
	if err != nil {
		if i.credentialsOptional && errors.Is(err, core.ErrTokenMissing) {
			err = nil
		} else {
			i.logDenied(method, err)
			return ctx, i.errorHandler(err)
		}
	}

	// Predicates run even for anonymous requests so that a method
	// requiring a role can never be reached without a token.
	if len(i.predicates) > 0 {
		if err := core.Authorize(claims, i.predicates...); err != nil {
			i.logDenied(method, err)
			return ctx, i.errorHandler(err)
		}
	}

	if claims == nil {
		if i.logger != nil {
			i.logger.Debug("No credentials provided, continuing without claims",
				"method", method)
		}
		return ctx, nil
	}

	return core.SetClaims(ctx, claims), nil
}

// logDenied reports a denial, keeping revocation store outages apart
// from ordinary verification failures.
func (i *JWTInterceptor) logDenied(method string, err error) {
	if i.logger == nil {
		return
	}

	if errors.Is(err, revocation.ErrStoreUnavailable) {
		i.logger.Error("Revocation store unreachable, request denied",
			"error", err,
			"method", method)
		return
	}

	i.logger.Warn("Token verification failed",
		"error", err,
		"method", method)
}

// wrappedServerStream overrides the stream context with one carrying
// the verified claims.
type wrappedServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (w *wrappedServerStream) Context() context.Context {
	return w.ctx
}
