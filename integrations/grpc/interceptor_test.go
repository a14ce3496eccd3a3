package grpc

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/palisade-io/go-jwt-auth/core"
	"github.com/palisade-io/go-jwt-auth/revocation"
	"github.com/palisade-io/go-jwt-auth/token"
)

const testSecret = "grpc-test-secret"

func newTestEngine(t *testing.T, opts ...core.Option) *core.Engine {
	t.Helper()

	codec, err := token.NewCodec(testSecret, token.HS256)
	require.NoError(t, err)

	store, err := revocation.NewMemoryStore()
	require.NoError(t, err)

	engineOpts := append([]core.Option{
		core.WithCodec(codec),
		core.WithStore(store),
	}, opts...)

	engine, err := core.New(engineOpts...)
	require.NoError(t, err)
	return engine
}

func incomingContext(authorization ...string) context.Context {
	md := metadata.MD{}
	if len(authorization) > 0 {
		md.Set("authorization", authorization...)
	}
	return metadata.NewIncomingContext(context.Background(), md)
}

type mockLogger struct {
	onDebug func(msg string, args ...any)
	onWarn  func(msg string, args ...any)
	onError func(msg string, args ...any)
}

func (m *mockLogger) Debug(msg string, args ...any) {
	if m.onDebug != nil {
		m.onDebug(msg, args...)
	}
}

func (m *mockLogger) Info(msg string, args ...any) {}

func (m *mockLogger) Warn(msg string, args ...any) {
	if m.onWarn != nil {
		m.onWarn(msg, args...)
	}
}

func (m *mockLogger) Error(msg string, args ...any) {
	if m.onError != nil {
		m.onError(msg, args...)
	}
}

type mockServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (m *mockServerStream) Context() context.Context {
	return m.ctx
}

func Test_New(t *testing.T) {
	t.Run("nil engine", func(t *testing.T) {
		interceptor, err := New(nil)
		assert.ErrorIs(t, err, ErrEngineNil)
		assert.Nil(t, interceptor)
	})

	t.Run("defaults", func(t *testing.T) {
		engine := newTestEngine(t)

		interceptor, err := New(engine)
		require.NoError(t, err)

		assert.Same(t, engine, interceptor.engine)
		assert.NotNil(t, interceptor.tokenExtractor)
		assert.NotNil(t, interceptor.errorHandler)
		assert.NotNil(t, interceptor.excludedMethods)
		assert.Empty(t, interceptor.excludedMethods)
		assert.False(t, interceptor.credentialsOptional)
		assert.Nil(t, interceptor.logger)
	})
}

func Test_UnaryServerInterceptor(t *testing.T) {
	engine := newTestEngine(t)
	codec := engine.Codec()

	userClaims := token.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
		Roles:            []string{"user"},
	}
	adminClaims := token.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "admin-1"},
		Roles:            []string{"admin"},
	}

	validToken, err := codec.IssueAccess(userClaims)
	require.NoError(t, err)
	adminToken, err := codec.IssueAccess(adminClaims)
	require.NoError(t, err)

	revokedToken, err := codec.IssueAccess(token.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-2"},
	})
	require.NoError(t, err)
	require.NoError(t, engine.Revoke(context.Background(), revokedToken, "compromised"))

	backdatedCodec, err := token.NewCodec(testSecret, token.HS256,
		token.WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) }),
	)
	require.NoError(t, err)
	expiredToken, err := backdatedCodec.IssueAccess(userClaims)
	require.NoError(t, err)

	testCases := []struct {
		name        string
		options     []Option
		ctx         context.Context
		wantCode    codes.Code
		wantMessage string
		wantSubject string
	}{
		{
			name:        "valid token",
			ctx:         incomingContext("Bearer " + validToken),
			wantSubject: "user-1",
		},
		{
			name:        "no incoming metadata",
			ctx:         context.Background(),
			wantCode:    codes.Unauthenticated,
			wantMessage: "missing credentials",
		},
		{
			name:        "metadata without authorization entry",
			ctx:         incomingContext(),
			wantCode:    codes.Unauthenticated,
			wantMessage: "missing credentials",
		},
		{
			name:        "multiple authorization entries",
			ctx:         incomingContext("Bearer "+validToken, "Bearer "+adminToken),
			wantCode:    codes.InvalidArgument,
			wantMessage: ErrMultipleAuthHeaders.Error(),
		},
		{
			name:        "authorization entry without scheme",
			ctx:         incomingContext(validToken),
			wantCode:    codes.InvalidArgument,
			wantMessage: ErrInvalidAuthFormat.Error(),
		},
		{
			name:        "unsupported authorization scheme",
			ctx:         incomingContext("Basic " + validToken),
			wantCode:    codes.InvalidArgument,
			wantMessage: ErrUnsupportedScheme.Error(),
		},
		{
			name:        "tampered token",
			ctx:         incomingContext("Bearer " + validToken + "x"),
			wantCode:    codes.Unauthenticated,
			wantMessage: "invalid token",
		},
		{
			name:        "expired token",
			ctx:         incomingContext("Bearer " + expiredToken),
			wantCode:    codes.Unauthenticated,
			wantMessage: "token has expired",
		},
		{
			name:        "revoked token",
			ctx:         incomingContext("Bearer " + revokedToken),
			wantCode:    codes.Unauthenticated,
			wantMessage: "token has been revoked",
		},
		{
			name:    "credentials optional allows anonymous request",
			options: []Option{WithCredentialsOptional(true)},
			ctx:     context.Background(),
		},
		{
			name:        "credentials optional still rejects a bad token",
			options:     []Option{WithCredentialsOptional(true)},
			ctx:         incomingContext("Bearer i-am-not-a-token"),
			wantCode:    codes.Unauthenticated,
			wantMessage: "invalid token",
		},
		{
			name:        "authorization denied",
			options:     []Option{WithAuthorization(core.RequireAdmin())},
			ctx:         incomingContext("Bearer " + validToken),
			wantCode:    codes.PermissionDenied,
			wantMessage: "access denied",
		},
		{
			name:        "authorization passes for admin",
			options:     []Option{WithAuthorization(core.RequireAdmin())},
			ctx:         incomingContext("Bearer " + adminToken),
			wantSubject: "admin-1",
		},
		{
			name: "predicates run for anonymous requests",
			options: []Option{
				WithCredentialsOptional(true),
				WithAuthorization(core.RequireAdmin()),
			},
			ctx:         context.Background(),
			wantCode:    codes.PermissionDenied,
			wantMessage: "access denied",
		},
		{
			name: "custom error handler",
			options: []Option{
				WithErrorHandler(func(err error) error {
					return status.Error(codes.Internal, "custom error")
				}),
			},
			ctx:         context.Background(),
			wantCode:    codes.Internal,
			wantMessage: "custom error",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			interceptor, err := New(engine, testCase.options...)
			require.NoError(t, err)

			var handlerCalled bool
			var gotSubject string
			handler := func(ctx context.Context, req any) (any, error) {
				handlerCalled = true
				if claims, claimsErr := GetClaims(ctx); claimsErr == nil {
					gotSubject = claims.Subject
				}
				return "ok", nil
			}

			resp, err := interceptor.UnaryServerInterceptor()(testCase.ctx, nil, &grpc.UnaryServerInfo{
				FullMethod: "/test.Service/Method",
			}, handler)

			if testCase.wantCode != codes.OK {
				require.Error(t, err)
				st, ok := status.FromError(err)
				require.True(t, ok)
				assert.Equal(t, testCase.wantCode, st.Code())
				assert.Equal(t, testCase.wantMessage, st.Message())
				assert.False(t, handlerCalled)
				assert.Nil(t, resp)
				return
			}

			require.NoError(t, err)
			assert.True(t, handlerCalled)
			assert.Equal(t, "ok", resp)
			assert.Equal(t, testCase.wantSubject, gotSubject)
		})
	}
}

func Test_UnaryServerInterceptor_ExcludedMethod(t *testing.T) {
	engine := newTestEngine(t)

	var debugMessages []string
	logger := &mockLogger{
		onDebug: func(msg string, args ...any) {
			debugMessages = append(debugMessages, msg)
		},
	}

	interceptor, err := New(engine,
		WithExcludedMethods("/grpc.health.v1.Health/Check"),
		WithLogger(logger),
	)
	require.NoError(t, err)

	var handlerCalled bool
	handler := func(ctx context.Context, req any) (any, error) {
		handlerCalled = true
		assert.False(t, HasClaims(ctx))
		return "ok", nil
	}

	resp, err := interceptor.UnaryServerInterceptor()(context.Background(), nil, &grpc.UnaryServerInfo{
		FullMethod: "/grpc.health.v1.Health/Check",
	}, handler)

	require.NoError(t, err)
	assert.True(t, handlerCalled)
	assert.Equal(t, "ok", resp)
	assert.Contains(t, debugMessages, "Skipping token verification for excluded method")

	handlerCalled = false
	_, err = interceptor.UnaryServerInterceptor()(context.Background(), nil, &grpc.UnaryServerInfo{
		FullMethod: "/test.Service/Method",
	}, handler)

	require.Error(t, err)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	assert.False(t, handlerCalled)
}

func Test_UnaryServerInterceptor_StoreUnavailable(t *testing.T) {
	codec, err := token.NewCodec(testSecret, token.HS256)
	require.NoError(t, err)

	engine, err := core.New(
		core.WithCodec(codec),
		core.WithStore(unavailableStore{}),
	)
	require.NoError(t, err)

	validToken, err := codec.IssueAccess(token.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
	})
	require.NoError(t, err)

	var errorMessages, warnMessages []string
	logger := &mockLogger{
		onWarn: func(msg string, args ...any) {
			warnMessages = append(warnMessages, msg)
		},
		onError: func(msg string, args ...any) {
			errorMessages = append(errorMessages, msg)
		},
	}

	interceptor, err := New(engine, WithLogger(logger))
	require.NoError(t, err)

	var handlerCalled bool
	handler := func(ctx context.Context, req any) (any, error) {
		handlerCalled = true
		return "ok", nil
	}

	_, err = interceptor.UnaryServerInterceptor()(incomingContext("Bearer "+validToken), nil, &grpc.UnaryServerInfo{
		FullMethod: "/test.Service/Method",
	}, handler)

	require.Error(t, err)
	st, ok := status.FromError(err)
	require.True(t, ok)
	assert.Equal(t, codes.Unavailable, st.Code())
	assert.Equal(t, "unable to verify token", st.Message())
	assert.False(t, handlerCalled)
	assert.Equal(t, []string{"Revocation store unreachable, request denied"}, errorMessages)
	assert.Empty(t, warnMessages)
}

type unavailableStore struct{}

func (unavailableStore) Record(ctx context.Context, rawToken, reason string) error {
	return revocation.ErrStoreUnavailable
}

func (unavailableStore) IsRevoked(ctx context.Context, rawToken string) (bool, error) {
	return false, revocation.ErrStoreUnavailable
}

func Test_StreamServerInterceptor(t *testing.T) {
	engine := newTestEngine(t)
	codec := engine.Codec()

	validToken, err := codec.IssueAccess(token.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
	})
	require.NoError(t, err)

	testCases := []struct {
		name        string
		options     []Option
		ctx         context.Context
		method      string
		wantCode    codes.Code
		wantSubject string
	}{
		{
			name:        "valid token reaches handler with claims",
			ctx:         incomingContext("Bearer " + validToken),
			method:      "/test.Service/Watch",
			wantSubject: "user-1",
		},
		{
			name:     "missing credentials",
			ctx:      context.Background(),
			method:   "/test.Service/Watch",
			wantCode: codes.Unauthenticated,
		},
		{
			name:     "excluded method skips verification",
			options:  []Option{WithExcludedMethods("/test.Service/PublicWatch")},
			ctx:      context.Background(),
			method:   "/test.Service/PublicWatch",
			wantCode: codes.OK,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			interceptor, err := New(engine, testCase.options...)
			require.NoError(t, err)

			var handlerCalled bool
			var gotSubject string
			handler := func(srv any, stream grpc.ServerStream) error {
				handlerCalled = true
				if claims, claimsErr := GetClaims(stream.Context()); claimsErr == nil {
					gotSubject = claims.Subject
				}
				return nil
			}

			err = interceptor.StreamServerInterceptor()(nil, &mockServerStream{ctx: testCase.ctx}, &grpc.StreamServerInfo{
				FullMethod: testCase.method,
			}, handler)

			if testCase.wantCode != codes.OK {
				require.Error(t, err)
				assert.Equal(t, testCase.wantCode, status.Code(err))
				assert.False(t, handlerCalled)
				return
			}

			require.NoError(t, err)
			assert.True(t, handlerCalled)
			assert.Equal(t, testCase.wantSubject, gotSubject)
		})
	}
}

func Test_GetClaims(t *testing.T) {
	claims := &token.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
	}
	ctx := core.SetClaims(context.Background(), claims)

	got, err := GetClaims(ctx)
	require.NoError(t, err)
	assert.Same(t, claims, got)
	assert.True(t, HasClaims(ctx))

	_, err = GetClaims(context.Background())
	assert.ErrorIs(t, err, core.ErrClaimsNotFound)
	assert.False(t, HasClaims(context.Background()))
}

func Test_MustGetClaims(t *testing.T) {
	claims := &token.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
	}
	ctx := core.SetClaims(context.Background(), claims)

	assert.Same(t, claims, MustGetClaims(ctx))
	assert.Panics(t, func() {
		MustGetClaims(context.Background())
	})
}
