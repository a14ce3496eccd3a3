package jwtauth

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/palisade-io/go-jwt-auth/core"
	"github.com/palisade-io/go-jwt-auth/revocation"
	"github.com/palisade-io/go-jwt-auth/token"
)

func TestDefaultErrorHandler(t *testing.T) {
	testCases := []struct {
		name           string
		err            error
		wantStatusCode int
		wantBody       string
	}{
		{
			name:           "missing token",
			err:            core.ErrTokenMissing,
			wantStatusCode: http.StatusUnauthorized,
			wantBody:       `{"error":"Token is missing"}`,
		},
		{
			name:           "wrapped missing token",
			err:            fmt.Errorf("checking request: %w", core.ErrTokenMissing),
			wantStatusCode: http.StatusUnauthorized,
			wantBody:       `{"error":"Token is missing"}`,
		},
		{
			name:           "expired token",
			err:            token.ErrExpired,
			wantStatusCode: http.StatusUnauthorized,
			wantBody:       `{"error":"Token has expired"}`,
		},
		{
			name:           "revoked token",
			err:            core.ErrTokenRevoked,
			wantStatusCode: http.StatusUnauthorized,
			wantBody:       `{"error":"Token has been revoked"}`,
		},
		{
			name:           "revocation store unavailable",
			err:            fmt.Errorf("%w: connection refused", revocation.ErrStoreUnavailable),
			wantStatusCode: http.StatusUnauthorized,
			wantBody:       `{"error":"Unable to verify token"}`,
		},
		{
			name:           "invalid token",
			err:            token.ErrInvalid,
			wantStatusCode: http.StatusUnauthorized,
			wantBody:       `{"error":"Invalid token"}`,
		},
		{
			name:           "wrapped invalid token",
			err:            fmt.Errorf("%w: signature is invalid", token.ErrInvalid),
			wantStatusCode: http.StatusUnauthorized,
			wantBody:       `{"error":"Invalid token"}`,
		},
		{
			name:           "authorization denied",
			err:            core.ErrAuthorizationDenied,
			wantStatusCode: http.StatusForbidden,
			wantBody:       `{"error":"Access denied"}`,
		},
		{
			name:           "unexpected error",
			err:            assert.AnError,
			wantStatusCode: http.StatusInternalServerError,
			wantBody:       `{"error":"Something went wrong while checking the token"}`,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			recorder := httptest.NewRecorder()
			request := httptest.NewRequest(http.MethodGet, "/protected", nil)

			DefaultErrorHandler(recorder, request, testCase.err)

			assert.Equal(t, testCase.wantStatusCode, recorder.Code)
			assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))
			assert.Equal(t, testCase.wantBody, recorder.Body.String())
		})
	}
}
