package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stockpile/stockpile-api/internal/api/shared"
	"github.com/stockpile/stockpile-api/internal/mocks"
	"github.com/stockpile/stockpile-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
)

func TestAuthMiddleware_Authenticate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		authHeader     string
		validateErr    error
		claims         *auth.Claims
		expectedStatus int
		expectedEmail  string
	}{
		{
			name:           "valid token",
			authHeader:     "Bearer valid-token",
			claims:         &auth.Claims{Email: "a@x.io"},
			expectedStatus: http.StatusOK,
			expectedEmail:  "a@x.io",
		},
		{
			name:           "lowercase scheme",
			authHeader:     "bearer valid-token",
			claims:         &auth.Claims{Email: "a@x.io"},
			expectedStatus: http.StatusOK,
			expectedEmail:  "a@x.io",
		},
		{
			name:           "missing auth header",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "no scheme",
			authHeader:     "valid-token",
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "wrong scheme",
			authHeader:     "Basic dXNlcjpwYXNz",
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "empty token",
			authHeader:     "Bearer ",
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "scheme only",
			authHeader:     "Bearer",
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "garbage header",
			authHeader:     "garbage",
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "expired token",
			authHeader:     "Bearer expired-token",
			validateErr:    auth.ErrExpiredToken,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "invalid token",
			authHeader:     "Bearer invalid-token",
			validateErr:    auth.ErrInvalidToken,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "unexpected failure",
			authHeader:     "Bearer token",
			validateErr:    errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			jwtService := &mocks.MockJWTService{
				ValidateErr: tc.validateErr,
				Claims:      tc.claims,
			}
			mw := NewAuthMiddleware(jwtService)

			called := false
			var gotEmail string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				if c, ok := shared.ClaimsFromContext(r.Context()); ok {
					gotEmail = c.Email
				}
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/myitem", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			w := httptest.NewRecorder()

			mw.Authenticate(next).ServeHTTP(w, req)

			assert.Equal(t, tc.expectedStatus, w.Code)
			assert.Equal(t, tc.expectedStatus == http.StatusOK, called,
				"next handler must run only after successful verification")
			assert.Equal(t, tc.expectedEmail, gotEmail)
		})
	}
}

func TestAuthMiddleware_PassesTokenToService(t *testing.T) {
	t.Parallel()

	var got string
	jwtService := &mocks.MockJWTService{
		ValidateTokenFn: func(_ context.Context, token string) (*auth.Claims, error) {
			got = token
			return &auth.Claims{Email: "a@x.io"}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/myitem", nil)
	req.Header.Set("Authorization", "Bearer abc.def.ghi")
	w := httptest.NewRecorder()

	NewAuthMiddleware(jwtService).Authenticate(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).
		ServeHTTP(w, req)

	assert.Equal(t, "abc.def.ghi", got)
}

func TestRequireOwner(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		claims         *auth.Claims
		query          string
		expectedStatus int
	}{
		{"matching email", &auth.Claims{Email: "a@x.io"}, "?email=a@x.io", http.StatusOK},
		{"different email", &auth.Claims{Email: "a@x.io"}, "?email=b@x.io", http.StatusForbidden},
		{"case differs", &auth.Claims{Email: "a@x.io"}, "?email=A@x.io", http.StatusForbidden},
		{"missing query email", &auth.Claims{Email: "a@x.io"}, "", http.StatusForbidden},
		{"claim without email", &auth.Claims{}, "?email=", http.StatusForbidden},
		{"no claims", nil, "?email=a@x.io", http.StatusUnauthorized},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/myitem"+tc.query, nil)
			if tc.claims != nil {
				req = req.WithContext(shared.WithClaims(req.Context(), tc.claims))
			}
			w := httptest.NewRecorder()

			RequireOwner("email")(next).ServeHTTP(w, req)

			assert.Equal(t, tc.expectedStatus, w.Code)
			assert.Equal(t, tc.expectedStatus == http.StatusOK, called)
		})
	}
}
