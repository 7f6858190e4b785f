package testutils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stockpile/stockpile-api/internal/config"
	"github.com/stockpile/stockpile-api/internal/service/auth"
	"github.com/stretchr/testify/require"
)

const (
	// TestJWTSecret is a dedicated test-only secret for signing JWTs.
	TestJWTSecret = "test-jwt-secret-that-is-32-chars-long"

	// TestTokenLifetimeMinutes is the lifetime of tokens issued in tests.
	TestTokenLifetimeMinutes = 15
)

// TestAuthConfig returns an AuthConfig signed with TestJWTSecret.
func TestAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:            TestJWTSecret,
		TokenLifetimeMinutes: TestTokenLifetimeMinutes,
	}
}

// NewTestJWTService creates a real HMAC JWT service for tests.
func NewTestJWTService(t *testing.T) auth.JWTService {
	t.Helper()

	svc, err := auth.NewJWTService(TestAuthConfig())
	require.NoError(t, err)
	return svc
}

// SignTestToken signs claims with secret, bypassing the service so tests
// can produce tokens the service itself would never issue.
func SignTestToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

// ExpiredTestToken returns a token for email that expired an hour ago.
func ExpiredTestToken(t *testing.T, email string) string {
	t.Helper()

	now := time.Now()
	return SignTestToken(t, TestJWTSecret, jwt.MapClaims{
		"email": email,
		"iat":   now.Add(-2 * time.Hour).Unix(),
		"exp":   now.Add(-time.Hour).Unix(),
	})
}
