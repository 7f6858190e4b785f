package auth

import (
	"context"
	"time"
)

// JWTService issues and verifies the bearer tokens that guard owner-scoped
// endpoints.
type JWTService interface {
	// GenerateToken signs claims into an access token. Whatever the caller
	// supplies, iat and exp are set by the service and nbf is dropped.
	GenerateToken(ctx context.Context, claims map[string]any) (string, error)

	// ValidateToken verifies the signature and time claims of tokenString.
	// Returns ErrExpiredToken, ErrTokenNotYetValid or ErrInvalidToken on failure.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the verified content of an access token.
type Claims struct {
	// Email is the "email" claim, empty when absent or not a string.
	Email string `json:"email,omitempty"`

	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`

	// Raw holds every claim as decoded from the token.
	Raw map[string]any `json:"-"`
}
