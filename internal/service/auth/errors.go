package auth

import "errors"

// Common authentication service errors
var (
	// ErrInvalidToken indicates the token format is invalid or signature doesn't match
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrTokenNotYetValid indicates the token is not yet valid (nbf claim in the future)
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")

	// ErrMissingToken indicates a token was expected but not provided
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrMalformedHeader indicates the Authorization header is not "Bearer <token>"
	ErrMalformedHeader = errors.New("authorization header must use the Bearer scheme")

	// ErrOwnerMismatch indicates the token's email claim does not match the
	// requested owner email
	ErrOwnerMismatch = errors.New("token email does not match requested email")
)
