package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/stockpile/stockpile-api/internal/api/shared"
	"github.com/stockpile/stockpile-api/internal/service/auth"
)

// AuthMiddleware guards routes with bearer tokens.
type AuthMiddleware struct {
	jwtService auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", auth.ErrMissingToken
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" || strings.Contains(token, " ") {
		return "", auth.ErrMalformedHeader
	}
	return token, nil
}

// Authenticate verifies the bearer token and stores its claims in the
// request context. A missing header is answered with 401. A header that is
// present but malformed, or a token that fails verification, gets 403. The
// next handler runs only after verification succeeded.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := bearerToken(r)
		if err != nil {
			if errors.Is(err, auth.ErrMalformedHeader) {
				shared.RespondWithErrorAndLog(w, r, http.StatusForbidden,
					"Invalid authorization format", err, shared.WithElevatedLogLevel())
				return
			}
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Authorization header required", err)
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				shared.RespondWithErrorAndLog(w, r, http.StatusForbidden, "Token expired", err)
			case errors.Is(err, auth.ErrInvalidToken),
				errors.Is(err, auth.ErrTokenNotYetValid),
				errors.Is(err, auth.ErrMissingToken):
				shared.RespondWithErrorAndLog(w, r, http.StatusForbidden, "Invalid token", err,
					shared.WithElevatedLogLevel())
			default:
				shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
					"Authentication error", err)
			}
			return
		}

		next.ServeHTTP(w, r.WithContext(shared.WithClaims(r.Context(), claims)))
	})
}

// RequireOwner returns middleware that only admits requests whose verified
// email claim equals the query parameter param. It must run after
// Authenticate.
func RequireOwner(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := shared.ClaimsFromContext(r.Context())
			if !ok {
				shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized,
					"Authorization header required", auth.ErrMissingToken)
				return
			}

			requested := r.URL.Query().Get(param)
			if claims.Email == "" || claims.Email != requested {
				shared.RespondWithErrorAndLog(w, r, http.StatusForbidden,
					"Forbidden access", auth.ErrOwnerMismatch, shared.WithElevatedLogLevel())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
