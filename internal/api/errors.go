package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/stockpile/stockpile-api/internal/api/shared"
	"github.com/stockpile/stockpile-api/internal/domain"
	"github.com/stockpile/stockpile-api/internal/domain/pagination"
	"github.com/stockpile/stockpile-api/internal/service/auth"
	"github.com/stockpile/stockpile-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var (
		maxBytesErr   *http.MaxBytesError
		syntaxErr     *json.SyntaxError
		typeErr       *json.UnmarshalTypeError
		validationErr validator.ValidationErrors
	)

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, auth.ErrMalformedHeader),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrOwnerMismatch):
		return http.StatusForbidden

	// Not found errors
	case store.IsNotFoundError(err):
		return http.StatusNotFound

	// Oversized bodies
	case errors.As(err, &maxBytesErr):
		return http.StatusRequestEntityTooLarge

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, pagination.ErrInvalidPagination),
		errors.Is(err, pagination.ErrPageSizeTooLarge),
		errors.Is(err, shared.ErrEmptyBody),
		errors.Is(err, shared.ErrMalformedBody),
		errors.As(err, &syntaxErr),
		errors.As(err, &typeErr),
		errors.As(err, &validationErr):
		return http.StatusBadRequest

	// Store outages, including operation timeouts
	case store.IsUnavailableError(err):
		return http.StatusServiceUnavailable

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var (
		domainErr     *domain.ValidationError
		maxBytesErr   *http.MaxBytesError
		syntaxErr     *json.SyntaxError
		typeErr       *json.UnmarshalTypeError
		validationErr validator.ValidationErrors
	)

	switch {
	case errors.Is(err, auth.ErrMissingToken):
		return "Authorization header required"

	case errors.Is(err, auth.ErrMalformedHeader):
		return "Invalid authorization format"

	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return "Invalid token"

	case errors.Is(err, auth.ErrOwnerMismatch):
		return "Forbidden access"

	case errors.Is(err, store.ErrItemNotFound):
		return "Item not found"

	case errors.Is(err, store.ErrNotFound):
		return "Not found"

	case errors.As(err, &maxBytesErr):
		return "Request body too large"

	case errors.Is(err, pagination.ErrPageSizeTooLarge):
		return "Page size too large"

	case errors.Is(err, pagination.ErrInvalidPagination):
		return "Invalid pagination parameters"

	case errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidID):
		return "Invalid id"

	case errors.As(err, &domainErr):
		return fmt.Sprintf("Invalid %s: %s", domainErr.Field, domainErr.Message)

	case errors.As(err, &validationErr):
		return SanitizeValidationError(err)

	case errors.Is(err, shared.ErrEmptyBody),
		errors.Is(err, shared.ErrMalformedBody),
		errors.As(err, &syntaxErr),
		errors.As(err, &typeErr):
		return "Invalid request format"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case store.IsUnavailableError(err):
		return "Service temporarily unavailable"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	var validationErr validator.ValidationErrors
	if errors.As(err, &validationErr) && len(validationErr) > 0 {
		fe := validationErr[0]
		return fmt.Sprintf("Invalid %s: %s", strings.ToLower(fe.Field()), getValidationTagMessage(fe.Tag()))
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the error response matching err. The client only
// sees the safe message; the raw error is redacted and logged.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)

	var opts []shared.ResponseOption
	if status == http.StatusForbidden {
		opts = append(opts, shared.WithElevatedLogLevel())
	}

	shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err, opts...)
}
