package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/stockpile/stockpile-api/internal/domain"
)

// Global validator instance for reuse
var validate = validator.New()

var (
	// ErrEmptyBody is returned when a request that needs a body has none.
	ErrEmptyBody = errors.New("request body is empty")

	// ErrMalformedBody is returned when a request body is not valid JSON for
	// the target type. The decoder error is wrapped alongside it.
	ErrMalformedBody = errors.New("malformed request body")
)

// DecodeJSON decodes the request body into v. Trailing data after the first
// JSON value is rejected.
func DecodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return ErrEmptyBody
		case errors.As(err, &maxBytesErr):
			return err
		}
		return fmt.Errorf("%w: %w", ErrMalformedBody, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: must contain a single JSON value", ErrMalformedBody)
	}
	return nil
}

// DecodeJSONObject decodes a body that must be a JSON object into a map.
func DecodeJSONObject(r *http.Request) (map[string]any, error) {
	var obj map[string]any
	if err := DecodeJSON(r, &obj); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, domain.NewValidationError("body", "must be a JSON object", nil)
	}
	return obj, nil
}

// ValidateRequest validates the given struct using the validator package.
func ValidateRequest(v interface{}) error {
	if validator, ok := v.(interface{ Validate() error }); ok {
		return validator.Validate()
	}
	return validate.Struct(v)
}

// QueryInt64 parses an optional integer query parameter. ok is false when
// the parameter is absent or empty.
func QueryInt64(r *http.Request, name string) (value int64, ok bool, err error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, false, nil
	}
	value, err = strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, domain.NewValidationError(name, "must be an integer", nil)
	}
	return value, true, nil
}
