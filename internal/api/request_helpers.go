package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/stockpile/stockpile-api/internal/domain"
	"github.com/stockpile/stockpile-api/internal/domain/pagination"
)

// Query parameter names used by the listing and ownership endpoints.
const (
	queryPage      = "page"
	querySize      = "size"
	queryEmail     = "email"
	queryIncAmount = "incAmount"
)

// getPathID extracts a non-empty identifier from the URL path parameters.
// Format checks are left to the store, which knows its own id scheme.
func getPathID(r *http.Request, paramName string) (string, error) {
	id := chi.URLParam(r, paramName)
	if id == "" {
		return "", domain.NewValidationError(paramName, "is required", domain.ErrInvalidID)
	}
	return id, nil
}

// getPagination parses the page and size query parameters.
func getPagination(r *http.Request) (pagination.Request, error) {
	q := r.URL.Query()
	return pagination.ParseRequest(q.Get(queryPage), q.Get(querySize))
}
