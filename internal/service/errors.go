package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/stockpile/stockpile-api/internal/domain"
	"github.com/stockpile/stockpile-api/internal/domain/pagination"
	"github.com/stockpile/stockpile-api/internal/store"
)

// ServiceError wraps errors from the services with context.
type ServiceError struct {
	// Service is the service that failed (e.g., "inventory", "newsletter")
	Service string
	// Operation is the operation that failed (e.g., "list_items", "subscribe")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s failed: %s: %v", e.Service, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s service %s failed: %s", e.Service, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// newServiceError returns caller errors (validation, not found, bad ids)
// unchanged and wraps everything else. A deadline hit inside the store call
// is reported as store unavailability.
func newServiceError(service, operation, message string, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, pagination.ErrInvalidPagination),
		errors.Is(err, pagination.ErrPageSizeTooLarge),
		errors.Is(err, store.ErrInvalidID),
		store.IsNotFoundError(err):
		return err
	}

	if !store.IsUnavailableError(err) &&
		(errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)) {
		err = fmt.Errorf("%w: %w", store.ErrStoreUnavailable, err)
	}

	return &ServiceError{
		Service:   service,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
