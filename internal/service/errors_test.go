package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stockpile/stockpile-api/internal/domain"
	"github.com/stockpile/stockpile-api/internal/domain/pagination"
	"github.com/stockpile/stockpile-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *ServiceError
		expected string
	}{
		{
			name: "with underlying error",
			err: &ServiceError{
				Service:   "inventory",
				Operation: "list_items",
				Message:   "failed to list items",
				Err:       errors.New("boom"),
			},
			expected: "inventory service list_items failed: failed to list items: boom",
		},
		{
			name: "without underlying error",
			err: &ServiceError{
				Service:   "newsletter",
				Operation: "subscribe",
				Message:   "failed to store subscription",
			},
			expected: "newsletter service subscribe failed: failed to store subscription",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestNewServiceError(t *testing.T) {
	t.Run("nil error", func(t *testing.T) {
		assert.NoError(t, newServiceError("inventory", "get_item", "msg", nil))
	})

	passthrough := []error{
		domain.NewValidationError("quantity", "must not be negative", domain.ErrNegativeQuantity),
		pagination.ErrInvalidPagination,
		pagination.ErrPageSizeTooLarge,
		fmt.Errorf("%w: %q", store.ErrInvalidID, "zzz"),
		store.ErrItemNotFound,
	}
	for _, err := range passthrough {
		t.Run("passes through "+err.Error(), func(t *testing.T) {
			assert.Same(t, err, newServiceError("inventory", "op", "msg", err))
		})
	}

	t.Run("wraps other errors", func(t *testing.T) {
		cause := errors.New("driver exploded")
		err := newServiceError("inventory", "list_items", "failed to list items", cause)

		var svcErr *ServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, "inventory", svcErr.Service)
		assert.Equal(t, "list_items", svcErr.Operation)
		assert.ErrorIs(t, err, cause)
		assert.False(t, errors.Is(err, store.ErrStoreUnavailable))
	})

	t.Run("deadline becomes store unavailable", func(t *testing.T) {
		err := newServiceError("inventory", "count_items", "failed", context.DeadlineExceeded)
		assert.ErrorIs(t, err, store.ErrStoreUnavailable)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("store unavailable kept", func(t *testing.T) {
		cause := store.NewStoreError("item", "list", "query failed", store.ErrStoreUnavailable)
		err := newServiceError("inventory", "list_items", "failed", cause)
		assert.ErrorIs(t, err, store.ErrStoreUnavailable)
		assert.ErrorIs(t, err, cause)
	})
}
