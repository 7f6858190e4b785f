package store

import (
	"context"

	"github.com/stockpile/stockpile-api/internal/domain"
	"github.com/stockpile/stockpile-api/internal/domain/pagination"
)

// ItemFilter narrows an item listing or count. The zero value matches every item.
type ItemFilter struct {
	// UserEmail, when non-empty, restricts results to items owned by that address.
	UserEmail string
}

// IsEmpty reports whether the filter matches every item.
func (f ItemFilter) IsEmpty() bool {
	return f.UserEmail == ""
}

// InsertResult acknowledges an insert.
type InsertResult struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   string `json:"insertedId"`
}

// UpdateResult acknowledges an update. MatchedCount is zero when no
// document had the requested identifier.
type UpdateResult struct {
	Acknowledged  bool    `json:"acknowledged"`
	MatchedCount  int64   `json:"matchedCount"`
	ModifiedCount int64   `json:"modifiedCount"`
	UpsertedCount int64   `json:"upsertedCount"`
	UpsertedID    *string `json:"upsertedId"`
}

// DeleteResult acknowledges a delete. Deleting an unknown identifier is not
// an error; DeletedCount is simply zero.
type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

// ItemStore defines the interface for inventory item persistence.
// Every method performs a single round trip and honours ctx cancellation.
type ItemStore interface {
	// ListItems returns the items matching filter, restricted to window.
	// Items are returned in the backend's stable listing order.
	ListItems(ctx context.Context, filter ItemFilter, window pagination.Window) ([]*domain.Item, error)

	// CountItems counts the items matching filter. For an empty filter the
	// backend may return a fast estimate; filtered counts are exact.
	CountItems(ctx context.Context, filter ItemFilter) (int64, error)

	// GetItem retrieves an item by its identifier.
	// Returns ErrItemNotFound if the item does not exist and ErrInvalidID
	// if id is malformed.
	GetItem(ctx context.Context, id string) (*domain.Item, error)

	// InsertItem stores item under a freshly generated identifier, which is
	// also written back to item.ID.
	InsertItem(ctx context.Context, item *domain.Item) (*InsertResult, error)

	// IncrementQuantity atomically adds delta (which may be negative) to the
	// item's quantity. The resulting quantity never drops below zero.
	IncrementQuantity(ctx context.Context, id string, delta int64) (*UpdateResult, error)

	// DeleteItem removes the item with the given identifier.
	DeleteItem(ctx context.Context, id string) (*DeleteResult, error)

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error
}

// SubscriptionStore defines the interface for newsletter subscription persistence.
type SubscriptionStore interface {
	// InsertSubscription stores sub under a freshly generated identifier.
	InsertSubscription(ctx context.Context, sub *domain.Subscription) (*InsertResult, error)
}

// Backend is a complete store implementation owned by the application.
type Backend interface {
	ItemStore
	SubscriptionStore

	// Close releases connections held by the backend.
	Close(ctx context.Context) error
}
