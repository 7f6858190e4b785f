// Package memory provides an in-process implementation of the store
// interfaces. It keeps items in insertion order and is intended for local
// development and tests; data does not survive a restart.
package memory

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/stockpile/stockpile-api/internal/domain"
	"github.com/stockpile/stockpile-api/internal/domain/pagination"
	"github.com/stockpile/stockpile-api/internal/store"
)

// Store is a mutex-guarded in-memory Backend.
type Store struct {
	mu            sync.RWMutex
	items         []*domain.Item
	subscriptions []*domain.Subscription
	logger        *slog.Logger
	newID         func() string
}

var _ store.Backend = (*Store)(nil)

// NewStore creates an empty Store. If logger is nil, slog.Default() is used.
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		logger: logger.With(slog.String("component", "memory_store")),
		newID:  func() string { return ulid.Make().String() },
	}
}

func parseID(id string) error {
	if _, err := ulid.ParseStrict(id); err != nil {
		return fmt.Errorf("%w: %q", store.ErrInvalidID, id)
	}
	return nil
}

func cloneItem(it *domain.Item) *domain.Item {
	c := *it
	c.Attributes = maps.Clone(it.Attributes)
	return &c
}

func (s *Store) indexOf(id string) int {
	for i, it := range s.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// ListItems implements store.ItemStore.
func (s *Store) ListItems(ctx context.Context, filter store.ItemFilter, window pagination.Window) ([]*domain.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrStoreUnavailable, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*domain.Item, 0, len(s.items))
	for _, it := range s.items {
		if filter.UserEmail == "" || it.UserEmail == filter.UserEmail {
			matched = append(matched, it)
		}
	}

	page := pagination.Apply(matched, window)
	out := make([]*domain.Item, len(page))
	for i, it := range page {
		out[i] = cloneItem(it)
	}
	return out, nil
}

// CountItems implements store.ItemStore. Counts are always exact.
func (s *Store) CountItems(ctx context.Context, filter store.ItemFilter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%w: %v", store.ErrStoreUnavailable, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if filter.IsEmpty() {
		return int64(len(s.items)), nil
	}

	var n int64
	for _, it := range s.items {
		if it.UserEmail == filter.UserEmail {
			n++
		}
	}
	return n, nil
}

// GetItem implements store.ItemStore.
func (s *Store) GetItem(ctx context.Context, id string) (*domain.Item, error) {
	if err := parseID(id); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrStoreUnavailable, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, store.ErrItemNotFound
	}
	return cloneItem(s.items[idx]), nil
}

// InsertItem implements store.ItemStore.
func (s *Store) InsertItem(ctx context.Context, item *domain.Item) (*store.InsertResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrStoreUnavailable, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item.ID = s.newID()
	s.items = append(s.items, cloneItem(item))

	s.logger.Debug("item inserted", slog.String("item_id", item.ID))
	return &store.InsertResult{Acknowledged: true, InsertedID: item.ID}, nil
}

// IncrementQuantity implements store.ItemStore.
func (s *Store) IncrementQuantity(ctx context.Context, id string, delta int64) (*store.UpdateResult, error) {
	if err := parseID(id); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrStoreUnavailable, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return &store.UpdateResult{Acknowledged: true}, nil
	}

	it := s.items[idx]
	next, err := domain.AddQuantity(it.Quantity, delta)
	if err != nil {
		return nil, err
	}
	var modified int64
	if next != it.Quantity {
		it.Quantity = next
		modified = 1
	}

	return &store.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: modified}, nil
}

// DeleteItem implements store.ItemStore.
func (s *Store) DeleteItem(ctx context.Context, id string) (*store.DeleteResult, error) {
	if err := parseID(id); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrStoreUnavailable, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return &store.DeleteResult{Acknowledged: true}, nil
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)

	return &store.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
}

// InsertSubscription implements store.SubscriptionStore.
func (s *Store) InsertSubscription(ctx context.Context, sub *domain.Subscription) (*store.InsertResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrStoreUnavailable, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sub.ID = s.newID()
	c := *sub
	s.subscriptions = append(s.subscriptions, &c)

	return &store.InsertResult{Acknowledged: true, InsertedID: sub.ID}, nil
}

// Subscriptions returns a snapshot of the stored subscriptions.
func (s *Store) Subscriptions() []domain.Subscription {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Subscription, len(s.subscriptions))
	for i, sub := range s.subscriptions {
		out[i] = *sub
	}
	return out
}

// Ping implements store.ItemStore.
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close implements store.Backend. It is a no-op.
func (s *Store) Close(context.Context) error {
	return nil
}
