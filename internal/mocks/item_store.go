package mocks

import (
	"context"
	"sync"

	"github.com/stockpile/stockpile-api/internal/domain"
	"github.com/stockpile/stockpile-api/internal/domain/pagination"
	"github.com/stockpile/stockpile-api/internal/store"
)

// MockItemStore implements store.ItemStore for testing. Methods without a
// function field return zero results and no error.
type MockItemStore struct {
	ListItemsFn         func(ctx context.Context, filter store.ItemFilter, window pagination.Window) ([]*domain.Item, error)
	CountItemsFn        func(ctx context.Context, filter store.ItemFilter) (int64, error)
	GetItemFn           func(ctx context.Context, id string) (*domain.Item, error)
	InsertItemFn        func(ctx context.Context, item *domain.Item) (*store.InsertResult, error)
	IncrementQuantityFn func(ctx context.Context, id string, delta int64) (*store.UpdateResult, error)
	DeleteItemFn        func(ctx context.Context, id string) (*store.DeleteResult, error)
	PingFn              func(ctx context.Context) error

	mu         sync.Mutex
	lastFilter store.ItemFilter
	lastWindow pagination.Window
	calls      map[string]int
}

var _ store.ItemStore = (*MockItemStore)(nil)

func (m *MockItemStore) record(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[method]++
}

// Calls returns how many times method was invoked.
func (m *MockItemStore) Calls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

// LastList returns the filter and window of the most recent ListItems call.
func (m *MockItemStore) LastList() (store.ItemFilter, pagination.Window) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastFilter, m.lastWindow
}

// ListItems implements store.ItemStore
func (m *MockItemStore) ListItems(
	ctx context.Context,
	filter store.ItemFilter,
	window pagination.Window,
) ([]*domain.Item, error) {
	m.record("ListItems")
	m.mu.Lock()
	m.lastFilter, m.lastWindow = filter, window
	m.mu.Unlock()

	if m.ListItemsFn != nil {
		return m.ListItemsFn(ctx, filter, window)
	}
	return []*domain.Item{}, nil
}

// CountItems implements store.ItemStore
func (m *MockItemStore) CountItems(ctx context.Context, filter store.ItemFilter) (int64, error) {
	m.record("CountItems")
	if m.CountItemsFn != nil {
		return m.CountItemsFn(ctx, filter)
	}
	return 0, nil
}

// GetItem implements store.ItemStore
func (m *MockItemStore) GetItem(ctx context.Context, id string) (*domain.Item, error) {
	m.record("GetItem")
	if m.GetItemFn != nil {
		return m.GetItemFn(ctx, id)
	}
	return nil, store.ErrItemNotFound
}

// InsertItem implements store.ItemStore
func (m *MockItemStore) InsertItem(ctx context.Context, item *domain.Item) (*store.InsertResult, error) {
	m.record("InsertItem")
	if m.InsertItemFn != nil {
		return m.InsertItemFn(ctx, item)
	}
	return &store.InsertResult{Acknowledged: true, InsertedID: item.ID}, nil
}

// IncrementQuantity implements store.ItemStore
func (m *MockItemStore) IncrementQuantity(
	ctx context.Context,
	id string,
	delta int64,
) (*store.UpdateResult, error) {
	m.record("IncrementQuantity")
	if m.IncrementQuantityFn != nil {
		return m.IncrementQuantityFn(ctx, id, delta)
	}
	return &store.UpdateResult{Acknowledged: true}, nil
}

// DeleteItem implements store.ItemStore
func (m *MockItemStore) DeleteItem(ctx context.Context, id string) (*store.DeleteResult, error) {
	m.record("DeleteItem")
	if m.DeleteItemFn != nil {
		return m.DeleteItemFn(ctx, id)
	}
	return &store.DeleteResult{Acknowledged: true}, nil
}

// Ping implements store.ItemStore
func (m *MockItemStore) Ping(ctx context.Context) error {
	m.record("Ping")
	if m.PingFn != nil {
		return m.PingFn(ctx)
	}
	return nil
}
