package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stockpile/stockpile-api/internal/domain"
	"github.com/stockpile/stockpile-api/internal/domain/pagination"
	"github.com/stockpile/stockpile-api/internal/mocks"
	"github.com/stockpile/stockpile-api/internal/platform/memory"
	"github.com/stockpile/stockpile-api/internal/service"
	"github.com/stockpile/stockpile-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }

func newInventory(t *testing.T, items store.ItemStore, opts service.InventoryOptions) service.InventoryService {
	t.Helper()
	svc, err := service.NewInventoryService(items, opts, nil)
	require.NoError(t, err)
	return svc
}

func TestNewInventoryService(t *testing.T) {
	t.Parallel()

	_, err := service.NewInventoryService(nil, service.InventoryOptions{}, nil)
	assert.Error(t, err)

	_, err = service.NewInventoryService(&mocks.MockItemStore{}, service.InventoryOptions{MaxPageSize: -1}, nil)
	assert.Error(t, err)
}

func TestInventoryService_ListItemsWindow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		req        pagination.Request
		maxSize    int64
		wantWindow pagination.Window
		wantErr    error
	}{
		{
			name:       "absent page and size lists everything",
			req:        pagination.Request{},
			wantWindow: pagination.Unbounded,
		},
		{
			name:       "size zero lists everything",
			req:        pagination.Request{Page: int64Ptr(3), Size: int64Ptr(0)},
			wantWindow: pagination.Unbounded,
		},
		{
			name:       "page two of ten",
			req:        pagination.Request{Page: int64Ptr(2), Size: int64Ptr(10)},
			wantWindow: pagination.Window{Offset: 20, Limit: 10},
		},
		{
			name:    "size above max",
			req:     pagination.Request{Size: int64Ptr(500)},
			maxSize: 100,
			wantErr: pagination.ErrPageSizeTooLarge,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			items := &mocks.MockItemStore{}
			svc := newInventory(t, items, service.InventoryOptions{MaxPageSize: tc.maxSize})

			_, err := svc.ListItems(context.Background(), store.ItemFilter{}, tc.req)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Equal(t, 0, items.Calls("ListItems"), "store must not be called")
				return
			}
			require.NoError(t, err)

			_, window := items.LastList()
			assert.Equal(t, tc.wantWindow, window)
		})
	}
}

func TestInventoryService_OperationTimeout(t *testing.T) {
	t.Parallel()

	items := &mocks.MockItemStore{
		CountItemsFn: func(ctx context.Context, _ store.ItemFilter) (int64, error) {
			deadline, ok := ctx.Deadline()
			require.True(t, ok)
			assert.WithinDuration(t, time.Now().Add(50*time.Millisecond), deadline, 50*time.Millisecond)
			<-ctx.Done()
			return 0, ctx.Err()
		},
	}
	svc := newInventory(t, items, service.InventoryOptions{OperationTimeout: 50 * time.Millisecond})

	_, err := svc.CountItems(context.Background(), store.ItemFilter{})
	assert.ErrorIs(t, err, store.ErrStoreUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	var svcErr *service.ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "count_items", svcErr.Operation)
}

func TestInventoryService_ErrorPassThrough(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	items := &mocks.MockItemStore{
		GetItemFn: func(context.Context, string) (*domain.Item, error) {
			return nil, store.ErrItemNotFound
		},
		DeleteItemFn: func(context.Context, string) (*store.DeleteResult, error) {
			return nil, boom
		},
		IncrementQuantityFn: func(context.Context, string, int64) (*store.UpdateResult, error) {
			return nil, store.ErrInvalidID
		},
	}
	svc := newInventory(t, items, service.InventoryOptions{})
	ctx := context.Background()

	_, err := svc.GetItem(ctx, "abc")
	assert.Same(t, store.ErrItemNotFound, err)

	_, err = svc.AdjustQuantity(ctx, "abc", 1)
	assert.Same(t, store.ErrInvalidID, err)

	_, err = svc.DeleteItem(ctx, "abc")
	assert.ErrorIs(t, err, boom)
	var svcErr *service.ServiceError
	assert.ErrorAs(t, err, &svcErr)
}

func TestInventoryService_EmptyID(t *testing.T) {
	t.Parallel()

	items := &mocks.MockItemStore{}
	svc := newInventory(t, items, service.InventoryOptions{})
	ctx := context.Background()

	_, err := svc.GetItem(ctx, "")
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = svc.AdjustQuantity(ctx, "", 1)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = svc.DeleteItem(ctx, "")
	assert.ErrorIs(t, err, domain.ErrValidation)

	assert.Equal(t, 0, items.Calls("GetItem")+items.Calls("IncrementQuantity")+items.Calls("DeleteItem"))
}

func TestInventoryService_AddItemValidation(t *testing.T) {
	t.Parallel()

	items := &mocks.MockItemStore{}
	svc := newInventory(t, items, service.InventoryOptions{})
	ctx := context.Background()

	_, err := svc.AddItem(ctx, &domain.Item{Quantity: -1})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.AddItem(ctx, &domain.Item{UserEmail: "not-an-email"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.AddItem(ctx, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	assert.Equal(t, 0, items.Calls("InsertItem"))
}

// TestInventoryService_WidgetScenario walks an item through its lifecycle on
// the in-memory backend.
func TestInventoryService_WidgetScenario(t *testing.T) {
	t.Parallel()

	svc := newInventory(t, memory.NewStore(nil), service.InventoryOptions{})
	ctx := context.Background()

	widget := &domain.Item{
		Quantity:   10,
		UserEmail:  "a@x.io",
		Attributes: map[string]any{"name": "Widget"},
	}
	ins, err := svc.AddItem(ctx, widget)
	require.NoError(t, err)
	require.True(t, ins.Acknowledged)
	id := ins.InsertedID

	mine, err := svc.ListItems(ctx, store.ItemFilter{UserEmail: "a@x.io"}, pagination.Request{})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Widget", mine[0].Attributes["name"])

	upd, err := svc.AdjustQuantity(ctx, id, -3)
	require.NoError(t, err)
	assert.Equal(t, int64(1), upd.MatchedCount)

	got, err := svc.GetItem(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.Quantity)

	_, err = svc.AdjustQuantity(ctx, id, -100)
	require.NoError(t, err)
	got, err = svc.GetItem(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Quantity, "quantity floors at zero")

	n, err := svc.CountItems(ctx, store.ItemFilter{UserEmail: "a@x.io"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	del, err := svc.DeleteItem(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), del.DeletedCount)

	_, err = svc.GetItem(ctx, id)
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, svc.Ping(ctx))
}
