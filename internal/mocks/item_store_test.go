package mocks_test

import (
	"context"
	"testing"

	"github.com/stockpile/stockpile-api/internal/domain"
	"github.com/stockpile/stockpile-api/internal/domain/pagination"
	"github.com/stockpile/stockpile-api/internal/mocks"
	"github.com/stockpile/stockpile-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockItemStore_Defaults(t *testing.T) {
	t.Parallel()

	m := &mocks.MockItemStore{}
	ctx := context.Background()

	items, err := m.ListItems(ctx, store.ItemFilter{UserEmail: "a@x.io"}, pagination.Window{Offset: 5, Limit: 5})
	require.NoError(t, err)
	assert.Empty(t, items)

	filter, window := m.LastList()
	assert.Equal(t, "a@x.io", filter.UserEmail)
	assert.Equal(t, int64(5), window.Offset)

	_, err = m.GetItem(ctx, "x")
	assert.ErrorIs(t, err, store.ErrItemNotFound)

	res, err := m.InsertItem(ctx, &domain.Item{ID: "id-1"})
	require.NoError(t, err)
	assert.Equal(t, "id-1", res.InsertedID)

	assert.Equal(t, 1, m.Calls("ListItems"))
	assert.Equal(t, 1, m.Calls("GetItem"))
	assert.Equal(t, 0, m.Calls("DeleteItem"))
}
