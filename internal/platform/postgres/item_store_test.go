package postgres

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stockpile/stockpile-api/internal/domain/pagination"
	"github.com/stockpile/stockpile-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildListQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		filter    store.ItemFilter
		window    pagination.Window
		wantQuery string
		wantArgs  []any
	}{
		{
			name:      "unbounded",
			window:    pagination.Unbounded,
			wantQuery: "SELECT id, user_email, quantity, attributes FROM items ORDER BY created_at, id",
		},
		{
			name:      "window",
			window:    pagination.Window{Offset: 20, Limit: 10},
			wantQuery: "SELECT id, user_email, quantity, attributes FROM items ORDER BY created_at, id OFFSET $1 LIMIT $2",
			wantArgs:  []any{int64(20), int64(10)},
		},
		{
			name:   "owner and window",
			filter: store.ItemFilter{UserEmail: "a@x.io"},
			window: pagination.Window{Offset: 0, Limit: 5},
			wantQuery: "SELECT id, user_email, quantity, attributes FROM items WHERE user_email = $1" +
				" ORDER BY created_at, id OFFSET $2 LIMIT $3",
			wantArgs: []any{"a@x.io", int64(0), int64(5)},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			query, args := buildListQuery(tc.filter, tc.window)
			assert.Equal(t, tc.wantQuery, query)
			assert.Equal(t, tc.wantArgs, args)
		})
	}
}

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*uuid.UUID) = r.values[0].(uuid.UUID)
	ns := dest[1].(interface{ Scan(any) error })
	if err := ns.Scan(r.values[1]); err != nil {
		return err
	}
	*dest[2].(*int64) = r.values[2].(int64)
	*dest[3].(*[]byte) = r.values[3].([]byte)
	return nil
}

func TestScanItem(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	item, err := scanItem(fakeRow{values: []any{id, "a@x.io", int64(3), []byte(`{"name":"Widget","bins":2}`)}})
	require.NoError(t, err)
	assert.Equal(t, id.String(), item.ID)
	assert.Equal(t, "a@x.io", item.UserEmail)
	assert.Equal(t, int64(3), item.Quantity)
	assert.Equal(t, map[string]any{"name": "Widget", "bins": int64(2)}, item.Attributes)

	item, err = scanItem(fakeRow{values: []any{id, nil, int64(0), []byte(`{}`)}})
	require.NoError(t, err)
	assert.Empty(t, item.UserEmail)
	assert.Nil(t, item.Attributes)

	scanErr := errors.New("scan failed")
	_, err = scanItem(fakeRow{err: scanErr})
	assert.ErrorIs(t, err, scanErr)
}

func TestEncodeAttributes(t *testing.T) {
	t.Parallel()

	raw, err := encodeAttributes(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(raw))

	raw, err = encodeAttributes(map[string]any{"name": "Widget"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Widget"}`, string(raw))

	_, err = encodeAttributes(map[string]any{"bad": make(chan int)})
	assert.Error(t, err)
}

func TestParseID(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	got, err := parseID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = parseID("not-a-uuid")
	assert.ErrorIs(t, err, store.ErrInvalidID)
}
