package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stockpile/stockpile-api/internal/domain"
	"github.com/stockpile/stockpile-api/internal/domain/pagination"
	"github.com/stockpile/stockpile-api/internal/platform/logger"
	"github.com/stockpile/stockpile-api/internal/store"
)

const itemColumns = "id, user_email, quantity, attributes"

// parseID validates an item or subscription identifier.
func parseID(id string) (uuid.UUID, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", store.ErrInvalidID, id)
	}
	return u, nil
}

// buildListQuery assembles the listing statement and its arguments.
// Rows are ordered by insertion time so windows are stable.
func buildListQuery(filter store.ItemFilter, window pagination.Window) (string, []any) {
	var (
		b    strings.Builder
		args []any
	)

	b.WriteString("SELECT " + itemColumns + " FROM items")
	if !filter.IsEmpty() {
		args = append(args, filter.UserEmail)
		fmt.Fprintf(&b, " WHERE user_email = $%d", len(args))
	}
	b.WriteString(" ORDER BY created_at, id")
	if !window.All {
		args = append(args, window.Offset)
		fmt.Fprintf(&b, " OFFSET $%d", len(args))
		args = append(args, window.Limit)
		fmt.Fprintf(&b, " LIMIT $%d", len(args))
	}
	return b.String(), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*domain.Item, error) {
	var (
		id        uuid.UUID
		userEmail sql.NullString
		quantity  int64
		attrs     []byte
	)
	if err := row.Scan(&id, &userEmail, &quantity, &attrs); err != nil {
		return nil, err
	}

	attributes, err := domain.DecodeAttributes(attrs)
	if err != nil {
		return nil, err
	}

	return &domain.Item{
		ID:         id.String(),
		Quantity:   quantity,
		UserEmail:  userEmail.String,
		Attributes: attributes,
	}, nil
}

func encodeAttributes(attrs map[string]any) ([]byte, error) {
	if len(attrs) == 0 {
		return []byte("{}"), nil
	}
	return json.Marshal(attrs)
}

// ListItems implements store.ItemStore.
func (s *Store) ListItems(
	ctx context.Context,
	filter store.ItemFilter,
	window pagination.Window,
) ([]*domain.Item, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args := buildListQuery(filter, window)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list items", slog.String("error", err.Error()))
		return nil, store.NewStoreError("item", "list", "query failed", MapError(err))
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			log.Warn("failed to close rows", slog.String("error", cerr.Error()))
		}
	}()

	items := []*domain.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, store.NewStoreError("item", "list", "scan failed", MapError(err))
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("item", "list", "iteration failed", MapError(err))
	}

	log.Debug("items listed",
		slog.Int("count", len(items)),
		slog.Bool("owner_filter", !filter.IsEmpty()))
	return items, nil
}

// CountItems implements store.ItemStore. Without a filter it reads the
// planner estimate from pg_class and falls back to an exact count when the
// table has never been analyzed.
func (s *Store) CountItems(ctx context.Context, filter store.ItemFilter) (int64, error) {
	var n int64

	if filter.IsEmpty() {
		var estimate float64
		err := s.db.QueryRowContext(ctx,
			"SELECT reltuples FROM pg_class WHERE oid = 'items'::regclass").Scan(&estimate)
		if err != nil {
			return 0, store.NewStoreError("item", "count", "estimate failed", MapError(err))
		}
		if estimate > 0 {
			return int64(estimate), nil
		}

		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM items").Scan(&n); err != nil {
			return 0, store.NewStoreError("item", "count", "count failed", MapError(err))
		}
		return n, nil
	}

	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM items WHERE user_email = $1", filter.UserEmail).Scan(&n)
	if err != nil {
		return 0, store.NewStoreError("item", "count", "count failed", MapError(err))
	}
	return n, nil
}

// GetItem implements store.ItemStore.
func (s *Store) GetItem(ctx context.Context, id string) (*domain.Item, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, "SELECT "+itemColumns+" FROM items WHERE id = $1", uid)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrItemNotFound
	}
	if err != nil {
		return nil, store.NewStoreError("item", "get", "query failed", MapError(err))
	}
	return item, nil
}

// InsertItem implements store.ItemStore.
func (s *Store) InsertItem(ctx context.Context, item *domain.Item) (*store.InsertResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	attrs, err := encodeAttributes(item.Attributes)
	if err != nil {
		return nil, store.NewStoreError("item", "insert", "encode attributes failed",
			fmt.Errorf("%w: %v", store.ErrInvalidEntity, err))
	}

	id := uuid.New()
	var userEmail sql.NullString
	if item.UserEmail != "" {
		userEmail = sql.NullString{String: item.UserEmail, Valid: true}
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO items (id, user_email, quantity, attributes, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		id, userEmail, item.Quantity, attrs, time.Now().UTC())
	if err != nil {
		log.Error("failed to insert item", slog.String("error", err.Error()))
		return nil, store.NewStoreError("item", "insert", "insert failed", MapError(err))
	}

	item.ID = id.String()
	log.Info("item inserted", slog.String("item_id", item.ID))
	return &store.InsertResult{Acknowledged: true, InsertedID: item.ID}, nil
}

// IncrementQuantity implements store.ItemStore. The matched and modified
// counts are derived from the previous and new quantity of the row.
func (s *Store) IncrementQuantity(ctx context.Context, id string, delta int64) (*store.UpdateResult, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var changed bool
	err = s.db.QueryRowContext(ctx,
		`WITH prev AS (SELECT quantity FROM items WHERE id = $1 FOR UPDATE)
		 UPDATE items SET quantity = GREATEST(0, items.quantity + $2)
		 FROM prev WHERE items.id = $1
		 RETURNING items.quantity <> prev.quantity`,
		uid, delta).Scan(&changed)
	if errors.Is(err, sql.ErrNoRows) {
		return &store.UpdateResult{Acknowledged: true}, nil
	}
	if isOutOfRange(err) {
		return nil, domain.NewQuantityOverflowError()
	}
	if err != nil {
		return nil, store.NewStoreError("item", "update", "quantity update failed", MapError(err))
	}

	res := &store.UpdateResult{Acknowledged: true, MatchedCount: 1}
	if changed {
		res.ModifiedCount = 1
	}
	return res, nil
}

// DeleteItem implements store.ItemStore.
func (s *Store) DeleteItem(ctx context.Context, id string) (*store.DeleteResult, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	result, err := s.db.ExecContext(ctx, "DELETE FROM items WHERE id = $1", uid)
	if err != nil {
		return nil, store.NewStoreError("item", "delete", "delete failed", MapError(err))
	}

	n, err := result.RowsAffected()
	if err != nil {
		return nil, store.NewStoreError("item", "delete", "rows affected unavailable", err)
	}
	return &store.DeleteResult{Acknowledged: true, DeletedCount: n}, nil
}
