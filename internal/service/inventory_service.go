package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/stockpile/stockpile-api/internal/domain"
	"github.com/stockpile/stockpile-api/internal/domain/pagination"
	"github.com/stockpile/stockpile-api/internal/platform/logger"
	"github.com/stockpile/stockpile-api/internal/redact"
	"github.com/stockpile/stockpile-api/internal/store"
)

// DefaultOperationTimeout bounds a store call when no timeout is configured.
const DefaultOperationTimeout = 10 * time.Second

// InventoryService provides inventory item operations.
type InventoryService interface {
	// ListItems returns the items matching filter within the requested page.
	ListItems(ctx context.Context, filter store.ItemFilter, req pagination.Request) ([]*domain.Item, error)

	// CountItems counts the items matching filter.
	CountItems(ctx context.Context, filter store.ItemFilter) (int64, error)

	// GetItem retrieves one item.
	GetItem(ctx context.Context, id string) (*domain.Item, error)

	// AddItem validates and stores a new item.
	AddItem(ctx context.Context, item *domain.Item) (*store.InsertResult, error)

	// AdjustQuantity adds delta to the item's quantity, flooring at zero.
	AdjustQuantity(ctx context.Context, id string, delta int64) (*store.UpdateResult, error)

	// DeleteItem removes one item.
	DeleteItem(ctx context.Context, id string) (*store.DeleteResult, error)

	// Ping checks the backing store.
	Ping(ctx context.Context) error
}

// InventoryOptions tunes an InventoryService.
type InventoryOptions struct {
	// OperationTimeout bounds every store call. Zero means DefaultOperationTimeout.
	OperationTimeout time.Duration
	// MaxPageSize rejects larger page sizes. Zero leaves page size unbounded.
	MaxPageSize int64
}

type inventoryServiceImpl struct {
	items   store.ItemStore
	timeout time.Duration
	maxSize int64
	logger  *slog.Logger
}

var _ InventoryService = (*inventoryServiceImpl)(nil)

// NewInventoryService creates an InventoryService backed by items.
func NewInventoryService(items store.ItemStore, opts InventoryOptions, logger *slog.Logger) (InventoryService, error) {
	if items == nil {
		return nil, fmt.Errorf("items store cannot be nil")
	}
	if opts.MaxPageSize < 0 {
		return nil, fmt.Errorf("max page size must not be negative, got %d", opts.MaxPageSize)
	}
	if logger == nil {
		logger = slog.Default()
	}

	timeout := opts.OperationTimeout
	if timeout <= 0 {
		timeout = DefaultOperationTimeout
	}

	return &inventoryServiceImpl{
		items:   items,
		timeout: timeout,
		maxSize: opts.MaxPageSize,
		logger:  logger.With(slog.String("component", "inventory_service")),
	}, nil
}

func (s *inventoryServiceImpl) fail(ctx context.Context, operation, message string, err error) error {
	err = newServiceError("inventory", operation, message, err)
	if _, ok := err.(*ServiceError); ok {
		logger.FromContextOrDefault(ctx, s.logger).Error(message,
			slog.String("operation", operation),
			slog.String("error", redact.Error(err)))
	}
	return err
}

// ListItems implements InventoryService.
func (s *inventoryServiceImpl) ListItems(
	ctx context.Context,
	filter store.ItemFilter,
	req pagination.Request,
) ([]*domain.Item, error) {
	window, err := req.Window(s.maxSize)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	items, err := s.items.ListItems(ctx, filter, window)
	if err != nil {
		return nil, s.fail(ctx, "list_items", "failed to list items", err)
	}
	return items, nil
}

// CountItems implements InventoryService.
func (s *inventoryServiceImpl) CountItems(ctx context.Context, filter store.ItemFilter) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	n, err := s.items.CountItems(ctx, filter)
	if err != nil {
		return 0, s.fail(ctx, "count_items", "failed to count items", err)
	}
	return n, nil
}

// GetItem implements InventoryService.
func (s *inventoryServiceImpl) GetItem(ctx context.Context, id string) (*domain.Item, error) {
	if id == "" {
		return nil, domain.NewValidationError("id", "must not be empty", domain.ErrInvalidID)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	item, err := s.items.GetItem(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, "get_item", "failed to get item", err)
	}
	return item, nil
}

// AddItem implements InventoryService.
func (s *inventoryServiceImpl) AddItem(ctx context.Context, item *domain.Item) (*store.InsertResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if item == nil {
		return nil, domain.NewValidationError("item", "must not be empty", nil)
	}
	if err := item.Validate(); err != nil {
		log.Debug("item validation failed", slog.String("error", err.Error()))
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.items.InsertItem(ctx, item)
	if err != nil {
		return nil, s.fail(ctx, "add_item", "failed to add item", err)
	}

	log.Info("item added", slog.String("item_id", res.InsertedID))
	return res, nil
}

// AdjustQuantity implements InventoryService.
func (s *inventoryServiceImpl) AdjustQuantity(
	ctx context.Context,
	id string,
	delta int64,
) (*store.UpdateResult, error) {
	if id == "" {
		return nil, domain.NewValidationError("id", "must not be empty", domain.ErrInvalidID)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.items.IncrementQuantity(ctx, id, delta)
	if err != nil {
		return nil, s.fail(ctx, "adjust_quantity", "failed to adjust quantity", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("item quantity adjusted",
		slog.String("item_id", id),
		slog.Int64("delta", delta),
		slog.Int64("matched", res.MatchedCount),
		slog.Int64("modified", res.ModifiedCount))
	return res, nil
}

// DeleteItem implements InventoryService.
func (s *inventoryServiceImpl) DeleteItem(ctx context.Context, id string) (*store.DeleteResult, error) {
	if id == "" {
		return nil, domain.NewValidationError("id", "must not be empty", domain.ErrInvalidID)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.items.DeleteItem(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, "delete_item", "failed to delete item", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("item deleted",
		slog.String("item_id", id),
		slog.Int64("deleted", res.DeletedCount))
	return res, nil
}

// Ping implements InventoryService.
func (s *inventoryServiceImpl) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.items.Ping(ctx); err != nil {
		return newServiceError("inventory", "ping", "store ping failed", err)
	}
	return nil
}
