package api

import (
	"log/slog"
	"net/http"

	"github.com/stockpile/stockpile-api/internal/api/shared"
	"github.com/stockpile/stockpile-api/internal/domain"
	"github.com/stockpile/stockpile-api/internal/platform/logger"
	"github.com/stockpile/stockpile-api/internal/service"
	"github.com/stockpile/stockpile-api/internal/store"
)

// InventoryHandler handles inventory item HTTP requests.
type InventoryHandler struct {
	inventory service.InventoryService
	logger    *slog.Logger
}

// NewInventoryHandler creates a new InventoryHandler.
func NewInventoryHandler(inventory service.InventoryService, logger *slog.Logger) *InventoryHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &InventoryHandler{
		inventory: inventory,
		logger:    logger.With("component", "inventory_handler"),
	}
}

// ListItems handles GET /inventories and GET /products.
func (h *InventoryHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, store.ItemFilter{})
}

// ListMyItems handles GET /myitem. Ownership of the email parameter is
// enforced by the auth middleware before this runs.
func (h *InventoryHandler) ListMyItems(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, store.ItemFilter{UserEmail: r.URL.Query().Get(queryEmail)})
}

func (h *InventoryHandler) list(w http.ResponseWriter, r *http.Request, filter store.ItemFilter) {
	req, err := getPagination(r)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	items, err := h.inventory.ListItems(r.Context(), filter, req)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	if items == nil {
		items = []*domain.Item{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, items)
}

// CountItems handles GET /inventoryCount.
func (h *InventoryHandler) CountItems(w http.ResponseWriter, r *http.Request) {
	count, err := h.inventory.CountItems(r.Context(), store.ItemFilter{})
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, CountResponse{Count: count})
}

// CountMyItems handles GET /myitemCount.
func (h *InventoryHandler) CountMyItems(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get(queryEmail)
	if email == "" {
		HandleAPIError(w, r, domain.NewValidationError(queryEmail, "is required", domain.ErrEmptyEmail))
		return
	}

	count, err := h.inventory.CountItems(r.Context(), store.ItemFilter{UserEmail: email})
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, CountResponse{Count: count})
}

// GetItem handles GET /inventory/{id}.
func (h *InventoryHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	item, err := h.inventory.GetItem(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, item)
}

// UpdateQuantity handles PUT /updatequantity/{id}?incAmount=n.
func (h *InventoryHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	delta, ok, err := shared.QueryInt64(r, queryIncAmount)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	if !ok {
		HandleAPIError(w, r, domain.NewValidationError(queryIncAmount, "is required", nil))
		return
	}

	res, err := h.inventory.AdjustQuantity(r.Context(), id, delta)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	if res.MatchedCount == 0 {
		logger.FromContextOrDefault(r.Context(), h.logger).Debug("quantity update matched no item",
			slog.String("item_id", id))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, res)
}

// AddItem handles POST /additem.
func (h *InventoryHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var item domain.Item
	if err := shared.DecodeJSON(r, &item); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	res, err := h.inventory.AddItem(r.Context(), &item)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, res)
}

// DeleteItem handles DELETE /deleteinventory/{id}.
func (h *InventoryHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	res, err := h.inventory.DeleteItem(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, res)
}
