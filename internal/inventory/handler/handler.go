package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"wardstock/internal/inventory/models"
	"wardstock/internal/platform/middleware"
	dErrors "wardstock/pkg/domain-errors"
	"wardstock/pkg/platform/httputil"
)

// Service defines the inventory operations exposed over HTTP.
type Service interface {
	List(ctx context.Context) ([]*models.Item, error)
	Get(ctx context.Context, id string) (*models.Item, error)
	Create(ctx context.Context, req models.CreateRequest) (*models.Item, error)
	Update(ctx context.Context, id string, req models.UpdateRequest) (*models.Item, error)
	Delete(ctx context.Context, id string) error
}

// Handler serves /inventory. Every route expects an authenticated actor.
type Handler struct {
	inventory Service
	logger    *slog.Logger
}

func New(inventory Service, logger *slog.Logger) *Handler {
	return &Handler{inventory: inventory, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/inventory", h.handleList)
	r.Post("/inventory", h.handleCreate)
	r.Get("/inventory/{itemId}", h.handleGet)
	r.Put("/inventory/{itemId}", h.handleUpdate)
	r.Delete("/inventory/{itemId}", h.handleDelete)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	items, err := h.inventory.List(r.Context())
	if err != nil {
		h.fail(w, r, "list inventory", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.InventoryResponse{Inventory: items})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	item, err := h.inventory.Get(r.Context(), chi.URLParam(r, "itemId"))
	if err != nil {
		h.fail(w, r, "get item", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.ItemResponse{Item: item})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, "decode create item request", err)
		return
	}
	item, err := h.inventory.Create(r.Context(), req)
	if err != nil {
		h.fail(w, r, "create item", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, models.ItemResponse{Item: item})
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, "decode update item request", err)
		return
	}
	item, err := h.inventory.Update(r.Context(), chi.URLParam(r, "itemId"), req)
	if err != nil {
		h.fail(w, r, "update item", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.ItemResponse{Item: item})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.inventory.Delete(r.Context(), chi.URLParam(r, "itemId")); err != nil {
		h.fail(w, r, "delete item", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.MessageResponse{Message: "Item deleted successfully"})
}

// fail logs at error level only for internal failures; client errors are
// already logged by the service or are routine.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	ctx := r.Context()
	if de, ok := dErrors.As(err); !ok || de.Code == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, "failed to "+op,
			"error", err,
			"request_id", middleware.GetRequestID(ctx),
		)
	}
	httputil.WriteError(w, err)
}
