package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"wardstock/internal/logs/models"
	"wardstock/internal/platform/middleware"
	dErrors "wardstock/pkg/domain-errors"
	"wardstock/pkg/platform/httputil"
)

// Service defines the audit-log operations exposed over HTTP. There is no
// delete.
type Service interface {
	List(ctx context.Context) ([]*models.EntryView, error)
	Get(ctx context.Context, id string) (*models.EntryView, error)
	Create(ctx context.Context, req models.CreateRequest) (*models.EntryView, error)
	Update(ctx context.Context, id string, req models.UpdateRequest) (*models.EntryView, error)
}

type Handler struct {
	logs   Service
	logger *slog.Logger
}

func New(logs Service, logger *slog.Logger) *Handler {
	return &Handler{logs: logs, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/logs", h.handleList)
	r.Post("/logs", h.handleCreate)
	r.Get("/logs/{logId}", h.handleGet)
	r.Put("/logs/{logId}", h.handleUpdate)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	views, err := h.logs.List(r.Context())
	if err != nil {
		h.fail(w, r, "list logs", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.LogsResponse{Logs: views})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	v, err := h.logs.Get(r.Context(), chi.URLParam(r, "logId"))
	if err != nil {
		h.fail(w, r, "get log", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.LogResponse{Log: v})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, "decode create log request", err)
		return
	}
	v, err := h.logs.Create(r.Context(), req)
	if err != nil {
		h.fail(w, r, "add log", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, models.LogResponse{Log: v})
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, "decode update log request", err)
		return
	}
	v, err := h.logs.Update(r.Context(), chi.URLParam(r, "logId"), req)
	if err != nil {
		h.fail(w, r, "update log", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.LogResponse{Log: v})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	ctx := r.Context()
	if dErrors.HasCode(err, dErrors.CodeInternal) || !isDomain(err) {
		h.logger.ErrorContext(ctx, "failed to "+op,
			"error", err,
			"request_id", middleware.GetRequestID(ctx),
		)
	}
	httputil.WriteError(w, err)
}

func isDomain(err error) bool {
	_, ok := dErrors.As(err)
	return ok
}
