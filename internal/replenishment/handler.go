package replenishment

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/crafthouse/crafthouse/internal/platform/httpx"
)

// Handler wires HTTP endpoints for replenishment transactions.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs the handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: httpx.NewValidator()}
}

// MountRoutes registers transaction routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Post("/", h.handleCreate)
	r.Post("/{id}/complete", h.handleComplete)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	txs, err := h.service.List(r.Context(), r.URL.Query().Get("supplier"))
	httpx.RespondRead(w, txs, err)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var in CreateInput
	if !httpx.Bind(w, r, h.validator, &in) {
		return
	}
	tx, err := h.service.Create(r.Context(), in)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, tx)
}

func (h *Handler) handleComplete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	tx, err := h.service.Complete(r.Context(), id)
	if err != nil {
		h.logger.Warn("complete transaction failed", slog.String("transaction", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("transaction completed", slog.String("transaction", tx.ID), slog.String("material", tx.MaterialName))
	httpx.JSON(w, http.StatusOK, tx)
}
