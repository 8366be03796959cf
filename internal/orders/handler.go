package orders

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/crafthouse/crafthouse/internal/platform/httpx"
)

// Handler wires HTTP endpoints for orders.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs the handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: httpx.NewValidator()}
}

// MountRoutes registers order routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Post("/", h.handlePlace)
	r.Post("/quote", h.handleQuote)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	httpx.RespondRead(w, items, err)
}

func (h *Handler) handleQuote(w http.ResponseWriter, r *http.Request) {
	var in DraftInput
	if !httpx.Bind(w, r, h.validator, &in) {
		return
	}
	quote, err := h.service.Quote(r.Context(), in)
	httpx.RespondRead(w, quote, err)
}

func (h *Handler) handlePlace(w http.ResponseWriter, r *http.Request) {
	var in DraftInput
	if !httpx.Bind(w, r, h.validator, &in) {
		return
	}
	placed, err := h.service.Place(r.Context(), in)
	if err != nil {
		h.logger.Warn("place order failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("order placed",
		slog.String("order_id", placed.Order.ID.String()),
		slog.Int("lines", len(placed.Order.Products)),
		slog.String("source", string(placed.Order.Source)))
	httpx.JSON(w, http.StatusCreated, placed)
}
