package production

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/crafthouse/crafthouse/internal/platform/httpx"
	"github.com/crafthouse/crafthouse/internal/views"
)

// Handler wires HTTP endpoints for the production checklist.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs the handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: httpx.NewValidator()}
}

// MountRoutes registers production routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/today", h.handleToday)
	r.Get("/badge", h.handleBadge)
	r.Post("/steps", h.handleStep)
	r.Post("/complete", h.handleComplete)
}

func (h *Handler) handleToday(w http.ResponseWriter, r *http.Request) {
	board, err := h.service.Today(r.Context())
	httpx.RespondRead(w, board, err)
}

func (h *Handler) handleBadge(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.Badge(r.Context())
	httpx.RespondRead(w, map[string]int{"todayOrders": count}, err)
}

type stepResponse struct {
	Status views.ItemStatus `json:"status"`
}

func (h *Handler) handleStep(w http.ResponseWriter, r *http.Request) {
	var in StepInput
	if !httpx.Bind(w, r, h.validator, &in) {
		return
	}
	status, err := h.service.ToggleStep(r.Context(), in)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, stepResponse{Status: status})
}

func (h *Handler) handleComplete(w http.ResponseWriter, r *http.Request) {
	var in CompleteInput
	if !httpx.Bind(w, r, h.validator, &in) {
		return
	}
	result, err := h.service.Complete(r.Context(), in)
	if err != nil {
		h.logger.Warn("complete production item failed", slog.String("item", in.Item.String()), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("production item processed", slog.String("item", in.Item.String()), slog.String("action", string(result.Action)))
	httpx.JSON(w, http.StatusOK, result)
}
