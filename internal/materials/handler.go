package materials

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/crafthouse/crafthouse/internal/platform/httpx"
)

// Handler wires HTTP endpoints for raw materials.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs the handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: httpx.NewValidator()}
}

// MountRoutes registers material routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Post("/", h.handleCreate)
	r.Get("/low-stock", h.handleLowStock)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	httpx.RespondRead(w, items, err)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var in CreateInput
	if !httpx.Bind(w, r, h.validator, &in) {
		return
	}
	created, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.logger.Warn("create material failed", slog.String("name", in.Name), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) handleLowStock(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.LowStock(r.Context())
	httpx.RespondRead(w, report, err)
}
