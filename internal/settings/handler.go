package settings

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/crafthouse/crafthouse/internal/platform/httpx"
)

// Handler wires HTTP endpoints for settings.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs the handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: httpx.NewValidator()}
}

// MountRoutes registers settings routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleGet)
	r.Put("/", h.handleUpdate)
	r.Post("/reset", h.handleReset)
	r.Post("/seed/{preset}", h.handleSeed)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Get(r.Context())
	httpx.RespondRead(w, view, err)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var in UpdateInput
	if !httpx.Bind(w, r, h.validator, &in) {
		return
	}
	view, err := h.service.Update(r.Context(), in)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	var in ResetInput
	if !httpx.Bind(w, r, h.validator, &in) {
		return
	}
	if err := h.service.Reset(r.Context(), in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type seedResponse struct {
	Preset       string `json:"preset"`
	RawMaterials int    `json:"rawMaterials"`
	Categories   int    `json:"categories"`
	Products     int    `json:"products"`
	Orders       int    `json:"orders"`
	Suppliers    int    `json:"suppliers"`
	Transactions int    `json:"transactions"`
}

func (h *Handler) handleSeed(w http.ResponseWriter, r *http.Request) {
	preset := chi.URLParam(r, "preset")
	ds, err := h.service.Seed(r.Context(), preset)
	if err != nil {
		h.logger.Warn("seed failed", slog.String("preset", preset), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, seedResponse{
		Preset:       preset,
		RawMaterials: len(ds.RawMaterials),
		Categories:   len(ds.Categories),
		Products:     len(ds.Products),
		Orders:       len(ds.Orders),
		Suppliers:    len(ds.Suppliers),
		Transactions: len(ds.Transactions),
	})
}
