package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/crafthouse/crafthouse/internal/categories"
	"github.com/crafthouse/crafthouse/internal/events"
	"github.com/crafthouse/crafthouse/internal/materials"
	"github.com/crafthouse/crafthouse/internal/observability"
	"github.com/crafthouse/crafthouse/internal/orders"
	"github.com/crafthouse/crafthouse/internal/platform/httpx"
	"github.com/crafthouse/crafthouse/internal/production"
	"github.com/crafthouse/crafthouse/internal/products"
	"github.com/crafthouse/crafthouse/internal/replenishment"
	"github.com/crafthouse/crafthouse/internal/settings"
	"github.com/crafthouse/crafthouse/internal/suppliers"
	"github.com/crafthouse/crafthouse/jobs"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger  *slog.Logger
	Config  *Config
	Metrics *observability.Metrics
	Store   Pinger

	MaterialsHandler     *materials.Handler
	CategoriesHandler    *categories.Handler
	ProductsHandler      *products.Handler
	OrdersHandler        *orders.Handler
	ProductionHandler    *production.Handler
	ReplenishmentHandler *replenishment.Handler
	SuppliersHandler     *suppliers.Handler
	SettingsHandler      *settings.Handler
	EventsHandler        *events.Handler
	JobHandler           *jobs.Handler
}

// NewRouter constructs the chi.Router with Crafthouse defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		status, code := "ok", http.StatusOK
		if params.Store != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := params.Store.Ping(ctx); err != nil {
				params.Logger.Warn("store ping failed", slog.Any("error", err))
				status, code = "degraded", http.StatusServiceUnavailable
			}
		}
		httpx.JSON(w, code, map[string]string{"status": status})
	})

	r.Route("/api", func(r chi.Router) {
		if params.EventsHandler != nil {
			r.Route("/events", params.EventsHandler.MountRoutes)
		}
		r.Group(func(r chi.Router) {
			r.Use(RequestTimeout(params.Config))
			if params.MaterialsHandler != nil {
				r.Route("/materials", params.MaterialsHandler.MountRoutes)
			}
			if params.CategoriesHandler != nil {
				r.Route("/categories", params.CategoriesHandler.MountRoutes)
			}
			if params.ProductsHandler != nil {
				r.Route("/products", params.ProductsHandler.MountRoutes)
			}
			if params.OrdersHandler != nil {
				r.Route("/orders", params.OrdersHandler.MountRoutes)
			}
			if params.ProductionHandler != nil {
				r.Route("/production", params.ProductionHandler.MountRoutes)
			}
			if params.ReplenishmentHandler != nil {
				r.Route("/transactions", params.ReplenishmentHandler.MountRoutes)
			}
			if params.SuppliersHandler != nil {
				r.Route("/suppliers", params.SuppliersHandler.MountRoutes)
			}
			if params.SettingsHandler != nil {
				r.Route("/settings", params.SettingsHandler.MountRoutes)
			}
		})
	})

	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.Problem(w, http.StatusNotFound, "Not found", "no route for "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.Problem(w, http.StatusMethodNotAllowed, "Method not allowed", r.Method+" is not supported on "+r.URL.Path)
	})

	return r
}
