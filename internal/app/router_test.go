package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/crafthouse/crafthouse/internal/categories"
	"github.com/crafthouse/crafthouse/internal/events"
	"github.com/crafthouse/crafthouse/internal/materials"
	"github.com/crafthouse/crafthouse/internal/observability"
	"github.com/crafthouse/crafthouse/internal/orders"
	"github.com/crafthouse/crafthouse/internal/platform/kv"
	"github.com/crafthouse/crafthouse/internal/production"
	"github.com/crafthouse/crafthouse/internal/products"
	"github.com/crafthouse/crafthouse/internal/replenishment"
	"github.com/crafthouse/crafthouse/internal/settings"
	"github.com/crafthouse/crafthouse/internal/store"
	"github.com/crafthouse/crafthouse/internal/suppliers"
	"github.com/crafthouse/crafthouse/jobs"
	fixtures "github.com/crafthouse/crafthouse/testing"
)

var now = time.Date(2024, 5, 10, 10, 0, 0, 0, time.UTC)

func testConfig() *Config {
	return &Config{
		AppEnv:             "test",
		AppRequestTimeout:  5 * time.Second,
		RateLimitPerMinute: 1000,
		location:           time.UTC,
	}
}

func newTestRouter(t *testing.T, cfg *Config, st Pinger) (http.Handler, *store.Repository) {
	t.Helper()
	repo, hub := fixtures.Repository(t, now)
	logger := fixtures.Logger()
	router := NewRouter(RouterParams{
		Logger:               logger,
		Config:               cfg,
		Metrics:              observability.NewMetrics(),
		Store:                st,
		MaterialsHandler:     materials.NewHandler(logger, materials.NewService(repo)),
		CategoriesHandler:    categories.NewHandler(logger, categories.NewService(repo)),
		ProductsHandler:      products.NewHandler(logger, products.NewService(repo)),
		OrdersHandler:        orders.NewHandler(logger, orders.NewService(repo)),
		ProductionHandler:    production.NewHandler(logger, production.NewService(repo, cfg.Location(), logger)),
		ReplenishmentHandler: replenishment.NewHandler(logger, replenishment.NewService(repo, logger)),
		SuppliersHandler:     suppliers.NewHandler(logger, suppliers.NewService(repo)),
		SettingsHandler:      settings.NewHandler(logger, settings.NewService(repo, logger)),
		EventsHandler:        events.NewHandler(logger, hub),
		JobHandler:           jobs.NewHandler(nil, logger),
	})
	return router, repo
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealthz(t *testing.T) {
	router, _ := newTestRouter(t, testConfig(), kv.NewMemoryStore())

	rr := do(t, router, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
	require.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	require.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
}

type brokenPinger struct{}

func (brokenPinger) Ping(context.Context) error { return errors.New("connection refused") }

func TestHealthzReportsStoreOutage(t *testing.T) {
	router, _ := newTestRouter(t, testConfig(), brokenPinger{})

	rr := do(t, router, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
	require.JSONEq(t, `{"status":"degraded"}`, rr.Body.String())
}

func TestUnknownRouteIsProblem(t *testing.T) {
	router, _ := newTestRouter(t, testConfig(), nil)

	rr := do(t, router, http.MethodGet, "/api/widgets", nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, "application/problem+json", rr.Header().Get("Content-Type"))
}

func TestOrderToProductionFlow(t *testing.T) {
	router, repo := newTestRouter(t, testConfig(), nil)
	fixtures.Seed(t, repo, fixtures.Catalogue())

	rr := do(t, router, http.MethodPost, "/api/orders/quote", map[string]any{"products": map[string]int{"T-Shirt": 1}})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.Contains(t, rr.Body.String(), `"totalProfitText"`)

	rr = do(t, router, http.MethodPost, "/api/orders", map[string]any{"products": map[string]int{"T-Shirt": 2}})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var placed struct {
		Order struct {
			ID string `json:"id"`
		} `json:"order"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &placed))
	require.NotEmpty(t, placed.Order.ID)

	rr = do(t, router, http.MethodGet, "/api/production/badge", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"todayOrders":1}`, rr.Body.String())

	item := map[string]any{"orderId": placed.Order.ID, "product": "T-Shirt", "unit": 1}
	rr = do(t, router, http.MethodPost, "/api/production/complete", map[string]any{"item": item})
	require.Equal(t, http.StatusConflict, rr.Code, rr.Body.String())

	for step := 0; step < 3; step++ {
		rr = do(t, router, http.MethodPost, "/api/production/steps", map[string]any{"item": item, "step": step, "checked": true})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	}
	require.JSONEq(t, `{"status":"completed"}`, rr.Body.String())

	rr = do(t, router, http.MethodPost, "/api/production/complete", map[string]any{"item": item})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = do(t, router, http.MethodPost, "/api/production/complete", map[string]any{"item": item})
	require.Equal(t, http.StatusConflict, rr.Code)

	rr = do(t, router, http.MethodGet, "/api/materials/", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var list []struct {
		Name              string `json:"name"`
		AvailableQuantity string `json:"availableQuantity"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list, 2)
	require.Equal(t, "Cotton", list[0].Name)
	require.Equal(t, "49.8", list[0].AvailableQuantity)
}

func TestReplenishmentFlow(t *testing.T) {
	router, repo := newTestRouter(t, testConfig(), nil)
	fixtures.Seed(t, repo, fixtures.Catalogue())

	rr := do(t, router, http.MethodPost, "/api/transactions/", map[string]any{
		"supplier": "Loom & Co", "materialName": "Dye", "quantity": "10",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var tx struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &tx))

	path := fmt.Sprintf("/api/transactions/%s/complete", tx.ID)
	require.Equal(t, http.StatusOK, do(t, router, http.MethodPost, path, nil).Code)
	require.Equal(t, http.StatusConflict, do(t, router, http.MethodPost, path, nil).Code)

	rr = do(t, router, http.MethodGet, "/api/materials/low-stock", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"threshold":10,"materials":[]}`, rr.Body.String())
}

func TestSettingsResetRequiresConfirm(t *testing.T) {
	router, repo := newTestRouter(t, testConfig(), nil)
	fixtures.Seed(t, repo, fixtures.Catalogue())

	require.Equal(t, http.StatusBadRequest, do(t, router, http.MethodPost, "/api/settings/reset", map[string]bool{"confirm": false}).Code)
	require.Equal(t, http.StatusNoContent, do(t, router, http.MethodPost, "/api/settings/reset", map[string]bool{"confirm": true}).Code)

	rr := do(t, router, http.MethodGet, "/api/products/", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `[]`, rr.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, testConfig(), nil)

	do(t, router, http.MethodGet, "/healthz", nil)
	rr := do(t, router, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), `crafthouse_http_requests_total{code="200",route="/healthz"}`)
}

func TestJobsHealthWithoutQueue(t *testing.T) {
	router, _ := newTestRouter(t, testConfig(), nil)

	rr := do(t, router, http.MethodGet, "/jobs/health", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), `"queue":"default"`)
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitPerMinute = 2
	router, _ := newTestRouter(t, cfg, nil)

	require.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/healthz", nil).Code)
	require.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/healthz", nil).Code)
	rr := do(t, router, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusTooManyRequests, rr.Code)
	require.Equal(t, "60", rr.Header().Get("Retry-After"))
}
