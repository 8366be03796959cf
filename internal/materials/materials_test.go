package materials

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/crafthouse/crafthouse/internal/platform/httpx"
	fixtures "github.com/crafthouse/crafthouse/testing"
)

func newRouter(t *testing.T) (http.Handler, *Service) {
	t.Helper()
	repo, _ := fixtures.Repository(t, time.Now())
	fixtures.Seed(t, repo, fixtures.Catalogue())
	svc := NewService(repo)
	r := chi.NewRouter()
	r.Route("/api/materials", NewHandler(fixtures.Logger(), svc).MountRoutes)
	return r, svc
}

func TestListFlagsLowStock(t *testing.T) {
	_, svc := newRouter(t)
	items, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.False(t, items[0].LowStock)
	require.True(t, items[1].LowStock)
}

func TestCreateRejectsDuplicatesAndNegativePrices(t *testing.T) {
	router, _ := newRouter(t)

	cases := []struct {
		name string
		body string
		want int
	}{
		{name: "created", body: `{"name":"Thread","unit":"spool","pricePerUnit":"1.25","availableQuantity":12}`, want: http.StatusCreated},
		{name: "duplicate", body: `{"name":"Cotton","unit":"m","pricePerUnit":3}`, want: http.StatusConflict},
		{name: "missing unit", body: `{"name":"Silk","pricePerUnit":3}`, want: http.StatusBadRequest},
		{name: "negative price", body: `{"name":"Silk","unit":"m","pricePerUnit":-1}`, want: http.StatusBadRequest},
		{name: "unknown field", body: `{"name":"Silk","unit":"m","colour":"red"}`, want: http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/materials/", bytes.NewBufferString(tc.body))
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			require.Equal(t, tc.want, rr.Code, rr.Body.String())
		})
	}
}

func TestValidationProblemNamesJSONFields(t *testing.T) {
	router, _ := newRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/api/materials/", bytes.NewBufferString(`{"unit":"m"}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	var problem httpx.ProblemDetail
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &problem))
	require.Contains(t, problem.Errors, "name")
}

func TestLowStockEndpoint(t *testing.T) {
	router, _ := newRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/materials/low-stock", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Empty(t, rr.Header().Get(httpx.DegradedHeader))

	var report LowStockReport
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
	require.Equal(t, 10, report.Threshold)
	require.Len(t, report.Materials, 1)
	require.Equal(t, "Dye", report.Materials[0].Name)
}
