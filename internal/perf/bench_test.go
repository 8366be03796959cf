package perf

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/crafthouse/crafthouse/internal/domain"
	"github.com/crafthouse/crafthouse/internal/production"
	"github.com/crafthouse/crafthouse/internal/seed"
	"github.com/crafthouse/crafthouse/internal/views"
	fixtures "github.com/crafthouse/crafthouse/testing"
)

var now = time.Date(2024, 5, 10, 10, 0, 0, 0, time.UTC)

func BenchmarkBuildQuote(b *testing.B) {
	ds := seed.Random(now, 42)
	lines := domain.ProductQuantities{}
	for _, p := range ds.Products {
		lines = lines.Add(p.Name, 3)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = views.BuildQuote(lines, ds.Products, ds.RawMaterials)
	}
}

func BenchmarkExpandProduction(b *testing.B) {
	ds := seed.Random(now, 42)
	refs := views.OrdersOn(ds.Orders, now, time.UTC)
	state := domain.ProductionState{}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = views.ExpandProduction(refs, ds.Products, ds.Categories, state)
	}
}

func TestProductionBoardLatencyTarget(t *testing.T) {
	repo, _ := fixtures.Repository(t, now)
	fixtures.Seed(t, repo, seed.Random(now, 7))
	r := chi.NewRouter()
	r.Route("/production", production.NewHandler(fixtures.Logger(), production.NewService(repo, time.UTC, fixtures.Logger())).MountRoutes)

	samples := make([]time.Duration, 0, 50)
	for i := 0; i < cap(samples); i++ {
		req := httptest.NewRequest(http.MethodGet, "/production/today", nil).WithContext(context.Background())
		rr := httptest.NewRecorder()
		start := time.Now()
		r.ServeHTTP(rr, req)
		samples = append(samples, time.Since(start))
		if rr.Code != http.StatusOK {
			t.Fatalf("unexpected status %d: %s", rr.Code, rr.Body.String())
		}
	}

	if p95 := percentile95(samples); p95 > 250*time.Millisecond {
		t.Fatalf("production board latency regression: p95=%s", p95)
	}
}

func percentile95(samples []time.Duration) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	sorted := append([]time.Duration(nil), samples...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	index := int(float64(len(sorted)-1) * 0.95)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}
	return sorted[index]
}
