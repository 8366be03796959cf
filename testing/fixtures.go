// Package testing holds shared fixtures for package tests: an in-memory
// repository and a small textiles catalogue.
package testing

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	stdtesting "testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/crafthouse/crafthouse/internal/domain"
	"github.com/crafthouse/crafthouse/internal/events"
	"github.com/crafthouse/crafthouse/internal/platform/kv"
	"github.com/crafthouse/crafthouse/internal/store"
)

var once sync.Once

func ensureTestMode() {
	once.Do(func() {
		_ = os.Setenv("CRAFTHOUSE_TEST_MODE", "1")
	})
}

func init() {
	ensureTestMode()
}

// Logger discards output.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Repository returns a repository over a fresh in-memory store whose clock
// is fixed at now.
func Repository(t stdtesting.TB, now time.Time) (*store.Repository, *events.Hub) {
	t.Helper()
	hub := events.NewHub(Logger())
	repo := store.New(kv.NewMemoryStore(), Logger(), hub, store.Options{
		Clock: func() time.Time { return now },
	})
	return repo, hub
}

// Dec parses a decimal literal.
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// DecPtr parses a decimal literal into a pointer.
func DecPtr(s string) *decimal.Decimal {
	d := Dec(s)
	return &d
}

// Catalogue is the dataset most tests start from: cotton at 2.5 per metre
// and a T-Shirt using 0.2 m of it, in a three-stage Clothing category.
func Catalogue() store.Dataset {
	return store.Dataset{
		RawMaterials: []domain.RawMaterial{
			{Name: "Cotton", Unit: "m", PricePerUnit: Dec("2.5"), AvailableQuantity: DecPtr("50")},
			{Name: "Dye", Unit: "l", PricePerUnit: Dec("4"), AvailableQuantity: DecPtr("5")},
		},
		Categories: []domain.Category{
			{Title: "Clothing", Description: "Garments", ManufacturingStages: []string{"Cut", "Sew", "Pack"}},
		},
		Products: []domain.Product{
			{Name: "T-Shirt", Price: Dec("20"), Category: "Clothing", RawMaterials: map[string]decimal.Decimal{"Cotton": Dec("0.2")}},
		},
		Suppliers: []domain.Supplier{
			{Name: "Loom & Co", Phone: "555-0100", Rating: 4.5, RawMaterials: []string{"Cotton"}},
		},
	}
}

// Seed imports ds into repo.
func Seed(t stdtesting.TB, repo *store.Repository, ds store.Dataset) {
	t.Helper()
	require.NoError(t, repo.Import(context.Background(), ds))
}
