package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/crafthouse/crafthouse/internal/domain"
	"github.com/crafthouse/crafthouse/internal/events"
	"github.com/crafthouse/crafthouse/internal/platform/httpx"
	"github.com/crafthouse/crafthouse/internal/platform/kv"
)

type failingStore struct {
	err error
}

func (s failingStore) Get(context.Context, string) ([]byte, error) { return nil, s.err }
func (s failingStore) Set(context.Context, string, []byte) error   { return s.err }
func (s failingStore) Update(context.Context, string, kv.UpdateFunc) error {
	return s.err
}
func (s failingStore) Clear(context.Context) error { return s.err }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRepository(t *testing.T) (*Repository, *kv.MemoryStore) {
	t.Helper()
	mem := kv.NewMemoryStore()
	return New(mem, quietLogger(), nil, Options{}), mem
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestEmptyStoreReturnsEmptyCollections(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	materials, err := repo.RawMaterials(ctx)
	require.NoError(t, err)
	require.NotNil(t, materials)
	require.Empty(t, materials)

	orders, err := repo.Orders(ctx)
	require.NoError(t, err)
	require.Empty(t, orders)

	settings, err := repo.Settings(ctx)
	require.NoError(t, err)
	require.Equal(t, domain.Settings{Currency: "USD", Theme: domain.ThemeLight, LowStockThreshold: 10}, settings)
}

func TestSaveAppendsAndRejectsDuplicateNames(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	saved, err := repo.SaveRawMaterial(ctx, domain.RawMaterial{Name: "Cotton", Unit: "m", PricePerUnit: dec("2.5")})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, saved.ID)

	_, err = repo.SaveRawMaterial(ctx, domain.RawMaterial{Name: "Dye", Unit: "l", PricePerUnit: dec("4")})
	require.NoError(t, err)

	_, err = repo.SaveRawMaterial(ctx, domain.RawMaterial{Name: "Cotton", Unit: "m", PricePerUnit: dec("3")})
	require.ErrorIs(t, err, ErrDuplicate)
	require.False(t, IsStorageFailure(err))

	materials, err := repo.RawMaterials(ctx)
	require.NoError(t, err)
	require.Len(t, materials, 2)
	require.Equal(t, "Cotton", materials[0].Name)
	require.Equal(t, saved.ID, materials[0].ID)
	require.Equal(t, "Dye", materials[1].Name)
}

func TestSaveSupplierUpsertsByName(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	first, err := repo.SaveSupplier(ctx, domain.Supplier{Name: "Loom & Co", Phone: "111"})
	require.NoError(t, err)
	_, err = repo.SaveSupplier(ctx, domain.Supplier{Name: "Dye Works", Phone: "222"})
	require.NoError(t, err)

	updated, err := repo.SaveSupplier(ctx, domain.Supplier{Name: "Loom & Co", Phone: "333"})
	require.NoError(t, err)
	require.Equal(t, first.ID, updated.ID)

	suppliers, err := repo.Suppliers(ctx)
	require.NoError(t, err)
	require.Len(t, suppliers, 2)
	require.Equal(t, "333", suppliers[0].Phone)
}

func TestCompleteTransactionIsOneWay(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	tx, err := repo.SaveTransaction(ctx, domain.Transaction{MaterialName: "Cotton", Quantity: dec("5")})
	require.NoError(t, err)
	require.Equal(t, domain.TransactionPending, tx.Status)

	completed, changed, err := repo.CompleteTransaction(ctx, tx.ID)
	require.NoError(t, err)
	require.True(t, changed)
	require.Equal(t, domain.TransactionCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)

	again, changed, err := repo.CompleteTransaction(ctx, tx.ID)
	require.NoError(t, err)
	require.False(t, changed)
	require.Equal(t, domain.TransactionCompleted, again.Status)

	_, _, err = repo.CompleteTransaction(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAdjustMaterialStockSkipsUnknownMaterials(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	ten := dec("10")
	_, err := repo.SaveRawMaterial(ctx, domain.RawMaterial{Name: "Cotton", PricePerUnit: dec("2.5"), AvailableQuantity: &ten})
	require.NoError(t, err)
	_, err = repo.SaveRawMaterial(ctx, domain.RawMaterial{Name: "Thread", PricePerUnit: dec("0.1")})
	require.NoError(t, err)

	missing, err := repo.AdjustMaterialStock(ctx, map[string]decimal.Decimal{
		"Cotton": dec("-0.4"),
		"Thread": dec("3"),
		"Silk":   dec("1"),
	})
	require.NoError(t, err)
	require.Equal(t, []string{"Silk"}, missing)

	materials, err := repo.RawMaterials(ctx)
	require.NoError(t, err)
	require.True(t, materials[0].Available().Equal(dec("9.6")))
	require.True(t, materials[1].Available().Equal(dec("3")))
}

func TestLegacyRecordsGetStableIDs(t *testing.T) {
	repo, mem := newTestRepository(t)
	ctx := context.Background()
	require.NoError(t, mem.Set(ctx, KeyOrders, []byte(`[{"orderDate":"2024-05-01T10:00:00Z","products":{"T-Shirt":2}}]`)))

	first, err := repo.Orders(ctx)
	require.NoError(t, err)
	second, err := repo.Orders(ctx)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, first[0].ID)
	require.Equal(t, first[0].ID, second[0].ID)
	require.Equal(t, domain.SourcePlaced, first[0].Source)

	_, err = repo.SaveOrder(ctx, domain.Order{Products: domain.ProductQuantities{{Product: "Scarf", Quantity: 1}}})
	require.NoError(t, err)
	third, err := repo.Orders(ctx)
	require.NoError(t, err)
	require.Len(t, third, 2)
	require.Equal(t, first[0].ID, third[0].ID)
}

func TestStorageFailuresFallBackToEmpty(t *testing.T) {
	boom := errors.New("quota exceeded")
	threshold := 7
	repo := New(failingStore{err: boom}, quietLogger(), nil, Options{DefaultLowStockThreshold: &threshold})
	ctx := context.Background()

	products, err := repo.Products(ctx)
	require.Empty(t, products)
	require.NotNil(t, products)
	var se *Error
	require.ErrorAs(t, err, &se)
	require.Equal(t, KindRead, se.Kind)
	require.ErrorIs(t, err, boom)

	_, err = repo.SaveProduct(ctx, domain.Product{Name: "T-Shirt"})
	require.ErrorAs(t, err, &se)
	require.Equal(t, KindWrite, se.Kind)
	require.Equal(t, KeyProducts, se.Key)

	settings, err := repo.Settings(ctx)
	require.Error(t, err)
	require.Equal(t, 7, settings.LowStockThreshold)

	require.True(t, IsStorageFailure(repo.Reset(ctx)))
}

func TestZeroDefaultThresholdIsKept(t *testing.T) {
	zero := 0
	repo := New(kv.NewMemoryStore(), quietLogger(), nil, Options{DefaultLowStockThreshold: &zero})
	settings, err := repo.Settings(context.Background())
	require.NoError(t, err)
	require.Zero(t, settings.LowStockThreshold)

	unset := New(kv.NewMemoryStore(), quietLogger(), nil, Options{})
	settings, err = unset.Settings(context.Background())
	require.NoError(t, err)
	require.Equal(t, DefaultLowStockThreshold, settings.LowStockThreshold)
}

func TestCorruptCollectionIsReadAsEmpty(t *testing.T) {
	repo, mem := newTestRepository(t)
	ctx := context.Background()
	require.NoError(t, mem.Set(ctx, KeyCategories, []byte(`{not json`)))

	categories, err := repo.Categories(ctx)
	require.Empty(t, categories)
	require.True(t, IsStorageFailure(err))
}

func TestResetClearsEverything(t *testing.T) {
	hub := events.NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes := hub.Subscribe(ctx, 8)

	repo := New(kv.NewMemoryStore(), quietLogger(), hub, Options{})
	_, err := repo.SaveProduct(ctx, domain.Product{Name: "T-Shirt", Price: dec("20")})
	require.NoError(t, err)
	require.NoError(t, repo.SetCurrency(ctx, "EUR"))

	require.NoError(t, repo.Reset(ctx))

	products, err := repo.Products(ctx)
	require.NoError(t, err)
	require.Empty(t, products)
	settings, err := repo.Settings(ctx)
	require.NoError(t, err)
	require.Equal(t, "USD", settings.Currency)

	var seen []string
	timeout := time.After(time.Second)
	for len(seen) < 3 {
		select {
		case c := <-changes:
			seen = append(seen, c.Collection)
		case <-timeout:
			t.Fatalf("expected three notifications, got %v", seen)
		}
	}
	require.Equal(t, []string{KeyProducts, KeyCurrency, AllCollections}, seen)
}

func TestImportReplacesCollections(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()
	_, err := repo.SaveProduct(ctx, domain.Product{Name: "Old"})
	require.NoError(t, err)
	require.NoError(t, repo.UpdateProductionState(ctx, func(s *domain.ProductionState) error {
		s.Put(domain.ItemID{OrderID: uuid.New(), Product: "Old"}, domain.ItemProgress{Processed: true})
		return nil
	}))

	require.NoError(t, repo.Import(ctx, Dataset{
		Products: []domain.Product{{Name: "New"}},
		Orders:   []domain.Order{{OrderDate: time.Now(), Products: domain.ProductQuantities{{Product: "New", Quantity: 1}}}},
	}))

	products, err := repo.Products(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.Equal(t, "New", products[0].Name)
	require.NotEqual(t, uuid.Nil, products[0].ID)

	orders, err := repo.Orders(ctx)
	require.NoError(t, err)
	require.Equal(t, domain.SourcePlaced, orders[0].Source)

	state, err := repo.ProductionState(ctx)
	require.NoError(t, err)
	require.Empty(t, state.Items)

	suppliers, err := repo.Suppliers(ctx)
	require.NoError(t, err)
	require.Empty(t, suppliers)
}

func TestStorageFailuresMapToUnavailable(t *testing.T) {
	repo := New(failingStore{err: errors.New("down")}, quietLogger(), nil, Options{})
	_, err := repo.Orders(context.Background())
	require.ErrorIs(t, err, httpx.ErrUnavailable)

	_, err = repo.SaveCategory(context.Background(), domain.Category{Title: "Clothing"})
	require.ErrorIs(t, err, httpx.ErrUnavailable)
}

func TestSnapshotReadsEverything(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()
	_, err := repo.SaveRawMaterial(ctx, domain.RawMaterial{Name: "Cotton"})
	require.NoError(t, err)
	_, err = repo.SaveOrder(ctx, domain.Order{Products: domain.ProductQuantities{{Product: "T-Shirt", Quantity: 1}}})
	require.NoError(t, err)

	snap, err := repo.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.RawMaterials, 1)
	require.Len(t, snap.Orders, 1)
	require.Empty(t, snap.Products)
	require.NotNil(t, snap.Production.Items)
	require.Equal(t, "USD", snap.Settings.Currency)

	failing := New(failingStore{err: errors.New("down")}, quietLogger(), nil, Options{})
	snap, err = failing.Snapshot(ctx)
	require.True(t, IsStorageFailure(err))
	require.NotNil(t, snap.Products)
}
