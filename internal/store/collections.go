package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/crafthouse/crafthouse/internal/domain"
)

// RawMaterials returns every raw material. On failure the slice is empty and
// the error describes why.
func (r *Repository) RawMaterials(ctx context.Context) ([]domain.RawMaterial, error) {
	items, err := getValue(ctx, r, KeyRawMaterials, []domain.RawMaterial{})
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = legacyID(KeyRawMaterials, items[i].Name)
		}
	}
	return items, err
}

// SaveRawMaterial appends m, assigning an id. Names are unique.
func (r *Repository) SaveRawMaterial(ctx context.Context, m domain.RawMaterial) (domain.RawMaterial, error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	err := updateValue(ctx, r, KeyRawMaterials, []domain.RawMaterial{}, func(items []domain.RawMaterial) ([]domain.RawMaterial, error) {
		if lo.ContainsBy(items, func(x domain.RawMaterial) bool { return sameName(x.Name, m.Name) }) {
			return nil, fmt.Errorf("raw material %q: %w", m.Name, ErrDuplicate)
		}
		return append(items, m), nil
	})
	return m, err
}

// AdjustMaterialStock adds each delta to the named material's available
// quantity. Names without a matching material are skipped and returned.
func (r *Repository) AdjustMaterialStock(ctx context.Context, deltas map[string]decimal.Decimal) ([]string, error) {
	var missing []string
	err := updateValue(ctx, r, KeyRawMaterials, []domain.RawMaterial{}, func(items []domain.RawMaterial) ([]domain.RawMaterial, error) {
		missing = missing[:0]
		for name, delta := range deltas {
			_, idx, ok := lo.FindIndexOf(items, func(x domain.RawMaterial) bool { return x.Name == name })
			if !ok {
				missing = append(missing, name)
				continue
			}
			next := items[idx].Available().Add(delta)
			items[idx].AvailableQuantity = &next
		}
		return items, nil
	})
	sort.Strings(missing)
	return missing, err
}

// Categories returns every category.
func (r *Repository) Categories(ctx context.Context) ([]domain.Category, error) {
	items, err := getValue(ctx, r, KeyCategories, []domain.Category{})
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = legacyID(KeyCategories, items[i].Title)
		}
		if items[i].ManufacturingStages == nil {
			items[i].ManufacturingStages = []string{}
		}
	}
	return items, err
}

// SaveCategory appends c, assigning an id. Titles are unique.
func (r *Repository) SaveCategory(ctx context.Context, c domain.Category) (domain.Category, error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	err := updateValue(ctx, r, KeyCategories, []domain.Category{}, func(items []domain.Category) ([]domain.Category, error) {
		if lo.ContainsBy(items, func(x domain.Category) bool { return sameName(x.Title, c.Title) }) {
			return nil, fmt.Errorf("category %q: %w", c.Title, ErrDuplicate)
		}
		return append(items, c), nil
	})
	return c, err
}

// Products returns every product.
func (r *Repository) Products(ctx context.Context) ([]domain.Product, error) {
	items, err := getValue(ctx, r, KeyProducts, []domain.Product{})
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = legacyID(KeyProducts, items[i].Name)
		}
	}
	return items, err
}

// SaveProduct appends p, assigning an id. Names are unique.
func (r *Repository) SaveProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	err := updateValue(ctx, r, KeyProducts, []domain.Product{}, func(items []domain.Product) ([]domain.Product, error) {
		if lo.ContainsBy(items, func(x domain.Product) bool { return sameName(x.Name, p.Name) }) {
			return nil, fmt.Errorf("product %q: %w", p.Name, ErrDuplicate)
		}
		return append(items, p), nil
	})
	return p, err
}

// Orders returns every order, oldest first as stored.
func (r *Repository) Orders(ctx context.Context) ([]domain.Order, error) {
	items, err := getValue(ctx, r, KeyOrders, []domain.Order{})
	backfillOrders(items)
	return items, err
}

// SaveOrder appends o, assigning an id and defaulting the source.
func (r *Repository) SaveOrder(ctx context.Context, o domain.Order) (domain.Order, error) {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.OrderDate.IsZero() {
		o.OrderDate = r.now()
	}
	o.Source = o.EffectiveSource()
	err := updateValue(ctx, r, KeyOrders, []domain.Order{}, func(items []domain.Order) ([]domain.Order, error) {
		backfillOrders(items)
		return append(items, o), nil
	})
	return o, err
}

func backfillOrders(items []domain.Order) {
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = legacyID(KeyOrders, fmt.Sprintf("%s#%d", items[i].OrderDate.Format(time.RFC3339Nano), i))
		}
		items[i].Source = items[i].EffectiveSource()
	}
}

// Suppliers returns every supplier.
func (r *Repository) Suppliers(ctx context.Context) ([]domain.Supplier, error) {
	items, err := getValue(ctx, r, KeySuppliers, []domain.Supplier{})
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = legacyID(KeySuppliers, items[i].Name)
		}
	}
	return items, err
}

// SaveSupplier replaces the first supplier with the same name, keeping its
// id, or appends s.
func (r *Repository) SaveSupplier(ctx context.Context, s domain.Supplier) (domain.Supplier, error) {
	err := updateValue(ctx, r, KeySuppliers, []domain.Supplier{}, func(items []domain.Supplier) ([]domain.Supplier, error) {
		for i := range items {
			if sameName(items[i].Name, s.Name) {
				s.ID = items[i].ID
				if s.ID == uuid.Nil {
					s.ID = legacyID(KeySuppliers, items[i].Name)
				}
				items[i] = s
				return items, nil
			}
		}
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
		return append(items, s), nil
	})
	return s, err
}

// Transactions returns every replenishment transaction.
func (r *Repository) Transactions(ctx context.Context) ([]domain.Transaction, error) {
	return getValue(ctx, r, KeyTransactions, []domain.Transaction{})
}

// SaveTransaction appends t, assigning an id and a pending status.
func (r *Repository) SaveTransaction(ctx context.Context, t domain.Transaction) (domain.Transaction, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = domain.TransactionPending
	}
	if t.Date.IsZero() {
		t.Date = r.now()
	}
	err := updateValue(ctx, r, KeyTransactions, []domain.Transaction{}, func(items []domain.Transaction) ([]domain.Transaction, error) {
		if lo.ContainsBy(items, func(x domain.Transaction) bool { return x.ID == t.ID }) {
			return nil, fmt.Errorf("transaction %s: %w", t.ID, ErrDuplicate)
		}
		return append(items, t), nil
	})
	return t, err
}

// CompleteTransaction moves a pending transaction to completed. changed is
// false when it was already completed, in which case nothing is written.
func (r *Repository) CompleteTransaction(ctx context.Context, id string) (tx domain.Transaction, changed bool, err error) {
	err = updateValue(ctx, r, KeyTransactions, []domain.Transaction{}, func(items []domain.Transaction) ([]domain.Transaction, error) {
		changed = false
		for i := range items {
			if items[i].ID != id {
				continue
			}
			if items[i].Status == domain.TransactionCompleted {
				tx = items[i]
				return nil, errUnchanged
			}
			at := r.now()
			items[i].Status = domain.TransactionCompleted
			items[i].CompletedAt = &at
			tx, changed = items[i], true
			return items, nil
		}
		return nil, fmt.Errorf("transaction %s: %w", id, ErrNotFound)
	})
	if errors.Is(err, errUnchanged) {
		return tx, false, nil
	}
	return tx, changed, err
}

// ProductionState returns the persisted checklist.
func (r *Repository) ProductionState(ctx context.Context) (domain.ProductionState, error) {
	state, err := getValue(ctx, r, KeyProductionStatus, domain.ProductionState{})
	if state.Items == nil {
		state.Items = map[string]domain.ItemProgress{}
	}
	return state, err
}

// UpdateProductionState applies fn to the checklist atomically. An error from
// fn leaves the stored state untouched.
func (r *Repository) UpdateProductionState(ctx context.Context, fn func(*domain.ProductionState) error) error {
	return updateValue(ctx, r, KeyProductionStatus, domain.ProductionState{}, func(state domain.ProductionState) (domain.ProductionState, error) {
		if state.Items == nil {
			state.Items = map[string]domain.ItemProgress{}
		}
		if err := fn(&state); err != nil {
			return state, err
		}
		return state, nil
	})
}

var errUnchanged = errors.New("store: unchanged")

func sameName(a, b string) bool {
	return strings.TrimSpace(a) == strings.TrimSpace(b)
}
