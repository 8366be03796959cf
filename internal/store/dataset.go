package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/crafthouse/crafthouse/internal/domain"
)

// Dataset is a full set of collections written in one shot.
type Dataset struct {
	RawMaterials []domain.RawMaterial `json:"rawMaterials"`
	Categories   []domain.Category    `json:"categories"`
	Products     []domain.Product     `json:"products"`
	Orders       []domain.Order       `json:"orders"`
	Suppliers    []domain.Supplier    `json:"suppliers"`
	Transactions []domain.Transaction `json:"transactions"`
}

// Import replaces every collection with the dataset contents and clears the
// production checklist. Keys are written one by one; a failure leaves the
// keys written so far in place.
func (r *Repository) Import(ctx context.Context, ds Dataset) error {
	for i := range ds.RawMaterials {
		if ds.RawMaterials[i].ID == uuid.Nil {
			ds.RawMaterials[i].ID = uuid.New()
		}
	}
	for i := range ds.Categories {
		if ds.Categories[i].ID == uuid.Nil {
			ds.Categories[i].ID = uuid.New()
		}
	}
	for i := range ds.Products {
		if ds.Products[i].ID == uuid.Nil {
			ds.Products[i].ID = uuid.New()
		}
	}
	for i := range ds.Orders {
		if ds.Orders[i].ID == uuid.Nil {
			ds.Orders[i].ID = uuid.New()
		}
		ds.Orders[i].Source = ds.Orders[i].EffectiveSource()
	}
	for i := range ds.Suppliers {
		if ds.Suppliers[i].ID == uuid.Nil {
			ds.Suppliers[i].ID = uuid.New()
		}
	}
	for i := range ds.Transactions {
		if ds.Transactions[i].ID == "" {
			ds.Transactions[i].ID = uuid.NewString()
		}
		if ds.Transactions[i].Status == "" {
			ds.Transactions[i].Status = domain.TransactionPending
		}
	}

	writes := []struct {
		key   string
		value any
	}{
		{KeyRawMaterials, nonNil(ds.RawMaterials)},
		{KeyCategories, nonNil(ds.Categories)},
		{KeyProducts, nonNil(ds.Products)},
		{KeyOrders, nonNil(ds.Orders)},
		{KeySuppliers, nonNil(ds.Suppliers)},
		{KeyTransactions, nonNil(ds.Transactions)},
		{KeyProductionStatus, domain.ProductionState{Items: map[string]domain.ItemProgress{}}},
	}
	for _, w := range writes {
		if err := setValue(ctx, r, w.key, w.value); err != nil {
			return err
		}
	}
	r.publish(AllCollections)
	return nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
