package store

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/crafthouse/crafthouse/internal/domain"
)

// Snapshot is every collection read at roughly the same moment.
type Snapshot struct {
	Dataset
	Production domain.ProductionState `json:"productionStatus"`
	Settings   domain.Settings        `json:"settings"`
}

// Snapshot reads all collections concurrently. Each collection falls back to
// empty on failure; the first failure is returned with the partial result.
func (r *Repository) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	// A plain group: one failed read must not cancel the others.
	var g errgroup.Group
	g.Go(func() (err error) {
		snap.RawMaterials, err = r.RawMaterials(ctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Categories, err = r.Categories(ctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Products, err = r.Products(ctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Orders, err = r.Orders(ctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Suppliers, err = r.Suppliers(ctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Transactions, err = r.Transactions(ctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Production, err = r.ProductionState(ctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Settings, err = r.Settings(ctx)
		return err
	})
	err := g.Wait()
	return snap, err
}
