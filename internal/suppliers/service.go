// Package suppliers manages the supplier directory.
package suppliers

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/crafthouse/crafthouse/internal/domain"
	"github.com/crafthouse/crafthouse/internal/store"
	"github.com/crafthouse/crafthouse/internal/views"
)

// UpsertInput carries a supplier record. An existing supplier with the same
// name is replaced.
type UpsertInput struct {
	Name           string                 `json:"name" validate:"required,max=160"`
	Address        string                 `json:"address" validate:"max=500"`
	Phone          string                 `json:"phone" validate:"max=40"`
	ContactPersons []domain.ContactPerson `json:"contactPersons" validate:"dive"`
	GSTID          string                 `json:"gstId" validate:"max=32"`
	Rating         float64                `json:"rating" validate:"gte=0,lte=5"`
	RawMaterials   []string               `json:"rawMaterials"`
}

// Detail is a supplier with its replenishment history.
type Detail struct {
	Supplier     domain.Supplier      `json:"supplier"`
	Transactions []domain.Transaction `json:"transactions"`
}

type Service struct {
	repo *store.Repository
}

func NewService(repo *store.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]domain.Supplier, error) {
	return s.repo.Suppliers(ctx)
}

// Get returns the named supplier with its transactions.
func (s *Service) Get(ctx context.Context, name string) (Detail, error) {
	items, err := s.repo.Suppliers(ctx)
	if err != nil {
		return Detail{}, err
	}
	supplier, ok := lo.Find(items, func(x domain.Supplier) bool { return x.Name == name })
	if !ok {
		return Detail{}, fmt.Errorf("supplier %q: %w", name, store.ErrNotFound)
	}
	txs, err := s.repo.Transactions(ctx)
	return Detail{Supplier: supplier, Transactions: views.TransactionsForSupplier(txs, supplier.Name)}, err
}

// Upsert stores the supplier, replacing one with the same name.
func (s *Service) Upsert(ctx context.Context, in UpsertInput) (domain.Supplier, error) {
	materials := lo.Uniq(lo.FilterMap(in.RawMaterials, func(m string, _ int) (string, bool) {
		m = strings.TrimSpace(m)
		return m, m != ""
	}))
	contacts := in.ContactPersons
	if contacts == nil {
		contacts = []domain.ContactPerson{}
	}
	return s.repo.SaveSupplier(ctx, domain.Supplier{
		Name:           strings.TrimSpace(in.Name),
		Address:        in.Address,
		Phone:          in.Phone,
		ContactPersons: contacts,
		GSTID:          in.GSTID,
		Rating:         in.Rating,
		RawMaterials:   materials,
	})
}
