// Package materials manages the raw material catalogue and its stock levels.
package materials

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/crafthouse/crafthouse/internal/domain"
	"github.com/crafthouse/crafthouse/internal/store"
	"github.com/crafthouse/crafthouse/internal/views"
)

// Material is a raw material with its low-stock flag.
type Material struct {
	domain.RawMaterial
	LowStock bool `json:"lowStock"`
}

// CreateInput carries the fields of a new raw material.
type CreateInput struct {
	Name              string           `json:"name" validate:"required,max=120"`
	Unit              string           `json:"unit" validate:"required,max=32"`
	PricePerUnit      decimal.Decimal  `json:"pricePerUnit"`
	AvailableQuantity *decimal.Decimal `json:"availableQuantity"`
}

// LowStockReport lists materials at or below the configured threshold.
type LowStockReport struct {
	Threshold int                  `json:"threshold"`
	Materials []domain.RawMaterial `json:"materials"`
}

// Service exposes raw material use cases.
type Service struct {
	repo *store.Repository
}

// NewService constructs the service.
func NewService(repo *store.Repository) *Service {
	return &Service{repo: repo}
}

// List returns every material flagged against the low-stock threshold.
func (s *Service) List(ctx context.Context) ([]Material, error) {
	settings, settingsErr := s.repo.Settings(ctx)
	items, err := s.repo.RawMaterials(ctx)
	out := make([]Material, 0, len(items))
	for _, m := range items {
		out = append(out, Material{RawMaterial: m, LowStock: views.IsLowStock(m, settings.LowStockThreshold)})
	}
	if err == nil {
		err = settingsErr
	}
	return out, err
}

// Create stores a new material. Names are unique.
func (s *Service) Create(ctx context.Context, in CreateInput) (domain.RawMaterial, error) {
	if in.PricePerUnit.IsNegative() {
		return domain.RawMaterial{}, ErrNegativePrice
	}
	if in.AvailableQuantity != nil && in.AvailableQuantity.IsNegative() {
		return domain.RawMaterial{}, ErrNegativeQuantity
	}
	return s.repo.SaveRawMaterial(ctx, domain.RawMaterial{
		Name:              strings.TrimSpace(in.Name),
		Unit:              strings.TrimSpace(in.Unit),
		PricePerUnit:      in.PricePerUnit,
		AvailableQuantity: in.AvailableQuantity,
	})
}

// LowStock returns the materials needing replenishment.
func (s *Service) LowStock(ctx context.Context) (LowStockReport, error) {
	settings, settingsErr := s.repo.Settings(ctx)
	items, err := s.repo.RawMaterials(ctx)
	if err == nil {
		err = settingsErr
	}
	return LowStockReport{
		Threshold: settings.LowStockThreshold,
		Materials: views.LowStock(items, settings.LowStockThreshold),
	}, err
}
