// Package products manages the sellable catalogue: creation, costing and
// category grouping.
package products

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/crafthouse/crafthouse/internal/domain"
	"github.com/crafthouse/crafthouse/internal/platform/httpx"
	"github.com/crafthouse/crafthouse/internal/store"
	"github.com/crafthouse/crafthouse/internal/views"
)

// ErrInvalidProduct is returned for values the validator tags cannot
// express, such as negative decimals.
var ErrInvalidProduct = fmt.Errorf("products: invalid product: %w", httpx.ErrValidation)

// Product is a catalogue entry with its computed unit cost.
type Product struct {
	domain.Product
	UnitCost decimal.Decimal `json:"unitCost"`
}

// CreateInput carries a new product.
type CreateInput struct {
	Name              string                     `json:"name" validate:"required,max=120"`
	Image             string                     `json:"image" validate:"omitempty,url"`
	Price             decimal.Decimal            `json:"price"`
	RawMaterials      map[string]decimal.Decimal `json:"rawMaterials"`
	Category          string                     `json:"category" validate:"max=120"`
	AvailableQuantity *decimal.Decimal           `json:"availableQuantity"`
	Containers        []domain.Container         `json:"containers" validate:"dive"`
}

// EstimateInput is a draft material selection.
type EstimateInput struct {
	RawMaterials map[string]decimal.Decimal `json:"rawMaterials" validate:"required"`
}

// Estimate is the material cost of a draft.
type Estimate struct {
	Cost    decimal.Decimal `json:"cost"`
	Unknown []string        `json:"unknown"`
}

// StepsResult lists a product's manufacturing stages.
type StepsResult struct {
	Product string   `json:"product"`
	Steps   []string `json:"steps"`
}

type Service struct {
	repo *store.Repository
}

func NewService(repo *store.Repository) *Service {
	return &Service{repo: repo}
}

// List returns every product with its unit cost.
func (s *Service) List(ctx context.Context) ([]Product, error) {
	items, err := s.repo.Products(ctx)
	materials, matErr := s.repo.RawMaterials(ctx)
	if err == nil {
		err = matErr
	}
	out := make([]Product, 0, len(items))
	for _, p := range items {
		out = append(out, Product{Product: p, UnitCost: views.UnitCost(p, materials)})
	}
	return out, err
}

// Create stores a product. Material and category references are soft and
// not checked.
func (s *Service) Create(ctx context.Context, in CreateInput) (domain.Product, error) {
	if in.Price.IsNegative() {
		return domain.Product{}, fmt.Errorf("price: %w", ErrInvalidProduct)
	}
	usage := make(map[string]decimal.Decimal, len(in.RawMaterials))
	for name, qty := range in.RawMaterials {
		name = strings.TrimSpace(name)
		if name == "" || qty.IsNegative() {
			return domain.Product{}, fmt.Errorf("raw material %q: %w", name, ErrInvalidProduct)
		}
		usage[name] = qty
	}
	if in.AvailableQuantity != nil && in.AvailableQuantity.IsNegative() {
		return domain.Product{}, fmt.Errorf("available quantity: %w", ErrInvalidProduct)
	}
	for _, c := range in.Containers {
		if c.Quantity.IsNegative() {
			return domain.Product{}, fmt.Errorf("container %q: %w", c.Location, ErrInvalidProduct)
		}
	}
	return s.repo.SaveProduct(ctx, domain.Product{
		Name:              strings.TrimSpace(in.Name),
		Image:             in.Image,
		Price:             in.Price,
		RawMaterials:      usage,
		Category:          strings.TrimSpace(in.Category),
		AvailableQuantity: in.AvailableQuantity,
		Containers:        in.Containers,
	})
}

// Grouped returns products partitioned by category.
func (s *Service) Grouped(ctx context.Context) ([]views.CategoryGroup, error) {
	items, err := s.repo.Products(ctx)
	return views.GroupByCategory(items), err
}

// Steps resolves the manufacturing stages of the named product.
func (s *Service) Steps(ctx context.Context, name string) (StepsResult, error) {
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}
	items, err := s.repo.Products(ctx)
	categories, catErr := s.repo.Categories(ctx)
	if err == nil {
		err = catErr
	}
	return StepsResult{Product: name, Steps: views.Steps(name, items, categories)}, err
}

// Estimate prices a draft selection against current material prices.
func (s *Service) Estimate(ctx context.Context, in EstimateInput) (Estimate, error) {
	materials, err := s.repo.RawMaterials(ctx)
	prices := views.MaterialPrices(materials)
	unknown := make([]string, 0)
	for name := range in.RawMaterials {
		if _, ok := prices[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	return Estimate{Cost: views.EstimatedCost(in.RawMaterials, materials), Unknown: unknown}, err
}
