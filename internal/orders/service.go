// Package orders prices and places customer orders.
package orders

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/crafthouse/crafthouse/internal/domain"
	"github.com/crafthouse/crafthouse/internal/platform/httpx"
	"github.com/crafthouse/crafthouse/internal/store"
	"github.com/crafthouse/crafthouse/internal/views"
)

var (
	ErrEmptyOrder      = fmt.Errorf("orders: order has no products: %w", httpx.ErrValidation)
	ErrUnknownProduct  = fmt.Errorf("orders: unknown product: %w", httpx.ErrValidation)
	ErrInvalidQuantity = fmt.Errorf("orders: quantity must be between 1 and %d: %w", domain.MaxQuantity, httpx.ErrValidation)
	ErrInvalidSource   = fmt.Errorf("orders: source must be placed or shipped: %w", httpx.ErrValidation)
)

// DraftInput is an order being assembled, keyed by product name.
type DraftInput struct {
	Products domain.ProductQuantities `json:"products" validate:"required"`
	Source   domain.OrderSource       `json:"source"`
}

// Quote is a priced draft together with display strings in the configured
// currency.
type Quote struct {
	views.Quote
	Currency       string `json:"currency"`
	TotalPriceText string `json:"totalPriceText"`
	ProfitText     string `json:"totalProfitText"`
}

// Placed is a stored order with its pricing at placement time.
type Placed struct {
	Order domain.Order `json:"order"`
	Quote Quote        `json:"quote"`
}

type Service struct {
	repo *store.Repository
}

func NewService(repo *store.Repository) *Service {
	return &Service{repo: repo}
}

// List returns every order as stored.
func (s *Service) List(ctx context.Context) ([]domain.Order, error) {
	return s.repo.Orders(ctx)
}

// Quote prices a draft without saving it. Unknown products are reported on
// their line and contribute nothing.
func (s *Service) Quote(ctx context.Context, in DraftInput) (Quote, error) {
	lines := normalize(in.Products)
	if err := checkQuantities(lines); err != nil {
		return Quote{}, err
	}
	snap, err := s.repo.Snapshot(ctx)
	return s.quote(lines, snap), err
}

// Place validates and stores the draft. Quantities for the same product are
// summed.
func (s *Service) Place(ctx context.Context, in DraftInput) (Placed, error) {
	lines := normalize(in.Products)
	if len(lines) == 0 {
		return Placed{}, ErrEmptyOrder
	}
	if in.Source != "" && !in.Source.Valid() {
		return Placed{}, ErrInvalidSource
	}
	if err := checkQuantities(lines); err != nil {
		return Placed{}, err
	}
	snap, err := s.repo.Snapshot(ctx)
	if err != nil {
		return Placed{}, err
	}
	for _, line := range lines {
		if _, ok := views.FindProduct(snap.Products, line.Product); !ok {
			return Placed{}, fmt.Errorf("%s: %w", line.Product, ErrUnknownProduct)
		}
	}
	order, err := s.repo.SaveOrder(ctx, domain.Order{Products: lines, Source: in.Source})
	if err != nil {
		return Placed{}, err
	}
	return Placed{Order: order, Quote: s.quote(lines, snap)}, nil
}

func (s *Service) quote(lines domain.ProductQuantities, snap store.Snapshot) Quote {
	q := views.BuildQuote(lines, snap.Products, snap.RawMaterials)
	code := snap.Settings.Currency
	return Quote{
		Quote:          q,
		Currency:       code,
		TotalPriceText: views.FormatMoney(code, q.TotalPrice),
		ProfitText:     views.FormatMoney(code, q.TotalProfit),
	}
}

func checkQuantities(lines domain.ProductQuantities) error {
	for _, line := range lines {
		if line.Quantity < 1 || line.Quantity > domain.MaxQuantity {
			return fmt.Errorf("%s: %d: %w", line.Product, line.Quantity, ErrInvalidQuantity)
		}
	}
	return nil
}

func normalize(in domain.ProductQuantities) domain.ProductQuantities {
	return lo.Reduce(in, func(acc domain.ProductQuantities, line domain.OrderLine, _ int) domain.ProductQuantities {
		name := strings.TrimSpace(line.Product)
		if name == "" {
			return acc
		}
		return acc.Add(name, line.Quantity)
	}, domain.ProductQuantities{})
}
