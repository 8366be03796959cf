// Package settings exposes display preferences and the data-management
// actions: full reset and demo seeding.
package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/samber/lo"

	"github.com/crafthouse/crafthouse/internal/domain"
	"github.com/crafthouse/crafthouse/internal/platform/httpx"
	"github.com/crafthouse/crafthouse/internal/seed"
	"github.com/crafthouse/crafthouse/internal/store"
)

var (
	ErrUnsupportedCurrency = fmt.Errorf("settings: unsupported currency: %w", httpx.ErrValidation)
	ErrUnsupportedTheme    = fmt.Errorf("settings: unsupported theme: %w", httpx.ErrValidation)
	ErrNegativeThreshold   = fmt.Errorf("settings: low stock threshold must not be negative: %w", httpx.ErrValidation)
	ErrNotConfirmed        = fmt.Errorf("settings: reset must be confirmed: %w", httpx.ErrValidation)
	ErrUnknownPreset       = fmt.Errorf("settings: %w: %w", seed.ErrUnknownPreset, httpx.ErrNotFound)
)

// UpdateInput changes the given preferences; nil fields are left alone.
type UpdateInput struct {
	Currency          *string       `json:"currency"`
	Theme             *domain.Theme `json:"theme"`
	LowStockThreshold *int          `json:"lowStockThreshold"`
}

// ResetInput guards the destructive reset.
type ResetInput struct {
	Confirm bool `json:"confirm"`
}

// View is the settings payload with the selectable options.
type View struct {
	domain.Settings
	Currencies []string `json:"currencies"`
	Presets    []string `json:"presets"`
}

// Service exposes settings use cases.
type Service struct {
	repo   *store.Repository
	logger *slog.Logger
}

// NewService constructs the service.
func NewService(repo *store.Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger.With(slog.String("component", "settings"))}
}

// Get returns the current preferences.
func (s *Service) Get(ctx context.Context) (View, error) {
	current, err := s.repo.Settings(ctx)
	return View{Settings: current, Currencies: domain.SupportedCurrencies, Presets: seed.Presets()}, err
}

// Update validates every provided field before writing any of them.
func (s *Service) Update(ctx context.Context, in UpdateInput) (View, error) {
	if in.Currency != nil && !lo.Contains(domain.SupportedCurrencies, *in.Currency) {
		return View{}, fmt.Errorf("%q: %w", *in.Currency, ErrUnsupportedCurrency)
	}
	if in.Theme != nil && *in.Theme != domain.ThemeLight && *in.Theme != domain.ThemeDark {
		return View{}, fmt.Errorf("%q: %w", *in.Theme, ErrUnsupportedTheme)
	}
	if in.LowStockThreshold != nil && *in.LowStockThreshold < 0 {
		return View{}, ErrNegativeThreshold
	}
	if in.Currency != nil {
		if err := s.repo.SetCurrency(ctx, *in.Currency); err != nil {
			return View{}, err
		}
	}
	if in.Theme != nil {
		if err := s.repo.SetTheme(ctx, *in.Theme); err != nil {
			return View{}, err
		}
	}
	if in.LowStockThreshold != nil {
		if err := s.repo.SetLowStockThreshold(ctx, *in.LowStockThreshold); err != nil {
			return View{}, err
		}
	}
	return s.Get(ctx)
}

// Reset wipes every stored key once confirmed.
func (s *Service) Reset(ctx context.Context, in ResetInput) error {
	if !in.Confirm {
		return ErrNotConfirmed
	}
	if err := s.repo.Reset(ctx); err != nil {
		return err
	}
	s.logger.Warn("all data reset")
	return nil
}

// Seed replaces every collection with the named demo dataset.
func (s *Service) Seed(ctx context.Context, preset string) (store.Dataset, error) {
	ds, err := seed.Build(preset, s.repo.Now())
	if errors.Is(err, seed.ErrUnknownPreset) {
		return store.Dataset{}, fmt.Errorf("%q: %w", preset, ErrUnknownPreset)
	}
	if err != nil {
		return store.Dataset{}, err
	}
	if err := s.repo.Import(ctx, ds); err != nil {
		return store.Dataset{}, err
	}
	s.logger.Info("demo data seeded", slog.String("preset", preset),
		slog.Int("materials", len(ds.RawMaterials)), slog.Int("products", len(ds.Products)), slog.Int("orders", len(ds.Orders)))
	return ds, nil
}
