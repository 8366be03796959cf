package store

import (
	"context"

	"github.com/crafthouse/crafthouse/internal/domain"
)

// Settings reads the scalar preferences, filling defaults for unset keys.
// The first read failure is returned; the remaining keys are still read.
func (r *Repository) Settings(ctx context.Context) (domain.Settings, error) {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	currency, err := getValue(ctx, r, KeyCurrency, "USD")
	keep(err)
	theme, err := getValue(ctx, r, KeyTheme, domain.ThemeLight)
	keep(err)
	threshold, err := getValue(ctx, r, KeyLowStockThreshold, r.threshold)
	keep(err)
	return domain.Settings{Currency: currency, Theme: theme, LowStockThreshold: threshold}, firstErr
}

// SetCurrency stores the display currency.
func (r *Repository) SetCurrency(ctx context.Context, currency string) error {
	if err := setValue(ctx, r, KeyCurrency, currency); err != nil {
		return err
	}
	r.publish(KeyCurrency)
	return nil
}

// SetTheme stores the UI theme.
func (r *Repository) SetTheme(ctx context.Context, theme domain.Theme) error {
	if err := setValue(ctx, r, KeyTheme, theme); err != nil {
		return err
	}
	r.publish(KeyTheme)
	return nil
}

// SetLowStockThreshold stores the low-stock threshold.
func (r *Repository) SetLowStockThreshold(ctx context.Context, threshold int) error {
	if err := setValue(ctx, r, KeyLowStockThreshold, threshold); err != nil {
		return err
	}
	r.publish(KeyLowStockThreshold)
	return nil
}
