// Package replenishment tracks restocking transactions from suppliers.
package replenishment

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/crafthouse/crafthouse/internal/domain"
	"github.com/crafthouse/crafthouse/internal/platform/httpx"
	"github.com/crafthouse/crafthouse/internal/store"
	"github.com/crafthouse/crafthouse/internal/views"
)

var (
	// ErrAlreadyCompleted is returned when completing a completed transaction.
	ErrAlreadyCompleted = fmt.Errorf("replenishment: transaction already completed: %w", httpx.ErrConflict)
	// ErrInvalidQuantity is returned for non-positive quantities or negative prices.
	ErrInvalidQuantity = fmt.Errorf("replenishment: quantity must be positive and prices not negative: %w", httpx.ErrValidation)
)

// CreateInput carries a new pending transaction.
type CreateInput struct {
	MaterialName      string          `json:"materialName" validate:"required"`
	Quantity          decimal.Decimal `json:"quantity"`
	Supplier          string          `json:"supplier" validate:"required"`
	EstimatedPrice    decimal.Decimal `json:"estimatedPrice"`
	ActualPrice       decimal.Decimal `json:"actualPrice"`
	Date              *time.Time      `json:"date"`
	InvoiceNo         string          `json:"invoiceNo" validate:"max=64"`
	BankTransactionID string          `json:"bankTransactionId" validate:"max=64"`
	ShippingID        string          `json:"shippingId" validate:"max=64"`
}

// Service exposes replenishment use cases.
type Service struct {
	repo   *store.Repository
	logger *slog.Logger
}

// NewService constructs the service.
func NewService(repo *store.Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger.With(slog.String("component", "replenishment"))}
}

// List returns transactions, optionally only those of one supplier.
func (s *Service) List(ctx context.Context, supplier string) ([]domain.Transaction, error) {
	txs, err := s.repo.Transactions(ctx)
	if supplier = strings.TrimSpace(supplier); supplier != "" {
		txs = views.TransactionsForSupplier(txs, supplier)
	}
	return txs, err
}

// Create records a pending transaction. Material and supplier are soft
// references.
func (s *Service) Create(ctx context.Context, in CreateInput) (domain.Transaction, error) {
	if !in.Quantity.IsPositive() || in.EstimatedPrice.IsNegative() || in.ActualPrice.IsNegative() {
		return domain.Transaction{}, ErrInvalidQuantity
	}
	tx := domain.Transaction{
		MaterialName:      strings.TrimSpace(in.MaterialName),
		Quantity:          in.Quantity,
		Supplier:          strings.TrimSpace(in.Supplier),
		EstimatedPrice:    in.EstimatedPrice,
		ActualPrice:       in.ActualPrice,
		Status:            domain.TransactionPending,
		InvoiceNo:         in.InvoiceNo,
		BankTransactionID: in.BankTransactionID,
		ShippingID:        in.ShippingID,
	}
	if in.Date != nil {
		tx.Date = *in.Date
	}
	return s.repo.SaveTransaction(ctx, tx)
}

// Complete moves a pending transaction to completed and adds its quantity to
// the material's stock. The status flip happens first, so a repeat never
// adds stock twice.
func (s *Service) Complete(ctx context.Context, id string) (domain.Transaction, error) {
	tx, changed, err := s.repo.CompleteTransaction(ctx, id)
	if err != nil {
		return domain.Transaction{}, err
	}
	if !changed {
		return tx, ErrAlreadyCompleted
	}
	missing, err := s.repo.AdjustMaterialStock(ctx, map[string]decimal.Decimal{tx.MaterialName: tx.Quantity})
	if err != nil {
		s.logger.Error("transaction completed but stock not adjusted",
			slog.String("transaction", tx.ID), slog.Any("error", err))
		return tx, err
	}
	if len(missing) > 0 {
		s.logger.Warn("completed transaction for unknown material",
			slog.String("transaction", tx.ID), slog.String("material", tx.MaterialName))
	}
	return tx, nil
}
