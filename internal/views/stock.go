package views

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/crafthouse/crafthouse/internal/domain"
)

// IsLowStock flags a material at or below threshold. Materials that never
// recorded a quantity count as empty.
func IsLowStock(m domain.RawMaterial, threshold int) bool {
	return m.Available().LessThanOrEqual(decimal.NewFromInt(int64(threshold)))
}

// LowStock returns the materials at or below threshold, in stored order.
func LowStock(materials []domain.RawMaterial, threshold int) []domain.RawMaterial {
	out := lo.Filter(materials, func(m domain.RawMaterial, _ int) bool { return IsLowStock(m, threshold) })
	if out == nil {
		return []domain.RawMaterial{}
	}
	return out
}

// TransactionsForSupplier returns the supplier's transactions in stored order.
func TransactionsForSupplier(txs []domain.Transaction, supplier string) []domain.Transaction {
	out := lo.Filter(txs, func(t domain.Transaction, _ int) bool { return t.Supplier == supplier })
	if out == nil {
		return []domain.Transaction{}
	}
	return out
}
