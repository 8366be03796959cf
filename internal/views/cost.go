// Package views holds the read-time joins over stored collections: costing,
// catalog grouping, production batching and stock checks. Everything here is
// pure; callers load the collections and pass them in.
package views

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/crafthouse/crafthouse/internal/domain"
)

// MaterialPrices indexes raw material prices by name. When names repeat the
// first record wins, matching a front-to-back search.
func MaterialPrices(materials []domain.RawMaterial) map[string]decimal.Decimal {
	prices := make(map[string]decimal.Decimal, len(materials))
	for _, m := range materials {
		if _, ok := prices[m.Name]; !ok {
			prices[m.Name] = m.PricePerUnit
		}
	}
	return prices
}

// UnitCost sums qty × pricePerUnit over the product's raw materials. Materials
// missing from the collection contribute nothing.
func UnitCost(p domain.Product, materials []domain.RawMaterial) decimal.Decimal {
	return unitCost(p.RawMaterials, MaterialPrices(materials))
}

func unitCost(usage map[string]decimal.Decimal, prices map[string]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for name, qty := range usage {
		if price, ok := prices[name]; ok {
			total = total.Add(price.Mul(qty))
		}
	}
	return total
}

// EstimatedCost prices a draft material selection, as shown while a product
// is being defined.
func EstimatedCost(usage map[string]decimal.Decimal, materials []domain.RawMaterial) decimal.Decimal {
	return unitCost(usage, MaterialPrices(materials))
}

// QuoteLine is the priced breakdown of one order line.
type QuoteLine struct {
	Product   string          `json:"product"`
	Quantity  int             `json:"quantity"`
	Known     bool            `json:"known"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	UnitCost  decimal.Decimal `json:"unitCost"`
	Total     decimal.Decimal `json:"total"`
	Profit    decimal.Decimal `json:"profit"`
}

// Quote totals a set of order lines.
type Quote struct {
	Lines       []QuoteLine     `json:"lines"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
	TotalProfit decimal.Decimal `json:"totalProfit"`
}

// BuildQuote prices lines against the catalogue. A line naming an unknown
// product is reported with Known=false and adds nothing to the totals.
func BuildQuote(lines domain.ProductQuantities, products []domain.Product, materials []domain.RawMaterial) Quote {
	prices := MaterialPrices(materials)
	byName := make(map[string]domain.Product, len(products))
	for _, p := range products {
		if _, ok := byName[p.Name]; !ok {
			byName[p.Name] = p
		}
	}

	quote := Quote{Lines: make([]QuoteLine, 0, len(lines)), TotalPrice: decimal.Zero, TotalProfit: decimal.Zero}
	for _, line := range lines {
		ql := QuoteLine{Product: line.Product, Quantity: line.Quantity, UnitPrice: decimal.Zero, UnitCost: decimal.Zero, Total: decimal.Zero, Profit: decimal.Zero}
		if p, ok := byName[line.Product]; ok {
			qty := decimal.NewFromInt(int64(line.Quantity))
			ql.Known = true
			ql.UnitPrice = p.Price
			ql.UnitCost = unitCost(p.RawMaterials, prices)
			ql.Total = p.Price.Mul(qty)
			ql.Profit = p.Price.Sub(ql.UnitCost).Mul(qty)
		}
		quote.TotalPrice = quote.TotalPrice.Add(ql.Total)
		quote.TotalProfit = quote.TotalProfit.Add(ql.Profit)
		quote.Lines = append(quote.Lines, ql)
	}
	return quote
}

// MaterialConsumption returns how much of each raw material units of p use.
func MaterialConsumption(p domain.Product, units int) map[string]decimal.Decimal {
	n := decimal.NewFromInt(int64(units))
	return lo.MapValues(p.RawMaterials, func(qty decimal.Decimal, _ string) decimal.Decimal {
		return qty.Mul(n)
	})
}
