package views

import (
	"github.com/samber/lo"

	"github.com/crafthouse/crafthouse/internal/domain"
)

// CategoryGroup is one category and its products in first-seen order.
type CategoryGroup struct {
	Category string           `json:"category"`
	Products []domain.Product `json:"products"`
}

// GroupByCategory partitions products by category title. Groups follow the
// order in which each category is first seen.
func GroupByCategory(products []domain.Product) []CategoryGroup {
	groups := make([]CategoryGroup, 0)
	index := make(map[string]int)
	for _, p := range products {
		i, ok := index[p.Category]
		if !ok {
			i = len(groups)
			index[p.Category] = i
			groups = append(groups, CategoryGroup{Category: p.Category})
		}
		groups[i].Products = append(groups[i].Products, p)
	}
	return groups
}

// FindProduct returns the first product named name.
func FindProduct(products []domain.Product, name string) (domain.Product, bool) {
	return lo.Find(products, func(p domain.Product) bool { return p.Name == name })
}

// FindMaterial returns the first raw material named name.
func FindMaterial(materials []domain.RawMaterial, name string) (domain.RawMaterial, bool) {
	return lo.Find(materials, func(m domain.RawMaterial) bool { return m.Name == name })
}

// Steps resolves a product's manufacturing stages through its category. It
// returns an empty slice when either reference is dangling.
func Steps(productName string, products []domain.Product, categories []domain.Category) []string {
	p, ok := FindProduct(products, productName)
	if !ok {
		return []string{}
	}
	c, ok := lo.Find(categories, func(c domain.Category) bool { return c.Title == p.Category })
	if !ok || c.ManufacturingStages == nil {
		return []string{}
	}
	return c.ManufacturingStages
}
