package seed

import (
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/crafthouse/crafthouse/internal/domain"
	"github.com/crafthouse/crafthouse/internal/store"
)

var units = []string{"kg", "g", "m", "l", "ml", "pc", "spool"}

// Random generates a plausible workshop. A zero seed draws a fresh one;
// the same non-zero seed always yields the same catalogue.
func Random(now time.Time, seed uint64) store.Dataset {
	f := gofakeit.New(seed)

	materials := make([]domain.RawMaterial, 0, 8)
	for len(materials) < 8 {
		name := f.ProductMaterial()
		if lo.ContainsBy(materials, func(m domain.RawMaterial) bool { return m.Name == name }) {
			name = name + " " + f.Color()
			if lo.ContainsBy(materials, func(m domain.RawMaterial) bool { return m.Name == name }) {
				continue
			}
		}
		materials = append(materials, domain.RawMaterial{
			Name:              name,
			Unit:              f.RandomString(units),
			PricePerUnit:      decimal.NewFromFloat(f.Price(0.05, 40)).Round(2),
			AvailableQuantity: lo.ToPtr(decimal.NewFromInt(int64(f.Number(0, 200)))),
		})
	}

	categories := make([]domain.Category, 0, 3)
	for len(categories) < 3 {
		title := f.ProductCategory()
		if lo.ContainsBy(categories, func(c domain.Category) bool { return c.Title == title }) {
			title = title + " " + f.Noun()
			if lo.ContainsBy(categories, func(c domain.Category) bool { return c.Title == title }) {
				continue
			}
		}
		stages := lo.Times(f.Number(2, 5), func(int) string { return f.Verb() })
		categories = append(categories, domain.Category{
			Title:               title,
			Description:         f.Sentence(8),
			ManufacturingStages: lo.Uniq(stages),
		})
	}

	products := make([]domain.Product, 0, 6)
	for len(products) < 6 {
		name := f.ProductName()
		if lo.ContainsBy(products, func(p domain.Product) bool { return p.Name == name }) {
			continue
		}
		used := make(map[string]decimal.Decimal)
		for _, m := range sample(f, materials, f.Number(1, 3)) {
			used[m.Name] = decimal.NewFromFloat(f.Float64Range(0.1, 5)).Round(2)
		}
		products = append(products, domain.Product{
			Name:         name,
			Image:        f.URL(),
			Price:        decimal.NewFromFloat(f.Price(5, 300)).Round(2),
			RawMaterials: used,
			Category:     categories[f.Number(0, len(categories)-1)].Title,
		})
	}

	suppliers := make([]domain.Supplier, 0, 3)
	for len(suppliers) < 3 {
		name := f.Company()
		if lo.ContainsBy(suppliers, func(s domain.Supplier) bool { return s.Name == name }) {
			continue
		}
		addr := f.Address()
		suppliers = append(suppliers, domain.Supplier{
			Name:    name,
			Address: addr.Address,
			Phone:   f.Phone(),
			ContactPersons: []domain.ContactPerson{
				{Name: f.Name(), Phone: f.Phone(), Email: f.Email()},
			},
			GSTID:        f.Regex("[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z]{1}"),
			Rating:       float64(f.Number(10, 50)) / 10,
			RawMaterials: lo.Map(sample(f, materials, 3), func(m domain.RawMaterial, _ int) string { return m.Name }),
		})
	}

	orders := make([]domain.Order, 0, 4)
	for i := 0; i < 4; i++ {
		var pq domain.ProductQuantities
		for _, p := range sample(f, products, f.Number(1, 3)) {
			pq = pq.Add(p.Name, f.Number(1, 4))
		}
		source := domain.SourcePlaced
		if f.Bool() {
			source = domain.SourceShipped
		}
		orders = append(orders, domain.Order{
			OrderDate: now.Add(-time.Duration(f.Number(0, 6*60)) * time.Minute),
			Products:  pq,
			Source:    source,
		})
	}

	txs := lo.Times(3, func(int) domain.Transaction {
		s := suppliers[f.Number(0, len(suppliers)-1)]
		q := decimal.NewFromInt(int64(f.Number(5, 100)))
		return domain.Transaction{
			MaterialName:   s.RawMaterials[0],
			Quantity:       q,
			Supplier:       s.Name,
			EstimatedPrice: decimal.NewFromFloat(f.Price(10, 500)).Round(2),
			Date:           now.AddDate(0, 0, -f.Number(0, 14)),
			Status:         domain.TransactionPending,
		}
	})

	return store.Dataset{
		RawMaterials: materials,
		Categories:   categories,
		Products:     products,
		Orders:       orders,
		Suppliers:    suppliers,
		Transactions: txs,
	}
}

// sample picks n distinct elements using f, so a seeded faker stays
// reproducible.
func sample[T any](f *gofakeit.Faker, items []T, n int) []T {
	pool := append([]T(nil), items...)
	n = min(n, len(pool))
	for i := 0; i < n; i++ {
		j := f.Number(i, len(pool)-1)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n]
}
