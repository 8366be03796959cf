package views

import (
	"time"

	"github.com/samber/lo"

	"github.com/crafthouse/crafthouse/internal/domain"
)

// ItemStatus is the derived state of a production item.
type ItemStatus string

const (
	StatusInProgress ItemStatus = "in_progress"
	StatusCompleted  ItemStatus = "completed"
)

// OrderRef is an order together with its position among the day's orders.
type OrderRef struct {
	Order domain.Order
	Index int
}

// OrdersOn returns the orders whose date falls on day's calendar date in loc.
// Index is the position within the returned slice.
func OrdersOn(orders []domain.Order, day time.Time, loc *time.Location) []OrderRef {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := day.In(loc).Date()
	out := make([]OrderRef, 0)
	for _, o := range orders {
		oy, om, od := o.OrderDate.In(loc).Date()
		if oy == y && om == m && od == d {
			out = append(out, OrderRef{Order: o, Index: len(out)})
		}
	}
	return out
}

// ProductionItem is one physical unit awaiting manufacture.
type ProductionItem struct {
	ID         domain.ItemID      `json:"id"`
	Key        string             `json:"key"`
	OrderIndex int                `json:"orderIndex"`
	OrderDate  time.Time          `json:"orderDate"`
	Source     domain.OrderSource `json:"source"`
	Checked    []bool             `json:"checked"`
	Status     ItemStatus         `json:"status"`
	Processed  bool               `json:"processed"`
	Action     string             `json:"action,omitempty"`
}

// Batch is every unit of one product due today.
type Batch struct {
	Product string           `json:"product"`
	Steps   []string         `json:"steps"`
	Items   []ProductionItem `json:"items"`
}

// ExpandProduction turns orders into one item per ordered unit, grouped by
// product in first-seen order. Progress comes from state. A line expands to
// at most domain.MaxQuantity items.
func ExpandProduction(refs []OrderRef, products []domain.Product, categories []domain.Category, state domain.ProductionState) []Batch {
	batches := make([]Batch, 0)
	index := make(map[string]int)
	for _, ref := range refs {
		for _, line := range ref.Order.Products {
			i, ok := index[line.Product]
			if !ok {
				i = len(batches)
				index[line.Product] = i
				batches = append(batches, Batch{
					Product: line.Product,
					Steps:   Steps(line.Product, products, categories),
					Items:   []ProductionItem{},
				})
			}
			steps := batches[i].Steps
			units := min(line.Quantity, domain.MaxQuantity)
			for unit := 0; unit < units; unit++ {
				id := domain.ItemID{OrderID: ref.Order.ID, Product: line.Product, Unit: unit}
				progress := state.Item(id)
				item := ProductionItem{
					ID:         id,
					Key:        id.String(),
					OrderIndex: ref.Index,
					OrderDate:  ref.Order.OrderDate,
					Source:     ref.Order.EffectiveSource(),
					Checked:    checkedSteps(progress, len(steps)),
					Status:     StatusOf(progress, steps),
					Processed:  progress.Processed,
					Action:     string(progress.Action),
				}
				batches[i].Items = append(batches[i].Items, item)
			}
		}
	}
	return batches
}

func checkedSteps(p domain.ItemProgress, n int) []bool {
	return lo.Times(n, func(i int) bool { return p.Steps[i] })
}

// StatusOf reports Completed only when every step is checked. An item
// without steps never completes.
func StatusOf(p domain.ItemProgress, steps []string) ItemStatus {
	if len(steps) == 0 {
		return StatusInProgress
	}
	for i := range steps {
		if !p.Steps[i] {
			return StatusInProgress
		}
	}
	return StatusCompleted
}
