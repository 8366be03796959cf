// Package seed builds the named demo datasets offered from settings.
package seed

import (
	"errors"
	"sort"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/crafthouse/crafthouse/internal/domain"
	"github.com/crafthouse/crafthouse/internal/store"
)

// ErrUnknownPreset is returned for a preset name that is not registered.
var ErrUnknownPreset = errors.New("seed: unknown preset")

// Builder produces a dataset anchored at now, so demo orders land on the
// current production day.
type Builder func(now time.Time) store.Dataset

var presets = map[string]Builder{
	"textiles": textiles,
	"bakery":   bakery,
	"woodshop": woodshop,
	"random":   func(now time.Time) store.Dataset { return Random(now, 0) },
}

// Presets lists the registered preset names.
func Presets() []string {
	names := lo.Keys(presets)
	sort.Strings(names)
	return names
}

// Build returns the dataset of the named preset.
func Build(name string, now time.Time) (store.Dataset, error) {
	b, ok := presets[name]
	if !ok {
		return store.Dataset{}, ErrUnknownPreset
	}
	return b(now), nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func qty(s string) *decimal.Decimal {
	return lo.ToPtr(dec(s))
}

func usage(pairs ...string) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out[pairs[i]] = dec(pairs[i+1])
	}
	return out
}

func lines(pairs ...any) domain.ProductQuantities {
	var pq domain.ProductQuantities
	for i := 0; i+1 < len(pairs); i += 2 {
		pq = pq.Add(pairs[i].(string), pairs[i+1].(int))
	}
	return pq
}
