// Package production drives the daily production checklist: today's orders
// expanded into one item per unit, per-step progress and the one-shot
// completion action.
package production

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/crafthouse/crafthouse/internal/domain"
	"github.com/crafthouse/crafthouse/internal/store"
	"github.com/crafthouse/crafthouse/internal/views"
)

// Board is the production plan for one calendar day.
type Board struct {
	Date    string        `json:"date"`
	Orders  int           `json:"orders"`
	Batches []views.Batch `json:"batches"`
}

// StepInput toggles one step of one item.
type StepInput struct {
	Item    domain.ItemID `json:"item"`
	Step    int           `json:"step" validate:"gte=0"`
	Checked bool          `json:"checked"`
}

// CompleteInput names the item whose completion action should run.
type CompleteInput struct {
	Item domain.ItemID `json:"item"`
}

// Completion reports what the completion action did.
type Completion struct {
	Item             domain.ItemID              `json:"item"`
	Action           domain.CompletionAction    `json:"action"`
	Consumed         map[string]decimal.Decimal `json:"consumed,omitempty"`
	MissingMaterials []string                   `json:"missingMaterials,omitempty"`
}

// Service exposes production use cases.
type Service struct {
	repo     *store.Repository
	location *time.Location
	logger   *slog.Logger
}

// NewService constructs the service. Calendar days are evaluated in loc.
func NewService(repo *store.Repository, loc *time.Location, logger *slog.Logger) *Service {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, location: loc, logger: logger.With(slog.String("component", "production"))}
}

// Today returns the board for the current day.
func (s *Service) Today(ctx context.Context) (Board, error) {
	return s.BoardFor(ctx, s.repo.Now())
}

// BoardFor returns the board for day's calendar date.
func (s *Service) BoardFor(ctx context.Context, day time.Time) (Board, error) {
	snap, err := s.repo.Snapshot(ctx)
	refs := views.OrdersOn(snap.Orders, day, s.location)
	return Board{
		Date:    day.In(s.location).Format(time.DateOnly),
		Orders:  len(refs),
		Batches: views.ExpandProduction(refs, snap.Products, snap.Categories, snap.Production),
	}, err
}

// Badge counts today's orders.
func (s *Service) Badge(ctx context.Context) (int, error) {
	orders, err := s.repo.Orders(ctx)
	return len(views.OrdersOn(orders, s.repo.Now(), s.location)), err
}

type resolved struct {
	order   domain.Order
	steps   []string
	product domain.Product
	known   bool
}

func (s *Service) resolve(ctx context.Context, id domain.ItemID) (resolved, error) {
	snap, err := s.repo.Snapshot(ctx)
	if err != nil {
		return resolved{}, err
	}
	for _, o := range snap.Orders {
		if o.ID != id.OrderID {
			continue
		}
		if id.Unit < 0 || id.Unit >= o.Products.Quantity(id.Product) {
			break
		}
		p, known := views.FindProduct(snap.Products, id.Product)
		return resolved{
			order:   o,
			steps:   views.Steps(id.Product, snap.Products, snap.Categories),
			product: p,
			known:   known,
		}, nil
	}
	return resolved{}, fmt.Errorf("%s: %w", id, ErrUnknownItem)
}

// ToggleStep records one checkbox. Unchecking is allowed until the item has
// been processed.
func (s *Service) ToggleStep(ctx context.Context, in StepInput) (views.ItemStatus, error) {
	item, err := s.resolve(ctx, in.Item)
	if err != nil {
		return "", err
	}
	if in.Step < 0 || in.Step >= len(item.steps) {
		return "", fmt.Errorf("step %d of %d: %w", in.Step, len(item.steps), ErrStepOutOfRange)
	}
	var status views.ItemStatus
	err = s.repo.UpdateProductionState(ctx, func(state *domain.ProductionState) error {
		progress := state.Item(in.Item)
		if progress.Processed {
			return ErrAlreadyProcessed
		}
		if progress.Steps == nil {
			progress.Steps = map[int]bool{}
		}
		if in.Checked {
			progress.Steps[in.Step] = true
		} else {
			delete(progress.Steps, in.Step)
		}
		state.Put(in.Item, progress)
		status = views.StatusOf(progress, item.steps)
		return nil
	})
	return status, err
}

// Complete runs the completion action once. Placed orders consume one unit's
// worth of raw materials; shipped orders are only marked.
func (s *Service) Complete(ctx context.Context, in CompleteInput) (Completion, error) {
	item, err := s.resolve(ctx, in.Item)
	if err != nil {
		return Completion{}, err
	}
	action := domain.ActionFor(item.order.EffectiveSource())
	err = s.repo.UpdateProductionState(ctx, func(state *domain.ProductionState) error {
		progress := state.Item(in.Item)
		if progress.Processed {
			return ErrAlreadyProcessed
		}
		if views.StatusOf(progress, item.steps) != views.StatusCompleted {
			return ErrNotCompleted
		}
		at := s.repo.Now()
		progress.Processed = true
		progress.Action = action
		progress.ProcessedAt = &at
		state.Put(in.Item, progress)
		return nil
	})
	if err != nil {
		return Completion{}, err
	}

	result := Completion{Item: in.Item, Action: action}
	if action != domain.ActionAddToInventory || !item.known {
		return result, nil
	}
	consumed := views.MaterialConsumption(item.product, 1)
	deltas := make(map[string]decimal.Decimal, len(consumed))
	for name, qty := range consumed {
		deltas[name] = qty.Neg()
	}
	missing, err := s.repo.AdjustMaterialStock(ctx, deltas)
	if err != nil {
		s.logger.Error("stock not adjusted, reopening item",
			slog.String("item", in.Item.String()), slog.Any("error", err))
		if rerr := s.reopen(ctx, in.Item); rerr != nil {
			s.logger.Error("item stays processed without stock change",
				slog.String("item", in.Item.String()), slog.Any("error", rerr))
		}
		return Completion{}, err
	}
	if len(missing) > 0 {
		s.logger.Warn("product uses unknown raw materials",
			slog.String("product", in.Item.Product), slog.Any("materials", missing))
	}
	result.Consumed = consumed
	result.MissingMaterials = missing
	return result, nil
}

// reopen clears the processed flag so a failed completion can be retried.
func (s *Service) reopen(ctx context.Context, id domain.ItemID) error {
	return s.repo.UpdateProductionState(ctx, func(state *domain.ProductionState) error {
		progress := state.Item(id)
		progress.Processed = false
		progress.Action = ""
		progress.ProcessedAt = nil
		state.Put(id, progress)
		return nil
	})
}
