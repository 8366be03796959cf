package production

import (
	"fmt"

	"github.com/crafthouse/crafthouse/internal/platform/httpx"
)

var (
	// ErrUnknownItem is returned when the item does not belong to any order.
	ErrUnknownItem = fmt.Errorf("production: unknown item: %w", httpx.ErrNotFound)
	// ErrStepOutOfRange is returned for a step index outside the product's
	// stages.
	ErrStepOutOfRange = fmt.Errorf("production: step out of range: %w", httpx.ErrValidation)
	// ErrNotCompleted is returned when completing an item with unchecked steps.
	ErrNotCompleted = fmt.Errorf("production: item has unfinished steps: %w", httpx.ErrConflict)
	// ErrAlreadyProcessed is returned when the completion action already ran.
	ErrAlreadyProcessed = fmt.Errorf("production: item already processed: %w", httpx.ErrConflict)
)
