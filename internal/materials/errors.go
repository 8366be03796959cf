package materials

import (
	"fmt"

	"github.com/crafthouse/crafthouse/internal/platform/httpx"
)

var (
	ErrNegativePrice    = fmt.Errorf("materials: price per unit must not be negative: %w", httpx.ErrValidation)
	ErrNegativeQuantity = fmt.Errorf("materials: available quantity must not be negative: %w", httpx.ErrValidation)
)
