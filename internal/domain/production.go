package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ItemID identifies one physical unit of one order line. It is derived from
// the order's generated id, so it stays stable however orders are listed.
type ItemID struct {
	OrderID uuid.UUID `json:"orderId" validate:"required"`
	Product string    `json:"product" validate:"required"`
	Unit    int       `json:"unit" validate:"gte=0"`
}

// String renders the id as used for persisted progress keys.
func (id ItemID) String() string {
	return fmt.Sprintf("%s/%d/%s", id.OrderID, id.Unit, id.Product)
}

// CompletionAction names the one-shot action applied to a finished unit.
type CompletionAction string

const (
	ActionAddToInventory CompletionAction = "add_to_inventory"
	ActionShip           CompletionAction = "ship"
)

// ActionFor returns the completion action matching an order source.
func ActionFor(source OrderSource) CompletionAction {
	if source == SourceShipped {
		return ActionShip
	}
	return ActionAddToInventory
}

// ItemProgress is the checklist state of one production item.
type ItemProgress struct {
	Steps       map[int]bool     `json:"steps"`
	Processed   bool             `json:"processed"`
	Action      CompletionAction `json:"action,omitempty"`
	ProcessedAt *time.Time       `json:"processedAt,omitempty"`
}

// ProductionState is the persisted checklist of every production item.
type ProductionState struct {
	Items map[string]ItemProgress `json:"items"`
}

// Item returns the progress for id, empty when nothing was recorded.
func (s ProductionState) Item(id ItemID) ItemProgress {
	if s.Items == nil {
		return ItemProgress{}
	}
	return s.Items[id.String()]
}

// Put stores progress for id.
func (s *ProductionState) Put(id ItemID, p ItemProgress) {
	if s.Items == nil {
		s.Items = make(map[string]ItemProgress)
	}
	s.Items[id.String()] = p
}
