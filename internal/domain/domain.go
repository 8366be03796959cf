// Package domain holds the entities persisted by the store. Entities keep
// their natural key (name or title) for display and uniqueness, and carry a
// generated identifier so references to a record survive list reordering.
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RawMaterial is a purchasable input consumed by products.
type RawMaterial struct {
	ID                uuid.UUID        `json:"id"`
	Name              string           `json:"name"`
	Unit              string           `json:"unit"`
	PricePerUnit      decimal.Decimal  `json:"pricePerUnit"`
	AvailableQuantity *decimal.Decimal `json:"availableQuantity,omitempty"`
}

// Available returns the stocked quantity, treating records that never had
// one as empty.
func (m RawMaterial) Available() decimal.Decimal {
	if m.AvailableQuantity == nil {
		return decimal.Zero
	}
	return *m.AvailableQuantity
}

// Category groups products sharing the same manufacturing stages.
type Category struct {
	ID                  uuid.UUID `json:"id"`
	Title               string    `json:"title"`
	Description         string    `json:"description"`
	ManufacturingStages []string  `json:"manufacturingStages"`
}

// Container is a storage location holding finished units of a product.
type Container struct {
	Location string          `json:"location"`
	Quantity decimal.Decimal `json:"quantity"`
}

// Product is a sellable item built from raw materials.
type Product struct {
	ID                uuid.UUID                  `json:"id"`
	Name              string                     `json:"name"`
	Image             string                     `json:"image"`
	Price             decimal.Decimal            `json:"price"`
	RawMaterials      map[string]decimal.Decimal `json:"rawMaterials"`
	Category          string                     `json:"category"`
	AvailableQuantity *decimal.Decimal           `json:"availableQuantity,omitempty"`
	Containers        []Container                `json:"containers,omitempty"`
}

// OrderSource tells what happens to an order's units once produced.
type OrderSource string

const (
	// SourcePlaced orders are produced for stock and consume raw materials.
	SourcePlaced OrderSource = "placed"
	// SourceShipped orders are shipped to the customer once produced.
	SourceShipped OrderSource = "shipped"
)

// Valid reports whether s is a known source.
func (s OrderSource) Valid() bool {
	return s == SourcePlaced || s == SourceShipped
}

// Order is a set of product quantities placed at one moment.
type Order struct {
	ID        uuid.UUID         `json:"id"`
	OrderDate time.Time         `json:"orderDate"`
	Products  ProductQuantities `json:"products"`
	Source    OrderSource       `json:"source,omitempty"`
}

// EffectiveSource defaults legacy orders without a source to placed.
func (o Order) EffectiveSource() OrderSource {
	if o.Source == "" {
		return SourcePlaced
	}
	return o.Source
}

// ContactPerson is a named contact at a supplier.
type ContactPerson struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// Supplier provides raw materials.
type Supplier struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Address        string          `json:"address"`
	Phone          string          `json:"phone"`
	ContactPersons []ContactPerson `json:"contactPersons"`
	GSTID          string          `json:"gstId"`
	Rating         float64         `json:"rating"`
	RawMaterials   []string        `json:"rawMaterials"`
}

// TransactionStatus is the replenishment lifecycle state.
type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
)

// Transaction records restocking a raw material from a supplier.
type Transaction struct {
	ID                string            `json:"id"`
	MaterialName      string            `json:"materialName"`
	Quantity          decimal.Decimal   `json:"quantity"`
	Supplier          string            `json:"supplier"`
	EstimatedPrice    decimal.Decimal   `json:"estimatedPrice"`
	ActualPrice       decimal.Decimal   `json:"actualPrice"`
	Date              time.Time         `json:"date"`
	Status            TransactionStatus `json:"status"`
	InvoiceNo         string            `json:"invoiceNo,omitempty"`
	BankTransactionID string            `json:"bankTransactionId,omitempty"`
	ShippingID        string            `json:"shippingId,omitempty"`
	CompletedAt       *time.Time        `json:"completedAt,omitempty"`
}
