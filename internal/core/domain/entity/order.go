package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem is one line of an order. FarmerID is copied from the product at
// order creation time so farmer-scoped queries never join through the
// catalog; it is never refreshed, so a later change of product ownership
// does not rewrite historical orders.
type OrderItem struct {
	ProductID string
	FarmerID  string
	Quantity  int
}

// Order is the persisted order document. ConsumerID is set once at creation
// and never changes; TotalPrice is the sum of unit price times quantity over
// the line items at the moment the order was placed.
type Order struct {
	ID         string
	ConsumerID string
	Items      []OrderItem
	TotalPrice decimal.Decimal
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// OrderItemView is a line item with its product expanded. Product is nil if
// the product was deleted after the order was placed. Farmer is populated
// only for the admin listing.
type OrderItemView struct {
	OrderItem
	Product *ProductSummary
	Farmer  *ConsumerSummary
}

// OrderView is an order with its references expanded for a read view.
// Consumer is nil on views that do not expose consumer identity.
type OrderView struct {
	Order
	Items    []OrderItemView
	Consumer *ConsumerSummary
}
