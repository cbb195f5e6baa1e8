package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog listing. Every product has exactly one owning farmer.
type Product struct {
	ID       string
	Name     string
	Price    decimal.Decimal
	FarmerID string
	Quantity int
	ImageURL string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProductSummary is the projection expanded onto order line items.
type ProductSummary struct {
	ID       string
	Name     string
	Price    decimal.Decimal
	ImageURL string
}

// CartItem is one product/quantity pair in a consumer's persisted cart.
// The cart is maintained by the cart endpoints only; order placement reads
// the submitted product list, never the cart.
type CartItem struct {
	ProductID string
	Quantity  int
}
