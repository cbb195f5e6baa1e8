// Package ports defines the interfaces the core services depend on. The
// services never touch SQLite (or Redis) directly, so every implementation
// can be swapped for an in-memory one in tests.
package ports

import (
	"context"
	"errors"

	"github.com/farmdirect/backend/internal/core/domain/entity"
)

// ErrNotFound is returned by every repository lookup whose subject does not
// exist. Callers distinguish it from infrastructure failures with errors.Is.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a write violates a uniqueness constraint
// (duplicate email or phone).
var ErrConflict = errors.New("already exists")

// UserRepository persists consumer, farmer and admin accounts.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	ByID(ctx context.Context, id string) (*entity.User, error)
	ByEmail(ctx context.Context, email string) (*entity.User, error)
}

// ProductRepository persists catalog listings.
type ProductRepository interface {
	Create(ctx context.Context, p *entity.Product) error
	ByID(ctx context.Context, id string) (*entity.Product, error)
	All(ctx context.Context) ([]entity.Product, error)
}

// CartRepository persists a consumer's cart. AddItem upserts: adding a
// product already in the cart increments its quantity.
type CartRepository interface {
	AddItem(ctx context.Context, consumerID string, item entity.CartItem) error
	Items(ctx context.Context, consumerID string) ([]entity.CartItem, error)
	Clear(ctx context.Context, consumerID string) error
}

// OrderRepository persists orders and serves the role-scoped read views.
// Each read view returns orders with the expansions that view exposes; see
// the entity.OrderView field docs.
type OrderRepository interface {
	// Create writes the order and its initial placed status event.
	Create(ctx context.Context, o *entity.Order) error

	// ByID returns one order with products and the consumer expanded, or
	// ErrNotFound.
	ByID(ctx context.Context, id string) (*entity.OrderView, error)

	// ByConsumer returns the consumer's own orders, products expanded.
	ByConsumer(ctx context.Context, consumerID string) ([]entity.OrderView, error)

	// ByFarmer returns every order with at least one line item whose
	// denormalized farmer reference matches farmerID.
	ByFarmer(ctx context.Context, farmerID string) ([]entity.OrderView, error)

	// All returns every order with products, consumers and each product's
	// owning farmer expanded.
	All(ctx context.Context) ([]entity.OrderView, error)

	// UpdateStatus moves the order to status and appends a status event.
	UpdateStatus(ctx context.Context, id string, status entity.Status) error

	// StatusHistory returns the order's status events oldest first.
	StatusHistory(ctx context.Context, id string) ([]entity.StatusEvent, error)
}

// Pinger reports storage reachability for the diagnostic endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}
