package service

import (
	"errors"
	"fmt"

	"github.com/farmdirect/backend/internal/core/domain/entity"
)

var (
	// ErrEmptyOrder is returned when an order is placed with no products.
	ErrEmptyOrder = errors.New("no products in the order")

	// ErrOrderNotFound is returned for a well-formed order id with no
	// matching order.
	ErrOrderNotFound = errors.New("order not found")

	// ErrMalformedID is returned before any lookup when an order id is not
	// a well-formed identifier.
	ErrMalformedID = errors.New("invalid order ID format")

	// ErrInvalidQuantity is returned when a line item quantity is not a
	// positive integer.
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")

	// ErrInvalidCredentials is returned on login with an unknown email, a
	// wrong password, or the wrong role's login endpoint.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrMissingFields is returned when a registration or listing request
	// omits required fields.
	ErrMissingFields = errors.New("missing required fields")

	// ErrNotOrderFarmer is returned when a farmer tries to advance an order
	// none of whose line items reference them.
	ErrNotOrderFarmer = errors.New("order has no products sold by this farmer")
)

// ProductNotFoundError names the offending product id so order placement can
// fail the whole operation with a message pointing at it.
type ProductNotFoundError struct {
	ID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product not found: %s", e.ID)
}

// TransitionError reports a rejected order status transition.
type TransitionError struct {
	From, To entity.Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot transition order from %s to %s", e.From, e.To)
}
