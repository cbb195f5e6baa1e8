package service

import (
	"context"
	"errors"

	"github.com/farmdirect/backend/internal/core/domain/entity"
	"github.com/farmdirect/backend/internal/core/ports"
)

// CartService maintains the consumer's persisted cart. The cart is a
// shopping aid only: order placement reads the submitted product list and
// never consults it.
type CartService struct {
	carts    ports.CartRepository
	products ports.ProductRepository
}

func NewCartService(carts ports.CartRepository, products ports.ProductRepository) *CartService {
	return &CartService{carts: carts, products: products}
}

// AddItem adds (or tops up) one product in the consumer's cart.
func (s *CartService) AddItem(ctx context.Context, consumerID, productID string, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if _, err := s.products.ByID(ctx, productID); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return &ProductNotFoundError{ID: productID}
		}
		return err
	}
	return s.carts.AddItem(ctx, consumerID, entity.CartItem{ProductID: productID, Quantity: quantity})
}

// Items returns the consumer's cart.
func (s *CartService) Items(ctx context.Context, consumerID string) ([]entity.CartItem, error) {
	return s.carts.Items(ctx, consumerID)
}

// Clear empties the consumer's cart.
func (s *CartService) Clear(ctx context.Context, consumerID string) error {
	return s.carts.Clear(ctx, consumerID)
}
