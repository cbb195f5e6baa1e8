package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/farmdirect/backend/internal/core/domain/entity"
	"github.com/farmdirect/backend/internal/core/ports"
)

var _ ports.CartRepository = (*CartRepo)(nil)

// CartRepo is the SQLite implementation of ports.CartRepository.
type CartRepo struct {
	db *sql.DB
}

func NewCartRepo(s *Store) *CartRepo {
	return &CartRepo{db: s.db}
}

// AddItem upserts a cart line: adding a product already in the cart
// increments its quantity.
func (r *CartRepo) AddItem(ctx context.Context, consumerID string, item entity.CartItem) error {
	const q = `
		INSERT INTO cart_items (consumer_id, product_id, quantity)
		VALUES (?, ?, ?)
		ON CONFLICT (consumer_id, product_id)
		DO UPDATE SET quantity = quantity + excluded.quantity`

	_, err := r.db.ExecContext(ctx, q, consumerID, item.ProductID, item.Quantity)
	if err != nil {
		return fmt.Errorf("sqlite: add cart item for %q: %w", consumerID, err)
	}
	return nil
}

func (r *CartRepo) Items(ctx context.Context, consumerID string) ([]entity.CartItem, error) {
	const q = `
		SELECT product_id, quantity
		FROM   cart_items
		WHERE  consumer_id = ?
		ORDER  BY product_id`

	rows, err := r.db.QueryContext(ctx, q, consumerID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: cart items for %q: %w", consumerID, err)
	}
	defer rows.Close()

	var items []entity.CartItem
	for rows.Next() {
		var it entity.CartItem
		if err := rows.Scan(&it.ProductID, &it.Quantity); err != nil {
			return nil, fmt.Errorf("sqlite: cart items for %q: %w", consumerID, err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: cart items for %q: %w", consumerID, err)
	}
	return items, nil
}

func (r *CartRepo) Clear(ctx context.Context, consumerID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE consumer_id = ?`, consumerID)
	if err != nil {
		return fmt.Errorf("sqlite: clear cart for %q: %w", consumerID, err)
	}
	return nil
}
