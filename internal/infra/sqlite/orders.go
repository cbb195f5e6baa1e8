package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/farmdirect/backend/internal/core/domain/entity"
	"github.com/farmdirect/backend/internal/core/ports"
)

var _ ports.OrderRepository = (*OrderRepo)(nil)

// OrderRepo is the SQLite implementation of ports.OrderRepository.
type OrderRepo struct {
	db *sql.DB
}

func NewOrderRepo(s *Store) *OrderRepo {
	return &OrderRepo{db: s.db}
}

// Create writes the order, its line items and the initial placed status
// event in one transaction.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: create order %q: %w", o.ID, err)
	}
	defer tx.Rollback()

	const orderQ = `
		INSERT INTO orders (id, consumer_id, total_price, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, orderQ,
		o.ID, o.ConsumerID, o.TotalPrice.String(), string(o.Status),
		formatTime(o.CreatedAt), formatTime(o.UpdatedAt),
	); err != nil {
		return fmt.Errorf("sqlite: create order %q: %w", o.ID, err)
	}

	const itemQ = `
		INSERT INTO order_items (order_id, position, product_id, farmer_id, quantity)
		VALUES (?, ?, ?, ?, ?)`
	for i, it := range o.Items {
		if _, err := tx.ExecContext(ctx, itemQ, o.ID, i, it.ProductID, it.FarmerID, it.Quantity); err != nil {
			return fmt.Errorf("sqlite: create order %q item %d: %w", o.ID, i, err)
		}
	}

	if err := appendStatusEvent(ctx, tx, o.ID, o.Status, o.CreatedAt); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: create order %q: %w", o.ID, err)
	}
	return nil
}

// ByID returns one order with products and the consumer expanded.
func (r *OrderRepo) ByID(ctx context.Context, id string) (*entity.OrderView, error) {
	orders, err := r.queryOrders(ctx, `WHERE o.id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, ports.ErrNotFound
	}

	views, err := r.expand(ctx, orders, true, false)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// ByConsumer returns the consumer's own orders, products expanded.
func (r *OrderRepo) ByConsumer(ctx context.Context, consumerID string) ([]entity.OrderView, error) {
	orders, err := r.queryOrders(ctx, `WHERE o.consumer_id = ?`, consumerID)
	if err != nil {
		return nil, err
	}
	return r.expand(ctx, orders, false, false)
}

// ByFarmer returns every order with at least one line item whose denormalized
// farmer reference matches farmerID, with products and the consumer expanded.
func (r *OrderRepo) ByFarmer(ctx context.Context, farmerID string) ([]entity.OrderView, error) {
	orders, err := r.queryOrders(ctx,
		`WHERE o.id IN (SELECT order_id FROM order_items WHERE farmer_id = ?)`, farmerID)
	if err != nil {
		return nil, err
	}
	return r.expand(ctx, orders, true, false)
}

// All returns every order with products, consumers and each product's owning
// farmer expanded.
func (r *OrderRepo) All(ctx context.Context) ([]entity.OrderView, error) {
	orders, err := r.queryOrders(ctx, ``)
	if err != nil {
		return nil, err
	}
	return r.expand(ctx, orders, true, true)
}

// UpdateStatus moves the order to status and appends a status event.
// The transition itself is validated by the service; the repository only
// records it.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id string, status entity.Status) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: update order %q status: %w", id, err)
	}
	defer tx.Rollback()

	now := time.Now()
	res, err := tx.ExecContext(ctx,
		`UPDATE orders SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), formatTime(now), id)
	if err != nil {
		return fmt.Errorf("sqlite: update order %q status: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: update order %q status: %w", id, err)
	}
	if n == 0 {
		return ports.ErrNotFound
	}

	if err := appendStatusEvent(ctx, tx, id, status, now); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: update order %q status: %w", id, err)
	}
	return nil
}

// StatusHistory returns the order's status events oldest first.
func (r *OrderRepo) StatusHistory(ctx context.Context, id string) ([]entity.StatusEvent, error) {
	const q = `
		SELECT order_id, status, occurred_at
		FROM   order_status_events
		WHERE  order_id = ?
		ORDER  BY id`

	rows, err := r.db.QueryContext(ctx, q, id)
	if err != nil {
		return nil, fmt.Errorf("sqlite: status history for %q: %w", id, err)
	}
	defer rows.Close()

	var events []entity.StatusEvent
	for rows.Next() {
		var ev entity.StatusEvent
		var status, occurredAt string
		if err := rows.Scan(&ev.OrderID, &status, &occurredAt); err != nil {
			return nil, fmt.Errorf("sqlite: status history for %q: %w", id, err)
		}
		ev.Status = entity.Status(status)
		if ev.OccurredAt, err = parseTime(occurredAt); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: status history for %q: %w", id, err)
	}
	return events, nil
}

func appendStatusEvent(ctx context.Context, tx *sql.Tx, orderID string, status entity.Status, at time.Time) error {
	const q = `
		INSERT INTO order_status_events (order_id, status, occurred_at)
		VALUES (?, ?, ?)`
	if _, err := tx.ExecContext(ctx, q, orderID, string(status), formatTime(at)); err != nil {
		return fmt.Errorf("sqlite: append status event for %q: %w", orderID, err)
	}
	return nil
}

// queryOrders loads the base order rows matching the given WHERE clause,
// newest first.
func (r *OrderRepo) queryOrders(ctx context.Context, where string, args ...any) ([]entity.Order, error) {
	q := `
		SELECT o.id, o.consumer_id, o.total_price, o.status, o.created_at, o.updated_at
		FROM   orders o ` + where + `
		ORDER  BY o.created_at DESC, o.id`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query orders: %w", err)
	}
	defer rows.Close()

	var orders []entity.Order
	for rows.Next() {
		var o entity.Order
		var total, status, createdAt, updatedAt string
		if err := rows.Scan(&o.ID, &o.ConsumerID, &total, &status, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: query orders: %w", err)
		}
		if o.TotalPrice, err = decimal.NewFromString(total); err != nil {
			return nil, fmt.Errorf("sqlite: parse total %q: %w", total, err)
		}
		o.Status = entity.Status(status)
		if o.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if o.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: query orders: %w", err)
	}
	return orders, nil
}

// expand turns base orders into views: line items with product summaries,
// optionally the consumer summary, and optionally each product's owning
// farmer (admin view).
func (r *OrderRepo) expand(ctx context.Context, orders []entity.Order, withConsumer, withFarmer bool) ([]entity.OrderView, error) {
	views := make([]entity.OrderView, 0, len(orders))
	for _, o := range orders {
		items, err := r.loadItems(ctx, o.ID, withFarmer)
		if err != nil {
			return nil, err
		}

		v := entity.OrderView{Order: o, Items: items}
		if withConsumer {
			c, err := r.consumerSummary(ctx, o.ConsumerID)
			if err != nil {
				return nil, err
			}
			v.Consumer = c
		}
		views = append(views, v)
	}
	return views, nil
}

// loadItems returns the order's line items with products expanded. Product
// is nil when the catalog row no longer exists; the denormalized references
// on the line item are always present.
func (r *OrderRepo) loadItems(ctx context.Context, orderID string, withFarmer bool) ([]entity.OrderItemView, error) {
	const q = `
		SELECT oi.product_id, oi.farmer_id, oi.quantity,
		       p.id, p.name, p.price, p.image_url,
		       f.id, f.name, f.email
		FROM   order_items oi
		LEFT JOIN products p ON p.id = oi.product_id
		LEFT JOIN users    f ON f.id = p.farmer_id
		WHERE  oi.order_id = ?
		ORDER  BY oi.position`

	rows, err := r.db.QueryContext(ctx, q, orderID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: load items for %q: %w", orderID, err)
	}
	defer rows.Close()

	var items []entity.OrderItemView
	for rows.Next() {
		var it entity.OrderItemView
		var pID, pName, pPrice, pImage sql.NullString
		var fID, fName, fEmail sql.NullString
		if err := rows.Scan(&it.ProductID, &it.FarmerID, &it.Quantity,
			&pID, &pName, &pPrice, &pImage,
			&fID, &fName, &fEmail); err != nil {
			return nil, fmt.Errorf("sqlite: load items for %q: %w", orderID, err)
		}

		if pID.Valid {
			price, err := decimal.NewFromString(pPrice.String)
			if err != nil {
				return nil, fmt.Errorf("sqlite: parse price %q: %w", pPrice.String, err)
			}
			it.Product = &entity.ProductSummary{
				ID:       pID.String,
				Name:     pName.String,
				Price:    price,
				ImageURL: pImage.String,
			}
		}
		if withFarmer && fID.Valid {
			it.Farmer = &entity.ConsumerSummary{ID: fID.String, Name: fName.String, Email: fEmail.String}
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: load items for %q: %w", orderID, err)
	}
	return items, nil
}

// consumerSummary loads the limited consumer projection (name and email
// only) exposed to farmers and admins.
func (r *OrderRepo) consumerSummary(ctx context.Context, consumerID string) (*entity.ConsumerSummary, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, email FROM users WHERE id = ?`, consumerID)

	var c entity.ConsumerSummary
	err := row.Scan(&c.ID, &c.Name, &c.Email)
	if err == sql.ErrNoRows {
		// Order kept its consumer reference but the account is gone; the
		// view degrades instead of failing.
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: consumer summary %q: %w", consumerID, err)
	}
	return &c, nil
}
