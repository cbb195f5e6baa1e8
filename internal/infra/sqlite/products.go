package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/farmdirect/backend/internal/core/domain/entity"
	"github.com/farmdirect/backend/internal/core/ports"
)

var _ ports.ProductRepository = (*ProductRepo)(nil)

// ProductRepo is the SQLite implementation of ports.ProductRepository.
type ProductRepo struct {
	db *sql.DB
}

func NewProductRepo(s *Store) *ProductRepo {
	return &ProductRepo{db: s.db}
}

func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	const q = `
		INSERT INTO products
			(id, name, price, farmer_id, quantity, image_url, created_at, updated_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		p.ID, p.Name, p.Price.String(), p.FarmerID, p.Quantity, p.ImageURL,
		formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite: create product %q: %w", p.ID, err)
	}
	return nil
}

const productSelect = `
	SELECT id, name, price, farmer_id, quantity, image_url, created_at, updated_at
	FROM   products`

func (r *ProductRepo) ByID(ctx context.Context, id string) (*entity.Product, error) {
	row := r.db.QueryRowContext(ctx, productSelect+` WHERE id = ?`, id)

	p, err := scanProduct(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get product %q: %w", id, err)
	}
	return p, nil
}

func (r *ProductRepo) All(ctx context.Context) ([]entity.Product, error) {
	rows, err := r.db.QueryContext(ctx, productSelect+` ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list products: %w", err)
	}
	defer rows.Close()

	var out []entity.Product
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("sqlite: list products: %w", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list products: %w", err)
	}
	return out, nil
}

func scanProduct(scan func(...any) error) (*entity.Product, error) {
	var p entity.Product
	var price, createdAt, updatedAt string
	if err := scan(&p.ID, &p.Name, &price, &p.FarmerID, &p.Quantity, &p.ImageURL,
		&createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if p.Price, err = decimal.NewFromString(price); err != nil {
		return nil, fmt.Errorf("parse price %q: %w", price, err)
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
