package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farmdirect/backend/internal/core/domain/entity"
	"github.com/farmdirect/backend/internal/core/ports"
	"github.com/farmdirect/backend/internal/pkg/cache"
)

// CatalogService manages product listings. Single-product reads go through
// a cache-aside layer when a cache is configured; a nil cache disables it.
type CatalogService struct {
	products ports.ProductRepository
	cache    cache.Cache
	cacheTTL time.Duration
}

func NewCatalogService(products ports.ProductRepository, c cache.Cache, ttl time.Duration) *CatalogService {
	return &CatalogService{products: products, cache: c, cacheTTL: ttl}
}

// ProductInput carries a farmer's new listing.
type ProductInput struct {
	Name     string
	Price    decimal.Decimal
	Quantity int
	ImageURL string
}

// CreateProduct creates a listing owned by the given farmer.
func (s *CatalogService) CreateProduct(ctx context.Context, farmerID string, in ProductInput) (*entity.Product, error) {
	if in.Name == "" {
		return nil, ErrMissingFields
	}
	if in.Price.IsNegative() {
		return nil, fmt.Errorf("price cannot be negative: %s", in.Price)
	}
	if in.Quantity < 0 {
		return nil, fmt.Errorf("quantity cannot be negative: %d", in.Quantity)
	}

	now := time.Now()
	p := &entity.Product{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Price:     in.Price,
		FarmerID:  farmerID,
		Quantity:  in.Quantity,
		ImageURL:  in.ImageURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ListProducts returns the full catalog.
func (s *CatalogService) ListProducts(ctx context.Context) ([]entity.Product, error) {
	return s.products.All(ctx)
}

// GetProduct returns one listing, serving from the cache when possible.
// Cache failures are logged and fall through to the repository; a stale or
// unreachable cache never fails a read.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	if s.cache == nil {
		return s.products.ByID(ctx, id)
	}

	key := s.cache.GenerateKey("product", id)
	if raw, err := s.cache.Get(ctx, key); err != nil {
		slog.WarnContext(ctx, "product cache read failed", "error", err)
	} else if raw != "" {
		var p entity.Product
		if err := json.Unmarshal([]byte(raw), &p); err == nil {
			return &p, nil
		}
	}

	p, err := s.products.ByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(p); err == nil {
		if err := s.cache.Set(ctx, key, string(raw), s.cacheTTL); err != nil {
			slog.WarnContext(ctx, "product cache write failed", "error", err)
		}
	}
	return p, nil
}
