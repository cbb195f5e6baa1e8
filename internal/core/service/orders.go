package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/farmdirect/backend/internal/core/domain/entity"
	"github.com/farmdirect/backend/internal/core/ports"
)

// Display-only breakdown of the order detail view. Subtotal is the stored
// total minus shipping and tax, a presentation approximation rather than a
// recomputation from line items.
var (
	displayShipping = decimal.RequireFromString("5.99")
	displayTax      = decimal.RequireFromString("2.50")
)

// maxProductLookups caps the concurrent catalog reads during placement.
const maxProductLookups = 8

// OrderService implements the order workflow: placement, the role-scoped
// read views, the detail and invoice projections, and status transitions.
type OrderService struct {
	orders   ports.OrderRepository
	products ports.ProductRepository
	users    ports.UserRepository
}

func NewOrderService(orders ports.OrderRepository, products ports.ProductRepository, users ports.UserRepository) *OrderService {
	return &OrderService{orders: orders, products: products, users: users}
}

// LineInput is one submitted {product id, quantity} pair.
type LineInput struct {
	ProductID string
	Quantity  int
}

// Place validates the submitted lines, prices the order against the catalog
// and persists it for the given consumer. The whole operation fails if any
// product id does not resolve; no partial order is created. Each line item
// carries the product's owning farmer at this moment, never refreshed.
func (s *OrderService) Place(ctx context.Context, consumerID string, lines []LineInput) (*entity.Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}

	items := make([]entity.OrderItem, len(lines))
	lineTotals := make([]decimal.Decimal, len(lines))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxProductLookups)

	for idx := range lines {
		idx := idx
		g.Go(func() error {
			line := lines[idx]
			if line.Quantity <= 0 {
				return ErrInvalidQuantity
			}

			product, err := s.products.ByID(ctx, line.ProductID)
			if errors.Is(err, ports.ErrNotFound) {
				return &ProductNotFoundError{ID: line.ProductID}
			}
			if err != nil {
				return err
			}

			items[idx] = entity.OrderItem{
				ProductID: product.ID,
				FarmerID:  product.FarmerID,
				Quantity:  line.Quantity,
			}
			lineTotals[idx] = product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, lt := range lineTotals {
		total = total.Add(lt)
	}

	now := time.Now()
	order := &entity.Order{
		ID:         uuid.NewString(),
		ConsumerID: consumerID,
		Items:      items,
		TotalPrice: total,
		Status:     entity.StatusPlaced,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// ConsumerOrders returns the caller's own orders with products expanded.
func (s *OrderService) ConsumerOrders(ctx context.Context, consumerID string) ([]entity.OrderView, error) {
	return s.orders.ByConsumer(ctx, consumerID)
}

// FarmerOrders returns every order containing at least one line item the
// farmer owns. The full order is returned, not just that farmer's lines.
func (s *OrderService) FarmerOrders(ctx context.Context, farmerID string) ([]entity.OrderView, error) {
	return s.orders.ByFarmer(ctx, farmerID)
}

// AllOrders returns the unrestricted admin listing.
func (s *OrderService) AllOrders(ctx context.Context) ([]entity.OrderView, error) {
	return s.orders.All(ctx)
}

// ValidOrderID reports whether id is a well-formed identifier of the store's
// id format, independent of whether a matching order exists.
func ValidOrderID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// DetailProduct is one line of the detail view, with fixed fallbacks when
// the catalog row no longer exists.
type DetailProduct struct {
	ID       string
	Name     string
	Price    decimal.Decimal
	Image    string
	Quantity int
}

// PaymentInfo is static display data; there is no payment processing.
type PaymentInfo struct {
	Method     string
	CardNumber string
}

// OrderDetail is the single-order projection served to the frontend's
// confirmation page.
type OrderDetail struct {
	OrderID     string
	OrderDate   time.Time
	TotalAmount decimal.Decimal
	Subtotal    decimal.Decimal
	Shipping    decimal.Decimal
	Tax         decimal.Decimal
	Status      entity.Status
	Products    []DetailProduct
	Farmer      entity.FarmerProfile
	Payment     PaymentInfo
	Steps       []entity.FulfillmentStep
}

// Detail builds the single-order view. The id's format is checked before
// any lookup. The farmer summary is derived from the first line item (the
// order is treated as single-farmer for display even though the data model
// permits several) and every auxiliary lookup degrades to placeholder data
// instead of failing the response.
func (s *OrderService) Detail(ctx context.Context, orderID string) (*OrderDetail, error) {
	if !ValidOrderID(orderID) {
		return nil, ErrMalformedID
	}

	view, err := s.orders.ByID(ctx, orderID)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	products := make([]DetailProduct, 0, len(view.Items))
	for _, it := range view.Items {
		dp := DetailProduct{
			ID:       it.ProductID,
			Name:     "Product",
			Image:    "/placeholder.jpg",
			Quantity: it.Quantity,
		}
		if it.Product != nil {
			dp.Name = it.Product.Name
			dp.Price = it.Product.Price
			if it.Product.ImageURL != "" {
				dp.Image = it.Product.ImageURL
			}
		}
		products = append(products, dp)
	}

	detail := &OrderDetail{
		OrderID:     view.ID,
		OrderDate:   view.CreatedAt,
		TotalAmount: view.TotalPrice,
		Subtotal:    view.TotalPrice.Sub(displayShipping).Sub(displayTax),
		Shipping:    displayShipping,
		Tax:         displayTax,
		Status:      view.Status,
		Products:    products,
		Farmer:      s.farmerSummary(ctx, view),
		Payment:     PaymentInfo{Method: "Credit Card", CardNumber: "**** **** **** 4242"},
		Steps:       s.timeline(ctx, view),
	}
	return detail, nil
}

// farmerSummary resolves the first line item's farmer into a display
// profile, substituting the fixed placeholder when the lookup fails or the
// profile fields are absent.
func (s *OrderService) farmerSummary(ctx context.Context, view *entity.OrderView) entity.FarmerProfile {
	placeholder := entity.PlaceholderFarmer()
	if len(view.Items) == 0 {
		return placeholder
	}

	farmer, err := s.users.ByID(ctx, view.Items[0].FarmerID)
	if err != nil {
		return placeholder
	}

	profile := placeholder
	if farmer.Name != "" {
		profile.Name = farmer.Name
	}
	if farmer.Owner != "" {
		profile.Owner = farmer.Owner
	}
	if farmer.Address != "" {
		profile.Address = farmer.Address
	}
	if farmer.Latitude != 0 || farmer.Longitude != 0 {
		profile.Latitude = farmer.Latitude
		profile.Longitude = farmer.Longitude
	}
	if len(farmer.Badges) > 0 {
		profile.Badges = farmer.Badges
	}
	return profile
}

// timeline derives the fulfillment steps from the recorded status history,
// falling back to the order's creation event if the history cannot be read.
func (s *OrderService) timeline(ctx context.Context, view *entity.OrderView) []entity.FulfillmentStep {
	events, err := s.orders.StatusHistory(ctx, view.ID)
	if err != nil || len(events) == 0 {
		events = []entity.StatusEvent{{OrderID: view.ID, Status: entity.StatusPlaced, OccurredAt: view.CreatedAt}}
	}
	return entity.Timeline(events)
}

// Invoice holds the fields the invoice renderer needs.
type Invoice struct {
	OrderID       string
	ConsumerName  string
	ConsumerEmail string
	TotalPrice    decimal.Decimal
}

// InvoiceData loads the order with its consumer identity for invoice
// rendering. A malformed id is reported the same as an absent order.
func (s *OrderService) InvoiceData(ctx context.Context, orderID string) (*Invoice, error) {
	if !ValidOrderID(orderID) {
		return nil, ErrOrderNotFound
	}

	view, err := s.orders.ByID(ctx, orderID)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	inv := &Invoice{OrderID: view.ID, TotalPrice: view.TotalPrice}
	if view.Consumer != nil {
		inv.ConsumerName = view.Consumer.Name
		inv.ConsumerEmail = view.Consumer.Email
	}
	return inv, nil
}

// UpdateStatus advances the order's lifecycle on behalf of a farmer. The
// farmer must own at least one line item, and the move must be a legal
// transition of the fulfillment state machine.
func (s *OrderService) UpdateStatus(ctx context.Context, farmerID, orderID string, target entity.Status) (*entity.OrderView, error) {
	if !ValidOrderID(orderID) {
		return nil, ErrMalformedID
	}

	view, err := s.orders.ByID(ctx, orderID)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	owns := false
	for _, it := range view.Items {
		if it.FarmerID == farmerID {
			owns = true
			break
		}
	}
	if !owns {
		return nil, ErrNotOrderFarmer
	}

	if !view.Status.CanTransition(target) {
		return nil, &TransitionError{From: view.Status, To: target}
	}

	if err := s.orders.UpdateStatus(ctx, orderID, target); err != nil {
		return nil, err
	}
	return s.orders.ByID(ctx, orderID)
}

// StatusHistory returns the order's recorded status events.
func (s *OrderService) StatusHistory(ctx context.Context, orderID string) ([]entity.StatusEvent, error) {
	if !ValidOrderID(orderID) {
		return nil, ErrMalformedID
	}
	if _, err := s.orders.ByID(ctx, orderID); errors.Is(err, ports.ErrNotFound) {
		return nil, ErrOrderNotFound
	} else if err != nil {
		return nil, err
	}
	return s.orders.StatusHistory(ctx, orderID)
}
