package httpx

import (
	"time"

	"github.com/farmdirect/backend/internal/core/domain/entity"
	"github.com/farmdirect/backend/internal/core/service"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`

	// Farmer profile, ignored on consumer registration.
	Owner     string   `json:"owner,omitempty"`
	Address   string   `json:"address,omitempty"`
	Latitude  float64  `json:"latitude,omitempty"`
	Longitude float64  `json:"longitude,omitempty"`
	Badges    []string `json:"badges,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
	Role  string `json:"role,omitempty"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type CreateProductRequest struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	ImageURL string  `json:"imageUrl"`
}

type ProductResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	FarmerID string  `json:"farmer,omitempty"`
	Quantity int     `json:"quantity,omitempty"`
	ImageURL string  `json:"imageUrl,omitempty"`
}

type CartItemRequest struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}

type CartResponse struct {
	Items []CartItemRequest `json:"items"`
}

type CreateOrderRequest struct {
	Products []CreateOrderItemDTO `json:"products"`
}

type CreateOrderItemDTO struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}

type OrderItemResponse struct {
	ProductID string           `json:"productId"`
	FarmerID  string           `json:"farmerId"`
	Quantity  int              `json:"quantity"`
	Product   *ProductResponse `json:"product,omitempty"`
	Farmer    *UserResponse    `json:"farmer,omitempty"`
}

type OrderResponse struct {
	ID         string              `json:"id"`
	ConsumerID string              `json:"consumerId"`
	Consumer   *UserResponse       `json:"consumer,omitempty"`
	Products   []OrderItemResponse `json:"products"`
	TotalPrice float64             `json:"totalPrice"`
	Status     string              `json:"status"`
	CreatedAt  time.Time           `json:"createdAt"`
	UpdatedAt  time.Time           `json:"updatedAt"`
}

type PlaceOrderResponse struct {
	Message string        `json:"message"`
	Order   OrderResponse `json:"order"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type StatusEventResponse struct {
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurredAt"`
}

type DetailProductResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Quantity int     `json:"quantity"`
}

type FarmerProfileResponse struct {
	Name      string   `json:"name"`
	Owner     string   `json:"owner"`
	Address   string   `json:"address"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Badges    []string `json:"badges"`
	Distance  string   `json:"distance"`
}

type PaymentResponse struct {
	Method     string `json:"method"`
	CardNumber string `json:"cardNumber"`
}

type StepResponse struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Date     string `json:"date"`
	IsActive bool   `json:"isActive"`
}

type OrderDetailResponse struct {
	OrderID     string                  `json:"orderId"`
	OrderDate   time.Time               `json:"orderDate"`
	TotalAmount float64                 `json:"totalAmount"`
	Subtotal    float64                 `json:"subtotal"`
	Shipping    float64                 `json:"shipping"`
	Tax         float64                 `json:"tax"`
	Status      string                  `json:"status"`
	Products    []DetailProductResponse `json:"products"`
	Farmer      FarmerProfileResponse   `json:"farmer"`
	Payment     PaymentResponse         `json:"payment"`
	Steps       []StepResponse          `json:"steps"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func mapUserToResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Phone: u.Phone,
		Role:  string(u.Role),
	}
}

func mapSummaryToResponse(c *entity.ConsumerSummary) *UserResponse {
	if c == nil {
		return nil
	}
	return &UserResponse{ID: c.ID, Name: c.Name, Email: c.Email}
}

func mapProductToResponse(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price.InexactFloat64(),
		FarmerID: p.FarmerID,
		Quantity: p.Quantity,
		ImageURL: p.ImageURL,
	}
}

// mapOrderToResponse converts a created order (no expansions) to the HTTP
// response format.
func mapOrderToResponse(o *entity.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = OrderItemResponse{
			ProductID: it.ProductID,
			FarmerID:  it.FarmerID,
			Quantity:  it.Quantity,
		}
	}
	return OrderResponse{
		ID:         o.ID,
		ConsumerID: o.ConsumerID,
		Products:   items,
		TotalPrice: o.TotalPrice.InexactFloat64(),
		Status:     string(o.Status),
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}
}

// mapViewToResponse converts an expanded order view, carrying whatever
// expansions the read view populated.
func mapViewToResponse(v *entity.OrderView) OrderResponse {
	items := make([]OrderItemResponse, len(v.Items))
	for i, it := range v.Items {
		items[i] = OrderItemResponse{
			ProductID: it.ProductID,
			FarmerID:  it.FarmerID,
			Quantity:  it.Quantity,
			Farmer:    mapSummaryToResponse(it.Farmer),
		}
		if it.Product != nil {
			items[i].Product = &ProductResponse{
				ID:       it.Product.ID,
				Name:     it.Product.Name,
				Price:    it.Product.Price.InexactFloat64(),
				ImageURL: it.Product.ImageURL,
			}
		}
	}
	return OrderResponse{
		ID:         v.ID,
		ConsumerID: v.Order.ConsumerID,
		Consumer:   mapSummaryToResponse(v.Consumer),
		Products:   items,
		TotalPrice: v.TotalPrice.InexactFloat64(),
		Status:     string(v.Status),
		CreatedAt:  v.CreatedAt,
		UpdatedAt:  v.UpdatedAt,
	}
}

func mapViewsToResponse(views []entity.OrderView) []OrderResponse {
	out := make([]OrderResponse, len(views))
	for i := range views {
		out[i] = mapViewToResponse(&views[i])
	}
	return out
}

func mapDetailToResponse(d *service.OrderDetail) OrderDetailResponse {
	products := make([]DetailProductResponse, len(d.Products))
	for i, p := range d.Products {
		products[i] = DetailProductResponse{
			ID:       p.ID,
			Name:     p.Name,
			Price:    p.Price.InexactFloat64(),
			Image:    p.Image,
			Quantity: p.Quantity,
		}
	}
	steps := make([]StepResponse, len(d.Steps))
	for i, st := range d.Steps {
		steps[i] = StepResponse{ID: st.ID, Title: st.Title, Date: st.Date, IsActive: st.IsActive}
	}
	return OrderDetailResponse{
		OrderID:     d.OrderID,
		OrderDate:   d.OrderDate,
		TotalAmount: d.TotalAmount.InexactFloat64(),
		Subtotal:    d.Subtotal.InexactFloat64(),
		Shipping:    d.Shipping.InexactFloat64(),
		Tax:         d.Tax.InexactFloat64(),
		Status:      string(d.Status),
		Products:    products,
		Farmer: FarmerProfileResponse{
			Name:      d.Farmer.Name,
			Owner:     d.Farmer.Owner,
			Address:   d.Farmer.Address,
			Latitude:  d.Farmer.Latitude,
			Longitude: d.Farmer.Longitude,
			Badges:    d.Farmer.Badges,
			Distance:  d.Farmer.Distance,
		},
		Payment: PaymentResponse{Method: d.Payment.Method, CardNumber: d.Payment.CardNumber},
		Steps:   steps,
	}
}
