package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmdirect/backend/internal/core/service"
	"github.com/farmdirect/backend/internal/infra/sqlite"
	"github.com/farmdirect/backend/internal/pkg/cache"
	"github.com/farmdirect/backend/internal/pkg/token"
)

type testApp struct {
	router http.Handler
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	store, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	users := sqlite.NewUserRepo(store)
	products := sqlite.NewProductRepo(store)
	carts := sqlite.NewCartRepo(store)
	orders := sqlite.NewOrderRepo(store)

	tokens := token.NewManager("test-secret", time.Hour)
	auth := service.NewAuthService(users, tokens)
	catalog := service.NewCatalogService(products, cache.NewMemoryCache("test"), time.Minute)
	cart := service.NewCartService(carts, products)
	orderSvc := service.NewOrderService(orders, products, users)

	require.NoError(t, auth.SeedAdmin(context.Background(), "admin@example.com", "adminpass"))

	handler := NewHandler(auth, catalog, cart, orderSvc, store)
	return &testApp{router: NewRouter(handler, tokens)}
}

// do issues a request against the in-process router and decodes the JSON
// response into out when it is non-nil.
func (a *testApp) do(t *testing.T, method, path, bearer string, body any, out any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	if out != nil && strings.Contains(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec
}

func (a *testApp) register(t *testing.T, kind, name, email string) {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/"+kind+"/register", "", RegisterRequest{
		Name: name, Email: email, Phone: "phone-" + email, Password: "secret12",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func (a *testApp) login(t *testing.T, path, email string) (string, UserResponse) {
	t.Helper()
	var resp LoginResponse
	rec := a.do(t, http.MethodPost, path, "", LoginRequest{Email: email, Password: "secret12"}, &resp)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotEmpty(t, resp.Token)
	return resp.Token, resp.User
}

func (a *testApp) createProduct(t *testing.T, farmerToken, name string, price float64) ProductResponse {
	t.Helper()
	var resp ProductResponse
	rec := a.do(t, http.MethodPost, "/products", farmerToken,
		CreateProductRequest{Name: name, Price: price, Quantity: 20}, &resp)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return resp
}

func TestOrderWorkflow(t *testing.T) {
	app := newTestApp(t)

	app.register(t, "farmers", "Green Acres", "farm@example.com")
	farmerToken, _ := app.login(t, "/farmers/login", "farm@example.com")

	app.register(t, "consumers", "Alex Doe", "alex@example.com")
	consumerToken, consumer := app.login(t, "/consumers/login", "alex@example.com")

	p1 := app.createProduct(t, farmerToken, "Tomatoes", 3.00)
	p2 := app.createProduct(t, farmerToken, "Honey", 5.50)

	var placed PlaceOrderResponse

	t.Run("place order computes the exact total", func(t *testing.T) {
		rec := app.do(t, http.MethodPost, "/orders", consumerToken, CreateOrderRequest{
			Products: []CreateOrderItemDTO{
				{Product: p1.ID, Quantity: 2},
				{Product: p2.ID, Quantity: 1},
			},
		}, &placed)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Equal(t, "Order placed successfully", placed.Message)
		assert.InDelta(t, 11.50, placed.Order.TotalPrice, 1e-9)
		require.Len(t, placed.Order.Products, 2)
		assert.Equal(t, consumer.ID, placed.Order.ConsumerID)
	})

	t.Run("empty order is a 400", func(t *testing.T) {
		var resp MessageResponse
		rec := app.do(t, http.MethodPost, "/orders", consumerToken, CreateOrderRequest{}, &resp)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "No products in the order", resp.Message)
	})

	t.Run("unresolvable product names the offending id", func(t *testing.T) {
		missing := uuid.NewString()
		var resp MessageResponse
		rec := app.do(t, http.MethodPost, "/orders", consumerToken, CreateOrderRequest{
			Products: []CreateOrderItemDTO{{Product: missing, Quantity: 1}},
		}, &resp)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Product not found: "+missing, resp.Message)
	})

	t.Run("my-orders returns only the caller's orders with products expanded", func(t *testing.T) {
		var views []OrderResponse
		rec := app.do(t, http.MethodGet, "/orders/my-orders", consumerToken, nil, &views)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, views, 1)
		assert.Equal(t, consumer.ID, views[0].ConsumerID)
		require.NotNil(t, views[0].Products[0].Product)
		assert.Equal(t, "Tomatoes", views[0].Products[0].Product.Name)
	})

	t.Run("farmer-orders includes orders with an owned line item", func(t *testing.T) {
		var views []OrderResponse
		rec := app.do(t, http.MethodGet, "/orders/farmer-orders", farmerToken, nil, &views)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, views, 1)
		require.NotNil(t, views[0].Consumer)
		assert.Equal(t, "Alex Doe", views[0].Consumer.Name)
		assert.Empty(t, views[0].Consumer.Phone, "phone never leaks to farmers")
	})

	t.Run("admin sees all orders with the product farmers expanded", func(t *testing.T) {
		adminToken, _ := func() (string, UserResponse) {
			var resp LoginResponse
			rec := app.do(t, http.MethodPost, "/admin/login", "",
				LoginRequest{Email: "admin@example.com", Password: "adminpass"}, &resp)
			require.Equal(t, http.StatusOK, rec.Code)
			return resp.Token, resp.User
		}()

		var views []OrderResponse
		rec := app.do(t, http.MethodGet, "/orders/all", adminToken, nil, &views)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, views, 1)
		require.NotNil(t, views[0].Products[0].Farmer)
		assert.Equal(t, "Green Acres", views[0].Products[0].Farmer.Name)
	})

	t.Run("role gates hold", func(t *testing.T) {
		rec := app.do(t, http.MethodGet, "/orders/all", consumerToken, nil, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = app.do(t, http.MethodGet, "/orders/my-orders", "", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		rec = app.do(t, http.MethodGet, "/orders/my-orders", "garbage-token", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("detail view derives display amounts from the stored total", func(t *testing.T) {
		var detail OrderDetailResponse
		rec := app.do(t, http.MethodGet, "/orders/"+placed.Order.ID, consumerToken, nil, &detail)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		assert.Equal(t, placed.Order.ID, detail.OrderID)
		assert.InDelta(t, 11.50, detail.TotalAmount, 1e-9)
		assert.InDelta(t, 11.50-8.49, detail.Subtotal, 1e-9)
		assert.InDelta(t, 5.99, detail.Shipping, 1e-9)
		assert.InDelta(t, 2.50, detail.Tax, 1e-9)

		require.Len(t, detail.Steps, 4)
		assert.True(t, detail.Steps[0].IsActive)
		assert.False(t, detail.Steps[1].IsActive)

		// Registered without a farm profile, so placeholder fields fill in.
		assert.Equal(t, "Green Acres", detail.Farmer.Name)
		assert.Equal(t, "123 Farm Road", detail.Farmer.Address)
	})

	t.Run("detail view id handling", func(t *testing.T) {
		var resp MessageResponse
		rec := app.do(t, http.MethodGet, "/orders/not-a-uuid", consumerToken, nil, &resp)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid Order ID format", resp.Message)

		rec = app.do(t, http.MethodGet, "/orders/"+uuid.NewString(), consumerToken, nil, &resp)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("invoice streams a PDF attachment", func(t *testing.T) {
		rec := app.do(t, http.MethodGet, "/orders/"+placed.Order.ID+"/invoice", consumerToken, nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment; filename=invoice-"+placed.Order.ID)
		assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")), "body should be a PDF document")
	})

	t.Run("farmer advances the fulfillment state", func(t *testing.T) {
		var view OrderResponse
		rec := app.do(t, http.MethodPut, "/orders/"+placed.Order.ID+"/status", farmerToken,
			UpdateStatusRequest{Status: "processing"}, &view)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "processing", view.Status)

		// Skipping ahead is rejected.
		rec = app.do(t, http.MethodPut, "/orders/"+placed.Order.ID+"/status", farmerToken,
			UpdateStatusRequest{Status: "completed"}, nil)
		assert.Equal(t, http.StatusConflict, rec.Code)

		// Consumers cannot touch the endpoint at all.
		rec = app.do(t, http.MethodPut, "/orders/"+placed.Order.ID+"/status", consumerToken,
			UpdateStatusRequest{Status: "ready"}, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		var events []StatusEventResponse
		rec = app.do(t, http.MethodGet, "/orders/"+placed.Order.ID+"/status-history", consumerToken, nil, &events)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, events, 2)
		assert.Equal(t, "placed", events[0].Status)
		assert.Equal(t, "processing", events[1].Status)
	})
}

func TestDiagnosticsEndpoints(t *testing.T) {
	app := newTestApp(t)

	t.Run("test-connection reports the database state", func(t *testing.T) {
		var resp map[string]string
		rec := app.do(t, http.MethodGet, "/orders/test-connection", "", nil, &resp)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "connected", resp["databaseConnection"])
		assert.Equal(t, "Connection test route", resp["message"])
	})

	t.Run("validate-id checks the format only", func(t *testing.T) {
		var resp map[string]any
		rec := app.do(t, http.MethodGet, "/orders/validate-id/"+uuid.NewString(), "", nil, &resp)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, resp["isValid"], "a well-formed id validates even with no matching order")

		rec = app.do(t, http.MethodGet, "/orders/validate-id/garbage", "", nil, &resp)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, false, resp["isValid"])
		assert.Equal(t, "Order ID is invalid", resp["message"])
	})
}

func TestCartEndpoints(t *testing.T) {
	app := newTestApp(t)

	app.register(t, "farmers", "Green Acres", "farm@example.com")
	farmerToken, _ := app.login(t, "/farmers/login", "farm@example.com")
	app.register(t, "consumers", "Alex Doe", "alex@example.com")
	consumerToken, _ := app.login(t, "/consumers/login", "alex@example.com")

	p := app.createProduct(t, farmerToken, "Eggs", 4.25)

	t.Run("add, view and clear", func(t *testing.T) {
		rec := app.do(t, http.MethodPost, "/consumers/cart", consumerToken,
			CartItemRequest{Product: p.ID, Quantity: 2}, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var cart CartResponse
		rec = app.do(t, http.MethodGet, "/consumers/cart", consumerToken, nil, &cart)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, cart.Items, 1)
		assert.Equal(t, 2, cart.Items[0].Quantity)

		rec = app.do(t, http.MethodDelete, "/consumers/cart", consumerToken, nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = app.do(t, http.MethodGet, "/consumers/cart", consumerToken, nil, &cart)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, cart.Items)
	})

	t.Run("unknown product cannot be added", func(t *testing.T) {
		rec := app.do(t, http.MethodPost, "/consumers/cart", consumerToken,
			CartItemRequest{Product: uuid.NewString(), Quantity: 1}, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("farmers have no cart", func(t *testing.T) {
		rec := app.do(t, http.MethodGet, "/consumers/cart", farmerToken, nil, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestRegistrationConflicts(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "consumers", "Alex Doe", "alex@example.com")

	var resp MessageResponse
	rec := app.do(t, http.MethodPost, "/consumers/register", "", RegisterRequest{
		Name: "Other", Email: "alex@example.com", Phone: "different", Password: "secret12",
	}, &resp)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Email or phone already registered", resp.Message)
}
