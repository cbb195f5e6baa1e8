package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/farmdirect/backend/internal/core/domain/entity"
	"github.com/farmdirect/backend/internal/infra/httpx/middlewares"
)

// NewRouter wires the marketplace routes. The diagnostic endpoints under
// /orders are deliberately unauthenticated.
func NewRouter(handler *Handler, verifier middlewares.Verifier) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	protect := middlewares.Protect(verifier)
	consumerOnly := middlewares.RequireRole(entity.RoleConsumer)
	farmerOnly := middlewares.RequireRole(entity.RoleFarmer)
	adminOnly := middlewares.RequireRole(entity.RoleAdmin)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusOK, "Welcome to the FarmDirect API")
	})

	r.Route("/consumers", func(r chi.Router) {
		r.Post("/register", handler.RegisterConsumer)
		r.Post("/login", handler.LoginConsumer)

		r.Route("/cart", func(r chi.Router) {
			r.Use(protect, consumerOnly)
			r.Get("/", handler.ViewCart)
			r.Post("/", handler.AddToCart)
			r.Delete("/", handler.ClearCart)
		})
	})

	r.Route("/farmers", func(r chi.Router) {
		r.Post("/register", handler.RegisterFarmer)
		r.Post("/login", handler.LoginFarmer)
	})

	r.Post("/admin/login", handler.LoginAdmin)

	r.Route("/products", func(r chi.Router) {
		r.Get("/", handler.ListProducts)
		r.Get("/{productID}", handler.GetProduct)
		r.With(protect, farmerOnly).Post("/", handler.CreateProduct)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Get("/test-connection", handler.TestConnection)
		r.Get("/validate-id/{orderID}", handler.ValidateOrderID)

		r.Group(func(r chi.Router) {
			r.Use(protect)
			r.With(consumerOnly).Post("/", handler.PlaceOrder)
			r.With(consumerOnly).Get("/my-orders", handler.MyOrders)
			r.With(farmerOnly).Get("/farmer-orders", handler.FarmerOrders)
			r.With(adminOnly).Get("/all", handler.AllOrders)
			r.Get("/{orderID}", handler.OrderDetail)
			r.Get("/{orderID}/invoice", handler.Invoice)
			r.Get("/{orderID}/status-history", handler.StatusHistory)
			r.With(farmerOnly).Put("/{orderID}/status", handler.UpdateStatus)
		})
	})

	return r
}
