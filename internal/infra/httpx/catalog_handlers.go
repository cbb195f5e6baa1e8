package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/farmdirect/backend/internal/core/service"
	"github.com/farmdirect/backend/internal/infra/httpx/middlewares"
)

// CreateProduct creates a listing owned by the authenticated farmer.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	p, _ := middlewares.PrincipalFrom(r.Context())

	var req CreateProductRequest
	if !decodeBody(w, r, &req) {
		return
	}

	product, err := h.catalog.CreateProduct(r.Context(), p.ID, service.ProductInput{
		Name:     req.Name,
		Price:    decimal.NewFromFloat(req.Price),
		Quantity: req.Quantity,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapProductToResponse(product))
}

// ListProducts serves the public catalog.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	out := make([]ProductResponse, len(products))
	for i := range products {
		out[i] = mapProductToResponse(&products[i])
	}
	writeJSON(w, http.StatusOK, out)
}

// GetProduct serves a single listing, cache-aside when configured.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.GetProduct(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapProductToResponse(product))
}

// ViewCart returns the authenticated consumer's cart.
func (h *Handler) ViewCart(w http.ResponseWriter, r *http.Request) {
	p, _ := middlewares.PrincipalFrom(r.Context())

	items, err := h.carts.Items(r.Context(), p.ID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	out := CartResponse{Items: make([]CartItemRequest, len(items))}
	for i, it := range items {
		out.Items[i] = CartItemRequest{Product: it.ProductID, Quantity: it.Quantity}
	}
	writeJSON(w, http.StatusOK, out)
}

// AddToCart adds one product to the authenticated consumer's cart.
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	p, _ := middlewares.PrincipalFrom(r.Context())

	var req CartItemRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.carts.AddItem(r.Context(), p.ID, req.Product, req.Quantity); err != nil {
		h.respondError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Product added to cart")
}

// ClearCart empties the authenticated consumer's cart.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	p, _ := middlewares.PrincipalFrom(r.Context())

	if err := h.carts.Clear(r.Context(), p.ID); err != nil {
		h.respondError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Cart cleared")
}
