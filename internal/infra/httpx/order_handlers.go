package httpx

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/farmdirect/backend/internal/core/domain/entity"
	"github.com/farmdirect/backend/internal/core/service"
	"github.com/farmdirect/backend/internal/infra/httpx/middlewares"
	"github.com/farmdirect/backend/internal/infra/invoice"
)

// PlaceOrder creates an order for the authenticated consumer from the
// submitted product list.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	p, _ := middlewares.PrincipalFrom(r.Context())

	var req CreateOrderRequest
	if !decodeBody(w, r, &req) {
		return
	}

	lines := make([]service.LineInput, len(req.Products))
	for i, it := range req.Products {
		lines[i] = service.LineInput{ProductID: it.Product, Quantity: it.Quantity}
	}

	order, err := h.orders.Place(r.Context(), p.ID, lines)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "order placed",
		"order_id", order.ID, "consumer_id", p.ID, "total", order.TotalPrice.String())

	writeJSON(w, http.StatusCreated, PlaceOrderResponse{
		Message: "Order placed successfully",
		Order:   mapOrderToResponse(order),
	})
}

// MyOrders lists the authenticated consumer's own orders.
func (h *Handler) MyOrders(w http.ResponseWriter, r *http.Request) {
	p, _ := middlewares.PrincipalFrom(r.Context())

	views, err := h.orders.ConsumerOrders(r.Context(), p.ID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapViewsToResponse(views))
}

// FarmerOrders lists every order containing at least one line item the
// authenticated farmer owns.
func (h *Handler) FarmerOrders(w http.ResponseWriter, r *http.Request) {
	p, _ := middlewares.PrincipalFrom(r.Context())

	views, err := h.orders.FarmerOrders(r.Context(), p.ID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapViewsToResponse(views))
}

// AllOrders is the unrestricted admin listing.
func (h *Handler) AllOrders(w http.ResponseWriter, r *http.Request) {
	views, err := h.orders.AllOrders(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapViewsToResponse(views))
}

// OrderDetail serves the single-order view for the confirmation page.
func (h *Handler) OrderDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := h.orders.Detail(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapDetailToResponse(detail))
}

// Invoice streams the order's PDF invoice as an attachment.
func (h *Handler) Invoice(w http.ResponseWriter, r *http.Request) {
	inv, err := h.orders.InvoiceData(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=invoice-%s.pdf", inv.OrderID))
	w.Header().Set("Content-Type", "application/pdf")
	if err := invoice.Render(w, inv); err != nil {
		// Headers are already written; all we can do is log.
		slog.ErrorContext(r.Context(), "invoice render failed", "order_id", inv.OrderID, "error", err)
	}
}

// UpdateStatus advances the order's fulfillment state on behalf of a farmer.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	p, _ := middlewares.PrincipalFrom(r.Context())

	var req UpdateStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}

	target := entity.Status(req.Status)
	if !target.Valid() {
		writeMessage(w, http.StatusBadRequest, "Unknown order status: "+req.Status)
		return
	}

	view, err := h.orders.UpdateStatus(r.Context(), p.ID, chi.URLParam(r, "orderID"), target)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapViewToResponse(view))
}

// StatusHistory returns the order's recorded status events.
func (h *Handler) StatusHistory(w http.ResponseWriter, r *http.Request) {
	events, err := h.orders.StatusHistory(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	out := make([]StatusEventResponse, len(events))
	for i, ev := range events {
		out[i] = StatusEventResponse{Status: string(ev.Status), OccurredAt: ev.OccurredAt}
	}
	writeJSON(w, http.StatusOK, out)
}

// ValidateOrderID reports whether the given id is well-formed, without
// touching storage.
func (h *Handler) ValidateOrderID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "orderID")
	valid := service.ValidOrderID(id)

	msg := "Order ID is invalid"
	if valid {
		msg = "Order ID is valid"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"orderId": id,
		"isValid": valid,
		"message": msg,
	})
}

// TestConnection reports storage reachability.
func (h *Handler) TestConnection(w http.ResponseWriter, r *http.Request) {
	state := "disconnected"
	if h.diag != nil {
		state = h.diag.ConnectionState(r.Context())
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"databaseConnection": state,
		"message":            "Connection test route",
	})
}
