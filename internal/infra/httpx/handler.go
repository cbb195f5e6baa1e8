package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/farmdirect/backend/internal/core/ports"
	"github.com/farmdirect/backend/internal/core/service"
)

// Diagnostics reports storage reachability for the test-connection endpoint.
type Diagnostics interface {
	ConnectionState(ctx context.Context) string
}

// Handler handles incoming HTTP requests for the marketplace.
type Handler struct {
	auth    *service.AuthService
	catalog *service.CatalogService
	carts   *service.CartService
	orders  *service.OrderService
	diag    Diagnostics // nil-safe: test-connection reports disconnected if nil
}

// NewHandler initializes the handler with its required domain services.
func NewHandler(
	auth *service.AuthService,
	catalog *service.CatalogService,
	carts *service.CartService,
	orders *service.OrderService,
	diag Diagnostics,
) *Handler {
	return &Handler{
		auth:    auth,
		catalog: catalog,
		carts:   carts,
		orders:  orders,
		diag:    diag,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageResponse{Message: msg})
}

// respondError converts a service failure into an HTTP response. Unexpected
// errors are logged and surface as a generic 500; internal details are never
// echoed to the caller.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var notFound *service.ProductNotFoundError
	var transition *service.TransitionError

	switch {
	case errors.Is(err, service.ErrEmptyOrder):
		writeMessage(w, http.StatusBadRequest, "No products in the order")
	case errors.As(err, &notFound):
		writeMessage(w, http.StatusNotFound, "Product not found: "+notFound.ID)
	case errors.Is(err, service.ErrInvalidQuantity):
		writeMessage(w, http.StatusBadRequest, "Quantity must be a positive integer")
	case errors.Is(err, service.ErrMalformedID):
		writeMessage(w, http.StatusBadRequest, "Invalid Order ID format")
	case errors.Is(err, service.ErrOrderNotFound):
		writeMessage(w, http.StatusNotFound, "Order not found")
	case errors.Is(err, service.ErrNotOrderFarmer):
		writeMessage(w, http.StatusForbidden, "You cannot update this order")
	case errors.As(err, &transition):
		writeMessage(w, http.StatusConflict, transition.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		writeMessage(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, service.ErrMissingFields):
		writeMessage(w, http.StatusBadRequest, "Missing required fields")
	case errors.Is(err, ports.ErrConflict):
		writeMessage(w, http.StatusConflict, "Email or phone already registered")
	case errors.Is(err, ports.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "Not found")
	default:
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
		writeMessage(w, http.StatusInternalServerError, "Server Error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	return true
}
