// Package middlewares holds the HTTP guards in front of the handlers.
package middlewares

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/farmdirect/backend/internal/core/domain/entity"
)

// Verifier turns a raw bearer token into a typed principal.
type Verifier interface {
	Verify(raw string) (entity.Principal, error)
}

type ctxKey struct{}

var principalKey ctxKey

// PrincipalFrom returns the authenticated principal attached by Protect.
func PrincipalFrom(ctx context.Context) (entity.Principal, bool) {
	p, ok := ctx.Value(principalKey).(entity.Principal)
	return p, ok
}

// Protect rejects requests without a valid bearer token and attaches the
// typed principal to the request context for the handlers downstream.
func Protect(v Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				reject(w, http.StatusUnauthorized, "Not authorized, no token")
				return
			}

			p, err := v.Verify(strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				reject(w, http.StatusUnauthorized, "Not authorized, token failed")
				return
			}

			ctx := context.WithValue(r.Context(), principalKey, p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole gates an endpoint to the given roles. It must run after
// Protect.
func RequireRole(roles ...entity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFrom(r.Context())
			if !ok {
				reject(w, http.StatusUnauthorized, "Not authorized, no token")
				return
			}
			for _, role := range roles {
				if p.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			reject(w, http.StatusForbidden, "Access denied")
		})
	}
}

func reject(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": msg})
}
