package httpx

import (
	"net/http"

	"github.com/farmdirect/backend/internal/core/domain/entity"
	"github.com/farmdirect/backend/internal/core/service"
)

func (h *Handler) RegisterConsumer(w http.ResponseWriter, r *http.Request) {
	h.register(w, r, entity.RoleConsumer)
}

func (h *Handler) RegisterFarmer(w http.ResponseWriter, r *http.Request) {
	h.register(w, r, entity.RoleFarmer)
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request, role entity.Role) {
	var req RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	in := service.RegisterInput{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  req.Password,
		Owner:     req.Owner,
		Address:   req.Address,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Badges:    req.Badges,
	}

	var u *entity.User
	var err error
	if role == entity.RoleFarmer {
		u, err = h.auth.RegisterFarmer(r.Context(), in)
	} else {
		u, err = h.auth.RegisterConsumer(r.Context(), in)
	}
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapUserToResponse(u))
}

func (h *Handler) LoginConsumer(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, entity.RoleConsumer)
}

func (h *Handler) LoginFarmer(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, entity.RoleFarmer)
}

func (h *Handler) LoginAdmin(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, entity.RoleAdmin)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request, role entity.Role) {
	var req LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	tok, u, err := h.auth.Login(r.Context(), role, req.Email, req.Password)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, LoginResponse{Token: tok, User: mapUserToResponse(u)})
}
