package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"edutube/application/services"
	"edutube/pkg/common"
	pkgerrors "edutube/pkg/errors"
)

// UserHandler handles account HTTP requests
type UserHandler struct {
	users  *services.UserService
	errors *pkgerrors.ErrorHandler
	logger *zap.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(users *services.UserService, errs *pkgerrors.ErrorHandler, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, errors: errs, logger: logger}
}

// RegisterRequest represents the request body for registration
type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse carries a signed session token
type TokenResponse struct {
	Token string `json:"token"`
}

// ProfileResponse is the public view of the caller's account
type ProfileResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Register handles POST /users/register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := bind(r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	id, err := h.users.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, common.IDResponse{ID: id})
}

// Login handles POST /users/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := bind(r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	token, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, TokenResponse{Token: token})
}

// Profile handles GET /users/profile
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	caller, err := currentUser(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	user, err := h.users.Profile(r.Context(), caller.ID)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, ProfileResponse{ID: user.ID, Username: user.Username, Email: user.Email})
}

// ListUsers handles GET /users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, users)
}
