package handlers

import (
	"net/http"

	"github.com/ukydev/fleet-booking/internal/models"
	"github.com/ukydev/fleet-booking/internal/service"
)

// AuthHandler handles authentication and user administration requests
type AuthHandler struct {
	accounts *service.AccountService
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(accounts *service.AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// Login handles user login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.accounts.Login(r.Context(), req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Register handles user registration
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.accounts.Register(r.Context(), req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// GetProfile returns the current user's profile
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.accounts.Profile(r.Context(), claimsFrom(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UpdateProfile updates the current user's profile
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var update models.UserUpdate
	if !decodeJSON(w, r, &update) {
		return
	}

	user, err := h.accounts.UpdateProfile(r.Context(), claimsFrom(r), update)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// ListUsers returns all users
func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.accounts.Users(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// UpdateUser applies an admin update to a user
func (h *AuthHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var update models.UserUpdate
	if !decodeJSON(w, r, &update) {
		return
	}

	user, err := h.accounts.UpdateUser(r.Context(), r.PathValue("id"), update)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// DeleteUser removes a user
func (h *AuthHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.accounts.DeleteUser(r.Context(), r.PathValue("id")); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
