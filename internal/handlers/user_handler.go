package handlers

import (
	"net/http"

	"github.com/Dias221467/fitsocial/internal/services"
	"github.com/gorilla/mux"
)

// UserHandler serves public profiles.
type UserHandler struct {
	Service *services.UserService
}

// NewUserHandler creates a new instance of UserHandler.
func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{Service: service}
}

// GetCurrentUserHandler returns the caller's own profile.
func (h *UserHandler) GetCurrentUserHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := caller(w, r)
	if !ok {
		return
	}

	profile, err := h.Service.GetProfile(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// GetUserByUsernameHandler returns someone's public profile.
func (h *UserHandler) GetUserByUsernameHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := caller(w, r); !ok {
		return
	}

	profile, err := h.Service.GetProfileByUsername(r.Context(), mux.Vars(r)["username"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
