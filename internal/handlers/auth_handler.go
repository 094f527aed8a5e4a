package handlers

import (
	"errors"
	"net/http"

	"github.com/Dias221467/fitsocial/internal/apperr"
	"github.com/Dias221467/fitsocial/internal/services"
	"github.com/Dias221467/fitsocial/pkg/logger"
)

// AuthHandler handles registration and the token lifecycle.
type AuthHandler struct {
	Service *services.AuthService
}

// NewAuthHandler creates a new instance of AuthHandler.
func NewAuthHandler(service *services.AuthService) *AuthHandler {
	return &AuthHandler{Service: service}
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// RegisterHandler handles user registration.
func (h *AuthHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.Service.Register(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	logger.Log.WithField("userID", user.ID.Hex()).Info("User registered")
	writeJSON(w, http.StatusCreated, messageResponse{Message: "User registered successfully"})
}

// LoginHandler exchanges credentials for a token pair.
func (h *AuthHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var credentials struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &credentials); err != nil {
		writeError(w, r, err)
		return
	}

	tokens, err := h.Service.Login(r.Context(), credentials.Email, credentials.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tokens)
}

// RefreshHandler rotates a refresh token.
func (h *AuthHandler) RefreshHandler(w http.ResponseWriter, r *http.Request) {
	var body refreshRequest
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	tokens, err := h.Service.Refresh(r.Context(), body.RefreshToken)
	if err != nil {
		logger.Log.WithError(err).Warn("Refresh rejected")
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tokens)
}

// LogoutHandler forgets the presented refresh token.
func (h *AuthHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	var body refreshRequest
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.Service.Logout(r.Context(), body.RefreshToken); err != nil {
		if errors.Is(err, apperr.ErrUserNotFound) {
			writeJSON(w, http.StatusForbidden, messageResponse{Message: "User could not be logged out"})
			return
		}
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "User successfully logged out"})
}
