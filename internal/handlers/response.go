package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Dias221467/fitsocial/internal/apperr"
	"github.com/Dias221467/fitsocial/internal/models"
	"github.com/Dias221467/fitsocial/pkg/logger"
	"github.com/Dias221467/fitsocial/pkg/middleware"
	"github.com/sirupsen/logrus"
)

type errorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.WithError(err).Error("Failed to encode response")
	}
}

// writeError maps err onto a status code. Unexpected errors are logged and hidden.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Log.WithFields(logrus.Fields{
			"path":       r.URL.Path,
			"request_id": middleware.GetRequestID(r.Context()),
		}).WithError(err).Error("Request failed")
	}
	writeJSON(w, status, errorResponse{
		Message: apperr.PublicMessage(err),
		Errors:  apperr.FieldsOf(err),
	})
}

func decodeBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		logger.Log.WithError(err).Warn("Failed to decode request body")
		return apperr.Validation("Invalid request payload", nil)
	}
	return nil
}

// caller returns the authenticated user. Routes using it sit behind AuthMiddleware.
func caller(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		logger.Log.WithField("path", r.URL.Path).Warn("Unauthenticated request reached a protected handler")
		writeError(w, r, apperr.ErrUnauthorized)
		return nil, false
	}
	return user, true
}
