package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Dias221467/fitsocial/internal/apperr"
	"github.com/Dias221467/fitsocial/internal/models"
	"github.com/Dias221467/fitsocial/pkg/logger"
	"github.com/sirupsen/logrus"
)

type contextKey string

const userContextKey contextKey = "user"

// AccessValidator resolves the user behind an access token.
type AccessValidator interface {
	ValidateAccess(ctx context.Context, token string) (*models.User, error)
}

// AuthMiddleware rejects requests without a valid access token and stores the caller in
// the request context. Both "Bearer <token>" and a bare token are accepted.
func AuthMiddleware(validator AccessValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" {
				writeMessage(w, http.StatusUnauthorized, apperr.ErrUnauthorized.Message)
				return
			}

			user, err := validator.ValidateAccess(r.Context(), token)
			if err != nil {
				logger.Log.WithFields(logrus.Fields{
					"path":       r.URL.Path,
					"request_id": GetRequestID(r.Context()),
				}).WithError(err).Warn("Rejected access token")
				status := apperr.HTTPStatus(err)
				if errors.Is(err, apperr.ErrUserNotFound) {
					status = http.StatusForbidden
				}
				writeMessage(w, status, apperr.PublicMessage(err))
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if strings.EqualFold(header, "bearer") {
		return ""
	}
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}

// GetUserFromContext returns the authenticated caller, or nil outside AuthMiddleware.
func GetUserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(userContextKey).(*models.User)
	return user
}

// WithUser returns a context carrying user, as AuthMiddleware would.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": msg})
}
