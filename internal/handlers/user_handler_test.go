package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Dias221467/fitsocial/internal/models"
	"github.com/Dias221467/fitsocial/internal/services"
	"github.com/Dias221467/fitsocial/internal/testutil"
	"github.com/Dias221467/fitsocial/pkg/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestGetCurrentUserHandler_ReadsStoredProfile(t *testing.T) {
	users := testutil.NewUserStore()
	id := primitive.NewObjectID()
	users.Put(models.User{ID: id, Username: "alice", FirstName: "Alicia", LastName: "Liddell"})
	h := NewUserHandler(services.NewUserService(users))

	// the context copy is older than what the store holds
	stale := &models.User{ID: id, Username: "alice", FirstName: "Alice"}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/user", nil)
	req = req.WithContext(middleware.WithUser(req.Context(), stale))
	rec := httptest.NewRecorder()
	h.GetCurrentUserHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var profile models.PublicUser
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Equal(t, id, profile.ID)
	assert.Equal(t, "Alicia", profile.FirstName)
	assert.Equal(t, "Liddell", profile.LastName)
}

func TestGetCurrentUserHandler_UserGone(t *testing.T) {
	h := NewUserHandler(services.NewUserService(testutil.NewUserStore()))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/user", nil)
	req = req.WithContext(middleware.WithUser(req.Context(), &models.User{ID: primitive.NewObjectID()}))
	rec := httptest.NewRecorder()
	h.GetCurrentUserHandler(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
