package handlers

import (
	"net/http"

	"github.com/Dias221467/fitsocial/internal/models"
	"github.com/Dias221467/fitsocial/internal/services"
	"github.com/Dias221467/fitsocial/pkg/logger"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// FriendHandler manages HTTP endpoints related to friendships.
type FriendHandler struct {
	Service *services.FriendService
}

// NewFriendHandler initializes a new FriendHandler.
func NewFriendHandler(service *services.FriendService) *FriendHandler {
	return &FriendHandler{Service: service}
}

type relationshipStatusResponse struct {
	Status       string               `json:"status"`
	Relationship *models.Relationship `json:"relationship"`
}

// ModifyFriendshipHandler applies one friendship operation against another user.
func (h *FriendHandler) ModifyFriendshipHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := caller(w, r)
	if !ok {
		return
	}

	var body struct {
		UserID    string `json:"user_id"`
		Operation string `json:"operation"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.Service.ModifyFriendship(r.Context(), user.ID, body.UserID, body.Operation)
	if err != nil {
		logger.Log.WithFields(logrus.Fields{
			"caller":    user.ID.Hex(),
			"target":    body.UserID,
			"operation": body.Operation,
		}).WithError(err).Warn("Friendship operation rejected")
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// ListFriendsHandler returns the caller's friends.
func (h *FriendHandler) ListFriendsHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := caller(w, r)
	if !ok {
		return
	}

	friends, err := h.Service.ListFriends(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, friends)
}

// ListFriendsByUsernameHandler returns the friends of the named user.
func (h *FriendHandler) ListFriendsByUsernameHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := caller(w, r); !ok {
		return
	}

	friends, err := h.Service.ListFriendsByUsername(r.Context(), mux.Vars(r)["username"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, friends)
}

// RelationshipStatusHandler reports the caller's relationship with another user.
func (h *FriendHandler) RelationshipStatusHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := caller(w, r)
	if !ok {
		return
	}

	rel, err := h.Service.GetRelationship(r.Context(), user.ID, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := relationshipStatusResponse{Status: "none", Relationship: rel}
	if rel != nil {
		resp.Status = string(rel.Status)
	}
	writeJSON(w, http.StatusOK, resp)
}
