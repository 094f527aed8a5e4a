package handlers

import (
	"net/http"

	"github.com/Dias221467/fitsocial/internal/services"
	"github.com/Dias221467/fitsocial/pkg/logger"
	"github.com/gorilla/mux"
)

// PostHandler handles HTTP requests related to posts.
type PostHandler struct {
	Service *services.PostService
}

// NewPostHandler creates a new instance of PostHandler.
func NewPostHandler(service *services.PostService) *PostHandler {
	return &PostHandler{Service: service}
}

// CreatePostHandler stores a post for the caller.
func (h *PostHandler) CreatePostHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := caller(w, r)
	if !ok {
		return
	}

	var in services.CreatePostInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	post, err := h.Service.CreatePost(r.Context(), user.ID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	logger.Log.Infof("User %s created post %s", user.ID.Hex(), post.ID.Hex())
	writeJSON(w, http.StatusCreated, post)
}

// GetPostsHandler lists the caller's posts.
func (h *PostHandler) GetPostsHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := caller(w, r)
	if !ok {
		return
	}

	posts, err := h.Service.ListByUser(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// GetUserPostsHandler lists another user's posts.
func (h *PostHandler) GetUserPostsHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := caller(w, r); !ok {
		return
	}

	posts, err := h.Service.ListByUserHex(r.Context(), mux.Vars(r)["user_id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// GetPostHandler returns a single post.
func (h *PostHandler) GetPostHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := caller(w, r); !ok {
		return
	}

	post, err := h.Service.GetPost(r.Context(), mux.Vars(r)["post_id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// DeletePostHandler removes one of the caller's posts.
func (h *PostHandler) DeletePostHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := caller(w, r)
	if !ok {
		return
	}

	postID := mux.Vars(r)["post_id"]
	if err := h.Service.DeletePost(r.Context(), user.ID, postID); err != nil {
		writeError(w, r, err)
		return
	}

	logger.Log.Infof("User %s deleted post %s", user.ID.Hex(), postID)
	writeJSON(w, http.StatusOK, messageResponse{Message: "Post successfully deleted"})
}

// ToggleLikeHandler likes or unlikes a post.
func (h *PostHandler) ToggleLikeHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := caller(w, r)
	if !ok {
		return
	}

	result, err := h.Service.ToggleLike(r.Context(), user.ID, mux.Vars(r)["post_id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
