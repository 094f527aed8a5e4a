package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Dias221467/fitsocial/internal/apperr"
	"github.com/Dias221467/fitsocial/internal/models"
	"github.com/Dias221467/fitsocial/internal/repository"
	"github.com/Dias221467/fitsocial/pkg/logger"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreatePostInput is the payload for a new post.
type CreatePostInput struct {
	Text        *string    `json:"text"`
	MediaURL    *string    `json:"mediaUrl"`
	DateCreated *time.Time `json:"dateCreated"`
	Mentions    []string   `json:"mentions"`
	PostType    []string   `json:"postType"`
}

// LikeResult is the state of a post's likes after a toggle.
type LikeResult struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likesCount"`
}

// PostService contains business logic for posts.
type PostService struct {
	posts PostStore
}

func NewPostService(posts PostStore) *PostService {
	return &PostService{posts: posts}
}

func present(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

func validatePost(in CreatePostInput) error {
	fields := map[string]string{}

	seen := make(map[string]struct{}, len(in.PostType))
	if len(in.PostType) == 0 {
		fields["postType"] = "Provided postType is invalid"
	}
	for _, pt := range in.PostType {
		_, allowed := models.AllowedPostTypes[pt]
		_, dup := seen[pt]
		if !allowed || dup {
			fields["postType"] = "Provided postType is invalid"
			break
		}
		seen[pt] = struct{}{}
	}

	_, wantsText := seen[models.PostTypeText]
	if wantsText != present(in.Text) {
		fields["text"] = `Text must be provided if and only if postType includes "text"`
	}
	_, wantsMedia := seen[models.PostTypeMedia]
	if wantsMedia != present(in.MediaURL) {
		fields["mediaUrl"] = `Media URL must be provided if and only if postType includes "media"`
	}

	if len(fields) > 0 {
		return apperr.Validation("Post validation failed", fields)
	}
	return nil
}

// CreatePost validates and stores a post authored by userID.
func (s *PostService) CreatePost(ctx context.Context, userID primitive.ObjectID, in CreatePostInput) (*models.Post, error) {
	if err := validatePost(in); err != nil {
		logger.Log.WithField("user_id", userID.Hex()).Warnf("Rejected post: %v", err)
		return nil, err
	}

	created := time.Now()
	if in.DateCreated != nil {
		created = *in.DateCreated
	}
	mentions := in.Mentions
	if mentions == nil {
		mentions = []string{}
	}

	post := &models.Post{
		UserID:      userID,
		DateCreated: created,
		Likes:       []primitive.ObjectID{},
		LikesCount:  0,
		Mentions:    mentions,
		PostType:    in.PostType,
	}
	if present(in.Text) {
		post.Text = in.Text
	}
	if present(in.MediaURL) {
		post.MediaURL = in.MediaURL
	}

	saved, err := s.posts.CreatePost(ctx, post)
	if err != nil {
		return nil, apperr.Internal("failed to create post", err)
	}
	return saved, nil
}

func parsePostID(idHex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return primitive.NilObjectID, apperr.Validation("Invalid post id", map[string]string{"post_id": "post_id must be a valid id"})
	}
	return id, nil
}

// GetPost fetches a single post.
func (s *PostService) GetPost(ctx context.Context, idHex string) (*models.Post, error) {
	id, err := parsePostID(idHex)
	if err != nil {
		return nil, err
	}
	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.ErrPostNotFound
		}
		return nil, apperr.Internal("failed to get post", err)
	}
	return post, nil
}

// ListByUser returns a user's posts, newest first.
func (s *PostService) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Post, error) {
	posts, err := s.posts.GetPostsByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("failed to list posts", err)
	}
	return posts, nil
}

// ListByUserHex is ListByUser for an identifier taken from a URL.
func (s *PostService) ListByUserHex(ctx context.Context, userHex string) ([]models.Post, error) {
	userID, err := primitive.ObjectIDFromHex(userHex)
	if err != nil {
		return nil, apperr.Validation("Invalid user id", map[string]string{"user_id": "user_id must be a valid user id"})
	}
	return s.ListByUser(ctx, userID)
}

// DeletePost removes a post; only its author may do so.
func (s *PostService) DeletePost(ctx context.Context, callerID primitive.ObjectID, idHex string) error {
	post, err := s.GetPost(ctx, idHex)
	if err != nil {
		return err
	}
	if post.UserID != callerID {
		logger.Log.WithFields(logrus.Fields{
			"post_id": idHex,
			"caller":  callerID.Hex(),
		}).Warn("Attempt to delete someone else's post")
		return apperr.ErrNotPostOwner
	}

	if err := s.posts.DeletePost(ctx, post.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.ErrPostNotFound
		}
		return apperr.Internal("failed to delete post", err)
	}
	return nil
}

// ToggleLike likes the post for callerID, or removes the like if it is already there.
func (s *PostService) ToggleLike(ctx context.Context, callerID primitive.ObjectID, idHex string) (*LikeResult, error) {
	post, err := s.GetPost(ctx, idHex)
	if err != nil {
		return nil, err
	}

	liked := !post.LikedBy(callerID)
	var updated *models.Post
	if liked {
		updated, err = s.posts.AddLike(ctx, post.ID, callerID)
	} else {
		updated, err = s.posts.RemoveLike(ctx, post.ID, callerID)
	}
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, apperr.ErrConcurrentModification
		}
		return nil, apperr.Internal("failed to toggle like", err)
	}

	return &LikeResult{Liked: liked, LikesCount: updated.LikesCount}, nil
}
