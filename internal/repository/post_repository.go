package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dias221467/fitsocial/internal/models"
	"github.com/Dias221467/fitsocial/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostRepository handles database operations related to posts.
type PostRepository struct {
	collection *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{
		collection: db.Collection("posts"),
	}
}

// CreatePost inserts a post.
func (r *PostRepository) CreatePost(ctx context.Context, post *models.Post) (*models.Post, error) {
	result, err := r.collection.InsertOne(ctx, post)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert post")
		return nil, fmt.Errorf("failed to insert post: %w", err)
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		post.ID = id
	}

	logger.Log.WithField("post_id", post.ID.Hex()).Info("Post created successfully")
	return post, nil
}

// GetPostByID fetches a post or returns ErrNotFound.
func (r *PostRepository) GetPostByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&post); err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

// GetPostsByUser returns a user's posts, newest first.
func (r *PostRepository) GetPostsByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "dateCreated", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID.Hex()).Error("Failed to fetch posts")
		return nil, fmt.Errorf("failed to fetch posts: %w", err)
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("failed to decode posts: %w", err)
	}
	return posts, nil
}

// DeletePost removes a post.
func (r *PostRepository) DeletePost(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		logger.Log.WithError(err).WithField("post_id", id.Hex()).Error("Failed to delete post")
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}

	logger.Log.WithField("post_id", id.Hex()).Info("Post deleted successfully")
	return nil
}

// AddLike records userID's like once and returns the updated post.
// ErrConflict means the like was already there.
func (r *PostRepository) AddLike(ctx context.Context, postID, userID primitive.ObjectID) (*models.Post, error) {
	return r.updateLike(ctx,
		bson.M{"_id": postID, "likes": bson.M{"$ne": userID}},
		bson.M{"$push": bson.M{"likes": userID}, "$inc": bson.M{"likesCount": 1}},
	)
}

// RemoveLike drops userID's like and returns the updated post.
// ErrConflict means there was no like to remove.
func (r *PostRepository) RemoveLike(ctx context.Context, postID, userID primitive.ObjectID) (*models.Post, error) {
	return r.updateLike(ctx,
		bson.M{"_id": postID, "likes": userID},
		bson.M{"$pull": bson.M{"likes": userID}, "$inc": bson.M{"likesCount": -1}},
	)
}

func (r *PostRepository) updateLike(ctx context.Context, filter, update bson.M) (*models.Post, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var post models.Post
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("failed to update likes: %w", err)
	}
	return &post, nil
}
