package services

import (
	"context"
	"time"

	"github.com/Dias221467/fitsocial/internal/friendship"
	"github.com/Dias221467/fitsocial/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The interfaces below are what the services need from storage. The Mongo repositories
// satisfy them; tests use in-memory versions.

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByRefreshToken(ctx context.Context, token string) (*models.User, error)
	SaveTokens(ctx context.Context, id primitive.ObjectID, fromVersion, toVersion int, refreshToken string) error
	ClearRefreshToken(ctx context.Context, token string) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
}

type RelationshipStore interface {
	FindByPair(ctx context.Context, pair friendship.Pair) (*models.Relationship, error)
	Insert(ctx context.Context, rel *models.Relationship) error
	UpdateStatus(ctx context.Context, rel *models.Relationship, status friendship.Status, at time.Time) error
	Delete(ctx context.Context, rel *models.Relationship) error
	ListByStatus(ctx context.Context, userID primitive.ObjectID, status friendship.Status) ([]models.Relationship, error)
}

type PostStore interface {
	CreatePost(ctx context.Context, post *models.Post) (*models.Post, error)
	GetPostByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	GetPostsByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Post, error)
	DeletePost(ctx context.Context, id primitive.ObjectID) error
	AddLike(ctx context.Context, postID, userID primitive.ObjectID) (*models.Post, error)
	RemoveLike(ctx context.Context, postID, userID primitive.ObjectID) (*models.Post, error)
}

type WorkoutStore interface {
	CreateWorkout(ctx context.Context, workout *models.Workout) (*models.Workout, error)
	GetWorkoutByID(ctx context.Context, id primitive.ObjectID) (*models.Workout, error)
	GetWorkoutsByAuthor(ctx context.Context, author primitive.ObjectID) ([]models.Workout, error)
	DeleteWorkout(ctx context.Context, id primitive.ObjectID) error
}

type ExerciseStore interface {
	CountByIDs(ctx context.Context, ids []primitive.ObjectID) (int64, error)
	List(ctx context.Context, category string) ([]models.ExerciseTemplate, error)
}
