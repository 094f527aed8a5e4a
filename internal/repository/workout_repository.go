package repository

import (
	"context"
	"fmt"

	"github.com/Dias221467/fitsocial/internal/models"
	"github.com/Dias221467/fitsocial/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// WorkoutRepository handles database operations related to workouts.
type WorkoutRepository struct {
	collection *mongo.Collection
}

func NewWorkoutRepository(db *mongo.Database) *WorkoutRepository {
	return &WorkoutRepository{
		collection: db.Collection("workouts"),
	}
}

// CreateWorkout inserts a workout.
func (r *WorkoutRepository) CreateWorkout(ctx context.Context, workout *models.Workout) (*models.Workout, error) {
	result, err := r.collection.InsertOne(ctx, workout)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert workout")
		return nil, fmt.Errorf("failed to insert workout: %w", err)
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		workout.ID = id
	}

	logger.Log.WithField("workout_id", workout.ID.Hex()).Info("Workout created successfully")
	return workout, nil
}

// GetWorkoutByID fetches a workout or returns ErrNotFound.
func (r *WorkoutRepository) GetWorkoutByID(ctx context.Context, id primitive.ObjectID) (*models.Workout, error) {
	var workout models.Workout
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&workout); err != nil {
		return nil, translate(err)
	}
	return &workout, nil
}

// GetWorkoutsByAuthor returns the author's workouts, most recently started first.
func (r *WorkoutRepository) GetWorkoutsByAuthor(ctx context.Context, author primitive.ObjectID) ([]models.Workout, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timeStarted", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"author": author}, opts)
	if err != nil {
		logger.Log.WithError(err).WithField("author", author.Hex()).Error("Failed to fetch workouts")
		return nil, fmt.Errorf("failed to fetch workouts: %w", err)
	}
	defer cursor.Close(ctx)

	workouts := []models.Workout{}
	if err := cursor.All(ctx, &workouts); err != nil {
		return nil, fmt.Errorf("failed to decode workouts: %w", err)
	}
	return workouts, nil
}

// DeleteWorkout removes a workout.
func (r *WorkoutRepository) DeleteWorkout(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		logger.Log.WithError(err).WithField("workout_id", id.Hex()).Error("Failed to delete workout")
		return fmt.Errorf("failed to delete workout: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
