package repository

import (
	"context"
	"fmt"

	"github.com/Dias221467/fitsocial/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ExerciseRepository stores the exercise template catalog.
type ExerciseRepository struct {
	collection *mongo.Collection
}

func NewExerciseRepository(db *mongo.Database) *ExerciseRepository {
	return &ExerciseRepository{
		collection: db.Collection("exercisetemplates"),
	}
}

// UpsertByName inserts the template or replaces the one with the same name.
// It reports whether a new document was created.
func (r *ExerciseRepository) UpsertByName(ctx context.Context, tmpl *models.ExerciseTemplate) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"name": tmpl.Name},
		bson.M{"$set": bson.M{
			"name":        tmpl.Name,
			"description": tmpl.Description,
			"category":    tmpl.Category,
			"bodyPart":    tmpl.BodyPart,
			"equipment":   tmpl.Equipment,
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return false, fmt.Errorf("failed to upsert exercise %q: %w", tmpl.Name, err)
	}
	return res.UpsertedCount > 0, nil
}

// DeleteAll empties the catalog.
func (r *ExerciseRepository) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to delete exercises: %w", err)
	}
	return res.DeletedCount, nil
}

// CountByIDs reports how many of the given IDs exist.
func (r *ExerciseRepository) CountByIDs(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, fmt.Errorf("failed to count exercises: %w", err)
	}
	return n, nil
}

// List returns templates sorted by name, optionally filtered by category.
func (r *ExerciseRepository) List(ctx context.Context, category string) ([]models.ExerciseTemplate, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch exercises: %w", err)
	}
	defer cursor.Close(ctx)

	templates := []models.ExerciseTemplate{}
	if err := cursor.All(ctx, &templates); err != nil {
		return nil, fmt.Errorf("failed to decode exercises: %w", err)
	}
	return templates, nil
}
