package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Dias221467/fitsocial/internal/friendship"
	"github.com/Dias221467/fitsocial/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// RelationshipRepository stores one relationship document per canonical user pair.
// Updates and deletes are conditional on the version the caller read.
type RelationshipRepository struct {
	collection *mongo.Collection
}

func NewRelationshipRepository(db *mongo.Database) *RelationshipRepository {
	return &RelationshipRepository{
		collection: db.Collection("friendships"),
	}
}

// FindByPair returns the relationship for the pair or ErrNotFound.
func (r *RelationshipRepository) FindByPair(ctx context.Context, pair friendship.Pair) (*models.Relationship, error) {
	var rel models.Relationship
	err := r.collection.FindOne(ctx, bson.M{"user1": pair.Low, "user2": pair.High}).Decode(&rel)
	if err != nil {
		return nil, translate(err)
	}
	return &rel, nil
}

// Insert creates the pair's record. A concurrent insert for the same pair loses on the
// unique (user1, user2) index and gets ErrConflict.
func (r *RelationshipRepository) Insert(ctx context.Context, rel *models.Relationship) error {
	if !friendship.Less(rel.User1, rel.User2) {
		return fmt.Errorf("relationship users out of canonical order: %s >= %s", rel.User1.Hex(), rel.User2.Hex())
	}
	rel.Version = 1

	result, err := r.collection.InsertOne(ctx, rel)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConflict
		}
		logrus.WithError(err).Error("Failed to insert friendship")
		return fmt.Errorf("failed to insert friendship: %w", err)
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		rel.ID = id
	}

	logrus.WithFields(logrus.Fields{
		"user1":  rel.User1.Hex(),
		"user2":  rel.User2.Hex(),
		"status": rel.Status,
	}).Info("Friendship created")
	return nil
}

// UpdateStatus sets a new status if the record is still at rel.Version, then bumps the
// version on rel.
func (r *RelationshipRepository) UpdateStatus(ctx context.Context, rel *models.Relationship, status friendship.Status, at time.Time) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": rel.ID, "version": rel.Version},
		bson.M{
			"$set": bson.M{"status": status, "lastModified": at},
			"$inc": bson.M{"version": 1},
		},
	)
	if err != nil {
		logrus.WithError(err).WithField("friendshipID", rel.ID.Hex()).Error("Failed to update friendship")
		return fmt.Errorf("failed to update friendship: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrConflict
	}

	rel.Status = status
	rel.LastModified = at
	rel.Version++
	return nil
}

// Delete removes the record if it is still at rel.Version.
func (r *RelationshipRepository) Delete(ctx context.Context, rel *models.Relationship) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": rel.ID, "version": rel.Version})
	if err != nil {
		logrus.WithError(err).WithField("friendshipID", rel.ID.Hex()).Error("Failed to delete friendship")
		return fmt.Errorf("failed to delete friendship: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrConflict
	}
	return nil
}

// ListByStatus returns every record the user participates in with the given status.
func (r *RelationshipRepository) ListByStatus(ctx context.Context, userID primitive.ObjectID, status friendship.Status) ([]models.Relationship, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"user1": userID},
			{"user2": userID},
		},
		"status": status,
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve friendships: %w", err)
	}
	defer cursor.Close(ctx)

	var rels []models.Relationship
	if err := cursor.All(ctx, &rels); err != nil {
		return nil, fmt.Errorf("failed to decode friendships: %w", err)
	}
	return rels, nil
}
