package database

import (
	"context"
	"fmt"
	"time"

	"github.com/Dias221467/fitsocial/internal/config"
	"github.com/Dias221467/fitsocial/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const connectTimeout = 10 * time.Second

// ConnectDB opens a client, checks the connection and returns the configured database.
func ConnectDB(cfg *config.Config) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	logger.Log.WithField("database", cfg.DBName).Info("Connected to MongoDB")
	return client, client.Database(cfg.DBName), nil
}

// Indexes lists every index the repositories rely on, by collection.
func Indexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		"users": {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			// Logged-out users store null, so only string tokens take part in uniqueness.
			{
				Keys: bson.D{{Key: "refreshToken", Value: 1}},
				Options: options.Index().
					SetUnique(true).
					SetPartialFilterExpression(bson.M{"refreshToken": bson.M{"$type": "string"}}),
			},
		},
		"friendships": {
			{
				Keys:    bson.D{{Key: "user1", Value: 1}, {Key: "user2", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "user2", Value: 1}, {Key: "status", Value: 1}}},
		},
		"posts": {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "dateCreated", Value: -1}}},
		},
		"workouts": {
			{Keys: bson.D{{Key: "author", Value: 1}, {Key: "dateCreated", Value: -1}}},
		},
		"exercisetemplates": {
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "category", Value: 1}}},
		},
	}
}

// EnsureIndexes creates any missing index. Existing ones are left untouched.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for collection, models := range Indexes() {
		names, err := db.Collection(collection).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", collection, err)
		}
		logger.Log.WithField("collection", collection).Debugf("Indexes ready: %v", names)
	}
	return nil
}
