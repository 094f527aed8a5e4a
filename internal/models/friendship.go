package models

import (
	"time"

	"github.com/Dias221467/fitsocial/internal/friendship"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Relationship is the single record kept per unordered pair of users.
// User1 is always the low identifier and User2 the high one.
type Relationship struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	User1        primitive.ObjectID `bson:"user1" json:"user1"`
	User2        primitive.ObjectID `bson:"user2" json:"user2"`
	Status       friendship.Status  `bson:"status" json:"status"`
	Version      int64              `bson:"version" json:"-"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	LastModified time.Time          `bson:"lastModified" json:"lastModified"`
}

// Pair returns the canonical pair the record belongs to.
func (r *Relationship) Pair() friendship.Pair {
	return friendship.Pair{Low: r.User1, High: r.User2}
}

// Other returns the participant that is not userID.
func (r *Relationship) Other(userID primitive.ObjectID) primitive.ObjectID {
	if r.User1 == userID {
		return r.User2
	}
	return r.User1
}
