package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PostTypeText    = "text"
	PostTypeMedia   = "media"
	PostTypeWorkout = "workout"
)

var AllowedPostTypes = map[string]struct{}{
	PostTypeText:    {},
	PostTypeMedia:   {},
	PostTypeWorkout: {},
}

type Post struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID   `bson:"userId" json:"userId"`
	Text        *string              `bson:"text" json:"text"`
	MediaURL    *string              `bson:"mediaUrl" json:"mediaUrl"`
	DateCreated time.Time            `bson:"dateCreated" json:"dateCreated"`
	Likes       []primitive.ObjectID `bson:"likes" json:"likes"`
	LikesCount  int                  `bson:"likesCount" json:"likesCount"`
	Mentions    []string             `bson:"mentions" json:"mentions"`
	PostType    []string             `bson:"postType" json:"postType"`
}

// HasType reports whether the post declares the given type.
func (p *Post) HasType(t string) bool {
	for _, pt := range p.PostType {
		if pt == t {
			return true
		}
	}
	return false
}

// LikedBy reports whether userID is in the post's likes.
func (p *Post) LikedBy(userID primitive.ObjectID) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}
