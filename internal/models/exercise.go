package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// ExerciseTemplate is a catalog entry that workouts reference.
type ExerciseTemplate struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Category    string             `bson:"category" json:"category"`
	BodyPart    string             `bson:"bodyPart" json:"bodyPart"`
	Equipment   string             `bson:"equipment" json:"equipment"`
}

var AllowedCategories = map[string]struct{}{
	"Cardio":                {},
	"Olympic Weightlifting": {},
	"Plyometrics":           {},
	"Powerlifting":          {},
	"Strength":              {},
	"Stretching":            {},
	"Strongman":             {},
}

var AllowedEquipment = map[string]struct{}{
	"Bands":         {},
	"Barbell":       {},
	"Body Only":     {},
	"Cable":         {},
	"Dumbbell":      {},
	"E-Z Curl Bar":  {},
	"Exercise Ball": {},
	"Foam Roll":     {},
	"Kettlebells":   {},
	"Machine":       {},
	"Medicine Ball": {},
	"None":          {},
	"Other":         {},
}
