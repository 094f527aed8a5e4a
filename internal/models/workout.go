package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ExerciseTypeReps  = "reps"
	ExerciseTypeTimes = "times"
)

type Workout struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	WorkoutName string             `bson:"workoutName" json:"workoutName"`
	TimeElapsed int64              `bson:"timeElapsed" json:"timeElapsed"` // seconds
	TimeStarted time.Time          `bson:"timeStarted" json:"timeStarted"`
	DateCreated time.Time          `bson:"dateCreated" json:"dateCreated"`
	Author      primitive.ObjectID `bson:"author" json:"author"`
	Exercises   []ExerciseInstance `bson:"exercises" json:"exercises"`
}

// ExerciseInstance is one exercise performed in a workout, referencing a template.
type ExerciseInstance struct {
	Exercise primitive.ObjectID `bson:"exercise" json:"exercise"`
	Type     string             `bson:"type" json:"type"`
	Details  []SetDetail        `bson:"details" json:"details"`
}

type SetDetail struct {
	Value  *float64 `bson:"value" json:"value"`
	Weight float64  `bson:"weight" json:"weight"`
}
