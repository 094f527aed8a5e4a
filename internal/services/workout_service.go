package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Dias221467/fitsocial/internal/apperr"
	"github.com/Dias221467/fitsocial/internal/models"
	"github.com/Dias221467/fitsocial/internal/repository"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreateWorkoutInput is the payload for logging a workout.
type CreateWorkoutInput struct {
	WorkoutName string                    `json:"workoutName"`
	TimeElapsed *int64                    `json:"timeElapsed"`
	TimeStarted *time.Time                `json:"timeStarted"`
	DateCreated *time.Time                `json:"dateCreated"`
	Exercises   []models.ExerciseInstance `json:"exercises"`
}

// WorkoutService contains business logic for workouts.
type WorkoutService struct {
	workouts  WorkoutStore
	exercises ExerciseStore
}

func NewWorkoutService(workouts WorkoutStore, exercises ExerciseStore) *WorkoutService {
	return &WorkoutService{workouts: workouts, exercises: exercises}
}

func validateWorkout(in CreateWorkoutInput) map[string]string {
	fields := map[string]string{}
	if strings.TrimSpace(in.WorkoutName) == "" {
		fields["workoutName"] = "workoutName is required"
	}
	if in.TimeElapsed == nil {
		fields["timeElapsed"] = "timeElapsed is required"
	} else if *in.TimeElapsed < 0 {
		fields["timeElapsed"] = "timeElapsed must not be negative"
	}
	if in.TimeStarted == nil {
		fields["timeStarted"] = "timeStarted is required"
	}

	for i, ex := range in.Exercises {
		key := fmt.Sprintf("exercises[%d]", i)
		if ex.Exercise.IsZero() {
			fields[key+".exercise"] = "exercise is required"
		}
		if ex.Type != models.ExerciseTypeReps && ex.Type != models.ExerciseTypeTimes {
			fields[key+".type"] = "type must be reps or times"
		}
		for j, d := range ex.Details {
			if d.Value == nil {
				fields[fmt.Sprintf("%s.details[%d].value", key, j)] = "value is required"
			}
		}
	}
	return fields
}

// CreateWorkout validates and stores a workout authored by userID. Every exercise must
// reference an existing template.
func (s *WorkoutService) CreateWorkout(ctx context.Context, userID primitive.ObjectID, in CreateWorkoutInput) (*models.Workout, error) {
	if fields := validateWorkout(in); len(fields) > 0 {
		return nil, apperr.Validation("Workout validation failed", fields)
	}

	if err := s.checkExercisesExist(ctx, in.Exercises); err != nil {
		return nil, err
	}

	created := time.Now()
	if in.DateCreated != nil {
		created = *in.DateCreated
	}
	exercises := in.Exercises
	if exercises == nil {
		exercises = []models.ExerciseInstance{}
	}
	for i := range exercises {
		if exercises[i].Details == nil {
			exercises[i].Details = []models.SetDetail{}
		}
	}

	workout := &models.Workout{
		WorkoutName: strings.TrimSpace(in.WorkoutName),
		TimeElapsed: *in.TimeElapsed,
		TimeStarted: *in.TimeStarted,
		DateCreated: created,
		Author:      userID,
		Exercises:   exercises,
	}
	saved, err := s.workouts.CreateWorkout(ctx, workout)
	if err != nil {
		return nil, apperr.Internal("failed to create workout", err)
	}

	logrus.WithFields(logrus.Fields{
		"workoutID": saved.ID.Hex(),
		"author":    userID.Hex(),
	}).Info("Workout created")
	return saved, nil
}

func (s *WorkoutService) checkExercisesExist(ctx context.Context, exercises []models.ExerciseInstance) error {
	if len(exercises) == 0 {
		return nil
	}
	unique := make(map[primitive.ObjectID]struct{}, len(exercises))
	ids := make([]primitive.ObjectID, 0, len(exercises))
	for _, ex := range exercises {
		if _, ok := unique[ex.Exercise]; ok {
			continue
		}
		unique[ex.Exercise] = struct{}{}
		ids = append(ids, ex.Exercise)
	}

	n, err := s.exercises.CountByIDs(ctx, ids)
	if err != nil {
		return apperr.Internal("failed to check exercises", err)
	}
	if n != int64(len(ids)) {
		return apperr.ErrExerciseNotFound
	}
	return nil
}

func (s *WorkoutService) ownedWorkout(ctx context.Context, callerID primitive.ObjectID, idHex string) (*models.Workout, error) {
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, apperr.Validation("Invalid workout id", map[string]string{"id": "id must be a valid workout id"})
	}
	workout, err := s.workouts.GetWorkoutByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.ErrWorkoutNotFound
		}
		return nil, apperr.Internal("failed to get workout", err)
	}
	if workout.Author != callerID {
		logrus.WithFields(logrus.Fields{
			"workoutID": idHex,
			"caller":    callerID.Hex(),
		}).Warn("Access to someone else's workout")
		return nil, apperr.ErrNotWorkoutOwner
	}
	return workout, nil
}

// GetWorkout returns a workout owned by callerID.
func (s *WorkoutService) GetWorkout(ctx context.Context, callerID primitive.ObjectID, idHex string) (*models.Workout, error) {
	return s.ownedWorkout(ctx, callerID, idHex)
}

// ListWorkouts returns the caller's workouts.
func (s *WorkoutService) ListWorkouts(ctx context.Context, callerID primitive.ObjectID) ([]models.Workout, error) {
	workouts, err := s.workouts.GetWorkoutsByAuthor(ctx, callerID)
	if err != nil {
		return nil, apperr.Internal("failed to list workouts", err)
	}
	return workouts, nil
}

// DeleteWorkout removes a workout owned by callerID.
func (s *WorkoutService) DeleteWorkout(ctx context.Context, callerID primitive.ObjectID, idHex string) error {
	workout, err := s.ownedWorkout(ctx, callerID, idHex)
	if err != nil {
		return err
	}
	if err := s.workouts.DeleteWorkout(ctx, workout.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.ErrWorkoutNotFound
		}
		return apperr.Internal("failed to delete workout", err)
	}
	return nil
}
