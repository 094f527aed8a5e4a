package services

import (
	"context"

	"github.com/Dias221467/fitsocial/internal/apperr"
	"github.com/Dias221467/fitsocial/internal/models"
)

// ExerciseService exposes the exercise template catalog.
type ExerciseService struct {
	exercises ExerciseStore
}

func NewExerciseService(exercises ExerciseStore) *ExerciseService {
	return &ExerciseService{exercises: exercises}
}

// List returns every template, or only those in category when it is set.
func (s *ExerciseService) List(ctx context.Context, category string) ([]models.ExerciseTemplate, error) {
	if category != "" {
		if _, ok := models.AllowedCategories[category]; !ok {
			return nil, apperr.Validation("Invalid category", map[string]string{"category": "unknown exercise category"})
		}
	}
	templates, err := s.exercises.List(ctx, category)
	if err != nil {
		return nil, apperr.Internal("failed to list exercises", err)
	}
	return templates, nil
}
