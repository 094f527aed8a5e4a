package services

import (
	"context"
	"errors"

	"github.com/Dias221467/fitsocial/internal/apperr"
	"github.com/Dias221467/fitsocial/internal/models"
	"github.com/Dias221467/fitsocial/internal/repository"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserService serves public profile lookups.
type UserService struct {
	users UserStore
}

// NewUserService creates a new instance of UserService.
func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

// GetProfile returns the public profile of the user with the given ID.
func (s *UserService) GetProfile(ctx context.Context, id primitive.ObjectID) (*models.PublicUser, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, s.lookupError(err, logrus.Fields{"userID": id.Hex()})
	}
	profile := user.Public()
	return &profile, nil
}

// GetProfileByUsername returns the public profile of the named user.
func (s *UserService) GetProfileByUsername(ctx context.Context, username string) (*models.PublicUser, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, s.lookupError(err, logrus.Fields{"username": username})
	}
	profile := user.Public()
	return &profile, nil
}

func (s *UserService) lookupError(err error, fields logrus.Fields) error {
	if errors.Is(err, repository.ErrNotFound) {
		logrus.WithFields(fields).Warn("User not found")
		return apperr.ErrUserNotFound
	}
	logrus.WithFields(fields).WithError(err).Error("Failed to retrieve user")
	return apperr.Internal("failed to get user", err)
}
