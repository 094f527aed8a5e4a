package services

import (
	"context"
	"errors"
	"time"

	"github.com/Dias221467/fitsocial/internal/apperr"
	"github.com/Dias221467/fitsocial/internal/friendship"
	"github.com/Dias221467/fitsocial/internal/models"
	"github.com/Dias221467/fitsocial/internal/pairlock"
	"github.com/Dias221467/fitsocial/internal/repository"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const defaultLockWait = 3 * time.Second

var operationMessages = map[friendship.Operation]string{
	friendship.OpSend:     "Friend request sent",
	friendship.OpAccept:   "Friend request accepted",
	friendship.OpBlock:    "User blocked successfully",
	friendship.OpUnblock:  "User successfully unblocked",
	friendship.OpUnfriend: "User successfully unfriended",
}

// FriendshipResult describes an applied operation. Relationship is nil when the record
// was removed.
type FriendshipResult struct {
	Message      string               `json:"message"`
	Relationship *models.Relationship `json:"relationship,omitempty"`
}

// FriendService handles business logic for managing friendships.
type FriendService struct {
	relationships RelationshipStore
	users         UserStore
	locks         pairlock.Locker
	lockWait      time.Duration
	now           func() time.Time
}

// NewFriendService creates a new FriendService.
func NewFriendService(relationships RelationshipStore, users UserStore, locks pairlock.Locker) *FriendService {
	if locks == nil {
		locks = pairlock.NewLocal()
	}
	return &FriendService{
		relationships: relationships,
		users:         users,
		locks:         locks,
		lockWait:      defaultLockWait,
		now:           time.Now,
	}
}

// ModifyFriendship applies op from callerID against the user identified by targetHex.
func (s *FriendService) ModifyFriendship(ctx context.Context, callerID primitive.ObjectID, targetHex, op string) (*FriendshipResult, error) {
	fields := map[string]string{}
	targetID, err := primitive.ObjectIDFromHex(targetHex)
	if err != nil {
		fields["user_id"] = "user_id must be a valid user id"
	}
	operation, err := friendship.ParseOperation(op)
	if err != nil {
		fields["operation"] = "operation must be one of send, accept, block, unblock, unfriend"
	}
	if len(fields) > 0 {
		return nil, apperr.Validation("Invalid request body", fields)
	}

	pair, side, err := friendship.Canonical(callerID, targetID)
	if err != nil {
		return nil, err
	}

	if _, err := s.users.GetUserByID(ctx, targetID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.ErrTargetNotFound
		}
		return nil, apperr.Internal("failed to look up target user", err)
	}

	lockCtx, cancel := context.WithTimeout(ctx, s.lockWait)
	unlock, err := s.locks.Lock(lockCtx, pair.Key())
	cancel()
	if err != nil {
		if errors.Is(err, pairlock.ErrBusy) {
			return nil, apperr.ErrConcurrentModification
		}
		return nil, apperr.Internal("failed to lock relationship", err)
	}
	defer unlock()

	rel, err := s.relationships.FindByPair(ctx, pair)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Internal("failed to read relationship", err)
	}

	var current *friendship.Status
	if rel != nil {
		current = &rel.Status
	}
	outcome, err := friendship.Transition(current, side, operation)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindInternal {
			return nil, apperr.Internal("failed to evaluate friendship operation", err)
		}
		return nil, err
	}

	rel, err = s.apply(ctx, pair, rel, outcome)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			logrus.WithField("pair", pair.Key()).Warn("Relationship changed concurrently")
			return nil, apperr.ErrConcurrentModification
		}
		return nil, apperr.Internal("failed to write relationship", err)
	}

	logrus.WithFields(logrus.Fields{
		"caller":    callerID.Hex(),
		"target":    targetID.Hex(),
		"operation": operation,
		"action":    outcome.Action.String(),
		"status":    outcome.Status,
	}).Info("Friendship updated")

	return &FriendshipResult{Message: operationMessages[operation], Relationship: rel}, nil
}

func (s *FriendService) apply(ctx context.Context, pair friendship.Pair, rel *models.Relationship, outcome friendship.Outcome) (*models.Relationship, error) {
	now := s.now()
	switch outcome.Action {
	case friendship.ActionCreate:
		created := &models.Relationship{
			User1:        pair.Low,
			User2:        pair.High,
			Status:       outcome.Status,
			CreatedAt:    now,
			LastModified: now,
		}
		if err := s.relationships.Insert(ctx, created); err != nil {
			return nil, err
		}
		return created, nil
	case friendship.ActionUpdate:
		if err := s.relationships.UpdateStatus(ctx, rel, outcome.Status, now); err != nil {
			return nil, err
		}
		return rel, nil
	case friendship.ActionDelete:
		return nil, s.relationships.Delete(ctx, rel)
	}
	return nil, errors.New("unknown relationship action")
}

// GetRelationship returns the record between caller and target, or nil when there is none.
func (s *FriendService) GetRelationship(ctx context.Context, callerID primitive.ObjectID, targetHex string) (*models.Relationship, error) {
	targetID, err := primitive.ObjectIDFromHex(targetHex)
	if err != nil {
		return nil, apperr.Validation("Invalid user id", map[string]string{"id": "id must be a valid user id"})
	}
	pair, _, err := friendship.Canonical(callerID, targetID)
	if err != nil {
		return nil, err
	}

	rel, err := s.relationships.FindByPair(ctx, pair)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, apperr.Internal("failed to read relationship", err)
	}
	return rel, nil
}

// ListFriends returns the public profiles of everyone userID is friends with.
func (s *FriendService) ListFriends(ctx context.Context, userID primitive.ObjectID) ([]models.PublicUser, error) {
	rels, err := s.relationships.ListByStatus(ctx, userID, friendship.StatusFriends)
	if err != nil {
		return nil, apperr.Internal("failed to list friendships", err)
	}
	if len(rels) == 0 {
		return []models.PublicUser{}, nil
	}

	ids := make([]primitive.ObjectID, 0, len(rels))
	for i := range rels {
		ids = append(ids, rels[i].Other(userID))
	}

	users, err := s.users.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, apperr.Internal("failed to load friends", err)
	}

	friends := make([]models.PublicUser, 0, len(users))
	for i := range users {
		friends = append(friends, users[i].Public())
	}
	return friends, nil
}

// ListFriendsByUsername is ListFriends keyed by username.
func (s *FriendService) ListFriendsByUsername(ctx context.Context, username string) ([]models.PublicUser, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.ErrUserNotFound
		}
		return nil, apperr.Internal("failed to look up user", err)
	}
	return s.ListFriends(ctx, user.ID)
}
