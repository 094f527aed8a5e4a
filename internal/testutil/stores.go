// Package testutil provides in-memory stores that behave like the Mongo repositories,
// including their sentinel errors and conditional writes.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Dias221467/fitsocial/internal/friendship"
	"github.com/Dias221467/fitsocial/internal/models"
	"github.com/Dias221467/fitsocial/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserStore is an in-memory users collection.
type UserStore struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]models.User
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[primitive.ObjectID]models.User)}
}

func copyUser(u models.User) *models.User {
	if u.RefreshToken != nil {
		tok := *u.RefreshToken
		u.RefreshToken = &tok
	}
	return &u
}

func (s *UserStore) CreateUser(_ context.Context, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, repository.ErrDuplicate
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	now := time.Now()
	user.CreatedAt, user.UpdatedAt = now, now
	s.users[user.ID] = *copyUser(*user)
	return user, nil
}

func (s *UserStore) find(match func(models.User) bool) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if match(u) {
			return copyUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *UserStore) GetUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.find(func(u models.User) bool { return u.ID == id })
}

func (s *UserStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	return s.find(func(u models.User) bool { return u.Email == email })
}

func (s *UserStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	return s.find(func(u models.User) bool { return u.Username == username })
}

func (s *UserStore) GetUserByRefreshToken(_ context.Context, token string) (*models.User, error) {
	return s.find(func(u models.User) bool { return u.RefreshToken != nil && *u.RefreshToken == token })
}

func (s *UserStore) SaveTokens(_ context.Context, id primitive.ObjectID, fromVersion, toVersion int, refreshToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok || u.TokenVersion != fromVersion {
		return repository.ErrConflict
	}
	u.TokenVersion = toVersion
	u.RefreshToken = &refreshToken
	u.UpdatedAt = time.Now()
	s.users[id] = u
	return nil
}

func (s *UserStore) ClearRefreshToken(_ context.Context, token string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, u := range s.users {
		if u.RefreshToken != nil && *u.RefreshToken == token {
			u.RefreshToken = nil
			u.UpdatedAt = time.Now()
			s.users[id] = u
			return copyUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *UserStore) GetUsersByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.User{}
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out = append(out, *copyUser(u))
		}
	}
	return out, nil
}

// Put stores u as is, replacing any user with the same ID.
func (s *UserStore) Put(u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = *copyUser(u)
}

// RelationshipStore is an in-memory friendships collection.
type RelationshipStore struct {
	mu   sync.Mutex
	rels map[friendship.Pair]models.Relationship
}

func NewRelationshipStore() *RelationshipStore {
	return &RelationshipStore{rels: make(map[friendship.Pair]models.Relationship)}
}

func (s *RelationshipStore) FindByPair(_ context.Context, pair friendship.Pair) (*models.Relationship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rel, ok := s.rels[pair]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &rel, nil
}

func (s *RelationshipStore) Insert(_ context.Context, rel *models.Relationship) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	pair := rel.Pair()
	if _, ok := s.rels[pair]; ok {
		return repository.ErrConflict
	}
	rel.ID = primitive.NewObjectID()
	rel.Version = 1
	s.rels[pair] = *rel
	return nil
}

func (s *RelationshipStore) UpdateStatus(_ context.Context, rel *models.Relationship, status friendship.Status, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.rels[rel.Pair()]
	if !ok || stored.ID != rel.ID || stored.Version != rel.Version {
		return repository.ErrConflict
	}
	rel.Status = status
	rel.Version++
	rel.LastModified = at
	s.rels[rel.Pair()] = *rel
	return nil
}

func (s *RelationshipStore) Delete(_ context.Context, rel *models.Relationship) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.rels[rel.Pair()]
	if !ok || stored.ID != rel.ID || stored.Version != rel.Version {
		return repository.ErrConflict
	}
	delete(s.rels, rel.Pair())
	return nil
}

func (s *RelationshipStore) ListByStatus(_ context.Context, userID primitive.ObjectID, status friendship.Status) ([]models.Relationship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Relationship{}
	for _, rel := range s.rels {
		if rel.Status == status && (rel.User1 == userID || rel.User2 == userID) {
			out = append(out, rel)
		}
	}
	return out, nil
}

// Len reports how many records are stored.
func (s *RelationshipStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rels)
}

// PostStore is an in-memory posts collection.
type PostStore struct {
	mu    sync.Mutex
	posts map[primitive.ObjectID]models.Post
}

func NewPostStore() *PostStore {
	return &PostStore{posts: make(map[primitive.ObjectID]models.Post)}
}

func (s *PostStore) CreatePost(_ context.Context, post *models.Post) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	post.ID = primitive.NewObjectID()
	s.posts[post.ID] = *post
	return post, nil
}

func (s *PostStore) GetPostByID(_ context.Context, id primitive.ObjectID) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p.Likes = append([]primitive.ObjectID(nil), p.Likes...)
	return &p, nil
}

func (s *PostStore) GetPostsByUser(_ context.Context, userID primitive.ObjectID) ([]models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Post{}
	for _, p := range s.posts {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateCreated.After(out[j].DateCreated) })
	return out, nil
}

func (s *PostStore) DeletePost(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.posts, id)
	return nil
}

func (s *PostStore) AddLike(_ context.Context, postID, userID primitive.ObjectID) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[postID]
	if !ok || p.LikedBy(userID) {
		return nil, repository.ErrConflict
	}
	p.Likes = append(append([]primitive.ObjectID(nil), p.Likes...), userID)
	p.LikesCount++
	s.posts[postID] = p
	return &p, nil
}

func (s *PostStore) RemoveLike(_ context.Context, postID, userID primitive.ObjectID) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[postID]
	if !ok || !p.LikedBy(userID) {
		return nil, repository.ErrConflict
	}
	likes := make([]primitive.ObjectID, 0, len(p.Likes))
	for _, id := range p.Likes {
		if id != userID {
			likes = append(likes, id)
		}
	}
	p.Likes = likes
	p.LikesCount--
	s.posts[postID] = p
	return &p, nil
}

// WorkoutStore is an in-memory workouts collection.
type WorkoutStore struct {
	mu       sync.Mutex
	workouts map[primitive.ObjectID]models.Workout
}

func NewWorkoutStore() *WorkoutStore {
	return &WorkoutStore{workouts: make(map[primitive.ObjectID]models.Workout)}
}

func (s *WorkoutStore) CreateWorkout(_ context.Context, w *models.Workout) (*models.Workout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w.ID = primitive.NewObjectID()
	s.workouts[w.ID] = *w
	return w, nil
}

func (s *WorkoutStore) GetWorkoutByID(_ context.Context, id primitive.ObjectID) (*models.Workout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.workouts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &w, nil
}

func (s *WorkoutStore) GetWorkoutsByAuthor(_ context.Context, author primitive.ObjectID) ([]models.Workout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Workout{}
	for _, w := range s.workouts {
		if w.Author == author {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateCreated.After(out[j].DateCreated) })
	return out, nil
}

func (s *WorkoutStore) DeleteWorkout(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.workouts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.workouts, id)
	return nil
}

// ExerciseStore is an in-memory exercise template catalog.
type ExerciseStore struct {
	mu        sync.Mutex
	templates map[string]models.ExerciseTemplate
}

func NewExerciseStore() *ExerciseStore {
	return &ExerciseStore{templates: make(map[string]models.ExerciseTemplate)}
}

func (s *ExerciseStore) UpsertByName(_ context.Context, tmpl *models.ExerciseTemplate) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.templates[tmpl.Name]
	if ok {
		tmpl.ID = existing.ID
	} else if tmpl.ID.IsZero() {
		tmpl.ID = primitive.NewObjectID()
	}
	s.templates[tmpl.Name] = *tmpl
	return !ok, nil
}

func (s *ExerciseStore) DeleteAll(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := int64(len(s.templates))
	s.templates = make(map[string]models.ExerciseTemplate)
	return n, nil
}

func (s *ExerciseStore) CountByIDs(_ context.Context, ids []primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, id := range ids {
		for _, t := range s.templates {
			if t.ID == id {
				n++
				break
			}
		}
	}
	return n, nil
}

func (s *ExerciseStore) List(_ context.Context, category string) ([]models.ExerciseTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.ExerciseTemplate{}
	for _, t := range s.templates {
		if category == "" || t.Category == category {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
