package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Dias221467/fitsocial/internal/handlers"
	"github.com/Dias221467/fitsocial/internal/models"
	"github.com/Dias221467/fitsocial/internal/services"
	"github.com/Dias221467/fitsocial/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

type testApp struct {
	handler   http.Handler
	users     *testutil.UserStore
	exercises *testutil.ExerciseStore
}

func newTestApp(t *testing.T, limit rate.Limit, burst int) *testApp {
	t.Helper()
	users := testutil.NewUserStore()
	relationships := testutil.NewRelationshipStore()
	exercises := testutil.NewExerciseStore()

	authService := services.NewAuthService(users, services.AuthConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
		BcryptCost:    bcrypt.MinCost,
	})

	h := NewRouter(Handlers{
		Auth:     handlers.NewAuthHandler(authService),
		User:     handlers.NewUserHandler(services.NewUserService(users)),
		Friend:   handlers.NewFriendHandler(services.NewFriendService(relationships, users, nil)),
		Post:     handlers.NewPostHandler(services.NewPostService(testutil.NewPostStore())),
		Workout:  handlers.NewWorkoutHandler(services.NewWorkoutService(testutil.NewWorkoutStore(), exercises)),
		Exercise: handlers.NewExerciseHandler(services.NewExerciseService(exercises)),
	}, Options{
		Validator:      authService,
		AllowedOrigins: []string{"http://localhost:3000"},
		AuthRateLimit:  limit,
		AuthRateBurst:  burst,
	})
	return &testApp{handler: h, users: users, exercises: exercises}
}

func (a *testApp) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

type tokens struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

func (a *testApp) signUp(t *testing.T, username string) (tokens, models.PublicUser) {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username":  username,
		"email":     username + "@example.com",
		"firstName": "First",
		"lastName":  "Last",
		"password":  "hunter22",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = a.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    username + "@example.com",
		"password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var tk tokens
	decode(t, rec, &tk)

	rec = a.do(t, http.MethodGet, "/api/v1/user", tk.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var me models.PublicUser
	decode(t, rec, &me)
	return tk, me
}

func TestRouter_Health(t *testing.T) {
	app := newTestApp(t, 0, 0)
	rec := app.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRouter_AuthLifecycle(t *testing.T) {
	app := newTestApp(t, 0, 0)
	tk, me := app.signUp(t, "alice")
	assert.Equal(t, "alice", me.Username)

	// duplicate registration
	rec := app.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "alice", "email": "other@example.com", "firstName": "A", "lastName": "B", "password": "x",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = app.do(t, http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{"refreshToken": tk.RefreshToken})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var rotated tokens
	decode(t, rec, &rotated)
	assert.NotEqual(t, tk.RefreshToken, rotated.RefreshToken)

	// the old pair is dead after rotation
	assert.Equal(t, http.StatusUnauthorized, app.do(t, http.MethodGet, "/api/v1/user", tk.Token, nil).Code)
	rec = app.do(t, http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{"refreshToken": tk.RefreshToken})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.do(t, http.MethodPost, "/api/v1/auth/logout", "", map[string]string{"refreshToken": rotated.RefreshToken})
	assert.Equal(t, http.StatusOK, rec.Code)

	// logout keeps the access token usable until it expires
	assert.Equal(t, http.StatusOK, app.do(t, http.MethodGet, "/api/v1/user", rotated.Token, nil).Code)

	rec = app.do(t, http.MethodPost, "/api/v1/auth/logout", "", map[string]string{"refreshToken": rotated.RefreshToken})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	var msg map[string]string
	decode(t, rec, &msg)
	assert.Equal(t, "User could not be logged out", msg["message"])
}

func TestRouter_AccessGuard(t *testing.T) {
	app := newTestApp(t, 0, 0)

	rec := app.do(t, http.MethodGet, "/api/v1/user", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var msg map[string]string
	decode(t, rec, &msg)
	assert.Equal(t, "Access Denied", msg["message"])

	assert.Equal(t, http.StatusForbidden, app.do(t, http.MethodGet, "/api/v1/user", "garbage", nil).Code)
}

func TestRouter_LoginErrors(t *testing.T) {
	app := newTestApp(t, 0, 0)
	app.signUp(t, "bob")

	rec := app.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "bob@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "nobody@example.com", "password": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var msg map[string]string
	decode(t, rec, &msg)
	assert.Equal(t, "User not found", msg["message"])

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString("{not json"))
	out := httptest.NewRecorder()
	app.handler.ServeHTTP(out, req)
	assert.Equal(t, http.StatusBadRequest, out.Code)
}

func TestRouter_RegisterValidation(t *testing.T) {
	app := newTestApp(t, 0, 0)
	rec := app.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{"username": "carol", "email": "nope"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Message string            `json:"message"`
		Errors  map[string]string `json:"errors"`
	}
	decode(t, rec, &body)
	assert.Contains(t, body.Errors, "email")
	assert.Contains(t, body.Errors, "password")
	assert.NotContains(t, body.Errors, "username")
}

func TestRouter_FriendshipFlow(t *testing.T) {
	app := newTestApp(t, 0, 0)
	aliceTk, alice := app.signUp(t, "alice")
	bobTk, bob := app.signUp(t, "bob")

	modify := func(token, target, op string) *httptest.ResponseRecorder {
		return app.do(t, http.MethodPost, "/api/v1/user/friends", token, map[string]string{"user_id": target, "operation": op})
	}

	rec := modify(aliceTk.Token, bob.ID.Hex(), "send")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// sender cannot accept its own request
	assert.Equal(t, http.StatusBadRequest, modify(aliceTk.Token, bob.ID.Hex(), "accept").Code)
	assert.Equal(t, http.StatusConflict, modify(bobTk.Token, alice.ID.Hex(), "send").Code)

	rec = modify(bobTk.Token, alice.ID.Hex(), "accept")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var result struct {
		Message      string `json:"message"`
		Relationship struct {
			Status string `json:"status"`
		} `json:"relationship"`
	}
	decode(t, rec, &result)
	assert.Equal(t, "Friend request accepted", result.Message)
	assert.Equal(t, "friends", result.Relationship.Status)

	rec = app.do(t, http.MethodGet, "/api/v1/user/friends/list", aliceTk.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var friends []models.PublicUser
	decode(t, rec, &friends)
	require.Len(t, friends, 1)
	assert.Equal(t, "bob", friends[0].Username)

	rec = app.do(t, http.MethodGet, "/api/v1/user/friends/list/bob", aliceTk.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &friends)
	require.Len(t, friends, 1)
	assert.Equal(t, "alice", friends[0].Username)

	rec = app.do(t, http.MethodGet, "/api/v1/user/friends/status/"+bob.ID.Hex(), aliceTk.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var status map[string]interface{}
	decode(t, rec, &status)
	assert.Equal(t, "friends", status["status"])

	require.Equal(t, http.StatusCreated, modify(aliceTk.Token, bob.ID.Hex(), "unfriend").Code)
	rec = app.do(t, http.MethodGet, "/api/v1/user/friends/status/"+bob.ID.Hex(), aliceTk.Token, nil)
	decode(t, rec, &status)
	assert.Equal(t, "none", status["status"])
	assert.Nil(t, status["relationship"])
}

func TestRouter_FriendshipErrors(t *testing.T) {
	app := newTestApp(t, 0, 0)
	tk, me := app.signUp(t, "alice")

	modify := func(body map[string]string) int {
		return app.do(t, http.MethodPost, "/api/v1/user/friends", tk.Token, body).Code
	}

	assert.Equal(t, http.StatusBadRequest, modify(map[string]string{"user_id": me.ID.Hex(), "operation": "send"}))
	assert.Equal(t, http.StatusBadRequest, modify(map[string]string{"user_id": "zzz", "operation": "send"}))
	assert.Equal(t, http.StatusBadRequest, modify(map[string]string{"user_id": me.ID.Hex(), "operation": "poke"}))
	assert.Equal(t, http.StatusNotFound, modify(map[string]string{"user_id": "65a000000000000000000099", "operation": "send"}))
}

func TestRouter_ProfileByUsername(t *testing.T) {
	app := newTestApp(t, 0, 0)
	tk, _ := app.signUp(t, "alice")
	app.signUp(t, "bob")

	rec := app.do(t, http.MethodGet, "/api/v1/user/bob", tk.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var raw map[string]interface{}
	decode(t, rec, &raw)
	assert.Equal(t, "bob", raw["username"])
	assert.NotContains(t, raw, "password")
	assert.NotContains(t, raw, "email")

	assert.Equal(t, http.StatusNotFound, app.do(t, http.MethodGet, "/api/v1/user/nobody", tk.Token, nil).Code)
}

func TestRouter_Posts(t *testing.T) {
	app := newTestApp(t, 0, 0)
	aliceTk, alice := app.signUp(t, "alice")
	bobTk, _ := app.signUp(t, "bob")

	rec := app.do(t, http.MethodPost, "/api/v1/posts", aliceTk.Token, map[string]interface{}{
		"text":     "first run of the year",
		"postType": []string{"text"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var post models.Post
	decode(t, rec, &post)
	assert.Equal(t, alice.ID, post.UserID)

	rec = app.do(t, http.MethodGet, "/api/v1/posts/user/"+alice.ID.Hex(), bobTk.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var posts []models.Post
	decode(t, rec, &posts)
	assert.Len(t, posts, 1)

	rec = app.do(t, http.MethodPost, "/api/v1/posts/post/"+post.ID.Hex()+"/like", bobTk.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var like services.LikeResult
	decode(t, rec, &like)
	assert.True(t, like.Liked)
	assert.Equal(t, 1, like.LikesCount)

	assert.Equal(t, http.StatusForbidden, app.do(t, http.MethodDelete, "/api/v1/posts/post/"+post.ID.Hex(), bobTk.Token, nil).Code)
	assert.Equal(t, http.StatusOK, app.do(t, http.MethodDelete, "/api/v1/posts/post/"+post.ID.Hex(), aliceTk.Token, nil).Code)
	assert.Equal(t, http.StatusNotFound, app.do(t, http.MethodGet, "/api/v1/posts/post/"+post.ID.Hex(), aliceTk.Token, nil).Code)
}

func TestRouter_WorkoutsAndExercises(t *testing.T) {
	app := newTestApp(t, 0, 0)
	tk, _ := app.signUp(t, "alice")

	squat := &models.ExerciseTemplate{Name: "Squat", Category: "Strength", Equipment: "Barbell"}
	_, err := app.exercises.UpsertByName(context.Background(), squat)
	require.NoError(t, err)

	rec := app.do(t, http.MethodGet, "/api/v1/exercises?category=Strength", tk.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var catalog []models.ExerciseTemplate
	decode(t, rec, &catalog)
	require.Len(t, catalog, 1)
	assert.Equal(t, "Squat", catalog[0].Name)

	assert.Equal(t, http.StatusBadRequest, app.do(t, http.MethodGet, "/api/v1/exercises?category=Juggling", tk.Token, nil).Code)

	rec = app.do(t, http.MethodPost, "/api/v1/workouts", tk.Token, map[string]interface{}{
		"workoutName": "Leg day",
		"timeElapsed": 1800,
		"timeStarted": "2024-03-01T07:00:00Z",
		"exercises": []map[string]interface{}{{
			"exercise": squat.ID.Hex(),
			"type":     "reps",
			"details":  []map[string]interface{}{{"value": 5, "weight": 100}},
		}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var workout models.Workout
	decode(t, rec, &workout)

	rec = app.do(t, http.MethodGet, "/api/v1/workouts", tk.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var workouts []models.Workout
	decode(t, rec, &workouts)
	assert.Len(t, workouts, 1)

	assert.Equal(t, http.StatusOK, app.do(t, http.MethodDelete, "/api/v1/workouts/"+workout.ID.Hex(), tk.Token, nil).Code)
	assert.Equal(t, http.StatusNotFound, app.do(t, http.MethodGet, "/api/v1/workouts/"+workout.ID.Hex(), tk.Token, nil).Code)
}

func TestRouter_AuthRateLimit(t *testing.T) {
	app := newTestApp(t, rate.Every(time.Hour), 2)
	body := map[string]string{"email": "nobody@example.com", "password": "x"}

	assert.Equal(t, http.StatusBadRequest, app.do(t, http.MethodPost, "/api/v1/auth/login", "", body).Code)
	assert.Equal(t, http.StatusBadRequest, app.do(t, http.MethodPost, "/api/v1/auth/login", "", body).Code)
	assert.Equal(t, http.StatusTooManyRequests, app.do(t, http.MethodPost, "/api/v1/auth/login", "", body).Code)

	// other routes are not limited
	assert.Equal(t, http.StatusOK, app.do(t, http.MethodGet, "/health", "", nil).Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	app := newTestApp(t, 0, 0)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/posts", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	rec := httptest.NewRecorder()
	app.handler.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
