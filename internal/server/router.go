package server

import (
	"net/http"

	"github.com/Dias221467/fitsocial/internal/handlers"
	"github.com/Dias221467/fitsocial/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"golang.org/x/time/rate"
)

// Handlers groups every HTTP handler the API exposes.
type Handlers struct {
	Auth     *handlers.AuthHandler
	User     *handlers.UserHandler
	Friend   *handlers.FriendHandler
	Post     *handlers.PostHandler
	Workout  *handlers.WorkoutHandler
	Exercise *handlers.ExerciseHandler
}

// Options configures the middleware around the routes.
type Options struct {
	Validator      middleware.AccessValidator
	AllowedOrigins []string
	// AuthRateLimit is in requests per second per client IP; zero disables limiting.
	AuthRateLimit rate.Limit
	AuthRateBurst int
}

// NewRouter wires the routes under /api/v1 and wraps them in CORS.
func NewRouter(h Handlers, opts Options) http.Handler {
	router := mux.NewRouter()
	router.Use(middleware.Recovery, middleware.RequestID, middleware.LoggingMiddleware)

	router.HandleFunc("/health", handlers.HealthHandler).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()

	// Auth routes
	authRoutes := api.PathPrefix("/auth").Subrouter()
	if opts.AuthRateLimit > 0 {
		authRoutes.Use(middleware.RateLimit(opts.AuthRateLimit, opts.AuthRateBurst))
	}
	authRoutes.HandleFunc("/register", h.Auth.RegisterHandler).Methods(http.MethodPost)
	authRoutes.HandleFunc("/login", h.Auth.LoginHandler).Methods(http.MethodPost)
	authRoutes.HandleFunc("/refresh", h.Auth.RefreshHandler).Methods(http.MethodPost)
	authRoutes.HandleFunc("/logout", h.Auth.LogoutHandler).Methods(http.MethodPost)

	requireAuth := middleware.AuthMiddleware(opts.Validator)

	// User and friend routes; friend paths come first so {username} does not swallow them.
	userRoutes := api.PathPrefix("/user").Subrouter()
	userRoutes.Use(requireAuth)
	userRoutes.HandleFunc("/friends", h.Friend.ModifyFriendshipHandler).Methods(http.MethodPost)
	userRoutes.HandleFunc("/friends/list", h.Friend.ListFriendsHandler).Methods(http.MethodGet)
	userRoutes.HandleFunc("/friends/list/{username}", h.Friend.ListFriendsByUsernameHandler).Methods(http.MethodGet)
	userRoutes.HandleFunc("/friends/status/{id}", h.Friend.RelationshipStatusHandler).Methods(http.MethodGet)
	userRoutes.HandleFunc("", h.User.GetCurrentUserHandler).Methods(http.MethodGet)
	userRoutes.HandleFunc("/{username}", h.User.GetUserByUsernameHandler).Methods(http.MethodGet)

	// Post routes
	postRoutes := api.PathPrefix("/posts").Subrouter()
	postRoutes.Use(requireAuth)
	postRoutes.HandleFunc("", h.Post.CreatePostHandler).Methods(http.MethodPost)
	postRoutes.HandleFunc("", h.Post.GetPostsHandler).Methods(http.MethodGet)
	postRoutes.HandleFunc("/user/{user_id}", h.Post.GetUserPostsHandler).Methods(http.MethodGet)
	postRoutes.HandleFunc("/post/{post_id}", h.Post.GetPostHandler).Methods(http.MethodGet)
	postRoutes.HandleFunc("/post/{post_id}", h.Post.DeletePostHandler).Methods(http.MethodDelete)
	postRoutes.HandleFunc("/post/{post_id}/like", h.Post.ToggleLikeHandler).Methods(http.MethodPost)

	// Workout routes
	workoutRoutes := api.PathPrefix("/workouts").Subrouter()
	workoutRoutes.Use(requireAuth)
	workoutRoutes.HandleFunc("", h.Workout.CreateWorkoutHandler).Methods(http.MethodPost)
	workoutRoutes.HandleFunc("", h.Workout.GetWorkoutsHandler).Methods(http.MethodGet)
	workoutRoutes.HandleFunc("/{id}", h.Workout.GetWorkoutHandler).Methods(http.MethodGet)
	workoutRoutes.HandleFunc("/{id}", h.Workout.DeleteWorkoutHandler).Methods(http.MethodDelete)

	exerciseRoutes := api.PathPrefix("/exercises").Subrouter()
	exerciseRoutes.Use(requireAuth)
	exerciseRoutes.HandleFunc("", h.Exercise.ListExercisesHandler).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
	})
	return c.Handler(router)
}
