package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dias221467/fitsocial/internal/config"
	"github.com/Dias221467/fitsocial/internal/database"
	"github.com/Dias221467/fitsocial/internal/handlers"
	"github.com/Dias221467/fitsocial/internal/jobs"
	"github.com/Dias221467/fitsocial/internal/pairlock"
	"github.com/Dias221467/fitsocial/internal/repository"
	"github.com/Dias221467/fitsocial/internal/scheduler"
	"github.com/Dias221467/fitsocial/internal/server"
	"github.com/Dias221467/fitsocial/internal/services"
	"github.com/Dias221467/fitsocial/pkg/logger"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Load configuration from .env file and the environment
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Log.WithError(err).Fatal("Invalid configuration")
	}

	logger.InitLogger(cfg.LogLevel)
	logger.Log.WithField("env", cfg.AppEnv).Info("Logger initialized")

	client, db, err := database.ConnectDB(cfg)
	if err != nil {
		logger.Log.WithError(err).Fatal("Database connection error")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Log.WithError(err).Warn("Failed to disconnect from MongoDB")
		}
	}()

	indexCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureIndexes(indexCtx, db); err != nil {
		cancel()
		logger.Log.WithError(err).Fatal("Failed to create indexes")
	}
	cancel()

	// --- Repositories ---
	userRepo := repository.NewUserRepository(db)
	relationshipRepo := repository.NewRelationshipRepository(db)
	postRepo := repository.NewPostRepository(db)
	workoutRepo := repository.NewWorkoutRepository(db)
	exerciseRepo := repository.NewExerciseRepository(db)

	locks, closeLocks := pairLocker(cfg)
	defer closeLocks()

	// --- Services ---
	authService := services.NewAuthService(userRepo, services.AuthConfig{
		AccessSecret:  cfg.JWTSecret,
		RefreshSecret: cfg.RefreshSecret,
		AccessTTL:     cfg.AccessTokenTTL,
		RefreshTTL:    cfg.RefreshTokenTTL,
	})
	userService := services.NewUserService(userRepo)
	friendService := services.NewFriendService(relationshipRepo, userRepo, locks)
	postService := services.NewPostService(postRepo)
	workoutService := services.NewWorkoutService(workoutRepo, exerciseRepo)
	exerciseService := services.NewExerciseService(exerciseRepo)

	// --- Exercise catalog ---
	loader := jobs.NewExerciseLoader(exerciseRepo)
	if cfg.RefreshExercises {
		loadCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		res, err := loader.Load(loadCtx, cfg.ExercisesCSV, true)
		cancel()
		if err != nil {
			logger.Log.WithError(err).Error("Failed to load exercise catalog")
		} else {
			logger.Log.WithField("inserted", res.Inserted).Info("Exercise catalog loaded")
		}
	}
	if cfg.ExercisesCron != "" {
		c, err := scheduler.StartExerciseCron(cfg.ExercisesCron, loader, cfg.ExercisesCSV)
		if err != nil {
			logger.Log.WithError(err).Fatal("Invalid exercise refresh schedule")
		}
		defer c.Stop()
	}

	// --- Handlers ---
	router := server.NewRouter(server.Handlers{
		Auth:     handlers.NewAuthHandler(authService),
		User:     handlers.NewUserHandler(userService),
		Friend:   handlers.NewFriendHandler(friendService),
		Post:     handlers.NewPostHandler(postService),
		Workout:  handlers.NewWorkoutHandler(workoutService),
		Exercise: handlers.NewExerciseHandler(exerciseService),
	}, server.Options{
		Validator:      authService,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AuthRateLimit:  rate.Limit(cfg.AuthRateLimit),
		AuthRateBurst:  cfg.AuthRateBurst,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.WithField("port", cfg.Port).Info("Server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.WithError(err).Fatal("Server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Log.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.WithError(err).Error("Graceful shutdown failed")
	}
}

// pairLocker uses Redis when configured so several instances share pair locks.
func pairLocker(cfg *config.Config) (pairlock.Locker, func()) {
	if cfg.RedisAddr == "" {
		logger.Log.Info("REDIS_ADDR not set, using in-process pair locks")
		return pairlock.NewLocal(), func() {}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Log.WithError(err).Fatal("Failed to connect to Redis")
	}
	logger.Log.WithField("addr", cfg.RedisAddr).Info("Connected to Redis")

	return pairlock.NewRedis(rdb, cfg.PairLockTTL), func() {
		if err := rdb.Close(); err != nil {
			logger.Log.WithError(err).Warn("Failed to close Redis client")
		}
	}
}
