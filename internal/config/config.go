package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Port     string
	AppEnv   string
	MongoURI string
	DBName   string
	LogLevel string

	JWTSecret       string
	RefreshSecret   string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	CORSAllowedOrigins []string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	PairLockTTL   time.Duration

	AuthRateLimit float64
	AuthRateBurst int

	ExercisesCSV     string
	RefreshExercises bool
	ExercisesCron    string
}

// IsTest reports whether the test database is selected.
func (c *Config) IsTest() bool {
	return c.AppEnv == "test"
}

// LoadConfig reads .env (if present) and the environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, reading configuration from the environment")
	}

	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_URI_TEST", "mongodb://localhost:27017")
	v.SetDefault("DB_NAME", "fitsocial")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("REFRESH_SECRET", "")
	v.SetDefault("ACCESS_TOKEN_TTL", time.Hour)
	v.SetDefault("REFRESH_TOKEN_TTL", 7*24*time.Hour)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("PAIR_LOCK_TTL", 5*time.Second)
	v.SetDefault("AUTH_RATE_LIMIT", 5.0)
	v.SetDefault("AUTH_RATE_BURST", 10)
	v.SetDefault("EXERCISES_CSV", "data/megaGymDataset.csv")
	v.SetDefault("REFRESH_EXERCISES", false)
	v.SetDefault("EXERCISES_CRON", "")
	v.AutomaticEnv()

	cfg := &Config{
		Port:               v.GetString("PORT"),
		AppEnv:             v.GetString("APP_ENV"),
		MongoURI:           v.GetString("MONGO_URI"),
		DBName:             v.GetString("DB_NAME"),
		LogLevel:           v.GetString("LOG_LEVEL"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		RefreshSecret:      v.GetString("REFRESH_SECRET"),
		AccessTokenTTL:     v.GetDuration("ACCESS_TOKEN_TTL"),
		RefreshTokenTTL:    v.GetDuration("REFRESH_TOKEN_TTL"),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		RedisAddr:          v.GetString("REDIS_ADDR"),
		RedisPassword:      v.GetString("REDIS_PASSWORD"),
		RedisDB:            v.GetInt("REDIS_DB"),
		PairLockTTL:        v.GetDuration("PAIR_LOCK_TTL"),
		AuthRateLimit:      v.GetFloat64("AUTH_RATE_LIMIT"),
		AuthRateBurst:      v.GetInt("AUTH_RATE_BURST"),
		ExercisesCSV:       v.GetString("EXERCISES_CSV"),
		RefreshExercises:   v.GetBool("REFRESH_EXERCISES"),
		ExercisesCron:      v.GetString("EXERCISES_CRON"),
	}
	if cfg.IsTest() {
		cfg.MongoURI = v.GetString("MONGO_URI_TEST")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.JWTSecret == "":
		return errors.New("JWT_SECRET is required")
	case c.RefreshSecret == "":
		return errors.New("REFRESH_SECRET is required")
	case c.JWTSecret == c.RefreshSecret:
		return errors.New("JWT_SECRET and REFRESH_SECRET must differ")
	case c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0:
		return errors.New("token lifetimes must be positive")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
