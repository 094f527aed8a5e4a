package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/Dias221467/fitsocial/internal/apperr"
	"github.com/Dias221467/fitsocial/internal/models"
	"github.com/Dias221467/fitsocial/internal/repository"
	jwtutil "github.com/Dias221467/fitsocial/pkg/jwt"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// AuthConfig holds the token signing settings.
type AuthConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	// BcryptCost defaults to bcrypt.DefaultCost when zero.
	BcryptCost int
}

// TokenPair is what login and refresh hand back to the client.
type TokenPair struct {
	AccessToken  string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// RegisterInput is the registration payload.
type RegisterInput struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Password  string `json:"password"`
}

// AuthService issues, rotates and validates tokens.
type AuthService struct {
	users UserStore
	cfg   AuthConfig
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, cfg AuthConfig) *AuthService {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = time.Hour
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{users: users, cfg: cfg}
}

// Register validates the payload, hashes the password and stores the user.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)

	fields := map[string]string{}
	if in.Username == "" {
		fields["username"] = "username is required"
	}
	if in.Email == "" {
		fields["email"] = "email is required"
	} else if !emailRegex.MatchString(in.Email) {
		fields["email"] = "email is not valid"
	}
	if in.FirstName == "" {
		fields["firstName"] = "firstName is required"
	}
	if in.LastName == "" {
		fields["lastName"] = "lastName is required"
	}
	if in.Password == "" {
		fields["password"] = "password is required"
	}
	if len(fields) > 0 {
		logrus.WithField("fields", fields).Warn("Invalid registration payload")
		return nil, apperr.Validation("Invalid registration", fields)
	}

	if err := s.ensureUnique(ctx, in.Username, in.Email); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cfg.BcryptCost)
	if err != nil {
		logrus.WithError(err).Error("Password hashing failed")
		return nil, apperr.Internal("failed to hash password", err)
	}

	user := &models.User{
		Username:  in.Username,
		Email:     in.Email,
		Password:  string(hashed),
		FirstName: in.FirstName,
		LastName:  in.LastName,
	}
	created, err := s.users.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.ErrDuplicateUser
		}
		return nil, apperr.Internal("failed to register user", err)
	}

	logrus.WithField("userID", created.ID.Hex()).Info("User registered successfully")
	return created, nil
}

func (s *AuthService) ensureUnique(ctx context.Context, username, email string) error {
	if _, err := s.users.GetUserByUsername(ctx, username); err == nil {
		return apperr.ErrDuplicateUser
	} else if !errors.Is(err, repository.ErrNotFound) {
		return apperr.Internal("failed to check username", err)
	}
	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return apperr.ErrDuplicateUser
	} else if !errors.Is(err, repository.ErrNotFound) {
		return apperr.Internal("failed to check email", err)
	}
	return nil
}

// Login checks the credentials and issues a fresh token pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	email = strings.TrimSpace(email)
	fields := map[string]string{}
	if email == "" {
		fields["email"] = "email is required"
	}
	if password == "" {
		fields["password"] = "password is required"
	}
	if len(fields) > 0 {
		return nil, apperr.Validation("Invalid login", fields)
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logrus.WithField("email", email).Warn("Login for unknown email")
			return nil, apperr.ErrLoginNotFound
		}
		return nil, apperr.Internal("failed to look up user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		logrus.WithField("userID", user.ID.Hex()).Warn("Invalid credentials")
		return nil, apperr.ErrInvalidCredentials
	}

	return s.IssueTokenPair(ctx, user)
}

// IssueTokenPair moves the user to the next token version, which invalidates every token
// minted before, and stores the new refresh token as the only live one.
func (s *AuthService) IssueTokenPair(ctx context.Context, user *models.User) (*TokenPair, error) {
	next := user.TokenVersion + 1
	subject := user.ID.Hex()

	access, err := jwtutil.GenerateToken(subject, next, s.cfg.AccessSecret, s.cfg.AccessTTL)
	if err != nil {
		return nil, apperr.Internal("failed to generate access token", err)
	}
	refresh, err := jwtutil.GenerateToken(subject, next, s.cfg.RefreshSecret, s.cfg.RefreshTTL)
	if err != nil {
		return nil, apperr.Internal("failed to generate refresh token", err)
	}

	if err := s.users.SaveTokens(ctx, user.ID, user.TokenVersion, next, refresh); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			logrus.WithField("userID", subject).Warn("Token version moved during issue")
			return nil, apperr.ErrConcurrentModification
		}
		return nil, apperr.Internal("failed to save tokens", err)
	}

	user.TokenVersion = next
	user.RefreshToken = &refresh

	logrus.WithFields(logrus.Fields{
		"userID":       subject,
		"tokenVersion": next,
	}).Info("Issued token pair")
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// ValidateAccess resolves the user behind an access token.
func (s *AuthService) ValidateAccess(ctx context.Context, token string) (*models.User, error) {
	claims, err := jwtutil.ValidateToken(token, s.cfg.AccessSecret)
	if err != nil {
		return nil, apperr.ErrInvalidToken
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, apperr.ErrInvalidToken
	}

	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.ErrUserNotFound
		}
		return nil, apperr.Internal("failed to look up user", err)
	}

	if claims.TokenVersion != user.TokenVersion {
		return nil, apperr.ErrStaleToken
	}
	return user, nil
}

// Refresh rotates a refresh token. The presented token must be exactly the stored one.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, apperr.ErrMissingToken
	}

	user, err := s.users.GetUserByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.ErrTokenMismatch
		}
		return nil, apperr.Internal("failed to look up refresh token", err)
	}

	claims, err := jwtutil.ValidateToken(refreshToken, s.cfg.RefreshSecret)
	if err != nil || claims.UserID != user.ID.Hex() {
		return nil, apperr.ErrInvalidToken
	}
	if claims.TokenVersion != user.TokenVersion {
		return nil, apperr.ErrVersionMismatch
	}

	return s.IssueTokenPair(ctx, user)
}

// Logout forgets the refresh token. The token version is left alone, so an unexpired
// access token keeps working until it expires.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return apperr.ErrMissingToken
	}

	user, err := s.users.ClearRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.ErrUserNotFound
		}
		return apperr.Internal("failed to clear refresh token", err)
	}

	logrus.WithField("userID", user.ID.Hex()).Info("User logged out")
	return nil
}
