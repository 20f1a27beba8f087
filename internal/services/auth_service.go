package services

import (
	"context"
	"strings"

	"vocapsule/internal/auth"
	"vocapsule/internal/errors"
	"vocapsule/internal/logger"
	"vocapsule/internal/models"
	"vocapsule/internal/repository"
)

// AuthService handles account creation and credential checks
type AuthService interface {
	SignUp(ctx context.Context, email, password string) (*models.User, error)
	SignIn(ctx context.Context, email, password string) (*models.User, error)
	User(ctx context.Context, id int64) (*models.User, error)
	// EnsureOAuthUser returns the account for an OAuth-verified email,
	// creating one with an unusable random password if needed.
	EnsureOAuthUser(ctx context.Context, email string) (*models.User, error)
}

type authService struct {
	store repository.Store
}

// NewAuthService creates a new AuthService
func NewAuthService(store repository.Store) AuthService {
	return &authService{store: store}
}

func (s *authService) SignUp(ctx context.Context, email, password string) (*models.User, error) {
	log := logger.FromContext(ctx)
	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if existing != nil {
		return nil, errors.NewBadRequestError("email exists")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	user, err := s.store.Users().Create(ctx, email, hash)
	if err != nil {
		log.Error("failed to create user: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Info("user created: id=%d, email=%s", user.ID, user.Email)
	return user, nil
}

func (s *authService) SignIn(ctx context.Context, email, password string) (*models.User, error) {
	log := logger.FromContext(ctx)
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if user == nil || !auth.CheckPassword(password, user.PasswordHash) {
		log.Warn("invalid credentials: email=%s", email)
		return nil, errors.NewUnauthorizedError("invalid credentials")
	}
	return user, nil
}

func (s *authService) User(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.store.Users().Get(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if user == nil {
		return nil, errors.NewUnauthorizedError("unknown user")
	}
	return user, nil
}

func (s *authService) EnsureOAuthUser(ctx context.Context, email string) (*models.User, error) {
	log := logger.FromContext(ctx)
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if user != nil {
		return user, nil
	}

	hash, err := auth.HashPassword(auth.RandomPassword())
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	user, err = s.store.Users().Create(ctx, email, hash)
	if err != nil {
		log.Error("failed to create oauth user: %v", err)
		return nil, errors.NewInternalError(err)
	}
	log.Info("oauth user created: id=%d, email=%s", user.ID, user.Email)
	return user, nil
}
