// Package accounts registers users and checks their credentials.
package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/anonto42/social-network/internal/apperrors"
	"github.com/anonto42/social-network/internal/logger"
	"github.com/anonto42/social-network/internal/models"
	"github.com/anonto42/social-network/internal/repositories"
	"github.com/anonto42/social-network/internal/resolver"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Service handles sign-up and log-in
type Service struct {
	users    repositories.UserRepository
	resolver *resolver.Resolver
	validate *validator.Validate
	log      *zap.Logger
}

// NewService creates an accounts Service
func NewService(users repositories.UserRepository, res *resolver.Resolver, log *zap.Logger) *Service {
	return &Service{
		users:    users,
		resolver: res,
		validate: validator.New(),
		log:      log.Named("accounts"),
	}
}

// SignUp creates a user with empty following and subscribers sets.
// An email that is already registered fails with ErrAlreadyExists; the
// store's unique index settles concurrent sign-ups with the same email.
func (s *Service) SignUp(ctx context.Context, req models.SignUpRequest) (*models.User, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("sign up: %v: %w", err, apperrors.ErrInvalid)
	}

	_, err := s.resolver.FindUserByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return nil, fmt.Errorf("email %s: %w", logger.RedactEmail(req.Email), apperrors.ErrAlreadyExists)
	case !errors.Is(err, apperrors.ErrNotFound):
		return nil, err
	}

	user := &models.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Interests: req.Interests,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("user signed up", zap.String("user_id", user.ID.Hex()))
	return user, nil
}

// LogIn returns the user whose email and password both match.
// Any mismatch fails with ErrNotFound.
func (s *Service) LogIn(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.resolver.FindUserByCredentials(ctx, email, password)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.log.Debug("log-in rejected", zap.String("email", logger.RedactEmail(email)))
			return nil, fmt.Errorf("invalid email or password: %w", apperrors.ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}
