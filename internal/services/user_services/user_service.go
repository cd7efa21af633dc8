// File: internal/services/user_services/user_service.go
package user_services

import (
	"context"
	"errors"

	"github.com/moddin/kichat/internal/domain"
	"github.com/moddin/kichat/internal/repository/user"
)

// UserService is the main service that composes other user-related services
type UserService struct {
	*AuthService
	*LockoutService
	*ProfileService
}

func NewUserService(auth *AuthService, lockout *LockoutService, profile *ProfileService) *UserService {
	return &UserService{
		AuthService:    auth,
		LockoutService: lockout,
		ProfileService: profile,
	}
}

// ProfileService serves the signed-in user's own settings.
type ProfileService struct {
	userRepo user.UserRepository
	logger   Logger
}

func NewProfileService(userRepo user.UserRepository, logger Logger) *ProfileService {
	return &ProfileService{userRepo: userRepo, logger: logger}
}

func (s *ProfileService) GetProfile(ctx context.Context, userID uint) (*domain.User, error) {
	u, err := s.userRepo.FindByID(ctx, userID)
	if errors.Is(err, user.ErrUserNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

func (s *ProfileService) GetTheme(ctx context.Context, userID uint) (domain.Theme, error) {
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return "", err
	}
	if _, ok := domain.ParseTheme(string(u.Theme)); !ok {
		return domain.DefaultTheme, nil
	}
	return u.Theme, nil
}

func (s *ProfileService) SetTheme(ctx context.Context, userID uint, theme string) (domain.Theme, error) {
	parsed, ok := domain.ParseTheme(theme)
	if !ok {
		return "", ErrInvalidTheme
	}
	if err := s.userRepo.UpdateTheme(ctx, userID, parsed); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return "", ErrUserNotFound
		}
		s.logger.Error("failed to update theme", "error", err, "user_id", userID)
		return "", err
	}
	s.logger.Info("theme updated", "user_id", userID, "theme", string(parsed))
	return parsed, nil
}
