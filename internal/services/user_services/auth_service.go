// File: internal/services/user_services/auth_service.go
package user_services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/moddin/kichat/internal/auth"
	"github.com/moddin/kichat/internal/domain"
	"github.com/moddin/kichat/internal/metrics"
	"github.com/moddin/kichat/internal/repository/user"
)

type AuthService struct {
	userRepo      user.UserRepository
	lockout       *LockoutService
	jwtSecretKey  []byte
	adminUsername string
	logger        Logger
}

func NewAuthService(userRepo user.UserRepository, lockout *LockoutService, jwtSecretKey, adminUsername string, logger Logger) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		lockout:       lockout,
		jwtSecretKey:  []byte(jwtSecretKey),
		adminUsername: domain.NormalizeUsername(adminUsername),
		logger:        logger,
	}
}

// LoginRequest is one login attempt. ClientKey identifies the caller for lockout (usually the IP).
type LoginRequest struct {
	Username  string
	Password  string
	Remember  bool
	ClientKey string
}

// LoginResult carries the signed token and how long it is valid.
type LoginResult struct {
	User      *domain.User
	Token     string
	ExpiresIn time.Duration
	Remember  bool
}

// Register creates a user. The username is trimmed and lower-cased before the uniqueness check.
func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	username = domain.NormalizeUsername(username)
	if err := validateRegistrationInput(username, password); err != nil {
		s.logger.Warn("registration validation failed", "username", maskUsername(username), "error", err.Error())
		return nil, err
	}

	newUser := &domain.User{
		Username: username,
		Theme:    domain.DefaultTheme,
		IsAdmin:  s.adminUsername != "" && username == s.adminUsername,
	}
	if err := newUser.HashPassword(password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := s.userRepo.Create(ctx, newUser)
	if err != nil {
		if errors.Is(err, user.ErrUsernameTaken) {
			s.logger.Warn("registration failed - username already exists", "username", maskUsername(username))
			return nil, ErrUsernameTaken
		}
		s.logger.Error("user creation failed", "error", err, "username", maskUsername(username))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered successfully",
		"username", maskUsername(username),
		"user_id", created.ID,
		"is_admin", created.IsAdmin)
	return created, nil
}

// Login authenticates a user, records the login and returns a JWT.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if err := s.lockout.CheckBlocked(req.ClientKey); err != nil {
		metrics.LoginAttempts.WithLabelValues("blocked").Inc()
		return nil, err
	}

	username := domain.NormalizeUsername(req.Username)
	u, err := s.authenticate(ctx, username, req.Password)
	if err != nil {
		metrics.LoginAttempts.WithLabelValues("failed").Inc()
		if errors.Is(err, ErrInvalidCredentials) {
			if _, blocked := s.lockout.RecordFailedAttempt(req.ClientKey); blocked != nil {
				return nil, blocked
			}
		}
		return nil, err
	}
	s.lockout.ClearFailedAttempts(req.ClientKey)

	ttl := auth.SessionTTL
	if req.Remember {
		ttl = auth.RememberTTL
	}
	token, err := auth.GenerateJWT(u.ID, u.Username, u.IsAdmin, ttl, s.jwtSecretKey)
	if err != nil {
		s.logger.Error("JWT token generation failed", "error", err, "user_id", u.ID)
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	entry := &domain.LoginHistory{UserID: u.ID, Username: u.Username, LoginTime: time.Now().UTC()}
	if err := s.userRepo.RecordLogin(ctx, entry); err != nil {
		// A missing history row must not block the login.
		s.logger.Error("failed to record login history", "error", err, "user_id", u.ID)
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	s.logger.Info("login successful",
		"username", maskUsername(u.Username),
		"user_id", u.ID,
		"is_admin", u.IsAdmin,
		"remember", req.Remember)

	return &LoginResult{User: u, Token: token, ExpiresIn: ttl, Remember: req.Remember}, nil
}

// ValidateJWTToken validates a JWT token and returns the user ID
func (s *AuthService) ValidateJWTToken(tokenString string) (uint, error) {
	claims, err := auth.ValidateToken(tokenString, s.jwtSecretKey)
	if err != nil {
		s.logger.Debug("JWT token validation failed", "error", err)
		return 0, err
	}
	return claims.UserID()
}

func (s *AuthService) authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	u, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			s.logger.Warn("login failed - user not found", "username", maskUsername(username))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if err := u.ValidatePassword(password); err != nil {
		s.logger.Warn("login failed - invalid password", "username", maskUsername(username), "user_id", u.ID)
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func validateRegistrationInput(username, password string) error {
	if strings.TrimSpace(username) == "" {
		return ErrUsernameRequired
	}
	if utf8.RuneCountInString(username) > 150 {
		return ErrUsernameTooLong
	}
	if len(password) < domain.MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}
