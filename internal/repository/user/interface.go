package user

import (
	"context"

	"github.com/moddin/kichat/internal/domain"
)

// UserRepository handles user data operations.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id uint) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Update(ctx context.Context, user *domain.User) error
	UpdateTheme(ctx context.Context, userID uint, theme domain.Theme) error
	SetAdmin(ctx context.Context, userID uint, isAdmin bool) error
	FindAll(ctx context.Context) ([]domain.User, error)
	FindAllWithPaginationAndSearch(ctx context.Context, page, limit int, search string) ([]domain.User, int64, error)
	CountUsers(ctx context.Context) (int64, error)

	RecordLogin(ctx context.Context, entry *domain.LoginHistory) error
	FindLogins(ctx context.Context, userID uint, limit int) ([]domain.LoginHistory, error)
}
