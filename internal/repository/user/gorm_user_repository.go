// File: internal/repository/user/gorm_user_repository.go
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/moddin/kichat/internal/domain"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already exists")
)

const maxLoginHistoryLimit = 500

type gormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

func (r *gormUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, errors.New("user cannot be nil")
	}
	if err := user.IsValid(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.User{}).Where("username = ?", user.Username).Count(&count).Error; err != nil {
			return fmt.Errorf("database error checking username: %w", err)
		}
		if count > 0 {
			return ErrUsernameTaken
		}
		if err := tx.Create(user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrUsernameTaken
			}
			return fmt.Errorf("database error creating user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *gormUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	if id == 0 {
		return nil, ErrUserNotFound
	}

	var user domain.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	return handleFindError(err, &user)
}

func (r *gormUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	if username == "" {
		return nil, ErrUserNotFound
	}

	var user domain.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	return handleFindError(err, &user)
}

func (r *gormUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).Where("username = ?", username).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("database error checking username: %w", err)
	}
	return count > 0, nil
}

func (r *gormUserRepository) Update(ctx context.Context, user *domain.User) error {
	if user == nil || user.ID == 0 {
		return errors.New("invalid user ID")
	}
	if err := user.IsValid(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("database error updating user: %w", err)
	}
	return nil
}

func (r *gormUserRepository) UpdateTheme(ctx context.Context, userID uint, theme domain.Theme) error {
	if _, ok := domain.ParseTheme(string(theme)); !ok {
		return fmt.Errorf("validation failed: unknown theme %q", theme)
	}
	return r.updateColumn(ctx, userID, "theme", theme)
}

func (r *gormUserRepository) SetAdmin(ctx context.Context, userID uint, isAdmin bool) error {
	return r.updateColumn(ctx, userID, "is_admin", isAdmin)
}

func (r *gormUserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := r.db.WithContext(ctx).Order("id asc").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("database error retrieving users: %w", err)
	}
	return users, nil
}

// FindAllWithPaginationAndSearch pages through users, optionally filtered by a username substring.
func (r *gormUserRepository) FindAllWithPaginationAndSearch(ctx context.Context, page, limit int, search string) ([]domain.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 1000 {
		return nil, 0, errors.New("invalid limit: must be between 1 and 1000")
	}

	query := r.db.WithContext(ctx).Model(&domain.User{})
	if search = strings.TrimSpace(search); search != "" {
		query = query.Where("LOWER(username) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("database error counting users: %w", err)
	}

	var users []domain.User
	offset := (page - 1) * limit
	if err := query.Order("id asc").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("database error retrieving paginated users: %w", err)
	}
	return users, total, nil
}

func (r *gormUserRepository) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.User{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("database error counting users: %w", err)
	}
	return count, nil
}

func (r *gormUserRepository) RecordLogin(ctx context.Context, entry *domain.LoginHistory) error {
	if entry == nil || entry.UserID == 0 {
		return errors.New("login entry needs a user ID")
	}
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("database error recording login: %w", err)
	}
	return nil
}

// FindLogins returns the newest logins first. userID 0 means all users.
func (r *gormUserRepository) FindLogins(ctx context.Context, userID uint, limit int) ([]domain.LoginHistory, error) {
	if limit <= 0 || limit > maxLoginHistoryLimit {
		limit = maxLoginHistoryLimit
	}

	query := r.db.WithContext(ctx).Model(&domain.LoginHistory{})
	if userID != 0 {
		query = query.Where("user_id = ?", userID)
	}

	var entries []domain.LoginHistory
	if err := query.Order("login_time DESC, id DESC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("database error retrieving login history: %w", err)
	}
	return entries, nil
}

// ===== HELPERS =====

func (r *gormUserRepository) updateColumn(ctx context.Context, userID uint, column string, value interface{}) error {
	if userID == 0 {
		return ErrUserNotFound
	}

	result := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", userID).Update(column, value)
	if result.Error != nil {
		return fmt.Errorf("database error updating %s: %w", column, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func handleFindError(err error, user *domain.User) (*domain.User, error) {
	if err == nil {
		return user, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	return nil, fmt.Errorf("database query failed: %w", err)
}
