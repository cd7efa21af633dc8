// File: internal/repository/chat/chat_repository.go
package chat

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/moddin/kichat/internal/domain"
)

var ErrChatNotFound = errors.New("chat not found")

type gormChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &gormChatRepository{db: db}
}

func (r *gormChatRepository) CreateCounted(ctx context.Context, userID uint, build func(count int64) (*domain.Chat, error)) (*domain.Chat, error) {
	if userID == 0 {
		return nil, errors.New("invalid user ID")
	}

	var created *domain.Chat
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.Chat{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
			return fmt.Errorf("database error counting chats: %w", err)
		}

		chat, err := build(count)
		if err != nil {
			return err
		}
		chat.UserID = userID
		if err := validateChatInput(chat); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}

		if err := tx.Create(chat).Error; err != nil {
			return fmt.Errorf("database error creating chat: %w", err)
		}
		created = chat
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// FindByIDAndUserID is the ownership-checked fetch every user-scoped operation goes through.
func (r *gormChatRepository) FindByIDAndUserID(ctx context.Context, chatID, userID uint) (*domain.Chat, error) {
	if chatID == 0 || userID == 0 {
		return nil, ErrChatNotFound
	}

	var chat domain.Chat
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", chatID, userID).First(&chat).Error
	return handleFindError(err, &chat)
}

func (r *gormChatRepository) FindByID(ctx context.Context, chatID uint) (*domain.Chat, error) {
	if chatID == 0 {
		return nil, ErrChatNotFound
	}

	var chat domain.Chat
	err := r.db.WithContext(ctx).First(&chat, chatID).Error
	return handleFindError(err, &chat)
}

func (r *gormChatRepository) FindByUserID(ctx context.Context, userID uint) ([]domain.Chat, error) {
	if userID == 0 {
		return nil, errors.New("invalid user ID")
	}

	var chats []domain.Chat
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&chats).Error
	if err != nil {
		return nil, fmt.Errorf("database error fetching chats: %w", err)
	}
	return chats, nil
}

func (r *gormChatRepository) FindAllWithPagination(ctx context.Context, limit, offset int) ([]domain.Chat, int64, error) {
	if limit <= 0 || limit > 1000 {
		return nil, 0, errors.New("invalid limit: must be between 1 and 1000")
	}
	if offset < 0 {
		return nil, 0, errors.New("invalid offset: must be >= 0")
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Chat{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("database error counting chats: %w", err)
	}

	var chats []domain.Chat
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&chats).Error
	if err != nil {
		return nil, 0, fmt.Errorf("database error retrieving paginated chats: %w", err)
	}
	return chats, total, nil
}

func (r *gormChatRepository) UpdateTitle(ctx context.Context, chatID, userID uint, title string) (*domain.Chat, error) {
	chat, err := r.FindByIDAndUserID(ctx, chatID, userID)
	if err != nil {
		return nil, err
	}

	chat.Title = title
	if err := validateChatInput(chat); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	result := r.db.WithContext(ctx).
		Model(chat).
		Where("user_id = ?", userID).
		Update("title", title)
	if result.Error != nil {
		return nil, fmt.Errorf("database error renaming chat: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrChatNotFound
	}
	return chat, nil
}

// Delete removes the chat and its messages. The user_id filter keeps users inside their own chats.
func (r *gormChatRepository) Delete(ctx context.Context, chatID, userID uint) error {
	if chatID == 0 || userID == 0 {
		return ErrChatNotFound
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var chat domain.Chat
		if err := tx.Where("id = ? AND user_id = ?", chatID, userID).First(&chat).Error; err != nil {
			_, err = handleFindError(err, &chat)
			return err
		}
		return deleteChatCascade(tx, chat.ID)
	})
}

func (r *gormChatRepository) DeleteByID(ctx context.Context, chatID uint) error {
	if chatID == 0 {
		return ErrChatNotFound
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var chat domain.Chat
		if err := tx.First(&chat, chatID).Error; err != nil {
			_, err = handleFindError(err, &chat)
			return err
		}
		return deleteChatCascade(tx, chat.ID)
	})
}

func (r *gormChatRepository) DeleteAllByUserID(ctx context.Context, userID uint) (int64, error) {
	if userID == 0 {
		return 0, errors.New("invalid user ID")
	}

	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		chatIDs := tx.Model(&domain.Chat{}).Select("id").Where("user_id = ?", userID)
		if err := tx.Where("chat_id IN (?)", chatIDs).Delete(&domain.Message{}).Error; err != nil {
			return fmt.Errorf("database error deleting messages: %w", err)
		}
		result := tx.Where("user_id = ?", userID).Delete(&domain.Chat{})
		if result.Error != nil {
			return fmt.Errorf("database error deleting chats: %w", result.Error)
		}
		deleted = result.RowsAffected
		return nil
	})
	return deleted, err
}

func (r *gormChatRepository) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	if userID == 0 {
		return 0, errors.New("invalid user ID")
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Chat{}).Where("user_id = ?", userID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("database error counting user chats: %w", err)
	}
	return count, nil
}

func (r *gormChatRepository) CountTotalChats(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Chat{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("database error counting total chats: %w", err)
	}
	return count, nil
}

// ===== HELPERS =====

// deleteChatCascade deletes messages first so it also works where SQLite foreign keys are off.
func deleteChatCascade(tx *gorm.DB, chatID uint) error {
	if err := tx.Where("chat_id = ?", chatID).Delete(&domain.Message{}).Error; err != nil {
		return fmt.Errorf("database error deleting messages: %w", err)
	}
	if err := tx.Delete(&domain.Chat{}, chatID).Error; err != nil {
		return fmt.Errorf("database error deleting chat: %w", err)
	}
	return nil
}

func validateChatInput(chat *domain.Chat) error {
	if chat == nil {
		return errors.New("chat cannot be nil")
	}
	if chat.UserID == 0 {
		return errors.New("user ID is required")
	}
	if chat.Title == "" {
		return errors.New("title is required")
	}
	return nil
}

func handleFindError(err error, chat *domain.Chat) (*domain.Chat, error) {
	if err == nil {
		return chat, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrChatNotFound
	}
	return nil, fmt.Errorf("database query failed: %w", err)
}
