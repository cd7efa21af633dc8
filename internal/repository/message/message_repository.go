// File: internal/repository/message/message_repository.go
package message

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/moddin/kichat/internal/domain"
)

var ErrMessageNotFound = errors.New("message not found")

type gormMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &gormMessageRepository{db: db}
}

func (r *gormMessageRepository) Create(ctx context.Context, message *domain.Message) (*domain.Message, error) {
	if err := validateMessageInput(message); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return nil, fmt.Errorf("database error creating message: %w", err)
	}
	return message, nil
}

// FindByChatID returns the whole conversation in replay order.
func (r *gormMessageRepository) FindByChatID(ctx context.Context, chatID uint) ([]domain.Message, error) {
	if chatID == 0 {
		return nil, errors.New("invalid chat ID")
	}

	var messages []domain.Message
	err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("database error fetching messages: %w", err)
	}
	return messages, nil
}

func (r *gormMessageRepository) FindByID(ctx context.Context, messageID uint) (*domain.Message, error) {
	if messageID == 0 {
		return nil, ErrMessageNotFound
	}

	var message domain.Message
	err := r.db.WithContext(ctx).First(&message, messageID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMessageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	return &message, nil
}

func (r *gormMessageRepository) Delete(ctx context.Context, messageID uint) error {
	if messageID == 0 {
		return ErrMessageNotFound
	}

	result := r.db.WithContext(ctx).Delete(&domain.Message{}, messageID)
	if result.Error != nil {
		return fmt.Errorf("database error deleting message: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrMessageNotFound
	}
	return nil
}

func (r *gormMessageRepository) CountByChatID(ctx context.Context, chatID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Message{}).Where("chat_id = ?", chatID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("database error counting messages: %w", err)
	}
	return count, nil
}

func (r *gormMessageRepository) CountTotalMessages(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Message{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("database error counting total messages: %w", err)
	}
	return count, nil
}

// ===== VALIDATION HELPERS =====

func validateMessageInput(message *domain.Message) error {
	if message == nil {
		return errors.New("message cannot be nil")
	}
	if message.ChatID == 0 {
		return errors.New("chat ID is required")
	}
	if strings.TrimSpace(message.Content) == "" {
		return errors.New("message content cannot be empty")
	}

	switch message.Author.Kind {
	case domain.AuthorUser:
		if message.Author.UserID == nil || *message.Author.UserID == 0 {
			return errors.New("user-authored message needs a user ID")
		}
	case domain.AuthorAssistant:
		if message.Author.UserID != nil {
			return errors.New("assistant message cannot carry a user ID")
		}
	default:
		return fmt.Errorf("unknown author kind %q", message.Author.Kind)
	}
	return nil
}
