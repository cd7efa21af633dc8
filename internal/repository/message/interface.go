// File: internal/repository/message/interface.go
package message

import (
	"context"

	"github.com/moddin/kichat/internal/domain"
)

// MessageRepository handles message data operations. There is no Update: messages are immutable.
type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) (*domain.Message, error)
	FindByChatID(ctx context.Context, chatID uint) ([]domain.Message, error)
	FindByID(ctx context.Context, messageID uint) (*domain.Message, error)
	Delete(ctx context.Context, messageID uint) error
	CountByChatID(ctx context.Context, chatID uint) (int64, error)
	CountTotalMessages(ctx context.Context) (int64, error)
}
