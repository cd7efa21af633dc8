package chat

import (
	"context"

	"github.com/moddin/kichat/internal/domain"
)

// ChatRepository handles chat data operations.
type ChatRepository interface {
	// CreateCounted counts the user's chats and inserts the chat built from that count
	// in a single transaction. An error from build aborts the insert and is returned as is.
	CreateCounted(ctx context.Context, userID uint, build func(count int64) (*domain.Chat, error)) (*domain.Chat, error)
	FindByIDAndUserID(ctx context.Context, chatID, userID uint) (*domain.Chat, error)
	FindByID(ctx context.Context, chatID uint) (*domain.Chat, error)
	FindByUserID(ctx context.Context, userID uint) ([]domain.Chat, error)
	FindAllWithPagination(ctx context.Context, limit, offset int) ([]domain.Chat, int64, error)
	UpdateTitle(ctx context.Context, chatID, userID uint, title string) (*domain.Chat, error)
	Delete(ctx context.Context, chatID, userID uint) error
	DeleteByID(ctx context.Context, chatID uint) error
	DeleteAllByUserID(ctx context.Context, userID uint) (int64, error)
	CountByUserID(ctx context.Context, userID uint) (int64, error)
	CountTotalChats(ctx context.Context) (int64, error)
}
