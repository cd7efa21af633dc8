// File: internal/services/chat/interface.go
package chat

import (
	"context"

	"github.com/moddin/kichat/internal/domain"
	"github.com/moddin/kichat/internal/services/ai"
)

// ConversationStore is the persistence surface the Orchestrator depends on.
type ConversationStore interface {
	GetChat(ctx context.Context, chatID, userID uint) (*domain.Chat, error)
	AppendMessage(ctx context.Context, chatID uint, author domain.Author, content string) (*domain.Message, error)
	ListMessages(ctx context.Context, chatID uint) ([]domain.Message, error)
}

// InferenceGateway is satisfied by *ai.Gateway.
type InferenceGateway interface {
	Complete(ctx context.Context, req ai.Request) (*ai.Reply, error)
}

// ModelRouter picks a model for a message text.
type ModelRouter interface {
	Choose(text string) Route
}
