// File: internal/services/chat_service.go
package services

import (
	"context"

	"github.com/moddin/kichat/internal/domain"
	"github.com/moddin/kichat/internal/repository/chat"
	"github.com/moddin/kichat/internal/repository/message"
	chatservice "github.com/moddin/kichat/internal/services/chat"
)

// ChatService is the single entry point the HTTP layer uses for chats and messages.
type ChatService struct {
	store        *chatservice.Store
	orchestrator *chatservice.Orchestrator
	logger       Logger
}

func NewChatService(
	chatRepo chat.ChatRepository,
	messageRepo message.MessageRepository,
	gateway chatservice.InferenceGateway,
	config *chatservice.Config,
	logger Logger,
) (*ChatService, error) {
	if chatRepo == nil {
		return nil, chatservice.NewValidationError("constructor", "chat repository is required")
	}
	if messageRepo == nil {
		return nil, chatservice.NewValidationError("constructor", "message repository is required")
	}
	if gateway == nil {
		return nil, chatservice.NewValidationError("constructor", "inference gateway is required")
	}
	if config == nil {
		config = chatservice.DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, chatservice.NewValidationError("config", err.Error())
	}
	if logger == nil {
		logger = &NoOpLogger{}
	}

	store := chatservice.NewStore(chatRepo, messageRepo, config, logger)
	orchestrator := chatservice.NewOrchestrator(store, chatservice.NewRouter(config), gateway, config, logger)

	return &ChatService{
		store:        store,
		orchestrator: orchestrator,
		logger:       logger,
	}, nil
}

func (s *ChatService) CreateChat(ctx context.Context, userID uint) (*domain.Chat, error) {
	return s.store.CreateChat(ctx, userID)
}

func (s *ChatService) GetUserChats(ctx context.Context, userID uint) ([]domain.Chat, error) {
	return s.store.ListChats(ctx, userID)
}

func (s *ChatService) RenameChat(ctx context.Context, userID, chatID uint, title string) (*domain.Chat, error) {
	return s.store.RenameChat(ctx, chatID, userID, title)
}

func (s *ChatService) DeleteChat(ctx context.Context, userID, chatID uint) error {
	return s.store.DeleteChat(ctx, chatID, userID)
}

func (s *ChatService) ClearChats(ctx context.Context, userID uint) (int64, error) {
	return s.store.ClearChats(ctx, userID)
}

func (s *ChatService) GetChatMessages(ctx context.Context, userID, chatID uint) ([]domain.Message, error) {
	return s.store.ListChatMessages(ctx, chatID, userID)
}

func (s *ChatService) PostMessage(ctx context.Context, userID, chatID uint, content string) (*chatservice.PostResult, error) {
	return s.orchestrator.PostMessage(ctx, userID, chatID, content)
}
