// File: internal/services/chat/store.go
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/moddin/kichat/internal/domain"
	"github.com/moddin/kichat/internal/metrics"
	chatrepo "github.com/moddin/kichat/internal/repository/chat"
	messagerepo "github.com/moddin/kichat/internal/repository/message"
)

// Store owns chats and messages. It enforces ownership, the chat quota and title rules,
// and translates repository errors into ChatError kinds.
type Store struct {
	chatRepo    chatrepo.ChatRepository
	messageRepo messagerepo.MessageRepository
	config      *Config
	logger      Logger
	locks       *userLocks
}

func NewStore(chatRepo chatrepo.ChatRepository, messageRepo messagerepo.MessageRepository, config *Config, logger Logger) *Store {
	if config == nil {
		config = DefaultConfig()
	}
	return &Store{
		chatRepo:    chatRepo,
		messageRepo: messageRepo,
		config:      config,
		logger:      logger,
		locks:       newUserLocks(),
	}
}

func (s *Store) CreateChat(ctx context.Context, userID uint) (*domain.Chat, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	created, err := s.chatRepo.CreateCounted(ctx, userID, func(count int64) (*domain.Chat, error) {
		if count >= int64(s.config.MaxChatsPerUser) {
			return nil, NewQuotaError(userID, s.config.MaxChatsPerUser)
		}
		return &domain.Chat{
			UserID: userID,
			Title:  fmt.Sprintf("%s %d", s.config.TitlePrefix, count+1),
		}, nil
	})
	if err != nil {
		if IsQuota(err) {
			s.logger.Info("chat quota reached", "user_id", userID, "limit", s.config.MaxChatsPerUser)
			return nil, err
		}
		return nil, s.translate("create_chat", userID, 0, err)
	}

	metrics.ChatsCreated.Inc()
	s.logger.Info("chat created", "user_id", userID, "chat_id", created.ID)
	return created, nil
}

func (s *Store) ListChats(ctx context.Context, userID uint) ([]domain.Chat, error) {
	chats, err := s.chatRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, s.translate("list_chats", userID, 0, err)
	}
	return chats, nil
}

func (s *Store) RenameChat(ctx context.Context, chatID, userID uint, title string) (*domain.Chat, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, NewValidationError("rename_chat", "title must not be empty")
	}
	if utf8.RuneCountInString(title) > domain.MaxChatTitleLength {
		return nil, NewValidationError("rename_chat",
			fmt.Sprintf("title must be at most %d characters", domain.MaxChatTitleLength))
	}

	updated, err := s.chatRepo.UpdateTitle(ctx, chatID, userID, title)
	if err != nil {
		return nil, s.translate("rename_chat", userID, chatID, err)
	}
	return updated, nil
}

func (s *Store) DeleteChat(ctx context.Context, chatID, userID uint) error {
	if err := s.chatRepo.Delete(ctx, chatID, userID); err != nil {
		return s.translate("delete_chat", userID, chatID, err)
	}
	s.logger.Info("chat deleted", "user_id", userID, "chat_id", chatID)
	return nil
}

// GetChat returns the chat only if userID owns it.
func (s *Store) GetChat(ctx context.Context, chatID, userID uint) (*domain.Chat, error) {
	c, err := s.chatRepo.FindByIDAndUserID(ctx, chatID, userID)
	if err != nil {
		return nil, s.translate("get_chat", userID, chatID, err)
	}
	return c, nil
}

func (s *Store) AppendMessage(ctx context.Context, chatID uint, author domain.Author, content string) (*domain.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, NewValidationError("append_message", "message content must not be empty")
	}

	msg, err := s.messageRepo.Create(ctx, &domain.Message{
		ChatID:  chatID,
		Author:  author,
		Content: content,
	})
	if err != nil {
		return nil, s.translate("append_message", 0, chatID, err)
	}
	return msg, nil
}

// ListMessages returns the full history of a chat, oldest first.
func (s *Store) ListMessages(ctx context.Context, chatID uint) ([]domain.Message, error) {
	msgs, err := s.messageRepo.FindByChatID(ctx, chatID)
	if err != nil {
		return nil, s.translate("list_messages", 0, chatID, err)
	}
	return msgs, nil
}

func (s *Store) ListChatMessages(ctx context.Context, chatID, userID uint) ([]domain.Message, error) {
	if _, err := s.GetChat(ctx, chatID, userID); err != nil {
		return nil, err
	}
	return s.ListMessages(ctx, chatID)
}

// ClearChats deletes every chat of the user and returns how many were removed.
func (s *Store) ClearChats(ctx context.Context, userID uint) (int64, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	n, err := s.chatRepo.DeleteAllByUserID(ctx, userID)
	if err != nil {
		return 0, s.translate("clear_chats", userID, 0, err)
	}
	s.logger.Info("chats cleared", "user_id", userID, "count", n)
	return n, nil
}

func (s *Store) translate(operation string, userID, chatID uint, err error) error {
	var ce *ChatError
	if errors.As(err, &ce) {
		return err
	}
	if errors.Is(err, chatrepo.ErrChatNotFound) {
		return NewNotFoundError(operation, userID, chatID)
	}
	if errors.Is(err, messagerepo.ErrMessageNotFound) {
		return &ChatError{Type: ErrTypeNotFound, Operation: operation, Message: "message not found", ChatID: chatID}
	}
	s.logger.Error("storage failure",
		"operation", operation,
		"user_id", userID,
		"chat_id", chatID,
		"error", err)
	storageErr := NewStorageError(operation, err)
	storageErr.UserID = userID
	storageErr.ChatID = chatID
	return storageErr
}

// userLocks serializes quota-sensitive writes per user within this process.
type userLocks struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[uint]*sync.Mutex)}
}

func (l *userLocks) lock(userID uint) (unlock func()) {
	l.mu.Lock()
	m, ok := l.locks[userID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[userID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
