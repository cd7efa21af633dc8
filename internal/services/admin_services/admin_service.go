// File: internal/services/admin_services/admin_service.go
package admin_services

import (
	"context"
	"errors"
	"fmt"

	"github.com/moddin/kichat/internal/domain"
	"github.com/moddin/kichat/internal/repository/chat"
	"github.com/moddin/kichat/internal/repository/message"
	"github.com/moddin/kichat/internal/repository/user"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrCannotDemoteSelf = errors.New("admins cannot remove their own admin flag")
)

// Logger defines the logging interface used by the admin service
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// AdminService provides functionalities for administrative tasks.
type AdminService struct {
	userRepo    user.UserRepository
	chatRepo    chat.ChatRepository
	messageRepo message.MessageRepository
	logger      Logger
}

func NewAdminService(userRepo user.UserRepository, chatRepo chat.ChatRepository, messageRepo message.MessageRepository, logger Logger) *AdminService {
	return &AdminService{
		userRepo:    userRepo,
		chatRepo:    chatRepo,
		messageRepo: messageRepo,
		logger:      logger,
	}
}

// Stats is the dashboard summary.
type Stats struct {
	Users    int64 `json:"users"`
	Chats    int64 `json:"chats"`
	Messages int64 `json:"messages"`
}

// UserPage is one page of the user list.
type UserPage struct {
	Users []domain.User `json:"users"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

// GetAllUsers retrieves a list of all users in the system.
func (s *AdminService) GetAllUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get all users: %w", err)
	}
	return users, nil
}

func (s *AdminService) ListUsers(ctx context.Context, page, limit int, search string) (*UserPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	users, total, err := s.userRepo.FindAllWithPaginationAndSearch(ctx, page, limit, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return &UserPage{Users: users, Total: total, Page: page, Limit: limit}, nil
}

// SetAdmin grants or revokes the admin flag. An admin cannot revoke their own.
func (s *AdminService) SetAdmin(ctx context.Context, actingUserID, targetUserID uint, isAdmin bool) error {
	if actingUserID == targetUserID && !isAdmin {
		return ErrCannotDemoteSelf
	}
	if err := s.userRepo.SetAdmin(ctx, targetUserID, isAdmin); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update admin flag: %w", err)
	}
	s.logger.Info("admin flag changed", "by_user_id", actingUserID, "user_id", targetUserID, "is_admin", isAdmin)
	return nil
}

// ListChats returns chats of one user, or a page of all chats when userID is 0.
func (s *AdminService) ListChats(ctx context.Context, userID uint, limit, offset int) ([]domain.Chat, int64, error) {
	if userID != 0 {
		chats, err := s.chatRepo.FindByUserID(ctx, userID)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to list chats: %w", err)
		}
		return chats, int64(len(chats)), nil
	}
	if limit < 1 || limit > 1000 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	chats, total, err := s.chatRepo.FindAllWithPagination(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list chats: %w", err)
	}
	return chats, total, nil
}

func (s *AdminService) DeleteChat(ctx context.Context, chatID uint) error {
	if err := s.chatRepo.DeleteByID(ctx, chatID); err != nil {
		if errors.Is(err, chat.ErrChatNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete chat: %w", err)
	}
	s.logger.Info("chat deleted by admin", "chat_id", chatID)
	return nil
}

func (s *AdminService) ListChatMessages(ctx context.Context, chatID uint) ([]domain.Message, error) {
	if _, err := s.chatRepo.FindByID(ctx, chatID); err != nil {
		if errors.Is(err, chat.ErrChatNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load chat: %w", err)
	}
	msgs, err := s.messageRepo.FindByChatID(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return msgs, nil
}

func (s *AdminService) DeleteMessage(ctx context.Context, messageID uint) error {
	if err := s.messageRepo.Delete(ctx, messageID); err != nil {
		if errors.Is(err, message.ErrMessageNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete message: %w", err)
	}
	s.logger.Info("message deleted by admin", "message_id", messageID)
	return nil
}

// ListLogins returns the newest logins first; userID 0 means every user.
func (s *AdminService) ListLogins(ctx context.Context, userID uint, limit int) ([]domain.LoginHistory, error) {
	entries, err := s.userRepo.FindLogins(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list logins: %w", err)
	}
	return entries, nil
}

func (s *AdminService) GetStats(ctx context.Context) (*Stats, error) {
	users, err := s.userRepo.CountUsers(ctx)
	if err != nil {
		return nil, err
	}
	chats, err := s.chatRepo.CountTotalChats(ctx)
	if err != nil {
		return nil, err
	}
	messages, err := s.messageRepo.CountTotalMessages(ctx)
	if err != nil {
		return nil, err
	}
	return &Stats{Users: users, Chats: chats, Messages: messages}, nil
}
