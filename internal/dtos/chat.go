// File: internal/dtos/chat.go
package dtos

import (
	"time"

	"github.com/moddin/kichat/internal/domain"
)

type ChatResponseDTO struct {
	ID        uint   `json:"id"`
	UserID    uint   `json:"user_id"`
	Title     string `json:"title"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// MessageResponseDTO is one message. HTML is set for assistant messages only.
type MessageResponseDTO struct {
	ID        uint   `json:"id"`
	ChatID    uint   `json:"chat_id"`
	Role      string `json:"role"`
	UserID    *uint  `json:"user_id,omitempty"`
	Content   string `json:"content"`
	HTML      string `json:"html,omitempty"`
	CreatedAt string `json:"created_at"`
}

type RenameChatRequestDTO struct {
	Title string `json:"title"`
}

type PostMessageRequestDTO struct {
	Content string `json:"content"`
}

type PostMessageResponseDTO struct {
	UserMessage MessageResponseDTO `json:"user_message"`
	BotMessage  MessageResponseDTO `json:"bot_message"`
	Reasoning   string             `json:"reasoning,omitempty"`
	Model       string             `json:"model"`
	DurationMs  int64              `json:"duration_ms"`
}

// HTMLRenderer turns Markdown into HTML.
type HTMLRenderer interface {
	ToHTML(source string) string
}

func ToChatResponse(c *domain.Chat) ChatResponseDTO {
	return ChatResponseDTO{
		ID:        c.ID,
		UserID:    c.UserID,
		Title:     c.Title,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
		UpdatedAt: c.UpdatedAt.Format(time.RFC3339),
	}
}

func ToChatResponses(chats []domain.Chat) []ChatResponseDTO {
	out := make([]ChatResponseDTO, len(chats))
	for i := range chats {
		out[i] = ToChatResponse(&chats[i])
	}
	return out
}

func ToMessageResponse(m *domain.Message, renderer HTMLRenderer) MessageResponseDTO {
	dto := MessageResponseDTO{
		ID:        m.ID,
		ChatID:    m.ChatID,
		Role:      string(m.Author.Kind),
		UserID:    m.Author.UserID,
		Content:   m.Content,
		CreatedAt: m.CreatedAt.Format(time.RFC3339Nano),
	}
	if m.Author.IsAssistant() && renderer != nil {
		dto.HTML = renderer.ToHTML(m.Content)
	}
	return dto
}

func ToMessageResponses(msgs []domain.Message, renderer HTMLRenderer) []MessageResponseDTO {
	out := make([]MessageResponseDTO, len(msgs))
	for i := range msgs {
		out[i] = ToMessageResponse(&msgs[i], renderer)
	}
	return out
}
