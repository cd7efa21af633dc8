// File: internal/domain/message.go
package domain

import "time"

// AuthorKind tells who wrote a message.
type AuthorKind string

const (
	AuthorUser      AuthorKind = "user"
	AuthorAssistant AuthorKind = "assistant"
)

// Author is either a real user or the assistant. UserID is nil for the assistant.
type Author struct {
	Kind   AuthorKind `json:"kind" gorm:"size:16;not null"`
	UserID *uint      `json:"user_id,omitempty"`
}

func UserAuthor(userID uint) Author {
	id := userID
	return Author{Kind: AuthorUser, UserID: &id}
}

func AssistantAuthor() Author {
	return Author{Kind: AuthorAssistant}
}

// IsUser reports whether the message was written by the given user.
func (a Author) IsUser(userID uint) bool {
	return a.Kind == AuthorUser && a.UserID != nil && *a.UserID == userID
}

func (a Author) IsAssistant() bool {
	return a.Kind == AuthorAssistant
}

// Message represents a single message within a chat. Messages are never updated.
type Message struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	ChatID    uint      `json:"chat_id" gorm:"not null;index"`
	Author    Author    `json:"author" gorm:"embedded;embeddedPrefix:author_"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}
