// File: internal/domain/chat.go
package domain

import "time"

const (
	// MaxChatsPerUser is the quota of concurrently owned chats.
	MaxChatsPerUser = 20
	// MaxChatTitleLength is counted in characters, not bytes.
	MaxChatTitleLength = 150
)

// Chat represents a single conversation thread.
type Chat struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"` // The ID of the user who owns the chat
	Title     string    `json:"title" gorm:"size:150;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`

	Messages []Message `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}
