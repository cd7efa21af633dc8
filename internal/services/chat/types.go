// File: internal/services/chat/types.go
package chat

import (
	"time"

	"github.com/moddin/kichat/internal/domain"
)

// Logger defines the logging interface used across chat services
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// Route is the model choice for one message.
type Route struct {
	Model     string
	DeepThink bool
}

// PostResult is what a successful PostMessage returns.
type PostResult struct {
	UserMessage      *domain.Message
	AssistantMessage *domain.Message
	Reasoning        string
	Model            string
	Duration         time.Duration
}
