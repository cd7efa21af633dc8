// File: internal/services/ai/interface.go
package ai

import "context"

// Role tags one turn of a conversation for the backend.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Turn struct {
	Role    Role
	Content string
}

// ChatProvider sends a whole conversation to a backend and returns the raw reply text.
type ChatProvider interface {
	Chat(ctx context.Context, model string, turns []Turn) (string, error)
	HealthCheck(ctx context.Context) error
	Name() string
}

// Logger defines the logging interface used by the AI services
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}
