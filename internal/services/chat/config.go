// File: internal/services/chat/config.go
package chat

import (
	"fmt"
	"strings"

	"github.com/moddin/kichat/internal/domain"
)

const DefaultSystemPrompt = `Du bist Moddins KI-Bot.

Persönlichkeit:
- Du wirkst wie ein kluger, entspannter Freund: freundlich, humorvoll, höchstens leicht sarkastisch.
- Du antwortest immer auf Deutsch, klar und verständlich.
- Präzise, aber nicht zu knapp. Keine langen Monologe.

Identität:
- Auf "Wer bist du?" antwortest du: "Ich bin Moddins KI-Bot."
- Du stellst dich nicht von selbst vor.

Stil:
- Höchstens ein bis zwei passende Emojis.
- Keine Standardfloskeln wie "Wie kann ich dir heute helfen?" und kein übermäßiges Nachfragen.
- Markdown für Listen und Code.`

var DefaultKeywords = []string{
	"warum", "wieso", "erklär", "erklärung", "analysiere", "analyse",
	"code", "python", "bug", "funktioniert nicht", "fehler",
	"mathe", "berechne", "rechnung", "algorithmus", "logik",
}

type Config struct {
	// Routing
	DefaultModel    string
	ReasoningModel  string
	LengthThreshold int // characters, strictly greater triggers reasoning
	Keywords        []string

	SystemPrompt string

	MaxChatsPerUser int
	TitlePrefix     string
}

func (c *Config) Validate() error {
	if c.DefaultModel == "" {
		return fmt.Errorf("default model is required")
	}
	if c.ReasoningModel == "" {
		return fmt.Errorf("reasoning model is required")
	}
	if c.LengthThreshold <= 0 {
		return fmt.Errorf("length threshold must be positive")
	}
	if c.MaxChatsPerUser <= 0 {
		return fmt.Errorf("max chats per user must be positive")
	}
	for _, k := range c.Keywords {
		if strings.TrimSpace(k) == "" {
			return fmt.Errorf("router keywords must not be blank")
		}
	}
	return nil
}

func DefaultConfig() *Config {
	keywords := make([]string, len(DefaultKeywords))
	copy(keywords, DefaultKeywords)
	return &Config{
		DefaultModel:    "llama3.1:8b",
		ReasoningModel:  "deepseek-r1:8b",
		LengthThreshold: 200,
		Keywords:        keywords,
		SystemPrompt:    DefaultSystemPrompt,
		MaxChatsPerUser: domain.MaxChatsPerUser,
		TitlePrefix:     "New Chat",
	}
}
