// File: internal/services/chat/orchestrator.go
package chat

import (
	"context"
	"strconv"

	"github.com/moddin/kichat/internal/domain"
	"github.com/moddin/kichat/internal/metrics"
	"github.com/moddin/kichat/internal/services/ai"
)

// Orchestrator runs one user turn: persist the user message, replay the history
// through the routed model, persist the reply.
type Orchestrator struct {
	store        ConversationStore
	router       ModelRouter
	gateway      InferenceGateway
	systemPrompt string
	logger       Logger
}

func NewOrchestrator(store ConversationStore, router ModelRouter, gateway InferenceGateway, config *Config, logger Logger) *Orchestrator {
	if config == nil {
		config = DefaultConfig()
	}
	return &Orchestrator{
		store:        store,
		router:       router,
		gateway:      gateway,
		systemPrompt: config.SystemPrompt,
		logger:       logger,
	}
}

// PostMessage commits the user's message before inference, so an inference failure
// still leaves it in the history. The returned error is then of kind INFERENCE.
func (o *Orchestrator) PostMessage(ctx context.Context, userID, chatID uint, content string) (*PostResult, error) {
	if _, err := o.store.GetChat(ctx, chatID, userID); err != nil {
		return nil, err
	}

	userMsg, err := o.store.AppendMessage(ctx, chatID, domain.UserAuthor(userID), content)
	if err != nil {
		return nil, err
	}

	history, err := o.store.ListMessages(ctx, chatID)
	if err != nil {
		return nil, err
	}

	route := o.router.Choose(userMsg.Content)
	metrics.RoutedMessages.WithLabelValues(route.Model, strconv.FormatBool(route.DeepThink)).Inc()

	reply, err := o.gateway.Complete(ctx, ai.Request{
		SystemPrompt: o.systemPrompt,
		History:      toTurns(history, userID),
		Model:        route.Model,
		DeepThink:    route.DeepThink,
	})
	if err != nil {
		o.logger.Warn("assistant reply failed, user message kept",
			"chat_id", chatID,
			"user_id", userID,
			"message_id", userMsg.ID,
			"model", route.Model)
		return nil, NewInferenceError(chatID, userID, err)
	}

	botMsg, err := o.store.AppendMessage(ctx, chatID, domain.AssistantAuthor(), reply.Content)
	if err != nil {
		return nil, err
	}

	o.logger.Info("message answered",
		"chat_id", chatID,
		"user_id", userID,
		"model", reply.Model,
		"deep_think", route.DeepThink,
		"history_len", len(history),
		"duration_ms", reply.Duration.Milliseconds())

	return &PostResult{
		UserMessage:      userMsg,
		AssistantMessage: botMsg,
		Reasoning:        reply.Reasoning,
		Model:            reply.Model,
		Duration:         reply.Duration,
	}, nil
}

// toTurns tags messages written by userID as user turns and everything else as assistant turns.
func toTurns(history []domain.Message, userID uint) []ai.Turn {
	turns := make([]ai.Turn, len(history))
	for i, m := range history {
		role := ai.RoleAssistant
		if m.Author.IsUser(userID) {
			role = ai.RoleUser
		}
		turns[i] = ai.Turn{Role: role, Content: m.Content}
	}
	return turns
}
