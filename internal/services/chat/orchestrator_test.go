package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moddin/kichat/internal/domain"
	"github.com/moddin/kichat/internal/services/ai"
)

type fakeGateway struct {
	reply *ai.Reply
	err   error
	calls []ai.Request
}

func (f *fakeGateway) Complete(_ context.Context, req ai.Request) (*ai.Reply, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return nil, f.err
	}
	r := *f.reply
	r.Model = req.Model
	return &r, nil
}

func newTestOrchestrator(t *testing.T, gw InferenceGateway) (*Orchestrator, *Store) {
	t.Helper()
	store, _ := newTestStore(t)
	cfg := DefaultConfig()
	cfg.SystemPrompt = "system prompt"
	return NewOrchestrator(store, NewRouter(cfg), gw, cfg, nopLogger{}), store
}

func TestOrchestrator_PostMessageRoundTrip(t *testing.T) {
	gw := &fakeGateway{reply: &ai.Reply{Content: "Hallo! Wie kann ich helfen?", Duration: time.Millisecond}}
	orch, store := newTestOrchestrator(t, gw)
	ctx := context.Background()
	c, err := store.CreateChat(ctx, 1)
	require.NoError(t, err)

	result, err := orch.PostMessage(ctx, 1, c.ID, "Hallo")
	require.NoError(t, err)

	assert.Equal(t, "Hallo", result.UserMessage.Content)
	assert.True(t, result.UserMessage.Author.IsUser(1))
	assert.Equal(t, "Hallo! Wie kann ich helfen?", result.AssistantMessage.Content)
	assert.True(t, result.AssistantMessage.Author.IsAssistant())
	assert.Equal(t, "llama3.1:8b", result.Model)
	assert.Empty(t, result.Reasoning)

	require.Len(t, gw.calls, 1)
	call := gw.calls[0]
	assert.Equal(t, "system prompt", call.SystemPrompt)
	assert.False(t, call.DeepThink)
	assert.Equal(t, []ai.Turn{{Role: ai.RoleUser, Content: "Hallo"}}, call.History)

	msgs, err := store.ListMessages(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, result.UserMessage.ID, msgs[0].ID)
	assert.Equal(t, result.AssistantMessage.ID, msgs[1].ID)
}

func TestOrchestrator_InferenceFailureKeepsUserMessage(t *testing.T) {
	gw := &fakeGateway{err: &ai.InferenceError{Kind: ai.CauseTimeout, Model: "llama3.1:8b", Cause: context.DeadlineExceeded}}
	orch, store := newTestOrchestrator(t, gw)
	ctx := context.Background()
	c, err := store.CreateChat(ctx, 1)
	require.NoError(t, err)

	result, err := orch.PostMessage(ctx, 1, c.ID, "Hallo")
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, IsInference(err))
	assert.True(t, ai.IsInferenceFailure(err))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))

	msgs, err := store.ListMessages(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Hallo", msgs[0].Content)
	assert.True(t, msgs[0].Author.IsUser(1))
}

func TestOrchestrator_RejectsBeforePersisting(t *testing.T) {
	gw := &fakeGateway{reply: &ai.Reply{Content: "nope"}}
	orch, store := newTestOrchestrator(t, gw)
	ctx := context.Background()
	c, err := store.CreateChat(ctx, 1)
	require.NoError(t, err)

	_, err = orch.PostMessage(ctx, 2, c.ID, "not my chat")
	assert.True(t, IsNotFound(err))

	_, err = orch.PostMessage(ctx, 1, c.ID, "   ")
	assert.True(t, IsValidation(err))

	msgs, err := store.ListMessages(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, msgs)
	assert.Empty(t, gw.calls)
}

func TestOrchestrator_ReplaysHistoryWithRoles(t *testing.T) {
	gw := &fakeGateway{reply: &ai.Reply{Content: "weil Rayleigh-Streuung", Reasoning: "kurz nachdenken"}}
	orch, store := newTestOrchestrator(t, gw)
	ctx := context.Background()
	c, err := store.CreateChat(ctx, 1)
	require.NoError(t, err)

	_, err = store.AppendMessage(ctx, c.ID, domain.UserAuthor(1), "hi")
	require.NoError(t, err)
	_, err = store.AppendMessage(ctx, c.ID, domain.AssistantAuthor(), "Hallo!")
	require.NoError(t, err)

	result, err := orch.PostMessage(ctx, 1, c.ID, "warum ist der Himmel blau?")
	require.NoError(t, err)
	assert.Equal(t, "deepseek-r1:8b", result.Model)
	assert.Equal(t, "kurz nachdenken", result.Reasoning)

	require.Len(t, gw.calls, 1)
	assert.True(t, gw.calls[0].DeepThink)
	assert.Equal(t, []ai.Turn{
		{Role: ai.RoleUser, Content: "hi"},
		{Role: ai.RoleAssistant, Content: "Hallo!"},
		{Role: ai.RoleUser, Content: "warum ist der Himmel blau?"},
	}, gw.calls[0].History)
}

func TestToTurns_OtherAuthorsAreAssistant(t *testing.T) {
	history := []domain.Message{
		{Author: domain.UserAuthor(1), Content: "a"},
		{Author: domain.UserAuthor(2), Content: "b"},
		{Author: domain.AssistantAuthor(), Content: "c"},
	}
	turns := toTurns(history, 1)
	assert.Equal(t, ai.RoleUser, turns[0].Role)
	assert.Equal(t, ai.RoleAssistant, turns[1].Role)
	assert.Equal(t, ai.RoleAssistant, turns[2].Role)
}
