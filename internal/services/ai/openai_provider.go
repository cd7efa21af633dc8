// File: internal/services/ai/openai_provider.go
package ai

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider serves any OpenAI-compatible chat completion endpoint
// (vLLM, LM Studio, or Ollama's own /v1 surface).
type OpenAIProvider struct {
	config *Config
	client *openai.Client
}

func NewOpenAIProvider(config *Config) *OpenAIProvider {
	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	return &OpenAIProvider{
		config: config,
		client: openai.NewClientWithConfig(clientConfig),
	}
}

func (p *OpenAIProvider) Name() string { return ProviderOpenAI }

func (p *OpenAIProvider) Chat(ctx context.Context, model string, turns []Turn) (string, error) {
	messages := make([]openai.ChatCompletionMessage, len(turns))
	for i, t := range turns {
		messages[i] = openai.ChatCompletionMessage{Role: string(t.Role), Content: t.Content}
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: p.config.Temperature,
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		aiErr := NewProviderError("completion", "failed to create completion", err)
		aiErr.Model = model
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			aiErr.Code = apiErr.HTTPStatusCode
		}
		return "", aiErr
	}

	if len(resp.Choices) == 0 {
		return "", &AIError{
			Type:      ErrTypeProvider,
			Operation: "completion",
			Message:   "no choices in completion response",
			Model:     model,
		}
	}
	return resp.Choices[0].Message.Content, nil
}

func (p *OpenAIProvider) HealthCheck(ctx context.Context) error {
	if _, err := p.client.ListModels(ctx); err != nil {
		return NewProviderError("health", "model listing failed", err)
	}
	return nil
}
