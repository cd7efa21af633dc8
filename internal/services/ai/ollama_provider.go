// File: internal/services/ai/ollama_provider.go
package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

// OllamaProvider talks to a local Ollama server through its native /api/chat endpoint.
type OllamaProvider struct {
	config *Config
	client *api.Client
}

func NewOllamaProvider(config *Config) (*OllamaProvider, error) {
	base, err := url.Parse(strings.TrimSuffix(config.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, NewConfigError(fmt.Sprintf("invalid Ollama base URL %q", config.BaseURL))
	}
	// No client-level timeout: the Gateway bounds each call through its context.
	return &OllamaProvider{
		config: config,
		client: api.NewClient(base, &http.Client{}),
	}, nil
}

func (p *OllamaProvider) Name() string { return ProviderOllama }

func (p *OllamaProvider) Chat(ctx context.Context, model string, turns []Turn) (string, error) {
	messages := make([]api.Message, len(turns))
	for i, t := range turns {
		messages[i] = api.Message{Role: string(t.Role), Content: t.Content}
	}

	stream := false
	req := &api.ChatRequest{
		Model:    model,
		Messages: messages,
		Stream:   &stream,
		Options: map[string]interface{}{
			"temperature": p.config.Temperature,
		},
	}

	var reply strings.Builder
	err := p.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		reply.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		aiErr := NewProviderError("chat", "ollama chat request failed", err)
		aiErr.Model = model
		var statusErr api.StatusError
		if errors.As(err, &statusErr) {
			aiErr.Code = statusErr.StatusCode
			if statusErr.StatusCode == http.StatusNotFound {
				aiErr.Type = ErrTypeModel
			}
		} else {
			aiErr.Type = ErrTypeNetwork
		}
		return "", aiErr
	}
	return reply.String(), nil
}

func (p *OllamaProvider) HealthCheck(ctx context.Context) error {
	if err := p.client.Heartbeat(ctx); err != nil {
		return &AIError{Type: ErrTypeNetwork, Operation: "health", Message: "ollama server unreachable", Cause: err}
	}
	return nil
}

// ListModels returns the names of locally installed models.
func (p *OllamaProvider) ListModels(ctx context.Context) ([]string, error) {
	resp, err := p.client.List(ctx)
	if err != nil {
		return nil, NewProviderError("list", "failed to list ollama models", err)
	}
	names := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		names = append(names, m.Name)
	}
	return names, nil
}
