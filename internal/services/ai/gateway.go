// File: internal/services/ai/gateway.go
package ai

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/moddin/kichat/internal/metrics"
)

// Request is one synchronous inference call.
type Request struct {
	SystemPrompt string
	History      []Turn
	Model        string
	DeepThink    bool
}

// Reply is the typed result of a call. Reasoning is empty unless DeepThink was set.
type Reply struct {
	Content   string
	Reasoning string
	Model     string
	Duration  time.Duration
}

type Gateway struct {
	provider ChatProvider
	timeout  time.Duration
	logger   Logger
}

func NewGateway(provider ChatProvider, config *Config, logger Logger) *Gateway {
	timeout := DefaultConfig().Timeout
	if config != nil && config.Timeout > 0 {
		timeout = config.Timeout
	}
	return &Gateway{provider: provider, timeout: timeout, logger: logger}
}

// Complete sends the system prompt plus the full history and waits for the reply.
// Every failure is returned as *InferenceError.
func (g *Gateway) Complete(ctx context.Context, req Request) (*Reply, error) {
	turns := make([]Turn, 0, len(req.History)+1)
	if req.SystemPrompt != "" {
		turns = append(turns, Turn{Role: RoleSystem, Content: req.SystemPrompt})
	}
	turns = append(turns, req.History...)

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	raw, err := g.provider.Chat(callCtx, req.Model, turns)
	elapsed := time.Since(start)
	metrics.InferenceLatency.WithLabelValues(req.Model).Observe(elapsed.Seconds())

	if err != nil {
		kind := CauseProvider
		switch {
		case errors.Is(callCtx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded):
			kind = CauseTimeout
		case errors.Is(ctx.Err(), context.Canceled) || errors.Is(err, context.Canceled):
			kind = CauseCanceled
		}
		return nil, g.fail(kind, req.Model, err, elapsed)
	}

	reply := &Reply{Content: raw, Model: req.Model, Duration: elapsed}
	if req.DeepThink {
		reply.Content, reply.Reasoning = SplitReasoning(raw)
	}
	if strings.TrimSpace(reply.Content) == "" {
		return nil, g.fail(CauseEmptyReply, req.Model, nil, elapsed)
	}

	g.logger.Debug("inference completed",
		"provider", g.provider.Name(),
		"model", req.Model,
		"deep_think", req.DeepThink,
		"turns", len(turns),
		"duration_ms", elapsed.Milliseconds())
	return reply, nil
}

func (g *Gateway) HealthCheck(ctx context.Context) error {
	return g.provider.HealthCheck(ctx)
}

func (g *Gateway) fail(kind CauseKind, model string, cause error, elapsed time.Duration) error {
	metrics.InferenceFailures.WithLabelValues(model, string(kind)).Inc()
	g.logger.Error("inference failed",
		"provider", g.provider.Name(),
		"model", model,
		"cause", string(kind),
		"duration_ms", elapsed.Milliseconds(),
		"error", cause)
	return &InferenceError{Kind: kind, Model: model, Cause: cause}
}
