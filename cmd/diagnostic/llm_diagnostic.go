// File: cmd/diagnostic/llm_diagnostic.go
package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/moddin/kichat/internal/config"
	"github.com/moddin/kichat/internal/services"
	"github.com/moddin/kichat/internal/services/ai"
	"github.com/moddin/kichat/internal/services/chat"
)

func newLLMCmd(cfg *config.Config) *cobra.Command {
	var opts struct {
		Prompt     string
		Model      string
		ListModels bool
	}

	cmd := &cobra.Command{
		Use:   "llm",
		Short: "Send a probe prompt through the router and the inference gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			provider, err := ai.NewProvider(&cfg.AI)
			if err != nil {
				return err
			}
			fmt.Printf("Provider: %s (%s)\n", provider.Name(), cfg.AI.BaseURL)

			if err := provider.HealthCheck(ctx); err != nil {
				return fmt.Errorf("backend not reachable: %w", err)
			}
			fmt.Println("Backend reachable")

			if opts.ListModels {
				lister, ok := provider.(*ai.OllamaProvider)
				if !ok {
					return fmt.Errorf("model listing is only supported for the %s provider", ai.ProviderOllama)
				}
				models, err := lister.ListModels(ctx)
				if err != nil {
					return err
				}
				for _, m := range models {
					fmt.Println("  -", m)
				}
			}

			route := chat.NewRouter(&cfg.Chat).Choose(opts.Prompt)
			if opts.Model != "" {
				route.Model = opts.Model
			}
			fmt.Printf("Route: model=%s deep_think=%t\n", route.Model, route.DeepThink)

			gateway := ai.NewGateway(provider, &cfg.AI, &services.NoOpLogger{})
			reply, err := gateway.Complete(ctx, ai.Request{
				SystemPrompt: cfg.Chat.SystemPrompt,
				History:      []ai.Turn{{Role: ai.RoleUser, Content: opts.Prompt}},
				Model:        route.Model,
				DeepThink:    route.DeepThink,
			})
			if err != nil {
				return fmt.Errorf("completion failed: %w", err)
			}

			fmt.Printf("Reply after %s:\n%s\n", reply.Duration.Round(time.Millisecond), reply.Content)
			if reply.Reasoning != "" {
				fmt.Printf("\nReasoning:\n%s\n", reply.Reasoning)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Prompt, "prompt", "p", "Wer bist du?", "probe prompt")
	cmd.Flags().StringVarP(&opts.Model, "model", "m", "", "override the routed model")
	cmd.Flags().BoolVar(&opts.ListModels, "list-models", false, "list models installed on the Ollama backend")
	return cmd
}
