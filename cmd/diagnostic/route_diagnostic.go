// File: cmd/diagnostic/route_diagnostic.go
package main

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/moddin/kichat/internal/config"
	"github.com/moddin/kichat/internal/services/chat"
)

func newRouteCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "route [text]",
		Short: "Print which model a message would be routed to",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			text := strings.Join(args, " ")
			route := chat.NewRouter(&cfg.Chat).Choose(text)
			fmt.Printf("length=%d threshold=%d\n", utf8.RuneCountInString(text), cfg.Chat.LengthThreshold)
			fmt.Printf("model=%s deep_think=%t\n", route.Model, route.DeepThink)
		},
	}
}
