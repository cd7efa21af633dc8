// File: cmd/diagnostic/main.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/moddin/kichat/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "kichat-diagnostic",
	Short: "Checks the model backend, the database and routing decisions",
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	rootCmd.AddCommand(newLLMCmd(cfg), newDBCmd(cfg), newRouteCmd(cfg))
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
