package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"vestibot/internal/components/telemetry"
)

var (
	configPath *string
	verbose    *bool
)

func init() {
	configPath = rootCmd.PersistentFlags().String("config", "config.json5", "The json5 configuration file, <name>.local.json5 overrides it.")
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug reports.")
}

var rootCmd = &cobra.Command{
	Use:   "vestibot",
	Short: "vestibot serves random resolved entrance exam questions and AI answers on discord.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*verbose)
	},
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
