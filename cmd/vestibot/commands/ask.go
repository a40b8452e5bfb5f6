package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"vestibot/internal/components/telemetry"
	"vestibot/internal/discordbot"
	"vestibot/pkg/serviceutil"
)

func init() {
	rootCmd.AddCommand(askCmd)
}

var askCmd = &cobra.Command{
	Use:   "ask <question...>",
	Short: "Asks the chat completion model a question and prints the answer the way the bot would send it.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		client := newChatgpt(cfg, telemetry.SlogAPI{})

		answer, err := client.Answer(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			serviceutil.Fatal("failed to get an answer", err)
		}

		parts := discordbot.SplitInParts(answer, discordbot.MaxAnswerLength)
		for i, part := range parts {
			if len(parts) > 1 {
				fmt.Printf("--- %d/%d ---\n", i+1, len(parts))
			}
			fmt.Println(part)
		}
	},
}
