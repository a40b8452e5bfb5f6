package commands

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"
	"vestibot/internal/components/telemetry"
	"vestibot/internal/discordbot"
	"vestibot/pkg/serviceutil"
)

func init() {
	rootCmd.AddCommand(registerCmd)
}

var registerCmd = &cobra.Command{
	Use:   "register-commands",
	Short: "Replaces the global slash commands of the bot with one command per entrance exam.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		cfg := loadConfig()
		tel := telemetry.SlogAPI{}

		catalog := newCatalog(cfg, tel)
		exams, err := catalog.Exams(ctx)
		if err != nil {
			serviceutil.Fatal("failed to load exams", err)
		}

		session, err := discordbot.NewSession(cfg.DiscordToken)
		if err != nil {
			serviceutil.Fatal("failed to create discord session", err)
		}
		err = session.Open()
		if err != nil {
			serviceutil.Fatal("failed to connect to discord", err)
		}
		defer session.Close()

		if session.State == nil || session.State.User == nil {
			serviceutil.Fatal("failed to determine application id", errors.New("session has no user"))
		}

		registered, err := discordbot.RegisterCommands(ctx, session, tel, session.State.User.ID, exams)
		if err != nil {
			serviceutil.Fatal("failed to register commands", err)
		}
		slog.Info("registered commands", "count", len(registered), "exams", len(exams))
	},
}
