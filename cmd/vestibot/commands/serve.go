package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"vestibot/internal/components/chrono"
	"vestibot/internal/components/telemetry"
	"vestibot/internal/discordbot"
	"vestibot/internal/scrapers/vestractor"
	"vestibot/pkg/serviceutil"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Connects to discord and answers slash commands, messages and !bookshelf until interrupted.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		cfg := loadConfig()

		traces := setupTelemetry(ctx, cfg)
		defer shutdownTelemetry(traces)

		tel := telemetry.SlogAPI{}

		fetcher := vestractor.NewHttpFetcher(tel, fetcherOptions(cfg))
		catalog, err := vestractor.Open(ctx, fetcher, tel, vestractor.Options{
			Entrypoint: cfg.Scraper.Entrypoint,
		})
		if err != nil {
			serviceutil.Fatal("failed to open catalog", err)
		}

		if cfg.Scraper.WarmSchedule != "" {
			cron := chrono.NewStandardCron(tel)
			defer func() {
				stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				cron.Stop(stopCtx)
			}()
			scheduleWarm(ctx, cron, catalog, cfg)
		}

		session, err := discordbot.NewSession(cfg.DiscordToken)
		if err != nil {
			serviceutil.Fatal("failed to create discord session", err)
		}

		bot := discordbot.New(session, catalog, newChatgpt(cfg, tel), tel, discordbot.Options{
			TrustedChannelIds: cfg.TrustedChannelIds,
			Bookshelf:         loadBookshelf(cfg).CreateEmbeds(),
		})
		if len(cfg.TrustedChannelIds) == 0 {
			slog.Warn("no trusted channels configured, the bot will not react anywhere")
		}

		slog.Info("starting bot", "trusted_channels", len(cfg.TrustedChannelIds))
		err = bot.Run(ctx)
		if err != nil {
			serviceutil.Fatal("bot stopped", err)
		}
	},
}

// scheduleWarm keeps retrying the exam pages that failed to load so slash commands stay fast.
func scheduleWarm(ctx context.Context, cron chrono.CronAPI, catalog *vestractor.Catalog, cfg Config) {
	err := cron.Cron(cfg.Scraper.WarmSchedule, func() {
		err := catalog.Warm(ctx, cfg.Scraper.WarmConcurrency)
		if err != nil {
			slog.Debug("warm interrupted", "err", err)
		}
	})
	if err != nil {
		serviceutil.Fatal("invalid warm schedule", err)
	}
}
