package commands

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"vestibot/internal/bibliothecary"
	"vestibot/internal/chatgpt"
	"vestibot/internal/components/telemetry"
	"vestibot/internal/scrapers/vestractor"
	"vestibot/pkg/configutil"
	"vestibot/pkg/serviceutil"
)

type OpenAIConfig struct {
	Token   string `json:"token"`
	Model   string `json:"model"`
	BaseUrl string `json:"base_url"`
}

type ScraperConfig struct {
	Entrypoint      string `json:"entrypoint"`
	TimeoutSeconds  int    `json:"timeout_seconds"`
	Retries         int    `json:"retries"`
	WarmConcurrency int    `json:"warm_concurrency"`
	// WarmSchedule is a cron schedule for warming exams whose resolution list is still unloaded, empty
	// disables it.
	WarmSchedule string `json:"warm_schedule"`
}

type Config struct {
	DiscordToken      string           `json:"discord_token"`
	TrustedChannelIds []string         `json:"trusted_channel_ids"`
	OpenAI            OpenAIConfig     `json:"openai"`
	Scraper           ScraperConfig    `json:"scraper"`
	BookshelfPath     string           `json:"bookshelf_path"`
	Telemetry         telemetry.Config `json:"telemetry"`
	Verbose           bool             `json:"verbose"`
}

// applyEnv overrides the secrets and trusted channels of the config with the environment.
func applyEnv(cfg *Config, lookup func(key string) (string, bool)) {
	if token, ok := lookup("DISCORD_TOKEN"); ok && token != "" {
		cfg.DiscordToken = token
	}
	if token, ok := lookup("OPENAI_TOKEN"); ok && token != "" {
		cfg.OpenAI.Token = token
	}
	if ids, ok := lookup("TRUSTED_CHANNEL_IDS"); ok {
		cfg.TrustedChannelIds = nil
		for _, id := range strings.Split(ids, ",") {
			id = strings.TrimSpace(id)
			if id != "" {
				cfg.TrustedChannelIds = append(cfg.TrustedChannelIds, id)
			}
		}
	}
}

func withDefaults(cfg Config) Config {
	if cfg.Scraper.Entrypoint == "" {
		cfg.Scraper.Entrypoint = vestractor.DefaultEntrypoint
	}
	if cfg.Scraper.WarmConcurrency <= 0 {
		cfg.Scraper.WarmConcurrency = 4
	}
	if cfg.BookshelfPath == "" {
		cfg.BookshelfPath = "assets/bookshelf.yaml"
	}
	return cfg
}

// loadConfig reads the config file if there is one, the environment is applied on top either way.
// Relative paths are looked up from the working directory upwards.
func loadConfig() Config {
	read := configutil.ReadConfig[Config]
	if !filepath.IsAbs(*configPath) {
		read = configutil.ReadRecursively[Config]
	}
	cfg, err := read(*configPath)
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("no config file found, using defaults", "path", *configPath)
		err = nil
	}
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}

	applyEnv(&cfg, os.LookupEnv)
	if cfg.Verbose {
		telemetry.InitSlog(true)
	}
	return withDefaults(cfg)
}

func setupTelemetry(ctx context.Context, cfg Config) telemetry.Telemetry {
	tel, err := telemetry.Setup(ctx, "vestibot", cfg.Telemetry)
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	return tel
}

func shutdownTelemetry(tel telemetry.Telemetry) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := tel.Shutdown(ctx)
	if err != nil {
		slog.Warn("failed to flush telemetry", "err", err.Error())
	}
}

func fetcherOptions(cfg Config) vestractor.HttpFetcherOptions {
	return vestractor.HttpFetcherOptions{
		Timeout: time.Duration(cfg.Scraper.TimeoutSeconds) * time.Second,
		Retries: cfg.Scraper.Retries,
	}
}

func newCatalog(cfg Config, tel telemetry.API) *vestractor.Catalog {
	fetcher := vestractor.NewHttpFetcher(tel, fetcherOptions(cfg))
	return vestractor.New(fetcher, tel, vestractor.Options{
		Entrypoint: cfg.Scraper.Entrypoint,
	})
}

func newChatgpt(cfg Config, tel telemetry.API) *chatgpt.Client {
	if cfg.OpenAI.Token == "" {
		serviceutil.Fatal("missing openai token", errors.New("set openai.token or OPENAI_TOKEN"))
	}
	return chatgpt.NewClient(tel, chatgpt.Options{
		Token:   cfg.OpenAI.Token,
		BaseUrl: cfg.OpenAI.BaseUrl,
		Model:   cfg.OpenAI.Model,
	})
}

func loadBookshelf(cfg Config) bibliothecary.Bookshelf {
	shelf, err := bibliothecary.Load(cfg.BookshelfPath)
	if err != nil {
		serviceutil.Fatal("failed to load bookshelf", err)
	}
	return shelf
}
