package commands

import (
	"testing"

	"github.com/stretchr/testify/require"
	"vestibot/internal/scrapers/vestractor"
)

func TestApplyEnv(t *testing.T) {
	testCases := []struct {
		name     string
		env      map[string]string
		expected Config
	}{
		{
			name:     "nothing set",
			env:      map[string]string{},
			expected: Config{DiscordToken: "file", TrustedChannelIds: []string{"1"}},
		},
		{
			name: "overrides",
			env: map[string]string{
				"DISCORD_TOKEN":       "env",
				"OPENAI_TOKEN":        "sk-env",
				"TRUSTED_CHANNEL_IDS": "10, 20,,30",
			},
			expected: Config{
				DiscordToken:      "env",
				OpenAI:            OpenAIConfig{Token: "sk-env"},
				TrustedChannelIds: []string{"10", "20", "30"},
			},
		},
		{
			name:     "empty channel list trusts nobody",
			env:      map[string]string{"TRUSTED_CHANNEL_IDS": "", "DISCORD_TOKEN": ""},
			expected: Config{DiscordToken: "file"},
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			cfg := Config{DiscordToken: "file", TrustedChannelIds: []string{"1"}}
			applyEnv(&cfg, func(key string) (string, bool) {
				value, ok := test.env[key]
				return value, ok
			})
			require.Equal(t, test.expected, cfg)
		})
	}
}

func TestWithDefaults(t *testing.T) {
	cfg := withDefaults(Config{})
	require.Equal(t, vestractor.DefaultEntrypoint, cfg.Scraper.Entrypoint)
	require.Equal(t, 4, cfg.Scraper.WarmConcurrency)
	require.Equal(t, "assets/bookshelf.yaml", cfg.BookshelfPath)

	cfg = withDefaults(Config{Scraper: ScraperConfig{WarmConcurrency: 8}})
	require.Equal(t, 8, cfg.Scraper.WarmConcurrency)
}
