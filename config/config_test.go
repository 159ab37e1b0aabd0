package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("DEVELOPER_CONTACT", "@dev")
	t.Setenv("LINE_SEPARATOR", "----")
}

func TestLoadConfigFromEnv_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := LoadConfigFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.TelegramBotToken)
	assert.Equal(t, "@dev", cfg.DeveloperContact)
	assert.Equal(t, "----", cfg.LineSeparator)
	assert.Equal(t, "ru", cfg.DefaultLanguage)
	assert.Equal(t, "admin_ids.txt", cfg.AdminIDsFilePath)
	assert.Equal(t, "drafts", cfg.DraftDir)
	assert.Equal(t, "posts.db", cfg.DatabasePath)
	assert.Equal(t, 60, cfg.StatsIntervalMinutes)
	assert.Zero(t, cfg.SuperAdminID)
	assert.False(t, cfg.TelegramDebug)
}

func TestLoadConfigFromEnv_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("DEFAULT_LANGUAGE", "en")
	t.Setenv("SUPER_ADMIN_ID", "42")
	t.Setenv("STATS_INTERVAL_MINUTES", "5")
	t.Setenv("TELEGRAM_DEBUG", "true")

	cfg, err := LoadConfigFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "en", cfg.DefaultLanguage)
	assert.Equal(t, int64(42), cfg.SuperAdminID)
	assert.Equal(t, 5, cfg.StatsIntervalMinutes)
	assert.True(t, cfg.TelegramDebug)
}

func TestLoadConfigFromEnv_MissingRequired(t *testing.T) {
	for _, missing := range []string{"TELEGRAM_BOT_TOKEN", "DEVELOPER_CONTACT", "LINE_SEPARATOR"} {
		t.Run(missing, func(t *testing.T) {
			setRequired(t)
			t.Setenv(missing, "")

			_, err := LoadConfigFromEnv()
			require.Error(t, err)
			assert.Contains(t, err.Error(), missing)
		})
	}
}

func TestValidate_MultiLineSeparator(t *testing.T) {
	cfg := Config{
		TelegramBotToken:     "t",
		DeveloperContact:     "d",
		LineSeparator:        "--\n--",
		StatsIntervalMinutes: 1,
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "single line")
}
