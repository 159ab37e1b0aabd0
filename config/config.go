package config

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	TelegramBotToken     string `envconfig:"TELEGRAM_BOT_TOKEN" required:"true"`
	DeveloperContact     string `envconfig:"DEVELOPER_CONTACT"  required:"true"`
	LineSeparator        string `envconfig:"LINE_SEPARATOR"     required:"true"`
	DefaultLanguage      string `envconfig:"DEFAULT_LANGUAGE"    default:"ru"`
	AdminIDsFilePath     string `envconfig:"ADMIN_IDS_FILE_PATH" default:"admin_ids.txt"`
	SuperAdminID         int64  `envconfig:"SUPER_ADMIN_ID"`
	DraftDir             string `envconfig:"DRAFT_DIR"           default:"drafts"`
	DatabasePath         string `envconfig:"DATABASE_PATH"       default:"posts.db"`
	StatsIntervalMinutes int    `envconfig:"STATS_INTERVAL_MINUTES" default:"60"`
	TelegramDebug        bool   `envconfig:"TELEGRAM_DEBUG"         default:"false"`
}

// LoadConfig reads .env (if present) and the process environment.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment variables")
	}
	return LoadConfigFromEnv()
}

func LoadConfigFromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to process configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.TelegramBotToken) == "" {
		return errors.New("TELEGRAM_BOT_TOKEN must not be blank")
	}
	if strings.TrimSpace(c.DeveloperContact) == "" {
		return errors.New("DEVELOPER_CONTACT must not be blank")
	}
	if strings.TrimSpace(c.LineSeparator) == "" {
		return errors.New("LINE_SEPARATOR must not be blank")
	}
	if strings.ContainsAny(c.LineSeparator, "\r\n") {
		return errors.New("LINE_SEPARATOR must be a single line")
	}
	if c.StatsIntervalMinutes <= 0 {
		return fmt.Errorf("STATS_INTERVAL_MINUTES must be positive, got %d", c.StatsIntervalMinutes)
	}
	return nil
}
