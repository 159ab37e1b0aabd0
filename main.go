package main

import (
	"context"
	"embed"
	"log"
	"os"
	"os/signal"
	"post-bot/config"
	"post-bot/internal/bot"
	"post-bot/internal/draft"
	"post-bot/internal/localization"
	"post-bot/internal/roster"
	"post-bot/internal/scheduler"
	"post-bot/internal/storage"
	"syscall"
)

//go:embed locales
var localeFiles embed.FS

func main() {
	log.Println("Starting Post Bot...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbStorage, err := storage.NewStorage(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer dbStorage.Close()

	buffer, err := newDraftBuffer(&cfg)
	if err != nil {
		log.Fatalf("Failed to initialize draft buffer: %v", err)
	}
	if err := buffer.Reset(); err != nil {
		log.Fatalf("Failed to clear drafts left from a previous run: %v", err)
	}

	admins := roster.Union{roster.NewFileRoster(cfg.AdminIDsFilePath)}
	if cfg.SuperAdminID != 0 {
		admins = append(admins, roster.NewStaticRoster(cfg.SuperAdminID))
		log.Printf("Superadmin with ID %d ensured.", cfg.SuperAdminID)
	}

	localizer, err := localization.NewLocalizer(localeFiles, cfg.DefaultLanguage)
	if err != nil {
		log.Fatalf("Failed to load locales: %v", err)
	}
	appScheduler, err := scheduler.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}
	telegramBot, err := bot.NewBot(&cfg, localizer, buffer, admins, dbStorage, appScheduler)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}
	log.Println("Bot is running...")
	telegramBot.Start(ctx)
	telegramBot.Stop()
}

func newDraftBuffer(cfg *config.Config) (draft.Buffer, error) {
	if cfg.DraftDir == "" {
		log.Println("DRAFT_DIR is empty, drafts are kept in memory only.")
		return draft.NewMemoryBuffer(), nil
	}
	return draft.NewFileBuffer(cfg.DraftDir, cfg.LineSeparator)
}
