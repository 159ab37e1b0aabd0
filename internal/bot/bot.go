package bot

import (
	"context"
	"fmt"
	"log"
	"post-bot/config"
	"post-bot/internal/draft"
	"post-bot/internal/flow"
	"post-bot/internal/localization"
	"post-bot/internal/roster"
	"post-bot/internal/scheduler"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// botAPI is the part of *tgbotapi.BotAPI the bot uses.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type PostStore interface {
	flow.Publisher
	CountPosts(ctx context.Context) (int, error)
}

type TelegramBot struct {
	api       botAPI
	username  string
	cfg       *config.Config
	localizer *localization.Localizer
	flow      *flow.Flow
	scheduler *scheduler.Scheduler
	storage   PostStore
}

func NewBot(
	cfg *config.Config,
	localizer *localization.Localizer,
	buffer draft.Buffer,
	admins roster.Roster,
	storage PostStore,
	scheduler *scheduler.Scheduler,
) (*TelegramBot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("could not authorize with telegram: %w", err)
	}
	api.Debug = cfg.TelegramDebug
	bot := newTelegramBot(api, cfg, localizer, buffer, admins, storage, scheduler)
	bot.username = api.Self.UserName
	return bot, nil
}

func newTelegramBot(
	api botAPI,
	cfg *config.Config,
	localizer *localization.Localizer,
	buffer draft.Buffer,
	admins roster.Roster,
	storage PostStore,
	scheduler *scheduler.Scheduler,
) *TelegramBot {
	bot := &TelegramBot{
		api:       api,
		cfg:       cfg,
		localizer: localizer,
		scheduler: scheduler,
		storage:   storage,
	}
	bot.flow = flow.New(buffer, admins, storage, bot, localizer, flow.Options{
		Language:         cfg.DefaultLanguage,
		DeveloperContact: cfg.DeveloperContact,
	})
	return bot
}

// Start schedules the status report and handles updates until ctx is done.
func (b *TelegramBot) Start(ctx context.Context) {
	log.Printf("Authorized on account %s", b.username)
	interval := time.Duration(b.cfg.StatsIntervalMinutes) * time.Minute
	if err := b.scheduler.AddJob(statsJobTag, interval, b.statsJob); err != nil {
		log.Printf("Could not schedule status report: %v", err)
	}
	b.scheduler.Start()
	b.listenForUpdates(ctx)
}

func (b *TelegramBot) Stop() {
	b.api.StopReceivingUpdates()
	b.scheduler.Stop()
	log.Println("Bot stopped")
}

func (b *TelegramBot) listenForUpdates(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *TelegramBot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	message := update.Message
	if message == nil || message.From == nil || message.Chat == nil {
		return
	}
	if message.IsCommand() {
		b.handleCommand(ctx, message)
		return
	}
	if _, err := b.flow.HandleText(ctx, toFlowMessage(message)); err != nil {
		log.Printf("Failed to handle message in chat %d: %v", message.Chat.ID, err)
	}
}

// Send delivers a flow reply as a Telegram text message.
func (b *TelegramBot) Send(_ context.Context, reply flow.Reply) error {
	msg := tgbotapi.NewMessage(reply.ChatID, reply.Text)
	msg.ReplyToMessageID = reply.ReplyTo
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send message to chat %d: %w", reply.ChatID, err)
	}
	return nil
}

func toFlowMessage(message *tgbotapi.Message) flow.Message {
	return flow.Message{
		ChatID:    message.Chat.ID,
		MessageID: message.MessageID,
		UserID:    message.From.ID,
		FirstName: message.From.FirstName,
		Text:      message.Text,
	}
}
