package bot

import (
	"context"
	"log"
	"post-bot/internal/flow"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *TelegramBot) getLang() string {
	return b.cfg.DefaultLanguage
}

func (b *TelegramBot) sendText(chatID int64, key string, args ...any) {
	msg := tgbotapi.NewMessage(chatID, b.localizer.Format(b.getLang(), key, args...))
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Failed to send %s to chat %d: %v", key, chatID, err)
	}
}

type statusReport struct {
	Active  int
	Waiting int
	Posts   int
}

func (b *TelegramBot) collectStatus(ctx context.Context) (statusReport, error) {
	posts, err := b.storage.CountPosts(ctx)
	if err != nil {
		return statusReport{}, err
	}
	return statusReport{
		Active:  b.flow.ActiveSessions(),
		Waiting: b.flow.SessionsByState()[flow.StateWaitingForConfirm],
		Posts:   posts,
	}, nil
}

func (b *TelegramBot) statsJob() {
	report, err := b.collectStatus(context.Background())
	if err != nil {
		log.Printf("Status report: could not count stored posts: %v", err)
		return
	}
	log.Printf("Status report: %d drafts in progress, %d awaiting admin confirmation, %d posts stored",
		report.Active, report.Waiting, report.Posts)
}
