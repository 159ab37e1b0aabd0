package bot

import (
	"context"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *TelegramBot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	in := toFlowMessage(message)
	var handled bool
	var err error
	switch message.Command() {
	case cmdStart:
		b.sendText(message.Chat.ID, "welcome_message")
		return
	case cmdHelp:
		b.sendText(message.Chat.ID, "help_message")
		return
	case cmdGetID:
		b.sendText(message.Chat.ID, "your_id", message.From.ID)
		return
	case cmdNewPost:
		handled, err = b.flow.Start(ctx, in)
	case cmdCancel:
		handled, err = b.flow.Cancel(ctx, in)
	case cmdConfirm:
		handled, err = b.flow.Confirm(ctx, in)
	}
	if err != nil {
		log.Printf("Failed to handle /%s in chat %d: %v", message.Command(), message.Chat.ID, err)
	}
	if !handled {
		b.sendText(message.Chat.ID, "unknown_command")
	}
}
