package notifier

import (
	"sjsage522/jobworker/internal/scraper"
	"sjsage522/jobworker/logger"

	apperr "sjsage522/jobworker/pkg/errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramNotifier implements Notifier over the Telegram bot API.
// Subscribers are a fixed set of chat IDs from configuration; the bot
// is send-only and never polls for updates.
type TelegramNotifier struct {
	bot     *tgbotapi.BotAPI
	chatIDs []int64
	log     *logger.Logger
}

// NewTelegramNotifier creates a new Telegram notifier
func NewTelegramNotifier(token string, chatIDs []int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, apperr.NewNotification("", "failed to create telegram bot", err)
	}

	return &TelegramNotifier{
		bot:     bot,
		chatIDs: chatIDs,
		log:     logger.ForNotifier(),
	}, nil
}

// Notify sends the job notification to every registered chat.
// Delivery failures are isolated per chat: one unreachable subscriber
// is logged and the rest still receive the message. An error is
// returned only when no chat could be reached at all.
func (n *TelegramNotifier) Notify(job *scraper.JobRecord) error {
	if len(n.chatIDs) == 0 {
		n.log.Warn().Msg("no chat IDs registered to send notifications to")
		return nil
	}

	message := FormatJobMessage(job)

	delivered := 0
	for _, chatID := range n.chatIDs {
		msg := tgbotapi.NewMessage(chatID, message)
		msg.ParseMode = tgbotapi.ModeHTML
		msg.DisableWebPagePreview = true

		if _, err := n.bot.Send(msg); err != nil {
			n.log.Error().Err(err).Int64("chat_id", chatID).Msg("failed to send message")
			continue
		}
		delivered++
	}

	if delivered == 0 {
		return apperr.NewNotification(string(job.Source), "no chat could be reached", nil)
	}
	return nil
}

// Close releases the underlying transport
func (n *TelegramNotifier) Close() error {
	return nil
}
