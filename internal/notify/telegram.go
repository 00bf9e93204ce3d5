package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/set-night/cryptoshop/internal/config"
	"github.com/set-night/cryptoshop/internal/domain"
)

// TelegramNotifier pushes payment events to a merchant chat. Disabled
// entirely when no chat id is configured; a nil *TelegramNotifier is also
// safe to call.
type TelegramNotifier struct {
	bot *bot.Bot
	cfg *config.Config
}

func NewTelegramNotifier(b *bot.Bot, cfg *config.Config) *TelegramNotifier {
	return &TelegramNotifier{bot: b, cfg: cfg}
}

type eventKind string

const (
	kindPaid   eventKind = "paid"
	kindFailed eventKind = "failed"
	kindReview eventKind = "review"
)

func (n *TelegramNotifier) send(kind eventKind, message string) {
	if n == nil || n.bot == nil || n.cfg.NotifyChatID == 0 {
		return
	}

	if len([]rune(message)) > config.MaxNotifyMessageLen {
		message = string([]rune(message)[:config.MaxNotifyMessageLen-20]) + "\n\n... (truncated)"
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.NotifyTimeout)
	defer cancel()

	_, err := n.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:          n.cfg.NotifyChatID,
		Text:            message,
		ParseMode:       "Markdown",
		MessageThreadID: n.topicID(kind),
	})
	if err != nil {
		slog.Error("failed to send payment notification", "kind", kind, "error", err)
	}
}

func (n *TelegramNotifier) topicID(kind eventKind) int {
	switch kind {
	case kindPaid:
		return n.cfg.NotifyTopicPaid
	case kindFailed:
		return n.cfg.NotifyTopicFailed
	case kindReview:
		return n.cfg.NotifyTopicReview
	default:
		return 0
	}
}

func (n *TelegramNotifier) PaymentSucceeded(event *domain.WebhookEvent) {
	msg := fmt.Sprintf("✅ *Payment Received*\n\n*Order:* `%s`\n*Amount:* %s %s\n*Received:* %s %s\n*TxID:* `%s`",
		event.OrderID, event.Amount, event.Currency, event.PaymentAmount, event.PayerCurrency, event.TxID)
	n.send(kindPaid, msg)
}

func (n *TelegramNotifier) PaymentFailed(event *domain.WebhookEvent) {
	msg := fmt.Sprintf("❌ *Payment Failed*\n\n*Order:* `%s`\n*Status:* %s\n*Amount:* %s %s\n*Time:* %s",
		event.OrderID, event.Status.DisplayText(), event.Amount, event.Currency,
		time.Now().Format("2006-01-02 15:04:05"))
	n.send(kindFailed, msg)
}

func (n *TelegramNotifier) PaymentNeedsReview(event *domain.WebhookEvent) {
	msg := fmt.Sprintf("⚠️ *Wrong Amount Paid*\n\n*Order:* `%s`\n*Expected:* %s %s\n*Received:* %s %s",
		event.OrderID, event.Amount, event.Currency, event.PaymentAmount, event.PayerCurrency)
	n.send(kindReview, msg)
}
