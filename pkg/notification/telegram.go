// Package notification provides implementations for signal change alerts
package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/AGHusky0611/Vantage-MarketAnalysis/pkg/core"
	"github.com/AGHusky0611/Vantage-MarketAnalysis/pkg/logger"
	"github.com/jpillora/backoff"
	tb "gopkg.in/tucnak/telebot.v2"
)

const sendRetries = 3

// Telegram implements the core.Notifier interface, broadcasting signal
// changes to a fixed list of chat users.
type Telegram struct {
	client *tb.Bot
	users  []int64
	log    logger.Logger
}

// NewTelegram creates and initializes a new Telegram notifier
func NewTelegram(token string, users []int64, log logger.Logger) (*Telegram, error) {
	client, err := tb.NewBot(tb.Settings{
		ParseMode: tb.ModeMarkdown,
		Token:     token,
		Poller:    &tb.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	return &Telegram{
		client: client,
		users:  users,
		log:    log,
	}, nil
}

// SignalChanged notifies all configured users that a symbol's trading
// signal flipped between refreshes.
func (t *Telegram) SignalChanged(ctx context.Context, change core.SignalChange) error {
	message := formatSignalChange(change)

	for _, user := range t.users {
		if err := t.sendWithRetry(ctx, &tb.User{ID: user}, message); err != nil {
			return fmt.Errorf("failed to notify user %d: %w", user, err)
		}
	}

	return nil
}

func (t *Telegram) sendWithRetry(ctx context.Context, to *tb.User, text string) error {
	retry := &backoff.Backoff{
		Min:    time.Second,
		Max:    30 * time.Second,
		Factor: 2,
		Jitter: true,
	}

	var lastErr error
	for attempt := 0; attempt < sendRetries; attempt++ {
		_, lastErr = t.client.Send(to, text)
		if lastErr == nil {
			return nil
		}

		t.log.WithError(lastErr).Warnf("telegram send failed, attempt %d/%d", attempt+1, sendRetries)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retry.Duration()):
		}
	}

	return lastErr
}

func formatSignalChange(change core.SignalChange) string {
	var icon string
	switch change.Current {
	case "BUY":
		icon = "📈"
	case "SELL":
		icon = "📉"
	default:
		icon = "➖"
	}

	return fmt.Sprintf("%s *SIGNAL CHANGE - %s*\n-----\n%s → %s\nConfidence: `%.0f%%`\nPrice: `%.2f`",
		icon, change.Symbol, change.Previous, change.Current, change.Confidence, change.Price)
}
