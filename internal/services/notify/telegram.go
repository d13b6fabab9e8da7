package notify

import (
	"context"
	"fmt"
	"time"

	xhttp "BottomScan/pkg/http"
)

// Telegram delivers alert text through the Telegram Bot API.
type Telegram struct {
	botToken string
	chatID   string
	client   *xhttp.Client
}

// TelegramOption configures the notifier.
type TelegramOption func(*Telegram)

func WithTimeout(d time.Duration) TelegramOption {
	return func(t *Telegram) { t.client = xhttp.NewClient(xhttp.WithTimeout(d)) }
}

func NewTelegram(botToken, chatID string, opts ...TelegramOption) *Telegram {
	t := &Telegram{
		botToken: botToken,
		chatID:   chatID,
		client:   xhttp.NewClient(xhttp.WithTimeout(10 * time.Second)),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Telegram) Send(ctx context.Context, text string) error {
	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", t.botToken)
	err := t.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:  xhttp.MethodPost,
		URL:     url,
		Headers: map[string]string{"Content-Type": "application/json"},
		Body: map[string]string{
			"chat_id": t.chatID,
			"text":    text,
		},
	}, nil)
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}
