// Package telegram delivers digest messages to a Telegram chat.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v4"
)

// Config carries the bot credentials and destination chat.
type Config struct {
	Token  string
	ChatID string
}

// chat adapts a raw chat identifier to telebot's Recipient. The Bot API
// accepts both numeric IDs and @channel usernames in the same field.
type chat string

func (c chat) Recipient() string { return string(c) }

// Notifier sends messages over the Telegram Bot API.
type Notifier struct {
	bot    *tele.Bot
	chat   chat
	logger *zap.Logger
}

// New validates the credentials and builds the sender. Bot construction
// performs a getMe call, so a bad token fails here rather than mid-run.
func New(cfg Config, logger *zap.Logger) (*Notifier, error) {
	token := strings.TrimSpace(cfg.Token)
	chatID := strings.TrimSpace(cfg.ChatID)
	if token == "" {
		return nil, errors.New("telegram token is empty")
	}
	if chatID == "" {
		return nil, errors.New("telegram chat id is empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	bot, err := tele.NewBot(tele.Settings{
		Token:  token,
		Client: &http.Client{Timeout: 30 * time.Second},
	})
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}

	return &Notifier{bot: bot, chat: chat(chatID), logger: logger}, nil
}

// Send delivers one digest chunk as HTML without link previews.
func (n *Notifier) Send(ctx context.Context, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	opts := &tele.SendOptions{
		ParseMode:             tele.ModeHTML,
		DisableWebPagePreview: true,
	}
	msg, err := n.bot.Send(n.chat, message, opts)
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}

	n.logger.Debug("digest chunk delivered",
		zap.Int("message_id", msg.ID),
		zap.Int("length", len(message)),
	)
	return nil
}
