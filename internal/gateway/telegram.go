package gateway

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Telegram sends notifications through the Telegram Bot API. The notify
// address is a chat id rendered as a decimal string.
type Telegram struct {
	bot    *tgbotapi.BotAPI
	logger *zap.Logger
}

// NewTelegram authorizes the bot with the given token.
func NewTelegram(token string, logger *zap.Logger) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram authorize: %w", err)
	}
	logger.Info("telegram gateway authorized", zap.String("account", bot.Self.UserName))
	return &Telegram{bot: bot, logger: logger}, nil
}

// Notify sends a plain text message to the chat behind the address.
func (t *Telegram) Notify(_ context.Context, address, text string) error {
	chatID, err := strconv.ParseInt(address, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid notify address %q: %w", address, err)
	}
	if _, err := t.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}
