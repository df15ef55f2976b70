package telegram

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Client wraps the transport behind the minimal surface the rest of the
// application needs: send a message (optionally with inline buttons) to a
// chat id. Consumers depend on their own narrow Sender interfaces, which
// Client satisfies.
type Client struct {
	bot    *bot.Bot
	logger *slog.Logger
}

// NewClient creates a Client on top of an initialized bot instance.
func NewClient(b *bot.Bot, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		bot:    b,
		logger: logger.With("component", "telegram_client"),
	}
}

// SendMessage sends a Markdown-formatted message to the chat. markup may
// be nil for plain messages.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, markup models.ReplyMarkup) error {
	params := &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeMarkdown,
	}
	if markup != nil {
		params.ReplyMarkup = markup
	}

	if _, err := c.bot.SendMessage(ctx, params); err != nil {
		return fmt.Errorf("failed to send message to chat %d: %w", chatID, err)
	}
	return nil
}

// SetCommandMenu publishes the bot's command list. Cosmetic; a failure is
// logged but not fatal.
func (c *Client) SetCommandMenu(ctx context.Context, commands []models.BotCommand) {
	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{Commands: commands})
	if err != nil {
		c.logger.WarnContext(ctx, "Failed to set command menu", "error", err)
		return
	}
	c.logger.Debug("Command menu set", "count", len(commands))
}

// InlineButton builds a one-button callback row. Small helper used by
// handlers and tasks when composing messages with a single action.
func InlineButton(text, callbackData string) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: text, CallbackData: callbackData}},
		},
	}
}
