package handlers

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/fitpulse/fitpulse-bot/internal/database"
	"github.com/fitpulse/fitpulse-bot/internal/i18n"
)

// updateChatID extracts the chat id from a message or callback update.
// Returns 0 when the update carries neither.
func updateChatID(update *models.Update) int64 {
	if update.Message != nil {
		return update.Message.Chat.ID
	}
	if update.CallbackQuery != nil {
		if update.CallbackQuery.Message.Message != nil && update.CallbackQuery.Message.Message.Date != 0 {
			return update.CallbackQuery.Message.Message.Chat.ID
		}
		if update.CallbackQuery.Message.InaccessibleMessage != nil {
			return update.CallbackQuery.Message.InaccessibleMessage.Chat.ID
		}
		// Fall back to the private chat of the button presser
		return update.CallbackQuery.From.ID
	}
	return 0
}

// answerCallback acknowledges a callback query so the client stops the
// button spinner. No-op for message updates.
func answerCallback(ctx context.Context, b *bot.Bot, log *slog.Logger, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	_, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: update.CallbackQuery.ID,
	})
	if err != nil {
		log.WarnContext(ctx, "Failed to answer callback query",
			"callback_query_id", update.CallbackQuery.ID, "error", err)
	}
}

// resolveUser loads the user record for a chat, tolerating its absence.
// The returned language falls back to the default locale for visitors
// that have not completed onboarding.
func resolveUser(ctx context.Context, deps HandlerDeps, chatID int64) (*database.User, i18n.Lang) {
	user, err := deps.Store.GetUserByChatID(ctx, chatID)
	if err != nil {
		deps.Logger.ErrorContext(ctx, "Failed to load user", "chat_id", chatID, "error", err)
		return nil, i18n.DefaultLang
	}
	if user == nil {
		return nil, i18n.DefaultLang
	}
	return user, i18n.ParseLang(user.Language)
}

// reply sends a Markdown message to a chat, logging delivery failures.
func reply(ctx context.Context, b *bot.Bot, log *slog.Logger, chatID int64, text string, markup models.ReplyMarkup) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ParseMode:   models.ParseModeMarkdown,
		ReplyMarkup: markup,
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send message", "chat_id", chatID, "error", err)
	}
}
