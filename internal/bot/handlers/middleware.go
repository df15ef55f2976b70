// Package handlers contains Telegram bot command and callback handlers,
// along with their registration logic and middleware.
package handlers

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/fitpulse/fitpulse-bot/internal/bot/conversation"
	"github.com/fitpulse/fitpulse-bot/internal/i18n"
)

// SessionGate creates a middleware that routes updates into the chat's
// active conversation session instead of the wrapped handler. Commands
// that must pre-empt a running conversation (/cancel, /language) are
// registered without this gate.
func SessionGate(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
			chatID := updateChatID(update)
			if chatID == 0 {
				next(ctx, b, update)
				return
			}

			if deps.Engine.ActiveProgram(ctx, chatID) == "" {
				next(ctx, b, update)
				return
			}

			log := deps.Logger.With("middleware", "SessionGate")
			log.DebugContext(ctx, "Active session captured update", "chat_id", chatID)

			answerCallback(ctx, b, log, update)

			upd := conversation.Update{}
			if update.Message != nil {
				upd.Text = update.Message.Text
			}
			if update.CallbackQuery != nil {
				upd.CallbackData = update.CallbackQuery.Data
			}

			if _, err := deps.Engine.Resume(ctx, chatID, upd); err != nil {
				log.ErrorContext(ctx, "Failed to resume conversation", "chat_id", chatID, "error", err)
			}
		}
	}
}

// AdminOnly creates a middleware that restricts a handler to the staff
// chat admin. Other senders get a localized error and processing stops.
func AdminOnly(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
			if update.Message == nil || update.Message.From == nil {
				next(ctx, b, update)
				return
			}

			userID := update.Message.From.ID
			if userID == deps.Config.Telegram.AdminChatID {
				next(ctx, b, update)
				return
			}

			chatID := update.Message.Chat.ID
			log := deps.Logger.With("middleware", "AdminOnly")
			log.WarnContext(ctx, "Unauthorized access attempt", "user_id", userID, "chat_id", chatID)

			_, lang := resolveUser(ctx, deps, chatID)
			reply(ctx, b, log, chatID, i18n.T(lang, i18n.MsgGeneralError), nil)
		}
	}
}
