package handlers

import (
	"context"
	"errors"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/fitpulse/fitpulse-bot/internal/bot/conversation"
	"github.com/fitpulse/fitpulse-bot/internal/i18n"
)

// NewStartHandler returns a handler for the /start command. Known users
// get a localized greeting with the open-app button; new users enter the
// onboarding conversation.
func NewStartHandler(deps HandlerDeps) bot.HandlerFunc {
	return startHandler{deps}.Handle
}

type startHandler struct {
	deps HandlerDeps
}

func (h startHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "start")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Start handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	log.InfoContext(ctx, "Handling /start command", "chat_id", chatID, "user_id", update.Message.From.ID)

	user, lang := resolveUser(ctx, h.deps, chatID)
	if user != nil {
		greeting := i18n.Tf(lang, i18n.MsgWelcomeBack, user.Name)
		reply(ctx, b, log, chatID, greeting, openAppKeyboard(lang))
		return
	}

	err := h.deps.Engine.Enter(ctx, chatID, conversation.ProgramOnboarding)
	if errors.Is(err, conversation.ErrSessionActive) {
		// The session gate normally catches this; a race is harmless
		log.DebugContext(ctx, "Onboarding already in progress", "chat_id", chatID)
		return
	}
	if err != nil {
		log.ErrorContext(ctx, "Failed to start onboarding", "chat_id", chatID, "error", err)
		reply(ctx, b, log, chatID, i18n.T(lang, i18n.MsgGeneralError), nil)
	}
}

func openAppKeyboard(lang i18n.Lang) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: i18n.T(lang, i18n.MsgOpenAppButton), CallbackData: conversation.CallbackOpenApp}},
		},
	}
}
