package handlers

import (
	"context"
	"errors"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/fitpulse/fitpulse-bot/internal/bot/conversation"
	"github.com/fitpulse/fitpulse-bot/internal/i18n"
)

// NewSupportHandler returns a handler for the /support command, which
// enters the support conversation.
func NewSupportHandler(deps HandlerDeps) bot.HandlerFunc {
	return supportHandler{deps}.Handle
}

type supportHandler struct {
	deps HandlerDeps
}

func (h supportHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "support")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Support handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	log.InfoContext(ctx, "Handling /support command", "chat_id", chatID, "user_id", update.Message.From.ID)

	err := h.deps.Engine.Enter(ctx, chatID, conversation.ProgramSupport)
	if errors.Is(err, conversation.ErrSessionActive) {
		log.DebugContext(ctx, "Conversation already in progress", "chat_id", chatID)
		return
	}
	if err != nil {
		log.ErrorContext(ctx, "Failed to enter support mode", "chat_id", chatID, "error", err)
		_, lang := resolveUser(ctx, h.deps, chatID)
		reply(ctx, b, log, chatID, i18n.T(lang, i18n.MsgGeneralError), nil)
	}
}
