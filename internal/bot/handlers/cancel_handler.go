package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/fitpulse/fitpulse-bot/internal/bot/conversation"
	"github.com/fitpulse/fitpulse-bot/internal/i18n"
)

// NewCancelHandler returns a handler for the /cancel command. It is
// registered without the session gate so it always pre-empts an active
// conversation.
func NewCancelHandler(deps HandlerDeps) bot.HandlerFunc {
	return cancelHandler{deps}.Handle
}

type cancelHandler struct {
	deps HandlerDeps
}

func (h cancelHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "cancel")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Cancel handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	log.InfoContext(ctx, "Handling /cancel command", "chat_id", chatID, "user_id", update.Message.From.ID)

	_, lang := resolveUser(ctx, h.deps, chatID)
	program := h.deps.Engine.ActiveProgram(ctx, chatID)

	existed, err := h.deps.Engine.Cancel(ctx, chatID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to cancel conversation", "chat_id", chatID, "error", err)
		reply(ctx, b, log, chatID, i18n.T(lang, i18n.MsgGeneralError), nil)
		return
	}

	if !existed {
		reply(ctx, b, log, chatID, i18n.T(lang, i18n.MsgNothingToCancel), nil)
		return
	}

	confirm := i18n.MsgCancelled
	if program == conversation.ProgramSupport {
		confirm = i18n.MsgSupportExit
	}
	reply(ctx, b, log, chatID, i18n.T(lang, confirm), nil)
}
