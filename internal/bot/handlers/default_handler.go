package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/fitpulse/fitpulse-bot/internal/bot/conversation"
)

// NewDefaultHandler returns the fallback handler for updates no command
// or callback pattern matched. Updates for chats with an active session
// resume the conversation; everything else is swallowed.
func NewDefaultHandler(deps HandlerDeps) bot.HandlerFunc {
	return defaultHandler{deps}.Handle
}

type defaultHandler struct {
	deps HandlerDeps
}

func (h defaultHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "default")

	chatID := updateChatID(update)
	if chatID == 0 {
		log.DebugContext(ctx, "Ignoring update without chat", "update_id", update.ID)
		return
	}

	answerCallback(ctx, b, log, update)

	upd := conversation.Update{}
	if update.Message != nil {
		upd.Text = update.Message.Text
	}
	if update.CallbackQuery != nil {
		upd.CallbackData = update.CallbackQuery.Data
	}

	handled, err := h.deps.Engine.Resume(ctx, chatID, upd)
	if err != nil {
		log.ErrorContext(ctx, "Failed to resume conversation", "chat_id", chatID, "error", err)
		return
	}
	if !handled {
		log.DebugContext(ctx, "Swallowing unrouted update", "chat_id", chatID)
	}
}
