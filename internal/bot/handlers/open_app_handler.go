package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewOpenAppHandler returns a handler for the open_app callback, which
// replies with the companion web app link.
func NewOpenAppHandler(deps HandlerDeps) bot.HandlerFunc {
	return openAppHandler{deps}.Handle
}

type openAppHandler struct {
	deps HandlerDeps
}

func (h openAppHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "open_app")

	if update.CallbackQuery == nil {
		return
	}
	answerCallback(ctx, b, log, update)

	chatID := updateChatID(update)
	log.InfoContext(ctx, "Handling open_app callback", "chat_id", chatID)

	appURL := h.deps.Config.Telegram.AppURL
	if appURL == "" {
		log.WarnContext(ctx, "App URL not configured", "chat_id", chatID)
		return
	}

	reply(ctx, b, log, chatID, fmt.Sprintf("🔗 %s", appURL), nil)
}
