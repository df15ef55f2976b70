package handlers

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewReplyHandler returns a handler for the admin-only /reply command:
// /reply <chat_id> <text> delivers a staff answer to the user's chat.
func NewReplyHandler(deps HandlerDeps) bot.HandlerFunc {
	return replyHandler{deps}.Handle
}

type replyHandler struct {
	deps HandlerDeps
}

func (h replyHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "reply")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Reply handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	staffChatID := update.Message.Chat.ID
	args := strings.SplitN(strings.TrimSpace(update.Message.Text), " ", 3)
	if len(args) < 3 {
		reply(ctx, b, log, staffChatID, "Usage: /reply <chat_id> <text>", nil)
		return
	}

	targetChatID, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		reply(ctx, b, log, staffChatID, "Usage: /reply <chat_id> <text>", nil)
		return
	}
	text := args[2]

	log.InfoContext(ctx, "Handling /reply command", "target_chat_id", targetChatID)

	target, lang := resolveUser(ctx, h.deps, targetChatID)
	if target == nil {
		log.WarnContext(ctx, "Reply target is not a known user", "target_chat_id", targetChatID)
	}

	h.deps.Relay.ReplyToUser(ctx, targetChatID, string(lang), text)
}
