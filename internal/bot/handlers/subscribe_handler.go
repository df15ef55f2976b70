package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/fitpulse/fitpulse-bot/internal/database"
	"github.com/fitpulse/fitpulse-bot/internal/i18n"
)

// NewSubscribeHandler returns a handler for the /subscribe command.
func NewSubscribeHandler(deps HandlerDeps) bot.HandlerFunc {
	return subscribeHandler{deps}.Handle
}

type subscribeHandler struct {
	deps HandlerDeps
}

func (h subscribeHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "subscribe")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Subscribe handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	log.InfoContext(ctx, "Handling /subscribe command", "chat_id", chatID, "user_id", update.Message.From.ID)

	_, lang := resolveUser(ctx, h.deps, chatID)
	reply(ctx, b, log, chatID, i18n.T(lang, i18n.MsgSubscribeInfo), planKeyboard(lang))
}

func planKeyboard(lang i18n.Lang) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: i18n.T(lang, i18n.MsgBtnPremiumPlan), CallbackData: cbPlanPrefix + database.TierPremium}},
			{{Text: i18n.T(lang, i18n.MsgBtnIndividualPlan), CallbackData: cbPlanPrefix + database.TierIndividual}},
		},
	}
}
