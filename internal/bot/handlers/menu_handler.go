package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/fitpulse/fitpulse-bot/internal/bot/conversation"
	"github.com/fitpulse/fitpulse-bot/internal/database"
	"github.com/fitpulse/fitpulse-bot/internal/i18n"
)

// Callback payloads owned by the command router. The plan_, workout_ and
// language_ prefixes are a stable contract with the companion web app.
const (
	cbPlanPrefix     = "plan_"
	cbWorkoutPrefix  = "workout_"
	cbLanguagePrefix = "language_"
)

// NewMenuHandler returns a handler for the /menu command.
func NewMenuHandler(deps HandlerDeps) bot.HandlerFunc {
	return menuHandler{deps}.Handle
}

type menuHandler struct {
	deps HandlerDeps
}

func (h menuHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "menu")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Menu handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	log.InfoContext(ctx, "Handling /menu command", "chat_id", chatID, "user_id", update.Message.From.ID)

	_, lang := resolveUser(ctx, h.deps, chatID)
	reply(ctx, b, log, chatID, i18n.T(lang, i18n.MsgMenu), menuKeyboard(lang))
}

func menuKeyboard(lang i18n.Lang) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: i18n.T(lang, i18n.MsgOpenAppButton), CallbackData: conversation.CallbackOpenApp}},
			{
				{Text: i18n.T(lang, i18n.MsgBtnPremiumPlan), CallbackData: cbPlanPrefix + database.TierPremium},
				{Text: i18n.T(lang, i18n.MsgBtnIndividualPlan), CallbackData: cbPlanPrefix + database.TierIndividual},
			},
			{
				{Text: i18n.T(lang, i18n.MsgBtnWorkoutMorning), CallbackData: cbWorkoutPrefix + database.TimeMorning},
				{Text: i18n.T(lang, i18n.MsgBtnWorkoutAfternoon), CallbackData: cbWorkoutPrefix + database.TimeAfternoon},
				{Text: i18n.T(lang, i18n.MsgBtnWorkoutEvening), CallbackData: cbWorkoutPrefix + database.TimeEvening},
			},
		},
	}
}
