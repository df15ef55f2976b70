package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/fitpulse/fitpulse-bot/internal/database"
	"github.com/fitpulse/fitpulse-bot/internal/i18n"
)

// NewWorkoutTimeHandler returns a handler for workout_* callbacks, which
// change the user's reminder time preference.
func NewWorkoutTimeHandler(deps HandlerDeps) bot.HandlerFunc {
	return workoutTimeHandler{deps}.Handle
}

type workoutTimeHandler struct {
	deps HandlerDeps
}

func (h workoutTimeHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "workout_time")

	if update.CallbackQuery == nil {
		return
	}
	answerCallback(ctx, b, log, update)

	chatID := updateChatID(update)
	timeOfDay := strings.TrimPrefix(update.CallbackQuery.Data, cbWorkoutPrefix)

	log.InfoContext(ctx, "Handling workout time callback", "chat_id", chatID, "time_of_day", timeOfDay)

	user, lang := resolveUser(ctx, h.deps, chatID)
	if user == nil {
		log.WarnContext(ctx, "Workout time callback from unknown user", "chat_id", chatID)
		reply(ctx, b, log, chatID, i18n.T(lang, i18n.MsgGeneralError), nil)
		return
	}

	var label i18n.Key
	switch timeOfDay {
	case database.TimeMorning:
		label = i18n.MsgBtnWorkoutMorning
	case database.TimeAfternoon:
		label = i18n.MsgBtnWorkoutAfternoon
	case database.TimeEvening:
		label = i18n.MsgBtnWorkoutEvening
	default:
		log.DebugContext(ctx, "Ignoring unknown workout time", "chat_id", chatID, "time_of_day", timeOfDay)
		return
	}

	user.WorkoutTime = timeOfDay
	if err := h.deps.Store.UpdateUser(ctx, user); err != nil {
		log.ErrorContext(ctx, "Failed to update workout time", "chat_id", chatID, "error", err)
		reply(ctx, b, log, chatID, i18n.T(lang, i18n.MsgGeneralError), nil)
		return
	}

	reply(ctx, b, log, chatID, i18n.Tf(lang, i18n.MsgWorkoutTimeChanged, i18n.T(lang, label)), nil)
}
