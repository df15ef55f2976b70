package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/fitpulse/fitpulse-bot/internal/database"
	"github.com/fitpulse/fitpulse-bot/internal/i18n"
)

// newWorkoutReminderTask creates a scheduled task that reminds every user
// whose workout-time preference matches the given time of day. One bad
// recipient never aborts the rest of the audience.
func newWorkoutReminderTask(deps TaskDeps, timeOfDay string) ScheduledTaskFunc {
	trigger := "workout_reminder_" + timeOfDay
	log := deps.Logger.With("task", trigger)

	return func(ctx context.Context) error {
		startTime := time.Now()

		users, err := deps.Store.UsersByWorkoutTime(ctx, timeOfDay)
		if err != nil {
			return fmt.Errorf("failed to query %s workout audience: %w", timeOfDay, err)
		}
		if len(users) == 0 {
			log.InfoContext(ctx, "No users for workout reminder", "time_of_day", timeOfDay)
			return nil
		}

		var sent, skipped, failed int
		for i := range users {
			user := &users[i]

			if alreadyNotified(ctx, deps, user.ChatID, trigger, dailyRepeatFloor) {
				skipped++
				continue
			}

			msg := composeWorkoutReminder(user, timeOfDay)
			if err := deps.Sender.SendMessage(ctx, user.ChatID, msg, nil); err != nil {
				log.ErrorContext(ctx, "Failed to send workout reminder",
					"chat_id", user.ChatID, "error", err)
				failed++
				continue
			}

			markNotified(ctx, deps, user.ChatID, trigger)
			sent++
		}

		log.InfoContext(ctx, "Workout reminders dispatched",
			"time_of_day", timeOfDay, "sent", sent, "skipped", skipped,
			"failed", failed, "duration", time.Since(startTime))
		return nil
	}
}

// composeWorkoutReminder builds the localized reminder text. Pure.
func composeWorkoutReminder(user *database.User, timeOfDay string) string {
	lang := i18n.ParseLang(user.Language)
	return i18n.Tf(lang, i18n.MsgWorkoutReminder, user.Name, i18n.TimeOfDayWord(timeOfDay, lang))
}
