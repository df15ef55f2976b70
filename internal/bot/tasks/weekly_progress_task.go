package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/fitpulse/fitpulse-bot/internal/database"
	"github.com/fitpulse/fitpulse-bot/internal/i18n"
)

const weeklyProgressTrigger = "weekly_progress"

// newWeeklyProgressTask creates a scheduled task that sends every
// recently active user a summary of the prior 7-day window ending
// yesterday.
func newWeeklyProgressTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", weeklyProgressTrigger)

	return func(ctx context.Context) error {
		startTime := time.Now()

		sinceDays := deps.Config.Scheduler.ActiveSinceDays
		users, err := deps.Store.AllRecentlyActiveUsers(ctx, sinceDays)
		if err != nil {
			return fmt.Errorf("failed to query active users: %w", err)
		}
		if len(users) == 0 {
			log.InfoContext(ctx, "No active users for weekly progress")
			return nil
		}

		start, end := progressWindow(time.Now())

		var sent, skipped, failed int
		for i := range users {
			user := &users[i]

			if alreadyNotified(ctx, deps, user.ChatID, weeklyProgressTrigger, weeklyRepeatFloor) {
				skipped++
				continue
			}

			logs, err := deps.Store.WorkoutLogsInRange(ctx, user.ChatID, start, end)
			if err != nil {
				log.ErrorContext(ctx, "Failed to load workout logs",
					"chat_id", user.ChatID, "error", err)
				failed++
				continue
			}

			msg := composeWeeklyProgress(user, logs, start, end)
			if err := deps.Sender.SendMessage(ctx, user.ChatID, msg, nil); err != nil {
				log.ErrorContext(ctx, "Failed to send weekly progress",
					"chat_id", user.ChatID, "error", err)
				failed++
				continue
			}

			markNotified(ctx, deps, user.ChatID, weeklyProgressTrigger)
			sent++
		}

		log.InfoContext(ctx, "Weekly progress reports dispatched",
			"sent", sent, "skipped", skipped, "failed", failed,
			"duration", time.Since(startTime))
		return nil
	}
}

// progressWindow returns the reporting window: the 7 full days ending at
// the end of yesterday.
func progressWindow(now time.Time) (time.Time, time.Time) {
	yesterday := now.AddDate(0, 0, -1)
	end := time.Date(yesterday.Year(), yesterday.Month(), yesterday.Day(),
		23, 59, 59, 0, now.Location())
	startDay := end.AddDate(0, 0, -6)
	start := time.Date(startDay.Year(), startDay.Month(), startDay.Day(),
		0, 0, 0, 0, now.Location())
	return start, end
}

// composeWeeklyProgress builds the localized report text. Pure.
func composeWeeklyProgress(user *database.User, logs []database.WorkoutLog, start, end time.Time) string {
	lang := i18n.ParseLang(user.Language)
	dateRange := fmt.Sprintf("%s - %s", start.Format("02.01"), end.Format("02.01.2006"))

	if len(logs) == 0 {
		return i18n.Tf(lang, i18n.MsgWeeklyProgressEmpty, user.Name, dateRange)
	}

	// One log row is one exercise; rows on the same day count as one workout
	days := make(map[string]struct{}, len(logs))
	var totalSec int64
	for i := range logs {
		days[logs[i].PerformedAt.Format("2006-01-02")] = struct{}{}
		totalSec += logs[i].DurationSec
	}
	workouts := len(days)
	exercises := len(logs)
	totalMinutes := int((totalSec + 30) / 60)

	return i18n.Tf(lang, i18n.MsgWeeklyProgress, user.Name, dateRange,
		workouts, exercises, totalMinutes)
}
