package tasks

import (
	"context"

	"github.com/fitpulse/fitpulse-bot/internal/database"
)

// ScheduledTaskFunc defines the standard signature for all scheduled tasks.
// The context provided by the scheduler should be respected for cancellation.
type ScheduledTaskFunc func(ctx context.Context) error

// RegisterAllTasks initializes and returns a map of all registered
// scheduled tasks. The keys match the task names in the scheduler
// section of the configuration.
func RegisterAllTasks(deps TaskDeps) map[string]ScheduledTaskFunc {
	tasks := make(map[string]ScheduledTaskFunc)

	tasks["workout_reminder_morning"] = newWorkoutReminderTask(deps, database.TimeMorning)
	tasks["workout_reminder_afternoon"] = newWorkoutReminderTask(deps, database.TimeAfternoon)
	tasks["workout_reminder_evening"] = newWorkoutReminderTask(deps, database.TimeEvening)
	tasks["weekly_progress"] = newWeeklyProgressTask(deps)
	tasks["subscription_expiry"] = newSubscriptionExpiryTask(deps)
	tasks["sql_maintenance"] = newSQLMaintenanceTask(deps)

	deps.Logger.Info("Initialized scheduled tasks", "count", len(tasks))
	return tasks
}
