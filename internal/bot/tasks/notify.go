package tasks

import (
	"context"
	"time"
)

// Repeat floors per trigger cadence, slightly under the nominal period so
// clock drift between firings cannot suppress the next one. A firing that
// repeats inside the floor (scheduler restart, overlapping deploys) is
// skipped per recipient.
const (
	dailyRepeatFloor  = 20 * time.Hour
	weeklyRepeatFloor = 6 * 24 * time.Hour
)

// alreadyNotified reports whether the named trigger notified this chat
// within the floor period. Lookup failures count as not notified: a
// broken notification log must not silence deliveries entirely.
func alreadyNotified(ctx context.Context, deps TaskDeps, chatID int64, trigger string, floor time.Duration) bool {
	last, err := deps.Store.LastNotified(ctx, chatID, trigger)
	if err != nil {
		deps.Logger.WarnContext(ctx, "Failed to read notification log, assuming not notified",
			"chat_id", chatID, "trigger", trigger, "error", err)
		return false
	}
	if last.IsZero() {
		return false
	}
	return time.Since(last) < floor
}

// markNotified records a delivery in the notification log. Failures are
// logged only; the message was already sent.
func markNotified(ctx context.Context, deps TaskDeps, chatID int64, trigger string) {
	if err := deps.Store.MarkNotified(ctx, chatID, trigger, time.Now()); err != nil {
		deps.Logger.WarnContext(ctx, "Failed to record notification",
			"chat_id", chatID, "trigger", trigger, "error", err)
	}
}
