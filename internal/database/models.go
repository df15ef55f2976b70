package database

import (
	"database/sql"
	"strings"
	"time"
)

// Subscription tiers. A user starts on TierNone after onboarding and is
// upgraded through the repository boundary.
const (
	TierNone       = "none"
	TierPremium    = "premium"
	TierIndividual = "individual"
)

// Onboarding goals. Free-text answers are normalized to one of these.
const (
	GoalWeightLoss  = "weight_loss"
	GoalMuscleGain  = "muscle_gain"
	GoalMaintenance = "maintenance"
)

// Workout-time preferences matched by the reminder triggers.
const (
	TimeMorning   = "morning"
	TimeAfternoon = "afternoon"
	TimeEvening   = "evening"
)

// User is a fully onboarded bot user. ChatID is the Telegram chat id and
// doubles as the primary key; a visitor mid-onboarding has no row.
type User struct {
	ChatID    int64     `db:"chat_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	Name               string          `db:"name"`
	Language           string          `db:"language"`
	Goal               string          `db:"goal"`
	Subscription       string          `db:"subscription"`
	SubscriptionExpiry sql.NullTime    `db:"subscription_expiry"`
	WorkoutTime        string          `db:"workout_time"`
	WorkoutDays        string          `db:"workout_days"` // comma-separated weekday names
	Phone              sql.NullString  `db:"phone"`
}

// WorkoutDayList splits the stored comma-separated weekday names.
func (u *User) WorkoutDayList() []string {
	if u.WorkoutDays == "" {
		return nil
	}
	return strings.Split(u.WorkoutDays, ",")
}

// WorkoutLog is one logged workout. Created through the repository
// boundary by the companion app; this core only reads them when composing
// weekly summaries.
type WorkoutLog struct {
	ID        uint      `db:"id"`
	CreatedAt time.Time `db:"created_at"`

	ChatID      int64           `db:"chat_id"`
	Exercise    string          `db:"exercise"`
	DurationSec int64           `db:"duration_sec"`
	Reps        sql.NullInt64   `db:"reps"`
	Sets        sql.NullInt64   `db:"sets"`
	Weight      sql.NullFloat64 `db:"weight"`
	Note        sql.NullString  `db:"note"`
	PerformedAt time.Time       `db:"performed_at"`
}

// NotificationRecord tracks the last time a trigger notified a user, so a
// trigger firing twice in the same period does not resend.
type NotificationRecord struct {
	ChatID     int64     `db:"chat_id"`
	Trigger    string    `db:"trigger_name"`
	LastSentAt time.Time `db:"last_sent_at"`
}
