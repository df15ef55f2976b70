package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the interface for user, workout-log, and notification
// bookkeeping operations. Methods accept context.Context for cancellation
// and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// CreateUser inserts a new user record. The user must not already exist.
	CreateUser(ctx context.Context, user *User) error

	// GetUserByChatID retrieves a user by chat id. Returns nil, nil if not found.
	GetUserByChatID(ctx context.Context, chatID int64) (*User, error)

	// UpdateUser updates the mutable profile fields of an existing user.
	UpdateUser(ctx context.Context, user *User) error

	// UpdateUserLanguage changes only the stored language preference.
	UpdateUserLanguage(ctx context.Context, chatID int64, language string) error

	// UpdateSubscription changes the subscription tier and expiry of a user.
	UpdateSubscription(ctx context.Context, chatID int64, tier string, expiry sql.NullTime) error

	// UsersWithExpiringSubscription returns paying users whose subscription
	// expires between now and now+daysAhead days.
	UsersWithExpiringSubscription(ctx context.Context, daysAhead int) ([]User, error)

	// UsersByWorkoutTime returns users whose workout-time preference matches.
	UsersByWorkoutTime(ctx context.Context, timeOfDay string) ([]User, error)

	// AllRecentlyActiveUsers returns users created or updated within the
	// last sinceDays days.
	AllRecentlyActiveUsers(ctx context.Context, sinceDays int) ([]User, error)

	// WorkoutLogsInRange returns a user's workout logs with performed_at
	// inside [start, end].
	WorkoutLogsInRange(ctx context.Context, chatID int64, start, end time.Time) ([]WorkoutLog, error)

	// SaveWorkoutLog inserts a workout log record.
	SaveWorkoutLog(ctx context.Context, log *WorkoutLog) error

	// LastNotified returns when the named trigger last notified the user.
	// The zero time is returned if it never has.
	LastNotified(ctx context.Context, chatID int64, trigger string) (time.Time, error)

	// MarkNotified records that the named trigger notified the user at the
	// given time, replacing any earlier record.
	MarkNotified(ctx context.Context, chatID int64, trigger string, at time.Time) error

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// CreateUser inserts a new user record.
func (s *sqlxStore) CreateUser(ctx context.Context, user *User) error {
	if user == nil {
		return fmt.Errorf("cannot create nil user")
	}
	if user.ChatID == 0 {
		return fmt.Errorf("user must have a non-zero chat_id")
	}
	if user.Name == "" {
		return fmt.Errorf("user must have a non-empty name")
	}

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := `
        INSERT INTO users (chat_id, name, language, goal, subscription, subscription_expiry,
                           workout_time, workout_days, phone, created_at, updated_at)
        VALUES (:chat_id, :name, :language, :goal, :subscription, :subscription_expiry,
                :workout_time, :workout_days, :phone, :created_at, :updated_at);
    `

	if _, err := s.db.NamedExecContext(ctx, query, user); err != nil {
		s.logger.ErrorContext(ctx, "Error creating user", "chat_id", user.ChatID, "error", err)
		return fmt.Errorf("failed to create user %d: %w", user.ChatID, err)
	}

	s.logger.DebugContext(ctx, "User created successfully", "chat_id", user.ChatID)
	return nil
}

// GetUserByChatID retrieves a user by chat id. Returns nil, nil if not found.
func (s *sqlxStore) GetUserByChatID(ctx context.Context, chatID int64) (*User, error) {
	if chatID == 0 {
		return nil, fmt.Errorf("chat_id cannot be zero")
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var user User
	query := `SELECT chat_id, name, language, goal, subscription, subscription_expiry,
	                 workout_time, workout_days, phone, created_at, updated_at
	          FROM users WHERE chat_id = ?`

	err := s.db.GetContext(ctx, &user, query, chatID)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		// Not found is expected for visitors mid-onboarding, not an error
		s.logger.DebugContext(ctx, "No user found", "chat_id", chatID)
		return nil, nil

	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "Context timeout or cancellation while fetching user",
			"chat_id", chatID, "error", err)
		return nil, err

	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting user by chat id", "chat_id", chatID, "error", err)
		return nil, fmt.Errorf("failed to get user %d: %w", chatID, err)
	}

	return &user, nil
}

// UpdateUser updates the mutable profile fields of an existing user.
func (s *sqlxStore) UpdateUser(ctx context.Context, user *User) error {
	if user == nil {
		return fmt.Errorf("cannot update nil user")
	}
	if user.ChatID == 0 {
		return fmt.Errorf("user must have a non-zero chat_id")
	}

	user.UpdatedAt = time.Now().UTC()

	query := `
        UPDATE users SET
            name = :name,
            language = :language,
            goal = :goal,
            workout_time = :workout_time,
            workout_days = :workout_days,
            phone = :phone,
            updated_at = :updated_at
        WHERE chat_id = :chat_id
    `

	result, err := s.db.NamedExecContext(ctx, query, user)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error updating user", "chat_id", user.ChatID, "error", err)
		return fmt.Errorf("failed to update user %d: %w", user.ChatID, err)
	}

	if affected, err := result.RowsAffected(); err == nil && affected != 1 {
		s.logger.WarnContext(ctx, "Unexpected number of rows affected when updating user",
			"chat_id", user.ChatID, "affected", affected)
	}

	s.logger.DebugContext(ctx, "User updated successfully", "chat_id", user.ChatID)
	return nil
}

// UpdateUserLanguage changes only the stored language preference.
func (s *sqlxStore) UpdateUserLanguage(ctx context.Context, chatID int64, language string) error {
	if chatID == 0 {
		return fmt.Errorf("chat_id cannot be zero")
	}
	if language == "" {
		return fmt.Errorf("language cannot be empty")
	}

	query := `UPDATE users SET language = ?, updated_at = ? WHERE chat_id = ?`
	if _, err := s.db.ExecContext(ctx, query, language, time.Now().UTC(), chatID); err != nil {
		s.logger.ErrorContext(ctx, "Error updating user language",
			"chat_id", chatID, "language", language, "error", err)
		return fmt.Errorf("failed to update language for user %d: %w", chatID, err)
	}

	s.logger.DebugContext(ctx, "User language updated", "chat_id", chatID, "language", language)
	return nil
}

// UpdateSubscription changes the subscription tier and expiry of a user.
func (s *sqlxStore) UpdateSubscription(ctx context.Context, chatID int64, tier string, expiry sql.NullTime) error {
	if chatID == 0 {
		return fmt.Errorf("chat_id cannot be zero")
	}

	query := `UPDATE users SET subscription = ?, subscription_expiry = ?, updated_at = ? WHERE chat_id = ?`
	result, err := s.db.ExecContext(ctx, query, tier, expiry, time.Now().UTC(), chatID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error updating subscription",
			"chat_id", chatID, "tier", tier, "error", err)
		return fmt.Errorf("failed to update subscription for user %d: %w", chatID, err)
	}

	if affected, err := result.RowsAffected(); err == nil && affected != 1 {
		s.logger.WarnContext(ctx, "Unexpected number of rows affected when updating subscription",
			"chat_id", chatID, "affected", affected)
	}

	s.logger.DebugContext(ctx, "Subscription updated", "chat_id", chatID, "tier", tier)
	return nil
}

// UsersWithExpiringSubscription returns paying users whose subscription
// expires between now and now+daysAhead days.
func (s *sqlxStore) UsersWithExpiringSubscription(ctx context.Context, daysAhead int) ([]User, error) {
	if daysAhead <= 0 {
		return nil, fmt.Errorf("daysAhead must be positive, got %d", daysAhead)
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	now := time.Now().UTC()
	until := now.AddDate(0, 0, daysAhead)

	var users []User
	query := `SELECT chat_id, name, language, goal, subscription, subscription_expiry,
	                 workout_time, workout_days, phone, created_at, updated_at
	          FROM users
	          WHERE subscription IN (?, ?)
	            AND subscription_expiry IS NOT NULL
	            AND subscription_expiry >= ?
	            AND subscription_expiry <= ?`

	err := s.db.SelectContext(ctx, &users, query, TierPremium, TierIndividual, now, until)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error getting users with expiring subscriptions",
			"days_ahead", daysAhead, "error", err)
		return nil, fmt.Errorf("failed to get users with expiring subscriptions: %w", err)
	}

	s.logger.DebugContext(ctx, "Fetched users with expiring subscriptions",
		"days_ahead", daysAhead, "count", len(users))
	return users, nil
}

// UsersByWorkoutTime returns users whose workout-time preference matches.
func (s *sqlxStore) UsersByWorkoutTime(ctx context.Context, timeOfDay string) ([]User, error) {
	if timeOfDay == "" {
		return nil, fmt.Errorf("timeOfDay cannot be empty")
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var users []User
	query := `SELECT chat_id, name, language, goal, subscription, subscription_expiry,
	                 workout_time, workout_days, phone, created_at, updated_at
	          FROM users WHERE workout_time = ?`

	err := s.db.SelectContext(ctx, &users, query, timeOfDay)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error getting users by workout time",
			"time_of_day", timeOfDay, "error", err)
		return nil, fmt.Errorf("failed to get users by workout time %q: %w", timeOfDay, err)
	}

	s.logger.DebugContext(ctx, "Fetched users by workout time",
		"time_of_day", timeOfDay, "count", len(users))
	return users, nil
}

// AllRecentlyActiveUsers returns users created or updated within the last
// sinceDays days.
func (s *sqlxStore) AllRecentlyActiveUsers(ctx context.Context, sinceDays int) ([]User, error) {
	if sinceDays <= 0 {
		sinceDays = 30
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -sinceDays)

	var users []User
	query := `SELECT chat_id, name, language, goal, subscription, subscription_expiry,
	                 workout_time, workout_days, phone, created_at, updated_at
	          FROM users WHERE updated_at >= ? OR created_at >= ?`

	err := s.db.SelectContext(ctx, &users, query, cutoff, cutoff)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error getting recently active users",
			"since_days", sinceDays, "error", err)
		return nil, fmt.Errorf("failed to get recently active users: %w", err)
	}

	s.logger.DebugContext(ctx, "Fetched recently active users",
		"since_days", sinceDays, "count", len(users))
	return users, nil
}

// WorkoutLogsInRange returns a user's workout logs inside [start, end].
func (s *sqlxStore) WorkoutLogsInRange(ctx context.Context, chatID int64, start, end time.Time) ([]WorkoutLog, error) {
	if chatID == 0 {
		return nil, fmt.Errorf("chat_id cannot be zero")
	}
	if end.Before(start) {
		return nil, fmt.Errorf("end %v is before start %v", end, start)
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var logs []WorkoutLog
	query := `SELECT id, chat_id, exercise, duration_sec, reps, sets, weight, note, performed_at, created_at
	          FROM workout_logs
	          WHERE chat_id = ? AND performed_at >= ? AND performed_at <= ?
	          ORDER BY performed_at ASC`

	err := s.db.SelectContext(ctx, &logs, query, chatID, start, end)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error getting workout logs",
			"chat_id", chatID, "error", err)
		return nil, fmt.Errorf("failed to get workout logs for user %d: %w", chatID, err)
	}

	return logs, nil
}

// SaveWorkoutLog inserts a workout log record.
func (s *sqlxStore) SaveWorkoutLog(ctx context.Context, log *WorkoutLog) error {
	if log == nil {
		return fmt.Errorf("cannot save nil workout log")
	}
	if log.ChatID == 0 {
		return fmt.Errorf("workout log must have a non-zero chat_id")
	}
	if log.Exercise == "" {
		return fmt.Errorf("workout log must have a non-empty exercise")
	}
	if log.PerformedAt.IsZero() {
		return fmt.Errorf("workout log must have a non-zero performed_at")
	}

	log.CreatedAt = time.Now().UTC()

	query := `
        INSERT INTO workout_logs (chat_id, exercise, duration_sec, reps, sets, weight, note, performed_at, created_at)
        VALUES (:chat_id, :exercise, :duration_sec, :reps, :sets, :weight, :note, :performed_at, :created_at);
    `

	result, err := s.db.NamedExecContext(ctx, query, log)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving workout log", "chat_id", log.ChatID, "error", err)
		return fmt.Errorf("failed to save workout log for user %d: %w", log.ChatID, err)
	}

	if id, err := result.LastInsertId(); err == nil {
		//nolint:gosec // integer overflow conversion is acceptable here
		log.ID = uint(id)
	}

	return nil
}

// LastNotified returns when the named trigger last notified the user.
func (s *sqlxStore) LastNotified(ctx context.Context, chatID int64, trigger string) (time.Time, error) {
	if chatID == 0 {
		return time.Time{}, fmt.Errorf("chat_id cannot be zero")
	}
	if trigger == "" {
		return time.Time{}, fmt.Errorf("trigger cannot be empty")
	}

	var rec NotificationRecord
	query := `SELECT chat_id, trigger_name, last_sent_at FROM notification_log WHERE chat_id = ? AND trigger_name = ?`

	err := s.db.GetContext(ctx, &rec, query, chatID, trigger)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return time.Time{}, nil

	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting notification record",
			"chat_id", chatID, "trigger", trigger, "error", err)
		return time.Time{}, fmt.Errorf("failed to get notification record for user %d trigger %q: %w", chatID, trigger, err)
	}

	return rec.LastSentAt, nil
}

// MarkNotified records that the named trigger notified the user at the
// given time, replacing any earlier record.
func (s *sqlxStore) MarkNotified(ctx context.Context, chatID int64, trigger string, at time.Time) error {
	if chatID == 0 {
		return fmt.Errorf("chat_id cannot be zero")
	}
	if trigger == "" {
		return fmt.Errorf("trigger cannot be empty")
	}

	query := `
        INSERT INTO notification_log (chat_id, trigger_name, last_sent_at)
        VALUES (?, ?, ?)
        ON CONFLICT (chat_id, trigger_name) DO UPDATE SET last_sent_at = excluded.last_sent_at;
    `

	if _, err := s.db.ExecContext(ctx, query, chatID, trigger, at.UTC()); err != nil {
		s.logger.ErrorContext(ctx, "Error marking notification sent",
			"chat_id", chatID, "trigger", trigger, "error", err)
		return fmt.Errorf("failed to mark notification for user %d trigger %q: %w", chatID, trigger, err)
	}

	return nil
}

// RunSQLMaintenance executes a VACUUM command on the SQLite database.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context cancelled or timed out before starting VACUUM", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")

	// VACUUM must run outside a transaction in SQLite
	_, err := s.db.ExecContext(ctx, "VACUUM;")

	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "VACUUM operation timed out or was cancelled", "error", err)
		return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)

	case err != nil:
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed successfully")
	return nil
}
