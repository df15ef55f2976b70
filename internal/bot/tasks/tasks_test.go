package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/go-telegram/bot/models"

	"github.com/fitpulse/fitpulse-bot/internal/config"
	"github.com/fitpulse/fitpulse-bot/internal/database"
	"github.com/fitpulse/fitpulse-bot/internal/logger"
)

// fakeStore implements database.Store in memory for task tests.
type fakeStore struct {
	users       []database.User
	logs        map[int64][]database.WorkoutLog
	notified    map[string]time.Time
	logQueryErr error
}

func newFakeStore(users ...database.User) *fakeStore {
	return &fakeStore{
		users:    users,
		logs:     make(map[int64][]database.WorkoutLog),
		notified: make(map[string]time.Time),
	}
}

func notifyKey(chatID int64, trigger string) string {
	return fmt.Sprintf("%d/%s", chatID, trigger)
}

func (s *fakeStore) Ping(context.Context) error                           { return nil }
func (s *fakeStore) CreateUser(context.Context, *database.User) error     { return nil }
func (s *fakeStore) UpdateUser(context.Context, *database.User) error     { return nil }
func (s *fakeStore) UpdateUserLanguage(context.Context, int64, string) error {
	return nil
}
func (s *fakeStore) UpdateSubscription(context.Context, int64, string, sql.NullTime) error {
	return nil
}
func (s *fakeStore) SaveWorkoutLog(context.Context, *database.WorkoutLog) error { return nil }
func (s *fakeStore) RunSQLMaintenance(context.Context) error                    { return nil }

func (s *fakeStore) GetUserByChatID(_ context.Context, chatID int64) (*database.User, error) {
	for i := range s.users {
		if s.users[i].ChatID == chatID {
			return &s.users[i], nil
		}
	}
	return nil, nil
}

func (s *fakeStore) UsersWithExpiringSubscription(context.Context, int) ([]database.User, error) {
	return s.users, nil
}

func (s *fakeStore) UsersByWorkoutTime(_ context.Context, timeOfDay string) ([]database.User, error) {
	var out []database.User
	for _, u := range s.users {
		if u.WorkoutTime == timeOfDay {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *fakeStore) AllRecentlyActiveUsers(context.Context, int) ([]database.User, error) {
	return s.users, nil
}

func (s *fakeStore) WorkoutLogsInRange(_ context.Context, chatID int64, start, end time.Time) ([]database.WorkoutLog, error) {
	if s.logQueryErr != nil {
		return nil, s.logQueryErr
	}
	var out []database.WorkoutLog
	for _, l := range s.logs[chatID] {
		if !l.PerformedAt.Before(start) && !l.PerformedAt.After(end) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *fakeStore) LastNotified(_ context.Context, chatID int64, trigger string) (time.Time, error) {
	return s.notified[notifyKey(chatID, trigger)], nil
}

func (s *fakeStore) MarkNotified(_ context.Context, chatID int64, trigger string, at time.Time) error {
	s.notified[notifyKey(chatID, trigger)] = at
	return nil
}

// fakeSender records sends and can fail for selected chats.
type fakeSender struct {
	sent    map[int64][]string
	failFor map[int64]error
}

func newFakeSender() *fakeSender {
	return &fakeSender{sent: make(map[int64][]string), failFor: make(map[int64]error)}
}

func (f *fakeSender) SendMessage(_ context.Context, chatID int64, text string, _ models.ReplyMarkup) error {
	if err := f.failFor[chatID]; err != nil {
		return err
	}
	f.sent[chatID] = append(f.sent[chatID], text)
	return nil
}

func testDeps(store *fakeStore, sender *fakeSender) TaskDeps {
	return TaskDeps{
		Logger: logger.NewLogger("error", false),
		Store:  store,
		Sender: sender,
		Config: &config.Config{
			Scheduler: config.SchedulerConfig{
				ExpiryLookaheadDays: 3,
				ActiveSinceDays:     30,
			},
		},
	}
}

func morningUser(chatID int64, name, lang string) database.User {
	return database.User{
		ChatID:      chatID,
		Name:        name,
		Language:    lang,
		WorkoutTime: database.TimeMorning,
	}
}

func TestWorkoutReminderMatchesAudience(t *testing.T) {
	t.Parallel()

	evening := morningUser(3, "Vera", "ru")
	evening.WorkoutTime = database.TimeEvening

	store := newFakeStore(
		morningUser(1, "Anna", "en"),
		morningUser(2, "Boris", "ru"),
		evening,
	)
	sender := newFakeSender()

	task := newWorkoutReminderTask(testDeps(store, sender), database.TimeMorning)
	if err := task(context.Background()); err != nil {
		t.Fatalf("task failed: %v", err)
	}

	if len(sender.sent[1]) != 1 || len(sender.sent[2]) != 1 {
		t.Error("both morning users should be reminded")
	}
	if len(sender.sent[3]) != 0 {
		t.Error("evening user must not get a morning reminder")
	}

	if got := sender.sent[1][0]; !strings.Contains(got, "morning workout") {
		t.Errorf("English reminder should name the time of day, got %q", got)
	}
	if got := sender.sent[2][0]; !strings.Contains(got, "утренней") {
		t.Errorf("Russian reminder should use the declined form, got %q", got)
	}
}

func TestWorkoutReminderIsolatesFailures(t *testing.T) {
	t.Parallel()

	store := newFakeStore(
		morningUser(1, "Anna", "en"),
		morningUser(2, "Boris", "ru"),
		morningUser(3, "Vera", "ru"),
	)
	sender := newFakeSender()
	sender.failFor[2] = errors.New("bot was blocked by the user")

	task := newWorkoutReminderTask(testDeps(store, sender), database.TimeMorning)
	if err := task(context.Background()); err != nil {
		t.Fatalf("a bad recipient must not fail the firing: %v", err)
	}

	if len(sender.sent[1]) != 1 || len(sender.sent[3]) != 1 {
		t.Error("remaining users should still be notified")
	}
	if _, ok := store.notified[notifyKey(2, "workout_reminder_morning")]; ok {
		t.Error("failed delivery must not be recorded as notified")
	}
}

func TestWorkoutReminderSkipsRecentlyNotified(t *testing.T) {
	t.Parallel()

	store := newFakeStore(morningUser(1, "Anna", "en"))
	store.notified[notifyKey(1, "workout_reminder_morning")] = time.Now().Add(-time.Hour)
	sender := newFakeSender()

	task := newWorkoutReminderTask(testDeps(store, sender), database.TimeMorning)
	if err := task(context.Background()); err != nil {
		t.Fatalf("task failed: %v", err)
	}

	if len(sender.sent[1]) != 0 {
		t.Error("a user notified an hour ago must be skipped")
	}
}

func TestWorkoutReminderResendsNextDay(t *testing.T) {
	t.Parallel()

	store := newFakeStore(morningUser(1, "Anna", "en"))
	store.notified[notifyKey(1, "workout_reminder_morning")] = time.Now().Add(-23 * time.Hour)
	sender := newFakeSender()

	task := newWorkoutReminderTask(testDeps(store, sender), database.TimeMorning)
	if err := task(context.Background()); err != nil {
		t.Fatalf("task failed: %v", err)
	}

	if len(sender.sent[1]) != 1 {
		t.Error("yesterday's notification must not suppress today's")
	}
}

func TestWeeklyProgressEmptyWeek(t *testing.T) {
	t.Parallel()

	store := newFakeStore(morningUser(1, "Anna", "en"))
	sender := newFakeSender()

	task := newWeeklyProgressTask(testDeps(store, sender))
	if err := task(context.Background()); err != nil {
		t.Fatalf("task failed: %v", err)
	}

	if len(sender.sent[1]) != 1 {
		t.Fatal("user should get the empty-week report")
	}
	if got := sender.sent[1][0]; !strings.Contains(got, "didn't log any workouts") {
		t.Errorf("expected the no-workouts variant, got %q", got)
	}
}

func TestWeeklyProgressStats(t *testing.T) {
	t.Parallel()

	store := newFakeStore(morningUser(1, "Anna", "en"))
	twoDaysAgo := time.Now().AddDate(0, 0, -2)
	threeDaysAgo := time.Now().AddDate(0, 0, -3)
	store.logs[1] = []database.WorkoutLog{
		{ChatID: 1, Exercise: "squat", DurationSec: 600, PerformedAt: twoDaysAgo},
		{ChatID: 1, Exercise: "bench", DurationSec: 900, PerformedAt: twoDaysAgo},
		{ChatID: 1, Exercise: "run", DurationSec: 1800, PerformedAt: threeDaysAgo},
	}
	sender := newFakeSender()

	task := newWeeklyProgressTask(testDeps(store, sender))
	if err := task(context.Background()); err != nil {
		t.Fatalf("task failed: %v", err)
	}

	if len(sender.sent[1]) != 1 {
		t.Fatal("user should get the report")
	}
	got := sender.sent[1][0]
	// 2 workout days, 3 exercises, 55 total minutes
	for _, want := range []string{"Workouts: 2", "Exercises: 3", "Total time: 55 minutes"} {
		if !strings.Contains(got, want) {
			t.Errorf("report missing %q:\n%s", want, got)
		}
	}
}

func TestWeeklyProgressIsolatesLogQueryFailure(t *testing.T) {
	t.Parallel()

	store := newFakeStore(
		morningUser(1, "Anna", "en"),
		morningUser(2, "Boris", "ru"),
	)
	sender := newFakeSender()
	deps := testDeps(store, sender)

	// Per-user log query failures must not abort the firing; simulate by
	// failing the whole query source once the first user was handled.
	calls := 0
	deps.Store = storeWithFailingLogs{fakeStore: store, failAfter: &calls}

	task := newWeeklyProgressTask(deps)
	if err := task(context.Background()); err != nil {
		t.Fatalf("task failed: %v", err)
	}

	if len(sender.sent[1])+len(sender.sent[2]) == 0 {
		t.Error("at least one user should still be notified")
	}
}

type storeWithFailingLogs struct {
	*fakeStore
	failAfter *int
}

func (s storeWithFailingLogs) WorkoutLogsInRange(ctx context.Context, chatID int64, start, end time.Time) ([]database.WorkoutLog, error) {
	*s.failAfter++
	if *s.failAfter > 1 {
		return nil, errors.New("database is locked")
	}
	return s.fakeStore.WorkoutLogsInRange(ctx, chatID, start, end)
}

func TestProgressWindow(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC)
	start, end := progressWindow(now)

	if got := start.Format("2006-01-02 15:04:05"); got != "2026-03-09 00:00:00" {
		t.Errorf("window start = %s", got)
	}
	if got := end.Format("2006-01-02 15:04:05"); got != "2026-03-15 23:59:59" {
		t.Errorf("window end = %s", got)
	}
}

func TestSubscriptionExpiryMessage(t *testing.T) {
	t.Parallel()

	user := morningUser(1, "Anna", "ru")
	user.Subscription = database.TierPremium
	user.SubscriptionExpiry = sql.NullTime{
		Time:  time.Now().AddDate(0, 0, 2),
		Valid: true,
	}
	store := newFakeStore(user)
	sender := newFakeSender()

	task := newSubscriptionExpiryTask(testDeps(store, sender))
	if err := task(context.Background()); err != nil {
		t.Fatalf("task failed: %v", err)
	}

	if len(sender.sent[1]) != 1 {
		t.Fatal("user should get the expiry warning")
	}
	got := sender.sent[1][0]
	if !strings.Contains(got, "PREMIUM") {
		t.Errorf("warning should carry the uppercased tier:\n%s", got)
	}
	// 2 days remaining selects the Russian few-class form
	if !strings.Contains(got, "2 дня") {
		t.Errorf("warning should decline days correctly:\n%s", got)
	}
}

func TestSubscriptionExpirySkipsMissingExpiry(t *testing.T) {
	t.Parallel()

	user := morningUser(1, "Anna", "en")
	user.Subscription = database.TierPremium
	store := newFakeStore(user)
	sender := newFakeSender()

	task := newSubscriptionExpiryTask(testDeps(store, sender))
	if err := task(context.Background()); err != nil {
		t.Fatalf("task failed: %v", err)
	}

	if len(sender.sent[1]) != 0 {
		t.Error("user without an expiry date must be skipped")
	}
}

func TestRegisterAllTasks(t *testing.T) {
	t.Parallel()

	deps := testDeps(newFakeStore(), newFakeSender())
	registered := RegisterAllTasks(deps)

	expected := []string{
		"workout_reminder_morning",
		"workout_reminder_afternoon",
		"workout_reminder_evening",
		"weekly_progress",
		"subscription_expiry",
		"sql_maintenance",
	}
	for _, name := range expected {
		if registered[name] == nil {
			t.Errorf("task %s is not registered", name)
		}
	}
	if len(registered) != len(expected) {
		t.Errorf("registered %d tasks, want %d", len(registered), len(expected))
	}
}
