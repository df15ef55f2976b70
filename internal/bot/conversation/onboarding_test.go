package conversation_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fitpulse/fitpulse-bot/internal/bot/conversation"
	"github.com/fitpulse/fitpulse-bot/internal/database"
	"github.com/fitpulse/fitpulse-bot/internal/i18n"
)

func TestOnboardingViaButtons(t *testing.T) {
	t.Parallel()

	f := newEngineFixture()
	ctx := context.Background()
	const chatID int64 = 100

	if err := f.engine.Enter(ctx, chatID, conversation.ProgramOnboarding); err != nil {
		t.Fatalf("Enter failed: %v", err)
	}

	steps := []conversation.Update{
		{Text: "Anna"},
		{CallbackData: "goal_weight_loss"},
		{CallbackData: "lang_en"},
	}
	for _, upd := range steps {
		handled, err := f.engine.Resume(ctx, chatID, upd)
		if err != nil {
			t.Fatalf("Resume(%+v) failed: %v", upd, err)
		}
		if !handled {
			t.Fatalf("Resume(%+v) should consume the update", upd)
		}
	}

	user, err := f.store.GetUserByChatID(ctx, chatID)
	if err != nil {
		t.Fatalf("GetUserByChatID failed: %v", err)
	}
	if user == nil {
		t.Fatal("user was not created")
	}
	if user.Name != "Anna" {
		t.Errorf("Name = %q, want Anna", user.Name)
	}
	if user.Goal != database.GoalWeightLoss {
		t.Errorf("Goal = %q, want %q", user.Goal, database.GoalWeightLoss)
	}
	if user.Language != string(i18n.LangEN) {
		t.Errorf("Language = %q, want en", user.Language)
	}
	if user.Subscription != database.TierNone {
		t.Errorf("Subscription = %q, want %q", user.Subscription, database.TierNone)
	}
	if user.WorkoutTime != database.TimeEvening {
		t.Errorf("WorkoutTime = %q, want %q", user.WorkoutTime, database.TimeEvening)
	}

	if len(f.relay.signups) != 1 || f.relay.signups[0] != chatID {
		t.Errorf("expected a signup escalation for chat %d, got %v", chatID, f.relay.signups)
	}

	// Session is gone once the profile exists
	if prog := f.engine.ActiveProgram(ctx, chatID); prog != "" {
		t.Errorf("ActiveProgram = %q after completion, want empty", prog)
	}

	last := f.sender.lastText(chatID)
	if !strings.Contains(last, "Anna") {
		t.Errorf("completion message should mention the name, got %q", last)
	}
}

func TestOnboardingViaFreeText(t *testing.T) {
	t.Parallel()

	f := newEngineFixture()
	ctx := context.Background()
	const chatID int64 = 101

	if err := f.engine.Enter(ctx, chatID, conversation.ProgramOnboarding); err != nil {
		t.Fatalf("Enter failed: %v", err)
	}

	for _, upd := range []conversation.Update{
		{Text: "Иван"},
		{Text: "хочу набрать мышечную массу"},
		{Text: "русский"},
	} {
		if _, err := f.engine.Resume(ctx, chatID, upd); err != nil {
			t.Fatalf("Resume(%+v) failed: %v", upd, err)
		}
	}

	user, _ := f.store.GetUserByChatID(ctx, chatID)
	if user == nil {
		t.Fatal("user was not created")
	}
	if user.Goal != database.GoalMuscleGain {
		t.Errorf("Goal = %q, want %q", user.Goal, database.GoalMuscleGain)
	}
	if user.Language != string(i18n.LangRU) {
		t.Errorf("Language = %q, want ru", user.Language)
	}
}

func TestOnboardingUnrecognizedAnswersFallBack(t *testing.T) {
	t.Parallel()

	f := newEngineFixture()
	ctx := context.Background()
	const chatID int64 = 102

	if err := f.engine.Enter(ctx, chatID, conversation.ProgramOnboarding); err != nil {
		t.Fatalf("Enter failed: %v", err)
	}

	for _, upd := range []conversation.Update{
		{Text: "Pat"},
		{Text: "whatever sounds fun"},
		{Text: "klingon"},
	} {
		if _, err := f.engine.Resume(ctx, chatID, upd); err != nil {
			t.Fatalf("Resume(%+v) failed: %v", upd, err)
		}
	}

	user, _ := f.store.GetUserByChatID(ctx, chatID)
	if user == nil {
		t.Fatal("user was not created")
	}
	if user.Goal != database.GoalMaintenance {
		t.Errorf("Goal = %q, want fallback %q", user.Goal, database.GoalMaintenance)
	}
	if user.Language != string(i18n.DefaultLang) {
		t.Errorf("Language = %q, want default", user.Language)
	}
}

func TestOnboardingEmptyNameReprompts(t *testing.T) {
	t.Parallel()

	f := newEngineFixture()
	ctx := context.Background()
	const chatID int64 = 103

	if err := f.engine.Enter(ctx, chatID, conversation.ProgramOnboarding); err != nil {
		t.Fatalf("Enter failed: %v", err)
	}

	for _, upd := range []conversation.Update{
		{Text: "   "},
		{CallbackData: "goal_weight_loss"},
	} {
		handled, err := f.engine.Resume(ctx, chatID, upd)
		if err != nil {
			t.Fatalf("Resume failed: %v", err)
		}
		if !handled {
			t.Fatal("update during onboarding should be consumed")
		}
	}

	// Still waiting for a name, nothing persisted
	if user, _ := f.store.GetUserByChatID(ctx, chatID); user != nil {
		t.Error("user must not be created before the name is given")
	}
	if prog := f.engine.ActiveProgram(ctx, chatID); prog != conversation.ProgramOnboarding {
		t.Errorf("ActiveProgram = %q, want onboarding", prog)
	}
}

func TestOnboardingPersistFailureRetries(t *testing.T) {
	t.Parallel()

	f := newEngineFixture()
	ctx := context.Background()
	const chatID int64 = 104

	if err := f.engine.Enter(ctx, chatID, conversation.ProgramOnboarding); err != nil {
		t.Fatalf("Enter failed: %v", err)
	}

	f.store.createErr = errors.New("disk full")

	for _, upd := range []conversation.Update{
		{Text: "Olga"},
		{CallbackData: "goal_maintenance"},
		{CallbackData: "lang_ru"},
	} {
		if _, err := f.engine.Resume(ctx, chatID, upd); err != nil {
			t.Fatalf("Resume failed: %v", err)
		}
	}

	if user, _ := f.store.GetUserByChatID(ctx, chatID); user != nil {
		t.Fatal("user must not exist after a failed persist")
	}
	if prog := f.engine.ActiveProgram(ctx, chatID); prog != conversation.ProgramOnboarding {
		t.Fatalf("session should survive a failed persist, ActiveProgram = %q", prog)
	}
	if len(f.relay.signups) != 0 {
		t.Error("no signup escalation on a failed persist")
	}

	// Repository recovers; the very next update retries the write
	f.store.createErr = nil
	handled, err := f.engine.Resume(ctx, chatID, conversation.Update{Text: "hello?"})
	if err != nil {
		t.Fatalf("retry Resume failed: %v", err)
	}
	if !handled {
		t.Fatal("retry update should be consumed")
	}

	user, _ := f.store.GetUserByChatID(ctx, chatID)
	if user == nil {
		t.Fatal("user should be created on retry")
	}
	if user.Name != "Olga" {
		t.Errorf("Name = %q, want Olga", user.Name)
	}
	if prog := f.engine.ActiveProgram(ctx, chatID); prog != "" {
		t.Errorf("session should be gone after a successful retry, got %q", prog)
	}
}

func TestParseGoal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		upd  conversation.Update
		want string
	}{
		{"weight loss button", conversation.Update{CallbackData: "goal_weight_loss"}, database.GoalWeightLoss},
		{"muscle gain button", conversation.Update{CallbackData: "goal_muscle_gain"}, database.GoalMuscleGain},
		{"maintenance button", conversation.Update{CallbackData: "goal_maintenance"}, database.GoalMaintenance},
		{"russian weight loss", conversation.Update{Text: "Хочу похудеть"}, database.GoalWeightLoss},
		{"english weight loss", conversation.Update{Text: "lose some Weight"}, database.GoalWeightLoss},
		{"russian muscle", conversation.Update{Text: "набор массы"}, database.GoalMuscleGain},
		{"english muscle", conversation.Update{Text: "build MUSCLE"}, database.GoalMuscleGain},
		{"unrecognized", conversation.Update{Text: "just vibes"}, database.GoalMaintenance},
		{"empty", conversation.Update{}, database.GoalMaintenance},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := conversation.ParseGoal(tt.upd); got != tt.want {
				t.Errorf("ParseGoal(%+v) = %q, want %q", tt.upd, got, tt.want)
			}
		})
	}
}

func TestParseLanguage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		upd  conversation.Update
		want i18n.Lang
	}{
		{"english button", conversation.Update{CallbackData: "lang_en"}, i18n.LangEN},
		{"russian button", conversation.Update{CallbackData: "lang_ru"}, i18n.LangRU},
		{"english text", conversation.Update{Text: "English please"}, i18n.LangEN},
		{"russian text", conversation.Update{Text: "русский"}, i18n.LangRU},
		{"unrecognized", conversation.Update{Text: "deutsch"}, i18n.DefaultLang},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := conversation.ParseLanguage(tt.upd); got != tt.want {
				t.Errorf("ParseLanguage(%+v) = %q, want %q", tt.upd, got, tt.want)
			}
		})
	}
}
