package conversation

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-telegram/bot/models"

	"github.com/fitpulse/fitpulse-bot/internal/database"
	"github.com/fitpulse/fitpulse-bot/internal/i18n"
	"github.com/fitpulse/fitpulse-bot/internal/session"
	"github.com/fitpulse/fitpulse-bot/internal/text"
)

// Onboarding steps. Await* steps suspend until the chat's next update;
// stepPersist retries user creation until the repository write succeeds.
const (
	stepAwaitName     = "await_name"
	stepAwaitGoal     = "await_goal"
	stepAwaitLanguage = "await_language"
	stepPersist       = "persist"
)

// Answer keys accumulated during onboarding.
const (
	answerName     = "name"
	answerGoal     = "goal"
	answerLanguage = "language"
)

// Callback payloads for the goal and language keyboards. Part of the
// stable callback-id namespace.
const (
	cbGoalWeightLoss  = "goal_weight_loss"
	cbGoalMuscleGain  = "goal_muscle_gain"
	cbGoalMaintenance = "goal_maintenance"
	cbLangRU          = "lang_ru"
	cbLangEN          = "lang_en"

	// CallbackOpenApp is the open-app button payload sent with the
	// completion message; handled by the command router.
	CallbackOpenApp = "open_app"
)

func (e *Engine) enterOnboarding(ctx context.Context, chatID int64) error {
	lang := i18n.DefaultLang

	if err := e.sender.SendMessage(ctx, chatID, i18n.T(lang, i18n.MsgOnboardingGreeting), nil); err != nil {
		return fmt.Errorf("failed to send onboarding greeting: %w", err)
	}
	if err := e.sender.SendMessage(ctx, chatID, i18n.T(lang, i18n.MsgAskName), nil); err != nil {
		return fmt.Errorf("failed to ask for name: %w", err)
	}

	sess := &session.Session{ChatID: chatID, Program: ProgramOnboarding, Step: stepAwaitName}
	if err := e.sessions.Put(ctx, sess); err != nil {
		return fmt.Errorf("failed to create onboarding session: %w", err)
	}

	e.logger.InfoContext(ctx, "Onboarding started", "chat_id", chatID)
	return nil
}

func (e *Engine) resumeOnboarding(ctx context.Context, sess *session.Session, upd Update) error {
	switch sess.Step {
	case stepAwaitName:
		return e.onboardingName(ctx, sess, upd)
	case stepAwaitGoal:
		return e.onboardingGoal(ctx, sess, upd)
	case stepAwaitLanguage:
		return e.onboardingLanguage(ctx, sess, upd)
	case stepPersist:
		return e.onboardingPersist(ctx, sess)
	default:
		e.logger.WarnContext(ctx, "Onboarding session at unknown step, restarting",
			"chat_id", sess.ChatID, "step", sess.Step)
		if err := e.sessions.Delete(ctx, sess.ChatID); err != nil {
			return err
		}
		return e.enterOnboarding(ctx, sess.ChatID)
	}
}

func (e *Engine) onboardingName(ctx context.Context, sess *session.Session, upd Update) error {
	name := text.SingleLine(upd.Text)
	if name == "" {
		// Button press or empty message; ask again
		return e.sender.SendMessage(ctx, sess.ChatID, i18n.T(i18n.DefaultLang, i18n.MsgAskName), nil)
	}

	sess.SetAnswer(answerName, name)
	sess.Step = stepAwaitGoal
	if err := e.sessions.Put(ctx, sess); err != nil {
		return fmt.Errorf("failed to advance onboarding session: %w", err)
	}

	return e.sender.SendMessage(ctx, sess.ChatID,
		i18n.T(i18n.DefaultLang, i18n.MsgAskGoal), goalKeyboard())
}

func (e *Engine) onboardingGoal(ctx context.Context, sess *session.Session, upd Update) error {
	goal := ParseGoal(upd)

	sess.SetAnswer(answerGoal, goal)
	sess.Step = stepAwaitLanguage
	if err := e.sessions.Put(ctx, sess); err != nil {
		return fmt.Errorf("failed to advance onboarding session: %w", err)
	}

	lang := i18n.DefaultLang
	ack := i18n.Tf(lang, i18n.MsgGoalAccepted, goalLabel(goal, lang))
	if err := e.sender.SendMessage(ctx, sess.ChatID, ack, nil); err != nil {
		return err
	}

	return e.sender.SendMessage(ctx, sess.ChatID,
		i18n.T(lang, i18n.MsgAskLanguage), languageKeyboard())
}

func (e *Engine) onboardingLanguage(ctx context.Context, sess *session.Session, upd Update) error {
	lang := ParseLanguage(upd)

	sess.SetAnswer(answerLanguage, string(lang))
	sess.Step = stepPersist
	if err := e.sessions.Put(ctx, sess); err != nil {
		return fmt.Errorf("failed to advance onboarding session: %w", err)
	}

	return e.onboardingPersist(ctx, sess)
}

// onboardingPersist creates the user record and completes onboarding. On a
// repository failure the session stays at the persist step, so the next
// update from the chat retries instead of silently losing the answers.
func (e *Engine) onboardingPersist(ctx context.Context, sess *session.Session) error {
	lang := i18n.ParseLang(sess.Answer(answerLanguage))

	user := &database.User{
		ChatID:       sess.ChatID,
		Name:         sess.Answer(answerName),
		Language:     string(lang),
		Goal:         sess.Answer(answerGoal),
		Subscription: database.TierNone,
		WorkoutTime:  database.TimeEvening,
		WorkoutDays:  "Monday,Wednesday,Friday",
		Phone:        sql.NullString{},
	}

	if err := e.store.CreateUser(ctx, user); err != nil {
		e.logger.ErrorContext(ctx, "Failed to persist onboarded user, will retry on next update",
			"chat_id", sess.ChatID, "error", err)
		if sendErr := e.sender.SendMessage(ctx, sess.ChatID, i18n.T(lang, i18n.MsgGeneralError), nil); sendErr != nil {
			e.logger.ErrorContext(ctx, "Failed to send error message", "chat_id", sess.ChatID, "error", sendErr)
		}
		return nil
	}

	e.relay.NewSignup(ctx, user)

	done := i18n.Tf(lang, i18n.MsgProfileCreated, user.Name)
	kb := openAppKeyboard(lang)
	if err := e.sender.SendMessage(ctx, sess.ChatID, done, kb); err != nil {
		e.logger.ErrorContext(ctx, "Failed to send onboarding completion message",
			"chat_id", sess.ChatID, "error", err)
	}

	if err := e.sessions.Delete(ctx, sess.ChatID); err != nil {
		return fmt.Errorf("failed to delete completed onboarding session: %w", err)
	}

	e.logger.InfoContext(ctx, "Onboarding completed",
		"chat_id", sess.ChatID, "goal", user.Goal, "language", user.Language)
	return nil
}

// ParseGoal normalizes a goal answer: a button payload maps directly, free
// text is matched on case-insensitive substrings, and anything
// unrecognized falls back to maintenance.
func ParseGoal(upd Update) string {
	switch upd.CallbackData {
	case cbGoalWeightLoss:
		return database.GoalWeightLoss
	case cbGoalMuscleGain:
		return database.GoalMuscleGain
	case cbGoalMaintenance:
		return database.GoalMaintenance
	}

	answer := strings.ToLower(upd.Text)
	switch {
	case strings.Contains(answer, "похуд") || strings.Contains(answer, "weight") || strings.Contains(answer, "loss"):
		return database.GoalWeightLoss
	case strings.Contains(answer, "мыш") || strings.Contains(answer, "масс") || strings.Contains(answer, "muscle"):
		return database.GoalMuscleGain
	default:
		return database.GoalMaintenance
	}
}

// ParseLanguage normalizes a language answer the same way; unrecognized
// free text falls back to the default locale.
func ParseLanguage(upd Update) i18n.Lang {
	switch upd.CallbackData {
	case cbLangEN:
		return i18n.LangEN
	case cbLangRU:
		return i18n.LangRU
	}

	answer := strings.ToLower(upd.Text)
	if strings.Contains(answer, "english") || strings.Contains(answer, "англ") {
		return i18n.LangEN
	}
	return i18n.DefaultLang
}

func goalLabel(goal string, lang i18n.Lang) string {
	switch goal {
	case database.GoalWeightLoss:
		return i18n.T(lang, i18n.MsgGoalWeightLoss)
	case database.GoalMuscleGain:
		return i18n.T(lang, i18n.MsgGoalMuscleGain)
	default:
		return i18n.T(lang, i18n.MsgGoalMaintenance)
	}
}

func goalKeyboard() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: i18n.T(i18n.DefaultLang, i18n.MsgGoalWeightLoss), CallbackData: cbGoalWeightLoss}},
			{{Text: i18n.T(i18n.DefaultLang, i18n.MsgGoalMuscleGain), CallbackData: cbGoalMuscleGain}},
			{{Text: i18n.T(i18n.DefaultLang, i18n.MsgGoalMaintenance), CallbackData: cbGoalMaintenance}},
		},
	}
}

func languageKeyboard() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: "Русский", CallbackData: cbLangRU}},
			{{Text: "English", CallbackData: cbLangEN}},
		},
	}
}

func openAppKeyboard(lang i18n.Lang) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: i18n.T(lang, i18n.MsgOpenAppButton), CallbackData: CallbackOpenApp}},
		},
	}
}
