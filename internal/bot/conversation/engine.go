// Package conversation implements the per-chat conversation engine. A
// conversation program is a sequence of steps suspended between prompts;
// the suspended state lives in a session store as data, and the engine
// re-enters the program when the next update for that chat arrives.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot/models"

	"github.com/fitpulse/fitpulse-bot/internal/database"
	"github.com/fitpulse/fitpulse-bot/internal/session"
)

// Program names. The session records which program a chat is running.
const (
	ProgramOnboarding = "onboarding"
	ProgramSupport    = "support"
)

// ErrSessionActive is returned by Enter when the chat already has an
// active session. Callers that want replace-and-restart semantics cancel
// the session explicitly first.
var ErrSessionActive = errors.New("conversation session already active")

// Update is the distilled inbound update a step consumes: a text reply or
// a callback-button payload.
type Update struct {
	Text         string
	CallbackData string
}

// Sender sends a message to a chat. Satisfied by telegram.Client.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string, markup models.ReplyMarkup) error
}

// UserStore is the slice of the repository the engine needs: creating the
// user at the end of onboarding and reading locale/name for prompts.
type UserStore interface {
	CreateUser(ctx context.Context, user *database.User) error
	GetUserByChatID(ctx context.Context, chatID int64) (*database.User, error)
}

// Escalator forwards system events to the staff chat. Calls are
// fire-and-forget; implementations never propagate transport failures.
type Escalator interface {
	NewSignup(ctx context.Context, user *database.User)
	SupportMessage(ctx context.Context, chatID int64, name, lang, text string)
}

// Engine runs conversation programs for individual chats.
type Engine struct {
	logger   *slog.Logger
	sessions session.Store
	store    UserStore
	sender   Sender
	relay    Escalator
}

// NewEngine creates a conversation engine with its dependencies.
func NewEngine(logger *slog.Logger, sessions session.Store, store UserStore, sender Sender, relay Escalator) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		logger:   logger.With("component", "conversation_engine"),
		sessions: sessions,
		store:    store,
		sender:   sender,
		relay:    relay,
	}
}

// Enter starts the named program for the chat, sending its first prompt.
// Returns ErrSessionActive if the chat already has a session.
func (e *Engine) Enter(ctx context.Context, chatID int64, program string) error {
	if _, err := e.sessions.Get(ctx, chatID); err == nil {
		return ErrSessionActive
	} else if !errors.Is(err, session.ErrNotFound) {
		return fmt.Errorf("failed to check for active session: %w", err)
	}

	switch program {
	case ProgramOnboarding:
		return e.enterOnboarding(ctx, chatID)
	case ProgramSupport:
		return e.enterSupport(ctx, chatID)
	default:
		return fmt.Errorf("unknown conversation program %q", program)
	}
}

// Resume feeds an update to the chat's active session. It reports whether
// the update was consumed; (false, nil) means no session is active and the
// update should fall through to command dispatch.
func (e *Engine) Resume(ctx context.Context, chatID int64, upd Update) (bool, error) {
	sess, err := e.sessions.Get(ctx, chatID)
	if errors.Is(err, session.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load session for chat %d: %w", chatID, err)
	}

	e.logger.DebugContext(ctx, "Resuming conversation",
		"chat_id", chatID, "program", sess.Program, "step", sess.Step)

	switch sess.Program {
	case ProgramOnboarding:
		return true, e.resumeOnboarding(ctx, sess, upd)
	case ProgramSupport:
		return true, e.resumeSupport(ctx, sess, upd)
	default:
		// A stale session from an unknown program; drop it so the chat
		// doesn't stay captured forever.
		e.logger.WarnContext(ctx, "Dropping session with unknown program",
			"chat_id", chatID, "program", sess.Program)
		return false, e.sessions.Delete(ctx, chatID)
	}
}

// Cancel synchronously removes the chat's active session, if any. Reports
// whether a session existed.
func (e *Engine) Cancel(ctx context.Context, chatID int64) (bool, error) {
	sess, err := e.sessions.Get(ctx, chatID)
	if errors.Is(err, session.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load session for chat %d: %w", chatID, err)
	}

	if err := e.sessions.Delete(ctx, chatID); err != nil {
		return false, fmt.Errorf("failed to delete session for chat %d: %w", chatID, err)
	}

	e.logger.InfoContext(ctx, "Conversation cancelled",
		"chat_id", chatID, "program", sess.Program, "step", sess.Step)
	return true, nil
}

// ActiveProgram returns the name of the chat's active program, or "".
func (e *Engine) ActiveProgram(ctx context.Context, chatID int64) string {
	sess, err := e.sessions.Get(ctx, chatID)
	if err != nil {
		return ""
	}
	return sess.Program
}
