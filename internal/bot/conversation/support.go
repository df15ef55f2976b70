package conversation

import (
	"context"
	"fmt"

	"github.com/fitpulse/fitpulse-bot/internal/i18n"
	"github.com/fitpulse/fitpulse-bot/internal/session"
	"github.com/fitpulse/fitpulse-bot/internal/text"
)

// stepSupportLoop is the single step of the support program: every text
// update is relayed to staff and acknowledged until the session is
// cancelled.
const stepSupportLoop = "loop"

func (e *Engine) enterSupport(ctx context.Context, chatID int64) error {
	lang, name := e.userLangAndName(ctx, chatID)

	if err := e.sender.SendMessage(ctx, chatID, i18n.T(lang, i18n.MsgSupportIntro), nil); err != nil {
		return fmt.Errorf("failed to send support intro: %w", err)
	}

	sess := &session.Session{ChatID: chatID, Program: ProgramSupport, Step: stepSupportLoop}
	sess.SetAnswer(answerName, name)
	sess.SetAnswer(answerLanguage, string(lang))
	if err := e.sessions.Put(ctx, sess); err != nil {
		return fmt.Errorf("failed to create support session: %w", err)
	}

	e.logger.InfoContext(ctx, "Support mode entered", "chat_id", chatID)
	return nil
}

func (e *Engine) resumeSupport(ctx context.Context, sess *session.Session, upd Update) error {
	msg := text.Normalize(upd.Text)
	if msg == "" {
		// Button presses carry nothing worth relaying
		return nil
	}

	lang := i18n.ParseLang(sess.Answer(answerLanguage))

	e.relay.SupportMessage(ctx, sess.ChatID, sess.Answer(answerName), string(lang), msg)

	if err := e.sender.SendMessage(ctx, sess.ChatID, i18n.T(lang, i18n.MsgSupportAck), nil); err != nil {
		return fmt.Errorf("failed to acknowledge support message: %w", err)
	}
	return nil
}

// userLangAndName resolves the stored locale and display name of a chat,
// defaulting for visitors that have not completed onboarding.
func (e *Engine) userLangAndName(ctx context.Context, chatID int64) (i18n.Lang, string) {
	user, err := e.store.GetUserByChatID(ctx, chatID)
	if err != nil || user == nil {
		return i18n.DefaultLang, ""
	}
	return i18n.ParseLang(user.Language), user.Name
}
