// Package admin relays operational events to the staff chat. Relay calls
// are fire-and-forget: escalation must never break the user-facing flow,
// so failures are logged and swallowed.
package admin

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"

	"github.com/fitpulse/fitpulse-bot/internal/database"
	"github.com/fitpulse/fitpulse-bot/internal/i18n"
)

// Sender sends a message to a chat. Satisfied by telegram.Client.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string, markup models.ReplyMarkup) error
}

// PlanRequest carries the questionnaire answers of an individual plan
// request.
type PlanRequest struct {
	Goals         string
	HeightCM      int
	WeightKG      float64
	FitnessLevel  string
	HealthIssues  string
	PreferredDays []string
	PreferredTime string
}

// Relay escalates events to the configured staff chat.
type Relay struct {
	logger      *slog.Logger
	sender      Sender
	adminChatID int64
}

// NewRelay creates a relay targeting the given staff chat.
func NewRelay(logger *slog.Logger, sender Sender, adminChatID int64) *Relay {
	if logger == nil {
		logger = slog.Default()
	}
	return &Relay{
		logger:      logger.With("component", "admin_relay"),
		sender:      sender,
		adminChatID: adminChatID,
	}
}

// NewSignup reports a completed registration to the staff chat.
func (r *Relay) NewSignup(ctx context.Context, user *database.User) {
	msg := fmt.Sprintf("🆕 *New User Registration*\n\n"+
		"*User:* %s\n"+
		"*ID:* %d\n"+
		"*Language:* %s\n"+
		"*Goal:* %s\n"+
		"*Time:* %s",
		user.Name, user.ChatID, user.Language, user.Goal, timestamp())

	r.send(ctx, "new_signup", msg)
}

// SubscriptionChanged reports a subscription tier change.
func (r *Relay) SubscriptionChanged(ctx context.Context, user *database.User, tier string) {
	msg := fmt.Sprintf("💰 *New Subscription*\n\n"+
		"*User:* %s\n"+
		"*ID:* %d\n"+
		"*Plan:* %s\n"+
		"*Time:* %s",
		user.Name, user.ChatID, strings.ToUpper(tier), timestamp())

	r.send(ctx, "subscription_changed", msg)
}

// IndividualPlanRequested reports a personal training plan request with
// the full questionnaire payload.
func (r *Relay) IndividualPlanRequested(ctx context.Context, user *database.User, req PlanRequest) {
	healthIssues := req.HealthIssues
	if healthIssues == "" {
		healthIssues = "None"
	}

	msg := fmt.Sprintf("🏋️ *Individual Plan Request*\n\n"+
		"*User:* %s\n"+
		"*ID:* %d\n"+
		"*Language:* %s\n"+
		"*Time:* %s\n\n"+
		"*Goals:* %s\n"+
		"*Height:* %d cm\n"+
		"*Weight:* %.1f kg\n"+
		"*Fitness Level:* %s\n"+
		"*Health Issues:* %s\n"+
		"*Preferred Days:* %s\n"+
		"*Preferred Time:* %s",
		user.Name, user.ChatID, user.Language, timestamp(),
		req.Goals, req.HeightCM, req.WeightKG, req.FitnessLevel,
		healthIssues, strings.Join(req.PreferredDays, ", "), req.PreferredTime)

	r.send(ctx, "individual_plan", msg)
}

// SupportMessage forwards a support request to the staff chat under a
// short ticket id, so staff replies can reference the conversation.
func (r *Relay) SupportMessage(ctx context.Context, chatID int64, name, lang, text string) {
	ticket := shortTicketID()

	msg := fmt.Sprintf("🆘 *Support Request* `#%s`\n\n"+
		"*User:* %s\n"+
		"*ID:* %d\n"+
		"*Language:* %s\n"+
		"*Time:* %s\n\n"+
		"*Message:*\n%s",
		ticket, name, chatID, lang, timestamp(), text)

	r.send(ctx, "support_message", msg)
	r.logger.InfoContext(ctx, "Support request forwarded",
		"ticket", ticket, "chat_id", chatID)
}

// ReplyToUser delivers a staff answer to the user's chat. A delivery
// failure is reported back to the staff chat instead of the user.
func (r *Relay) ReplyToUser(ctx context.Context, chatID int64, lang, text string) {
	prefixed := i18n.T(i18n.ParseLang(lang), i18n.MsgSupportReplyPrefix) + "\n\n" + text

	if err := r.sender.SendMessage(ctx, chatID, prefixed, nil); err != nil {
		r.logger.ErrorContext(ctx, "Failed to deliver staff reply",
			"chat_id", chatID, "error", err)
		r.send(ctx, "reply_failure",
			fmt.Sprintf("⚠️ Could not deliver reply to user %d: %v", chatID, err))
		return
	}

	r.logger.InfoContext(ctx, "Staff reply delivered", "chat_id", chatID)
}

func (r *Relay) send(ctx context.Context, event, msg string) {
	if r.adminChatID == 0 {
		r.logger.WarnContext(ctx, "Staff chat not configured, dropping escalation", "event", event)
		return
	}
	if err := r.sender.SendMessage(ctx, r.adminChatID, msg, nil); err != nil {
		r.logger.ErrorContext(ctx, "Failed to escalate to staff chat",
			"event", event, "error", err)
	}
}

func timestamp() string {
	return time.Now().Format("2006-01-02 15:04:05")
}

// shortTicketID returns the first uuid group, enough to disambiguate
// concurrent support threads in the staff chat.
func shortTicketID() string {
	return strings.SplitN(uuid.NewString(), "-", 2)[0]
}
