package handlers

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/fitpulse/fitpulse-bot/internal/admin"
	"github.com/fitpulse/fitpulse-bot/internal/database"
	"github.com/fitpulse/fitpulse-bot/internal/i18n"
)

// premiumTermDays is the length of a paid subscription period.
const premiumTermDays = 30

// NewPlanHandler returns a handler for plan_* callbacks. plan_premium
// activates a premium term; plan_individual escalates a personal plan
// request to the staff chat.
func NewPlanHandler(deps HandlerDeps) bot.HandlerFunc {
	return planHandler{deps}.Handle
}

type planHandler struct {
	deps HandlerDeps
}

func (h planHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "plan")

	if update.CallbackQuery == nil {
		return
	}
	answerCallback(ctx, b, log, update)

	chatID := updateChatID(update)
	tier := strings.TrimPrefix(update.CallbackQuery.Data, cbPlanPrefix)

	log.InfoContext(ctx, "Handling plan callback", "chat_id", chatID, "tier", tier)

	user, lang := resolveUser(ctx, h.deps, chatID)
	if user == nil {
		// Deep-linked button press from someone who never onboarded
		log.WarnContext(ctx, "Plan callback from unknown user", "chat_id", chatID)
		reply(ctx, b, log, chatID, i18n.T(lang, i18n.MsgGeneralError), nil)
		return
	}

	switch tier {
	case database.TierPremium:
		h.activatePremium(ctx, b, log, user, lang)
	case database.TierIndividual:
		h.requestIndividualPlan(ctx, b, log, user, lang)
	default:
		log.DebugContext(ctx, "Ignoring unknown plan tier", "chat_id", chatID, "tier", tier)
	}
}

func (h planHandler) activatePremium(ctx context.Context, b *bot.Bot, log *slog.Logger, user *database.User, lang i18n.Lang) {
	expiry := time.Now().AddDate(0, 0, premiumTermDays)

	err := h.deps.Store.UpdateSubscription(ctx, user.ChatID, database.TierPremium,
		sql.NullTime{Time: expiry, Valid: true})
	if err != nil {
		log.ErrorContext(ctx, "Failed to activate subscription", "chat_id", user.ChatID, "error", err)
		reply(ctx, b, log, user.ChatID, i18n.T(lang, i18n.MsgGeneralError), nil)
		return
	}

	h.deps.Relay.SubscriptionChanged(ctx, user, database.TierPremium)

	confirm := i18n.Tf(lang, i18n.MsgSubscriptionActivated,
		i18n.T(lang, i18n.MsgBtnPremiumPlan), expiry.Format("02.01.2006"))
	reply(ctx, b, log, user.ChatID, confirm, nil)
}

func (h planHandler) requestIndividualPlan(ctx context.Context, b *bot.Bot, log *slog.Logger, user *database.User, lang i18n.Lang) {
	h.deps.Relay.IndividualPlanRequested(ctx, user, admin.PlanRequest{
		Goals:         user.Goal,
		PreferredDays: user.WorkoutDayList(),
		PreferredTime: user.WorkoutTime,
	})

	reply(ctx, b, log, user.ChatID, i18n.T(lang, i18n.MsgIndividualPlanAck), nil)
}
