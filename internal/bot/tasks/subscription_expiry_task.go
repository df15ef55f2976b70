package tasks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-telegram/bot/models"

	"github.com/fitpulse/fitpulse-bot/internal/database"
	"github.com/fitpulse/fitpulse-bot/internal/i18n"
)

const subscriptionExpiryTrigger = "subscription_expiry"

// newSubscriptionExpiryTask creates a scheduled task that warns paying
// users whose subscription expires within the configured lookahead
// window, with a renew button linking into the companion web app.
func newSubscriptionExpiryTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", subscriptionExpiryTrigger)

	return func(ctx context.Context) error {
		startTime := time.Now()

		lookahead := deps.Config.Scheduler.ExpiryLookaheadDays
		users, err := deps.Store.UsersWithExpiringSubscription(ctx, lookahead)
		if err != nil {
			return fmt.Errorf("failed to query expiring subscriptions: %w", err)
		}
		if len(users) == 0 {
			log.InfoContext(ctx, "No expiring subscriptions", "lookahead_days", lookahead)
			return nil
		}

		now := time.Now()

		var sent, skipped, failed int
		for i := range users {
			user := &users[i]

			if alreadyNotified(ctx, deps, user.ChatID, subscriptionExpiryTrigger, dailyRepeatFloor) {
				skipped++
				continue
			}

			msg, ok := composeSubscriptionExpiry(user, now)
			if !ok {
				// Audience query returned a row without an expiry date
				log.WarnContext(ctx, "Skipping user without expiry date", "chat_id", user.ChatID)
				skipped++
				continue
			}

			lang := i18n.ParseLang(user.Language)
			if err := deps.Sender.SendMessage(ctx, user.ChatID, msg, renewKeyboard(lang, deps.Config.Telegram.AppURL)); err != nil {
				log.ErrorContext(ctx, "Failed to send expiry reminder",
					"chat_id", user.ChatID, "error", err)
				failed++
				continue
			}

			markNotified(ctx, deps, user.ChatID, subscriptionExpiryTrigger)
			sent++
		}

		log.InfoContext(ctx, "Expiry reminders dispatched",
			"sent", sent, "skipped", skipped, "failed", failed,
			"duration", time.Since(startTime))
		return nil
	}
}

// composeSubscriptionExpiry builds the localized warning text. Pure.
// Reports false when the user carries no expiry date.
func composeSubscriptionExpiry(user *database.User, now time.Time) (string, bool) {
	if !user.SubscriptionExpiry.Valid {
		return "", false
	}

	lang := i18n.ParseLang(user.Language)
	expiry := user.SubscriptionExpiry.Time

	daysLeft := int(expiry.Sub(now).Hours()/24) + 1
	if daysLeft < 1 {
		daysLeft = 1
	}

	msg := i18n.Tf(lang, i18n.MsgSubscriptionExpiry,
		user.Name,
		strings.ToUpper(user.Subscription),
		daysLeft,
		i18n.DaysWord(daysLeft, lang),
		expiry.Format("02.01.2006"))
	return msg, true
}

func renewKeyboard(lang i18n.Lang, appURL string) *models.InlineKeyboardMarkup {
	btn := models.InlineKeyboardButton{Text: i18n.T(lang, i18n.MsgRenewButton)}
	if appURL != "" {
		btn.WebApp = &models.WebAppInfo{URL: appURL + "/subscription"}
	} else {
		btn.CallbackData = "plan_" + database.TierPremium
	}
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{{btn}},
	}
}
