// Package i18n provides the localized message catalog for the bot.
// Messages are indexed by an enumerated key and a language, so a missing
// translation is caught by the catalog completeness test instead of at
// runtime.
package i18n

import "fmt"

// Lang identifies one of the supported locales.
type Lang string

const (
	LangRU Lang = "ru"
	LangEN Lang = "en"

	// DefaultLang is used for visitors whose language is not yet known
	// and as the fallback for unrecognized free-text answers.
	DefaultLang = LangRU
)

// Langs lists every supported locale.
var Langs = []Lang{LangRU, LangEN}

// ParseLang maps a stored or user-supplied language code to a Lang,
// falling back to the default for anything unknown.
func ParseLang(code string) Lang {
	switch code {
	case string(LangEN):
		return LangEN
	case string(LangRU):
		return LangRU
	default:
		return DefaultLang
	}
}

// Key identifies a message in the catalog.
type Key int

const (
	MsgOnboardingGreeting Key = iota
	MsgAskName
	MsgAskGoal
	MsgGoalAccepted
	MsgAskLanguage
	MsgProfileCreated
	MsgWelcomeBack
	MsgHelp
	MsgMenu
	MsgSubscribeInfo
	MsgSupportIntro
	MsgSupportAck
	MsgSupportExit
	MsgSupportReplyPrefix
	MsgCancelled
	MsgNothingToCancel
	MsgLanguageChanged
	MsgChooseLanguage
	MsgGeneralError
	MsgOpenAppButton
	MsgRenewButton
	MsgBtnPremiumPlan
	MsgBtnIndividualPlan
	MsgBtnWorkoutMorning
	MsgBtnWorkoutAfternoon
	MsgBtnWorkoutEvening
	MsgSubscriptionActivated
	MsgIndividualPlanAck
	MsgWorkoutTimeChanged
	MsgWorkoutReminder
	MsgWeeklyProgressEmpty
	MsgWeeklyProgress
	MsgSubscriptionExpiry
	MsgGoalWeightLoss
	MsgGoalMuscleGain
	MsgGoalMaintenance
)

// allKeys is kept in sync with the Key constants above; the catalog test
// iterates it to assert completeness across locales.
var allKeys = []Key{
	MsgOnboardingGreeting,
	MsgAskName,
	MsgAskGoal,
	MsgGoalAccepted,
	MsgAskLanguage,
	MsgProfileCreated,
	MsgWelcomeBack,
	MsgHelp,
	MsgMenu,
	MsgSubscribeInfo,
	MsgSupportIntro,
	MsgSupportAck,
	MsgSupportExit,
	MsgSupportReplyPrefix,
	MsgCancelled,
	MsgNothingToCancel,
	MsgLanguageChanged,
	MsgChooseLanguage,
	MsgGeneralError,
	MsgOpenAppButton,
	MsgRenewButton,
	MsgBtnPremiumPlan,
	MsgBtnIndividualPlan,
	MsgBtnWorkoutMorning,
	MsgBtnWorkoutAfternoon,
	MsgBtnWorkoutEvening,
	MsgSubscriptionActivated,
	MsgIndividualPlanAck,
	MsgWorkoutTimeChanged,
	MsgWorkoutReminder,
	MsgWeeklyProgressEmpty,
	MsgWeeklyProgress,
	MsgSubscriptionExpiry,
	MsgGoalWeightLoss,
	MsgGoalMuscleGain,
	MsgGoalMaintenance,
}

// AllKeys returns every catalog key. The returned slice must not be modified.
func AllKeys() []Key { return allKeys }

var catalogRU = map[Key]string{
	MsgOnboardingGreeting:    "Привет! Я твой фитнес-тренер в Telegram!",
	MsgAskName:               "Как тебя зовут?",
	MsgAskGoal:               "Какая у тебя цель?",
	MsgGoalAccepted:          "Отлично! %s - хорошая цель.",
	MsgAskLanguage:           "Выберите язык / Choose language:",
	MsgProfileCreated:        "Спасибо, %s! Ваш профиль создан.",
	MsgWelcomeBack:           "С возвращением, %s! Чем я могу помочь сегодня?",
	MsgHelp:                  "Вот чем я могу помочь:\n\n/start - Запустить бота\n/help - Показать это сообщение\n/menu - Главное меню\n/subscribe - Посмотреть варианты подписки\n/support - Связаться с нашей службой поддержки\n/language - Сменить язык\n/cancel - Отменить текущее действие",
	MsgMenu:                  "Главное меню. Откройте приложение, чтобы записать тренировку.",
	MsgSubscribeInfo:         "Выберите подписку:\n\n💎 *Премиум* — доступ ко всем тренировкам и планам питания.\n🏋️ *Индивидуальный* — персональная программа от тренера.",
	MsgSupportIntro:          "📣 *Поддержка*\n\nОпишите вашу проблему или вопрос, и мы ответим вам как можно скорее.\n\nНапишите /cancel, чтобы выйти из режима поддержки.",
	MsgSupportAck:            "✅ Ваше сообщение отправлено команде поддержки. Мы ответим вам как можно скорее.\n\nНапишите /cancel, чтобы выйти из режима поддержки.",
	MsgSupportExit:           "✅ Вы вышли из режима поддержки.",
	MsgSupportReplyPrefix:    "💬 *Ответ команды поддержки:*",
	MsgCancelled:             "✅ Действие отменено.",
	MsgNothingToCancel:       "Нечего отменять.",
	MsgLanguageChanged:       "✅ Язык изменён на русский.",
	MsgChooseLanguage:        "Выберите язык / Choose language:",
	MsgGeneralError:          "❌ Произошла ошибка. Пожалуйста, попробуйте позже.",
	MsgOpenAppButton:         "Открыть приложение",
	MsgRenewButton:           "Продлить подписку",
	MsgBtnPremiumPlan:        "💎 Премиум",
	MsgBtnIndividualPlan:     "🏋️ Индивидуальный план",
	MsgBtnWorkoutMorning:     "🌅 Утро",
	MsgBtnWorkoutAfternoon:   "🌞 День",
	MsgBtnWorkoutEvening:     "🌆 Вечер",
	MsgSubscriptionActivated: "✅ Подписка *%s* активна до %s.",
	MsgIndividualPlanAck:     "📝 Заявка на индивидуальный план отправлена тренеру. Мы свяжемся с вами в ближайшее время!",
	MsgWorkoutTimeChanged:    "✅ Время напоминаний о тренировках: %s.",
	MsgWorkoutReminder:       "🏋️ *Пора тренироваться!*\n\nПривет, %s! Время для твоей %s тренировки. Не забудь записать свой прогресс в приложении после завершения.",
	MsgWeeklyProgressEmpty:   "📊 *Еженедельный отчет о прогрессе*\n\nПривет, %s!\n\nЗа период %s у вас не было записанных тренировок. Начните тренироваться сегодня!",
	MsgWeeklyProgress:        "📊 *Еженедельный отчет о прогрессе*\n\nПривет, %s!\n\nВот ваш прогресс за %s:\n\n• Тренировок: %d\n• Упражнений: %d\n• Общее время: %d минут\n\nОтличная работа! Продолжайте в том же духе. 💪",
	MsgSubscriptionExpiry:    "⚠️ *Напоминание о подписке*\n\nПривет, %s!\n\nВаша подписка %s истекает через %d %s (%s).\n\nНажмите кнопку ниже, чтобы продлить подписку и продолжать пользоваться всеми премиум-функциями.",
	MsgGoalWeightLoss:        "Похудение",
	MsgGoalMuscleGain:        "Набор мышечной массы",
	MsgGoalMaintenance:       "Поддержание формы",
}

var catalogEN = map[Key]string{
	MsgOnboardingGreeting:    "Hi! I'm your fitness coach on Telegram!",
	MsgAskName:               "What's your name?",
	MsgAskGoal:               "What's your goal?",
	MsgGoalAccepted:          "Great! %s is a good goal.",
	MsgAskLanguage:           "Выберите язык / Choose language:",
	MsgProfileCreated:        "Thank you, %s! Your profile has been created.",
	MsgWelcomeBack:           "Welcome back, %s! How can I help you today?",
	MsgHelp:                  "Here's how I can help you:\n\n/start - Start the bot\n/help - Show this help message\n/menu - Main menu\n/subscribe - View subscription options\n/support - Contact our support team\n/language - Change language\n/cancel - Cancel the current action",
	MsgMenu:                  "Main menu. Open the app to log a workout.",
	MsgSubscribeInfo:         "Choose a subscription:\n\n💎 *Premium* — access to all workouts and nutrition plans.\n🏋️ *Individual* — a personal program from a coach.",
	MsgSupportIntro:          "📣 *Support*\n\nDescribe your issue or question, and we will get back to you as soon as possible.\n\nType /cancel to exit support mode.",
	MsgSupportAck:            "✅ Your message has been sent to our support team. We will get back to you as soon as possible.\n\nType /cancel to exit support mode.",
	MsgSupportExit:           "✅ You have exited support mode.",
	MsgSupportReplyPrefix:    "💬 *Reply from our support team:*",
	MsgCancelled:             "✅ Action cancelled.",
	MsgNothingToCancel:       "Nothing to cancel.",
	MsgLanguageChanged:       "✅ Language switched to English.",
	MsgChooseLanguage:        "Выберите язык / Choose language:",
	MsgGeneralError:          "❌ An error occurred. Please try again later.",
	MsgOpenAppButton:         "Open App",
	MsgRenewButton:           "Renew Subscription",
	MsgBtnPremiumPlan:        "💎 Premium",
	MsgBtnIndividualPlan:     "🏋️ Individual Plan",
	MsgBtnWorkoutMorning:     "🌅 Morning",
	MsgBtnWorkoutAfternoon:   "🌞 Afternoon",
	MsgBtnWorkoutEvening:     "🌆 Evening",
	MsgSubscriptionActivated: "✅ Your *%s* subscription is active until %s.",
	MsgIndividualPlanAck:     "📝 Your individual plan request has been sent to a coach. We will get back to you shortly!",
	MsgWorkoutTimeChanged:    "✅ Workout reminders scheduled for: %s.",
	MsgWorkoutReminder:       "🏋️ *Time to work out!*\n\nHey %s! It's time for your %s workout. Remember to log your progress in the app when you're done.",
	MsgWeeklyProgressEmpty:   "📊 *Weekly Progress Report*\n\nHey %s!\n\nYou didn't log any workouts for the period %s. Start working out today!",
	MsgWeeklyProgress:        "📊 *Weekly Progress Report*\n\nHey %s!\n\nHere's your progress for %s:\n\n• Workouts: %d\n• Exercises: %d\n• Total time: %d minutes\n\nGreat job! Keep up the good work. 💪",
	MsgSubscriptionExpiry:    "⚠️ *Subscription Reminder*\n\nHey %s!\n\nYour %s subscription expires in %d %s (%s).\n\nClick the button below to renew your subscription and continue enjoying all premium features.",
	MsgGoalWeightLoss:        "Weight loss",
	MsgGoalMuscleGain:        "Muscle gain",
	MsgGoalMaintenance:       "Maintenance",
}

var catalogs = map[Lang]map[Key]string{
	LangRU: catalogRU,
	LangEN: catalogEN,
}

// T returns the message for the given language and key. Unknown languages
// fall back to the default locale.
func T(lang Lang, key Key) string {
	c, ok := catalogs[lang]
	if !ok {
		c = catalogs[DefaultLang]
	}
	return c[key]
}

// Tf returns the message for the given language and key formatted with args.
func Tf(lang Lang, key Key, args ...any) string {
	return fmt.Sprintf(T(lang, key), args...)
}
