package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/fitpulse/fitpulse-bot/internal/i18n"
)

// NewLanguageHandler returns a handler for the /language command. It is
// registered without the session gate so it always pre-empts an active
// conversation.
func NewLanguageHandler(deps HandlerDeps) bot.HandlerFunc {
	return languageHandler{deps}.Handle
}

type languageHandler struct {
	deps HandlerDeps
}

func (h languageHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "language")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Language handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	log.InfoContext(ctx, "Handling /language command", "chat_id", chatID, "user_id", update.Message.From.ID)

	reply(ctx, b, log, chatID, i18n.T(i18n.DefaultLang, i18n.MsgChooseLanguage), languageChoiceKeyboard())
}

// NewLanguageCallbackHandler returns a handler for language_* callbacks.
func NewLanguageCallbackHandler(deps HandlerDeps) bot.HandlerFunc {
	return languageCallbackHandler{deps}.Handle
}

type languageCallbackHandler struct {
	deps HandlerDeps
}

func (h languageCallbackHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "language_callback")

	if update.CallbackQuery == nil {
		return
	}
	answerCallback(ctx, b, log, update)

	chatID := updateChatID(update)
	code := strings.TrimPrefix(update.CallbackQuery.Data, cbLanguagePrefix)
	lang := i18n.ParseLang(code)

	log.InfoContext(ctx, "Handling language switch", "chat_id", chatID, "language", lang)

	user, _ := resolveUser(ctx, h.deps, chatID)
	if user == nil {
		// No profile yet; just confirm in the chosen locale
		reply(ctx, b, log, chatID, i18n.T(lang, i18n.MsgLanguageChanged), nil)
		return
	}

	if err := h.deps.Store.UpdateUserLanguage(ctx, chatID, string(lang)); err != nil {
		log.ErrorContext(ctx, "Failed to update language", "chat_id", chatID, "error", err)
		reply(ctx, b, log, chatID, i18n.T(lang, i18n.MsgGeneralError), nil)
		return
	}

	reply(ctx, b, log, chatID, i18n.T(lang, i18n.MsgLanguageChanged), nil)
}

func languageChoiceKeyboard() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "Русский", CallbackData: cbLanguagePrefix + string(i18n.LangRU)},
				{Text: "English", CallbackData: cbLanguagePrefix + string(i18n.LangEN)},
			},
		},
	}
}
