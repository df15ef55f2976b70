package handlers

import (
	tgbot "github.com/go-telegram/bot"

	"github.com/fitpulse/fitpulse-bot/internal/bot/conversation"
)

// RegisteredHandler represents a command or callback handler with its
// pattern and middleware. It encapsulates all information needed to
// register and document a handler.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	Handler     tgbot.HandlerFunc
	Middleware  []tgbot.Middleware
	MatchType   tgbot.MatchType
}

// RegisterAllCommands initializes and returns a map of all bot commands
// and callbacks. Every handler passes through the session gate except
// /cancel and /language, which must pre-empt an active conversation.
func RegisterAllCommands(deps HandlerDeps) map[string]RegisteredHandler {
	handlers := make(map[string]RegisteredHandler)

	gated := []tgbot.Middleware{SessionGate(deps)}

	handlers["/start"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "start",
		Handler:     NewStartHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
		Middleware:  gated,
	}
	handlers["/help"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "help",
		Handler:     NewHelpHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
		Middleware:  gated,
	}
	handlers["/menu"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "menu",
		Handler:     NewMenuHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
		Middleware:  gated,
	}
	handlers["/subscribe"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "subscribe",
		Handler:     NewSubscribeHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
		Middleware:  gated,
	}
	handlers["/support"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "support",
		Handler:     NewSupportHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
		Middleware:  gated,
	}

	// Always-available commands bypass the session gate
	handlers["/cancel"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "cancel",
		Handler:     NewCancelHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
	}
	handlers["/language"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "language",
		Handler:     NewLanguageHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
	}

	adminMiddleware := []tgbot.Middleware{AdminOnly(deps)}

	handlers["/reply"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "reply",
		Handler:     NewReplyHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
		Middleware:  adminMiddleware,
	}

	handlers["open_app"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     conversation.CallbackOpenApp,
		Handler:     NewOpenAppHandler(deps),
		MatchType:   tgbot.MatchTypeExact,
		Middleware:  gated,
	}
	handlers["plan_"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     cbPlanPrefix,
		Handler:     NewPlanHandler(deps),
		MatchType:   tgbot.MatchTypePrefix,
		Middleware:  gated,
	}
	handlers["workout_"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     cbWorkoutPrefix,
		Handler:     NewWorkoutTimeHandler(deps),
		MatchType:   tgbot.MatchTypePrefix,
		Middleware:  gated,
	}
	handlers["language_"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     cbLanguagePrefix,
		Handler:     NewLanguageCallbackHandler(deps),
		MatchType:   tgbot.MatchTypePrefix,
	}

	return handlers
}
