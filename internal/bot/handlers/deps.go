package handlers

import (
	"log/slog"

	"github.com/fitpulse/fitpulse-bot/internal/admin"
	"github.com/fitpulse/fitpulse-bot/internal/bot/conversation"
	"github.com/fitpulse/fitpulse-bot/internal/config"
	"github.com/fitpulse/fitpulse-bot/internal/database"
)

// HandlerDeps provides dependencies for Telegram command and callback
// handlers.
type HandlerDeps struct {
	Logger *slog.Logger
	Config *config.Config
	Store  database.Store
	Engine *conversation.Engine
	Relay  *admin.Relay
}
