// Package tasks implements the scheduled notification tasks of the bot.
// It includes task definitions, dependencies, and registration mechanisms.
package tasks

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot/models"

	"github.com/fitpulse/fitpulse-bot/internal/config"
	"github.com/fitpulse/fitpulse-bot/internal/database"
)

// Sender sends a message to a chat. Satisfied by telegram.Client.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string, markup models.ReplyMarkup) error
}

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Store  database.Store
	Sender Sender
	Config *config.Config
}
