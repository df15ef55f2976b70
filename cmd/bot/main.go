// Package main contains the entrypoint for the Telegram bot application.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/joho/godotenv"

	"github.com/fitpulse/fitpulse-bot/internal/admin"
	"github.com/fitpulse/fitpulse-bot/internal/bot"
	"github.com/fitpulse/fitpulse-bot/internal/bot/conversation"
	"github.com/fitpulse/fitpulse-bot/internal/bot/handlers"
	"github.com/fitpulse/fitpulse-bot/internal/bot/tasks"
	"github.com/fitpulse/fitpulse-bot/internal/config"
	"github.com/fitpulse/fitpulse-bot/internal/database"
	"github.com/fitpulse/fitpulse-bot/internal/httpapi"
	"github.com/fitpulse/fitpulse-bot/internal/logger"
	"github.com/fitpulse/fitpulse-bot/internal/session"
	"github.com/fitpulse/fitpulse-bot/internal/telegram"

	_ "modernc.org/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop() // Ensure context cancellation is signaled before exit
	os.Exit(exitCode)
}

// run initializes and starts all application components (config, logger,
// db, session store, telegram bot, scheduler, ops server), handles
// graceful shutdown, and returns an exit code.
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	// Optional .env file for local development; environment wins in
	// LoadConfig either way.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to load .env file", "error", err)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	slog.SetDefault(log)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	sessions, cleanup, err := newSessionStore(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to create session store", "backend", cfg.Session.Backend, "error", err)
		return 1
	}
	defer cleanup()

	// The default handler dispatches through hDeps, which is filled in
	// below once the transport-dependent components exist.
	var hDeps handlers.HandlerDeps
	defaultHandler := func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
		handlers.NewDefaultHandler(hDeps)(ctx, b, update)
	}

	botOpts := []tgbot.Option{
		tgbot.WithMiddlewares(logger.Middleware(log)),
		tgbot.WithDefaultHandler(defaultHandler),
	}
	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}

	client := telegram.NewClient(tg, log)
	relay := admin.NewRelay(log, client, cfg.Telegram.AdminChatID)
	engine := conversation.NewEngine(log, sessions, store, client, relay)

	hDeps = handlers.HandlerDeps{
		Logger: log,
		Config: cfg,
		Store:  store,
		Engine: engine,
		Relay:  relay,
	}
	tDeps := tasks.TaskDeps{
		Logger: log,
		Store:  store,
		Sender: client,
		Config: cfg,
	}

	cmdHandlers := handlers.RegisterAllCommands(hDeps)
	if err := telegram.RegisterHandlers(tg, log, cmdHandlers); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return 1
	}

	client.SetCommandMenu(ctx, []models.BotCommand{
		{Command: "start", Description: "Start the bot"},
		{Command: "help", Description: "Show help"},
		{Command: "menu", Description: "Main menu"},
		{Command: "subscribe", Description: "Subscription options"},
		{Command: "support", Description: "Contact support"},
		{Command: "language", Description: "Change language"},
		{Command: "cancel", Description: "Cancel the current action"},
	})

	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}

	httpSrv := httpapi.NewServer(log, cfg.HTTP.Addr, store, cfg.Telegram.AppURL)

	app := bot.NewBot(log, cfg, db, store, tg, sched, httpSrv)

	log.Info("Starting bot...")
	runErr := app.Run(ctx)
	log.Info("Bot run loop finished. Initiating shutdown...")

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	time.Sleep(time.Second)
	return 0
}

// newSessionStore builds the configured conversation-session backend.
// The returned cleanup is a no-op for the memory store.
func newSessionStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (session.Store, func(), error) {
	switch cfg.Session.Backend {
	case "redis":
		rs, err := session.NewRedisStore(ctx, cfg.Session.RedisAddr, cfg.Session.RedisPassword,
			cfg.Session.RedisDB, cfg.Session.TTL)
		if err != nil {
			return nil, nil, err
		}
		log.Info("Using Redis session store", "addr", cfg.Session.RedisAddr)
		return rs, func() {
			if err := rs.Close(); err != nil {
				log.Warn("Failed to close Redis session store", "error", err)
			}
		}, nil
	default:
		log.Info("Using in-memory session store", "ttl", cfg.Session.TTL)
		return session.NewMemoryStore(cfg.Session.TTL), func() {}, nil
	}
}
