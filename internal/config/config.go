// Package config manages application configuration from config.yaml,
// BOT_-prefixed environment variables, and default values.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config defines the application configuration. Values can be set via
// environment variables prefixed with BOT_ (e.g. BOT_TELEGRAM_TOKEN) or
// through config.yaml.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Session   SessionConfig   `mapstructure:"session"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// LoggerConfig controls log level and output format.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds the bot token, the staff chat that receives
// escalations, and the advertised companion-app URL.
type TelegramConfig struct {
	Token       string `mapstructure:"token"         validate:"required"`
	AdminChatID int64  `mapstructure:"admin_chat_id" validate:"required"`
	AppURL      string `mapstructure:"app_url"       validate:"omitempty,url"`
}

// DatabaseConfig holds the SQLite database location.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// SessionConfig selects the conversation-session store backend.
type SessionConfig struct {
	Backend string        `mapstructure:"backend" validate:"oneof=memory redis"`
	TTL     time.Duration `mapstructure:"ttl"`

	RedisAddr     string `mapstructure:"redis_addr" validate:"required_if=Backend redis"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
}

// HTTPConfig configures the ops HTTP server.
type HTTPConfig struct {
	Addr string `mapstructure:"addr" validate:"required"`
}

// SchedulerConfig holds per-task scheduling settings plus the knobs the
// notification tasks read.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`

	ExpiryLookaheadDays int `mapstructure:"expiry_lookahead_days" validate:"min=1,max=30"`
	ActiveSinceDays     int `mapstructure:"active_since_days"     validate:"min=1,max=365"`
}

// TaskConfig enables a named scheduled task and sets its cron schedule.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// LoadConfig loads and validates configuration from defaults, the config
// file at path, and BOT_* environment variables, in increasing precedence.
func LoadConfig(path string) (*Config, error) {
	setDefaults()

	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("BOT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Allow missing config file; defaults plus env vars may be enough
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.json", true)

	viper.SetDefault("database.path", "storage.db")

	viper.SetDefault("session.backend", "memory")
	viper.SetDefault("session.ttl", 24*time.Hour)
	viper.SetDefault("session.redis_addr", "")
	viper.SetDefault("session.redis_db", 0)

	viper.SetDefault("http.addr", ":8080")

	viper.SetDefault("scheduler.expiry_lookahead_days", 3)
	viper.SetDefault("scheduler.active_since_days", 30)

	viper.SetDefault("scheduler.tasks.workout_reminder_morning.enabled", true)
	viper.SetDefault("scheduler.tasks.workout_reminder_morning.schedule", "0 8 * * *")
	viper.SetDefault("scheduler.tasks.workout_reminder_afternoon.enabled", true)
	viper.SetDefault("scheduler.tasks.workout_reminder_afternoon.schedule", "0 12 * * *")
	viper.SetDefault("scheduler.tasks.workout_reminder_evening.enabled", true)
	viper.SetDefault("scheduler.tasks.workout_reminder_evening.schedule", "0 18 * * *")
	viper.SetDefault("scheduler.tasks.weekly_progress.enabled", true)
	viper.SetDefault("scheduler.tasks.weekly_progress.schedule", "0 10 * * 1")
	viper.SetDefault("scheduler.tasks.subscription_expiry.enabled", true)
	viper.SetDefault("scheduler.tasks.subscription_expiry.schedule", "0 9 * * *")
	viper.SetDefault("scheduler.tasks.sql_maintenance.enabled", true)
	viper.SetDefault("scheduler.tasks.sql_maintenance.schedule", "0 4 * * 0")
}
