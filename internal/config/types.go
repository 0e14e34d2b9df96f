// Package config manages application configuration from environment variables,
// config files, and default values.
package config

import (
	"errors"
	"time"
)

// ErrConfiguration indicates invalid or incomplete configuration.
var ErrConfiguration = errors.New("configuration error")

// Config defines the application configuration. Values can be set via environment
// variables prefixed with BOT_ (e.g., BOT_GROQ_MODEL) or through config.yaml.
// The three credentials also bind to their canonical unprefixed names:
// DISCORD_TOKEN, GROQ_API_KEY and OPENWEATHER_API_KEY.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Discord   DiscordConfig   `mapstructure:"discord"`
	Groq      GroqConfig      `mapstructure:"groq"`
	Weather   WeatherConfig   `mapstructure:"weather"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Messages  MessagesConfig  `mapstructure:"messages"`
}

// LogConfig controls structured logging output.
type LogConfig struct {
	Level  string `mapstructure:"level"  validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
}

// DiscordConfig holds the gateway credentials and dispatcher settings.
type DiscordConfig struct {
	Token          string        `mapstructure:"token"           validate:"required"`
	Trigger        string        `mapstructure:"trigger"         validate:"required"`
	ProcessTimeout time.Duration `mapstructure:"process_timeout" validate:"required,min=1s,max=10m"`
}

// GroqConfig holds Groq API settings for both pipeline completion calls.
// Extraction favors determinism (low temperature, short output); the reply
// call favors variety (higher temperature, longer output).
type GroqConfig struct {
	APIKey             string        `mapstructure:"api_key"             validate:"required"`
	BaseURL            string        `mapstructure:"base_url"            validate:"required,url"`
	Model              string        `mapstructure:"model"               validate:"required"`
	ExtractTemperature float32       `mapstructure:"extract_temperature" validate:"min=0,max=2"`
	ExtractMaxTokens   int           `mapstructure:"extract_max_tokens"  validate:"required,min=1"`
	ReplyTemperature   float32       `mapstructure:"reply_temperature"   validate:"min=0,max=2"`
	ReplyMaxTokens     int           `mapstructure:"reply_max_tokens"    validate:"required,min=1"`
	Timeout            time.Duration `mapstructure:"timeout"             validate:"required,min=1s,max=10m"`
}

// WeatherConfig holds OpenWeatherMap API settings.
type WeatherConfig struct {
	APIKey  string        `mapstructure:"api_key"  validate:"required"`
	BaseURL string        `mapstructure:"base_url" validate:"required,url"`
	Lang    string        `mapstructure:"lang"     validate:"required"`
	Timeout time.Duration `mapstructure:"timeout"  validate:"required,min=1s,max=10m"`
}

// DatabaseConfig holds query log storage settings.
type DatabaseConfig struct {
	Path             string        `mapstructure:"path"              validate:"required"`
	RetentionDays    int           `mapstructure:"retention_days"    validate:"required,min=1"`
	OperationTimeout time.Duration `mapstructure:"operation_timeout" validate:"required,min=1s,max=1m"`
}

// TaskConfig enables and schedules a single background task.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// SchedulerConfig maps task names to their schedules.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// MessagesConfig holds every user-facing message string the bot can send.
type MessagesConfig struct {
	NoCity          string `mapstructure:"no_city"           validate:"required"`
	WeatherNotFound string `mapstructure:"weather_not_found" validate:"required"`
	GeneralError    string `mapstructure:"general_error"     validate:"required"`
	ReplyFallback   string `mapstructure:"reply_fallback"    validate:"required"`
}
