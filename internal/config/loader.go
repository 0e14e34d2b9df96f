package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load loads and validates configuration from:
// 1. Default values
// 2. config.yaml file (optional)
// 3. BOT_* environment variables, plus the canonical credential variables
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if err := readConfig(v); err != nil {
		return nil, fmt.Errorf("%w: failed to load config file: %v", ErrConfiguration, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrConfiguration, err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	return cfg, nil
}

// readConfig initializes viper sources: optional config.yaml plus environment.
func readConfig(v *viper.Viper) error {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The three required credentials keep their conventional names so the bot
	// can be deployed without any BOT_-prefixed environment.
	for key, envs := range map[string][]string{
		"discord.token":   {"DISCORD_TOKEN", "BOT_DISCORD_TOKEN"},
		"groq.api_key":    {"GROQ_API_KEY", "BOT_GROQ_API_KEY"},
		"weather.api_key": {"OPENWEATHER_API_KEY", "BOT_WEATHER_API_KEY"},
	} {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return fmt.Errorf("failed to bind %s: %v", key, err)
		}
	}

	// Allow missing config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %v", err)
		}
		// Config file not found is okay, we'll use defaults
	}

	return nil
}

// setDefaults sets default values for optional configuration parameters
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)

	// Discord defaults
	v.SetDefault("discord.trigger", DefaultDiscordTrigger)
	v.SetDefault("discord.process_timeout", DefaultDiscordProcessTimeout)

	// Groq defaults
	v.SetDefault("groq.base_url", DefaultGroqBaseURL)
	v.SetDefault("groq.model", DefaultGroqModel)
	v.SetDefault("groq.extract_temperature", DefaultGroqExtractTemperature)
	v.SetDefault("groq.extract_max_tokens", DefaultGroqExtractMaxTokens)
	v.SetDefault("groq.reply_temperature", DefaultGroqReplyTemperature)
	v.SetDefault("groq.reply_max_tokens", DefaultGroqReplyMaxTokens)
	v.SetDefault("groq.timeout", DefaultGroqTimeout)

	// Weather defaults
	v.SetDefault("weather.base_url", DefaultWeatherBaseURL)
	v.SetDefault("weather.lang", DefaultWeatherLang)
	v.SetDefault("weather.timeout", DefaultWeatherTimeout)

	// Database defaults
	v.SetDefault("database.path", DefaultDBPath)
	v.SetDefault("database.retention_days", DefaultDBRetentionDays)
	v.SetDefault("database.operation_timeout", DefaultDBOperationTimeout)

	// Scheduler defaults
	v.SetDefault("scheduler.tasks.query_log_maintenance.enabled", true)
	v.SetDefault("scheduler.tasks.query_log_maintenance.schedule", DefaultMaintenanceSchedule)

	// Message defaults
	v.SetDefault("messages.no_city", DefaultMessages.NoCity)
	v.SetDefault("messages.weather_not_found", DefaultMessages.WeatherNotFound)
	v.SetDefault("messages.general_error", DefaultMessages.GeneralError)
	v.SetDefault("messages.reply_fallback", DefaultMessages.ReplyFallback)
}
