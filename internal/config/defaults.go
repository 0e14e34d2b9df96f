package config

import "time"

// Default values for configuration
const (
	// Log defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"

	// Discord defaults
	DefaultDiscordTrigger        = "!clima"
	DefaultDiscordProcessTimeout = 2 * time.Minute

	// Groq defaults
	DefaultGroqBaseURL            = "https://api.groq.com/openai/v1"
	DefaultGroqModel              = "llama-3.3-70b-versatile"
	DefaultGroqExtractTemperature = 0.3
	DefaultGroqExtractMaxTokens   = 50
	DefaultGroqReplyTemperature   = 0.7
	DefaultGroqReplyMaxTokens     = 300
	DefaultGroqTimeout            = 30 * time.Second

	// Weather defaults
	DefaultWeatherBaseURL = "https://api.openweathermap.org/data/2.5/weather"
	DefaultWeatherLang    = "es"
	DefaultWeatherTimeout = 10 * time.Second

	// Database defaults
	DefaultDBPath             = "storage.db"
	DefaultDBRetentionDays    = 30
	DefaultDBOperationTimeout = 5 * time.Second

	// Scheduler defaults
	DefaultMaintenanceSchedule = "0 0 4 * * *" // daily at 04:00, seconds field included
)

// Default user-facing messages. The bot answers in Spanish, matching the
// language requested from the weather provider.
var DefaultMessages = MessagesConfig{
	NoCity:          "❓ No pude identificar la ciudad. Por favor, pregunta algo como: '¿Cómo está el clima en Buenos Aires?'",
	WeatherNotFound: "❌ No pude encontrar información del clima para: %s",
	GeneralError:    "❌ Lo siento, ocurrió un error. Por favor, intenta de nuevo más tarde.",
	ReplyFallback:   "❌ Error al generar la respuesta",
}
