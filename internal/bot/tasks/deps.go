// Package tasks implements scheduled background tasks for the ClimaBot
// Discord bot: task definitions, dependencies, and registration.
package tasks

import (
	"log/slog"

	"github.com/edgard/climabot/internal/config"
	"github.com/edgard/climabot/internal/database"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Store  database.Store
	Config *config.Config
}
