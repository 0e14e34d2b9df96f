// Package main contains the entrypoint for the ClimaBot Discord bot.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/edgard/climabot/internal/bot"
	"github.com/edgard/climabot/internal/bot/tasks"
	"github.com/edgard/climabot/internal/config"
	"github.com/edgard/climabot/internal/database"
	"github.com/edgard/climabot/internal/discord"
	"github.com/edgard/climabot/internal/groq"
	"github.com/edgard/climabot/internal/logger"
	"github.com/edgard/climabot/internal/pipeline"
	"github.com/edgard/climabot/internal/weather"

	_ "modernc.org/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop() // Ensure context cancellation is signaled before exit
	os.Exit(exitCode)
}

// run initializes and starts all application components (config, logger, db,
// API clients, pipeline, gateway, scheduler), handles graceful shutdown, and
// returns an exit code (0 for success, 1 for failure).
func run(ctx context.Context) int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	log.Info("Logger initialized", "level", cfg.Log.Level, "format", cfg.Log.Format)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	groqClient := groq.NewClient(cfg.Groq, cfg.Messages.ReplyFallback, log)
	weatherClient := weather.NewClient(cfg.Weather, log)
	answerPipeline := pipeline.New(groqClient, weatherClient, groqClient, cfg.Messages, log)

	session, err := discord.NewSession(cfg.Discord.Token, log)
	if err != nil {
		log.Error("Failed to create Discord session", "error", err)
		return 1
	}

	dispatcher := discord.NewDispatcher(discord.DispatcherDeps{
		Logger:   log,
		Config:   cfg,
		Answerer: answerPipeline,
		Store:    store,
	})
	session.AddHandler(dispatcher.Handler())

	tDeps := tasks.TaskDeps{
		Logger: log,
		Store:  store,
		Config: cfg,
	}
	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}

	app := bot.NewBot(log, cfg, session, store, sched)

	log.Info("Starting bot...")
	runErr := app.Run(ctx) // Run blocks until context is cancelled or an error occurs
	log.Info("Bot run loop finished. Initiating shutdown...")

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		// Allow logs to flush before exiting on error
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	time.Sleep(time.Second)
	return 0
}
