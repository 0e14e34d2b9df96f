package discord

import (
	"context"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/edgard/climabot/internal/config"
	"github.com/edgard/climabot/internal/database"
	"github.com/edgard/climabot/internal/pipeline"
)

// Answerer runs one query pipeline invocation.
type Answerer interface {
	Answer(ctx context.Context, question string) (pipeline.Result, error)
}

// Sender is the outbound slice of the Discord session used by the dispatcher.
// *discordgo.Session satisfies it.
type Sender interface {
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelTyping(channelID string, options ...discordgo.RequestOption) error
}

// DispatcherDeps provides dependencies for the message dispatcher.
type DispatcherDeps struct {
	Logger   *slog.Logger
	Config   *config.Config
	Answerer Answerer
	Store    database.Store
}

// InboundMessage is the gateway event slice the dispatcher cares about.
type InboundMessage struct {
	ChannelID   string
	AuthorID    string
	AuthorIsBot bool
	Content     string
}

// Dispatcher filters inbound messages and hands qualifying ones to the
// pipeline, forwarding the resulting text to the channel.
type Dispatcher struct {
	deps DispatcherDeps
}

// NewDispatcher creates a message dispatcher.
func NewDispatcher(deps DispatcherDeps) *Dispatcher {
	return &Dispatcher{deps: deps}
}

// Handler returns the discordgo MessageCreate handler. Each qualifying
// message runs in its own goroutine so one slow pipeline run never delays
// processing of other gateway events.
func (d *Dispatcher) Handler() func(s *discordgo.Session, m *discordgo.MessageCreate) {
	return func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if m.Author == nil {
			return
		}
		msg := InboundMessage{
			ChannelID:   m.ChannelID,
			AuthorID:    m.Author.ID,
			AuthorIsBot: m.Author.Bot,
			Content:     m.Content,
		}
		if !d.Qualifies(msg) {
			return
		}
		go d.Dispatch(context.Background(), s, msg)
	}
}

// Qualifies reports whether the message should be dispatched: non-bot author
// and content starting with the trigger literal.
func (d *Dispatcher) Qualifies(msg InboundMessage) bool {
	if msg.AuthorIsBot {
		return false
	}
	return strings.HasPrefix(msg.Content, d.deps.Config.Discord.Trigger)
}

// Dispatch runs one pipeline invocation for a qualifying message and sends
// exactly one reply. Upstream failures are logged here and presented to the
// user as the configured generic apology; they never crash the process or
// affect other in-flight messages.
func (d *Dispatcher) Dispatch(ctx context.Context, sender Sender, msg InboundMessage) {
	deps := d.deps
	log := deps.Logger.With("component", "dispatcher", "channel_id", msg.ChannelID)

	question := strings.TrimSpace(strings.TrimPrefix(msg.Content, deps.Config.Discord.Trigger))
	log.InfoContext(ctx, "Dispatching weather question", "author_id", msg.AuthorID)

	// Best-effort typing indicator; not required for correctness.
	if err := sender.ChannelTyping(msg.ChannelID); err != nil {
		log.DebugContext(ctx, "Failed to send typing indicator", "error", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, deps.Config.Discord.ProcessTimeout)
	defer cancel()

	result, err := deps.Answerer.Answer(runCtx, question)
	if err != nil {
		log.ErrorContext(ctx, "Pipeline run failed", "error", err)
		result.Text = deps.Config.Messages.GeneralError
		result.Outcome = pipeline.OutcomeError
	}

	if _, sendErr := sender.ChannelMessageSend(msg.ChannelID, result.Text); sendErr != nil {
		log.ErrorContext(ctx, "Failed to send reply", "error", sendErr)
	} else {
		log.InfoContext(ctx, "Sent reply", "outcome", result.Outcome)
	}

	d.recordQuery(ctx, msg, question, result)
}

// recordQuery writes the query log row. Failures are logged and swallowed;
// the log is operational data, never user-facing.
func (d *Dispatcher) recordQuery(ctx context.Context, msg InboundMessage, question string, result pipeline.Result) {
	deps := d.deps
	if deps.Store == nil {
		return
	}
	log := deps.Logger.With("component", "dispatcher")

	dbCtx, cancel := context.WithTimeout(ctx, deps.Config.Database.OperationTimeout)
	defer cancel()

	record := &database.Query{
		ChannelID: msg.ChannelID,
		AuthorID:  msg.AuthorID,
		Question:  question,
		City:      result.City,
		Outcome:   string(result.Outcome),
		Reply:     result.Text,
	}
	if err := deps.Store.SaveQuery(dbCtx, record); err != nil {
		log.WarnContext(ctx, "Failed to record query", "error", err, "outcome", result.Outcome)
	}
}
