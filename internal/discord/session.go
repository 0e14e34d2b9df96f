// Package discord wires the bot to the Discord gateway: session setup and the
// message dispatcher that feeds qualifying messages into the query pipeline.
package discord

import (
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
)

// NewSession creates a Discord gateway session configured to receive guild
// message events with message content. The session is not opened; the bot
// lifecycle owns Open/Close.
func NewSession(token string, log *slog.Logger) (*discordgo.Session, error) {
	if token == "" {
		return nil, fmt.Errorf("discord token is required")
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentMessageContent

	log.With("component", "discord_session").Info("Discord session created")
	return session, nil
}
