// Package notify cross-posts newly ingested deals to a Discord channel.
package notify

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"dealshub/backend/internal/models"
)

// DiscordAnnouncer posts one message per ingested deal. All failures are
// logged and swallowed; announcing is never allowed to fail an ingestion.
type DiscordAnnouncer struct {
	session   *discordgo.Session
	channelID string
	logger    *zap.Logger
}

func NewDiscordAnnouncer(botToken, channelID string, logger *zap.Logger) (*DiscordAnnouncer, error) {
	session, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}
	if err := session.Open(); err != nil {
		return nil, fmt.Errorf("failed to open Discord session: %w", err)
	}
	return &DiscordAnnouncer{session: session, channelID: channelID, logger: logger}, nil
}

// Announce formats and posts the deal.
func (a *DiscordAnnouncer) Announce(msg models.Message) {
	content := formatDeal(msg)
	if _, err := a.session.ChannelMessageSend(a.channelID, content); err != nil {
		a.logger.Warn("Failed to announce deal on Discord",
			zap.Int64("message_id", msg.MessageID), zap.Error(err))
	}
}

func (a *DiscordAnnouncer) Close() error {
	return a.session.Close()
}

func formatDeal(msg models.Message) string {
	line := msg.Title
	if msg.Price != "" {
		line += " - " + msg.Price
	}
	if msg.Store != "" {
		line += " @ " + msg.Store
	}
	if len(msg.Links) > 0 {
		line += "\n" + msg.Links[0]
	}
	return line
}
