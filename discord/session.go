package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// NewSession creates a session for token. It is not connected; REST calls
// work right away and Open starts the gateway.
func NewSession(token string) (*discordgo.Session, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("creating discord session: %w", err)
	}
	// interactions arrive without any privileged intent
	session.Identify.Intents = discordgo.IntentsGuilds
	return session, nil
}
