package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

const (
	CommandMusic    = "music"
	CommandGetSongs = "Get Songs"
	CommandPing     = "ping"
	CommandHelp     = "help"

	OptionURL = "url"
)

// Commands are the application commands the bot registers. They can be used
// wherever the app is installed, for a guild or a single user, except in the
// bot's own DMs.
func Commands() []*discordgo.ApplicationCommand {
	integrations := &[]discordgo.ApplicationIntegrationType{
		discordgo.ApplicationIntegrationGuildInstall,
		discordgo.ApplicationIntegrationUserInstall,
	}
	contexts := &[]discordgo.InteractionContextType{
		discordgo.InteractionContextGuild,
		discordgo.InteractionContextPrivateChannel,
	}

	return []*discordgo.ApplicationCommand{
		{
			Name:        CommandMusic,
			Type:        discordgo.ChatApplicationCommand,
			Description: "Find a song on every streaming platform from a link.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        OptionURL,
					Description: "A link to the song.",
					Required:    true,
				},
			},
			IntegrationTypes: integrations,
			Contexts:         contexts,
		},
		{
			Name:             CommandGetSongs,
			Type:             discordgo.MessageApplicationCommand,
			IntegrationTypes: integrations,
			Contexts:         contexts,
		},
		{
			Name:             CommandPing,
			Type:             discordgo.ChatApplicationCommand,
			Description:      "Check that the bot is alive.",
			IntegrationTypes: integrations,
			Contexts:         contexts,
		},
		{
			Name:             CommandHelp,
			Type:             discordgo.ChatApplicationCommand,
			Description:      "Show what the bot can do.",
			IntegrationTypes: integrations,
			Contexts:         contexts,
		},
	}
}

// CommandRegistrar is the part of *discordgo.Session used to publish commands.
type CommandRegistrar interface {
	ApplicationCommandBulkOverwrite(appID string, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
}

// RegisterCommands replaces the app's commands with Commands(). An empty
// guildID registers them globally.
func RegisterCommands(r CommandRegistrar, appID, guildID string) ([]*discordgo.ApplicationCommand, error) {
	if appID == "" {
		return nil, fmt.Errorf("application id is required to register commands")
	}
	registered, err := r.ApplicationCommandBulkOverwrite(appID, guildID, Commands())
	if err != nil {
		return nil, fmt.Errorf("registering commands: %w", err)
	}
	return registered, nil
}
