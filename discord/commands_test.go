package discord

import (
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
)

type fakeRegistrar struct {
	appID, guildID string
	commands       []*discordgo.ApplicationCommand
	err            error
}

func (f *fakeRegistrar) ApplicationCommandBulkOverwrite(appID string, guildID string, commands []*discordgo.ApplicationCommand, _ ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error) {
	f.appID, f.guildID, f.commands = appID, guildID, commands
	return commands, f.err
}

func TestCommands(t *testing.T) {
	cmds := Commands()

	byName := map[string]*discordgo.ApplicationCommand{}
	for _, c := range cmds {
		byName[c.Name] = c
		if c.IntegrationTypes == nil || len(*c.IntegrationTypes) != 2 {
			t.Errorf("%s: expected guild and user install", c.Name)
		}
		if c.Contexts == nil {
			t.Errorf("%s: contexts not set", c.Name)
			continue
		}
		for _, ctx := range *c.Contexts {
			if ctx == discordgo.InteractionContextBotDM {
				t.Errorf("%s: should not be available in bot DMs", c.Name)
			}
		}
	}

	music, ok := byName[CommandMusic]
	if !ok {
		t.Fatal("music command missing")
	}
	if len(music.Options) != 1 || music.Options[0].Name != OptionURL || !music.Options[0].Required {
		t.Errorf("music options = %+v", music.Options)
	}

	getSongs, ok := byName[CommandGetSongs]
	if !ok {
		t.Fatal("Get Songs command missing")
	}
	if getSongs.Type != discordgo.MessageApplicationCommand {
		t.Errorf("Get Songs type = %v, want message command", getSongs.Type)
	}
	if getSongs.Description != "" {
		t.Error("context menu commands cannot have a description")
	}
}

func TestRegisterCommands(t *testing.T) {
	r := &fakeRegistrar{}
	registered, err := RegisterCommands(r, "app", "guild")
	if err != nil {
		t.Fatal(err)
	}
	if r.appID != "app" || r.guildID != "guild" {
		t.Errorf("registered to %s/%s", r.appID, r.guildID)
	}
	if len(registered) != len(Commands()) {
		t.Errorf("registered %d commands, want %d", len(registered), len(Commands()))
	}

	if _, err := RegisterCommands(&fakeRegistrar{}, "", ""); err == nil {
		t.Error("expected error without app id")
	}
	if _, err := RegisterCommands(&fakeRegistrar{err: errors.New("401")}, "app", ""); err == nil {
		t.Error("expected error from discord to be returned")
	}
}

func TestNewSession(t *testing.T) {
	s, err := NewSession("token")
	if err != nil {
		t.Fatal(err)
	}
	if s.Identify.Token != "Bot token" {
		t.Errorf("token = %q", s.Identify.Token)
	}
}
