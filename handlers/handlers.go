package handlers

// handlers answer the interactions discord sends, over the gateway or the
// HTTP endpoint. Slow commands are deferred and the reply is edited once the
// songs are resolved.

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	sentry "github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"

	"songbot/discord"
	"songbot/links"
	"songbot/sentryhelper"
	"songbot/songs"
)

// interaction tokens stop working after 15 minutes
const interactionTTL = 15 * time.Minute

const (
	foundSongsContent = "Found these song(s):"
	noLinksContent    = "I couldn't find any links in that message."
	missingURLContent = "Give me a link to a song, like `/music url:https://open.spotify.com/track/...`"
	errorContent      = "An error occurred while processing your command"
	unknownContent    = "Sorry, I don't know how to handle this type of interaction"
)

// SongResolver is what the commands need from songs.Service.
type SongResolver interface {
	Resolve(ctx context.Context, url string) songs.Result
	ResolveText(ctx context.Context, text string) []songs.Result
}

// Observer counts interactions. metrics.Metrics implements it.
type Observer interface {
	ObserveInteraction(command string)
	ObservePanic()
}

type Manager struct {
	AppID     string
	PublicKey string
	Songs     SongResolver
	Hints     *Hints
	Metrics   Observer
}

// NewManager wires the command handlers. observer may be nil.
func NewManager(appID, publicKey string, resolver SongResolver, hints *Hints, observer Observer) *Manager {
	return &Manager{
		AppID:     appID,
		PublicKey: publicKey,
		Songs:     resolver,
		Hints:     hints,
		Metrics:   observer,
	}
}

// commandFunc builds the replies for a deferred command.
type commandFunc func(ctx context.Context, i *discordgo.Interaction) []discord.Reply

// HandleInteraction is registered with session.AddHandler in gateway mode.
func (manager *Manager) HandleInteraction(s *discordgo.Session, ic *discordgo.InteractionCreate) {
	manager.Handle(s, ic.Interaction)
}

// Handle answers i through r and runs deferred work before returning.
func (manager *Manager) Handle(r discord.Responder, i *discordgo.Interaction) {
	defer func() {
		if err := recover(); err != nil {
			manager.reportPanic(context.Background(), "gateway", err)
		}
	}()

	response, work := manager.route(i)
	if err := r.InteractionRespond(i, response); err != nil {
		log.WithFields(log.Fields{
			"module": "handlers",
			"method": "Handle",
		}).Errorf("Error responding to interaction: %v", err)
		return
	}
	if work != nil {
		manager.run(r, i, work)
	}
}

// HandleHTTPInteraction returns the response for the HTTP request discord is
// waiting on. Deferred work continues in the background through r.
func (manager *Manager) HandleHTTPInteraction(r discord.Responder, i *discordgo.Interaction) (response *discordgo.InteractionResponse) {
	defer func() {
		if err := recover(); err != nil {
			manager.reportPanic(context.Background(), "http", err)
			response = discord.TextResponse(errorContent, true)
		}
	}()

	response, work := manager.route(i)
	if work != nil {
		go manager.run(r, i, work)
	}
	return response
}

func (manager *Manager) route(i *discordgo.Interaction) (*discordgo.InteractionResponse, commandFunc) {
	switch i.Type {
	case discordgo.InteractionPing:
		return &discordgo.InteractionResponse{Type: discordgo.InteractionResponsePong}, nil
	case discordgo.InteractionApplicationCommand:
	default:
		return discord.TextResponse(unknownContent, true), nil
	}

	name := i.ApplicationCommandData().Name
	log.WithFields(log.Fields{
		"module":  "handlers",
		"command": name,
		"guildID": i.GuildID,
	}).Debug("Received command")
	if manager.Metrics != nil {
		manager.Metrics.ObserveInteraction(name)
	}

	switch name {
	case discord.CommandPing:
		return manager.handlePing(), nil
	case discord.CommandHelp:
		return manager.handleHelp(), nil
	case discord.CommandMusic:
		return discord.DeferredResponse(), manager.handleMusic
	case discord.CommandGetSongs:
		return discord.DeferredResponse(), manager.handleGetSongs
	default:
		return discord.TextResponse(unknownContent, true), nil
	}
}

// run executes a deferred command inside its own sentry transaction. A panic
// only fails this invocation.
func (manager *Manager) run(r discord.Responder, i *discordgo.Interaction, work commandFunc) {
	name := i.ApplicationCommandData().Name
	ctx, transaction := sentryhelper.StartCommandTransaction(context.Background(), name, i.GuildID, userID(i))
	defer transaction.Finish()

	ctx, cancel := context.WithTimeout(ctx, interactionTTL)
	defer cancel()

	defer func() {
		if err := recover(); err != nil {
			transaction.Status = sentry.SpanStatusInternalError
			manager.reportPanic(ctx, name, err)
			if err := discord.EditText(r, i, errorContent); err != nil {
				log.Errorf("Error reporting failure to user: %v", err)
			}
		}
	}()

	replies := work(ctx, i)
	if err := discord.EditReplies(r, i, replies); err != nil {
		transaction.Status = sentry.SpanStatusUnavailable
		log.WithFields(log.Fields{
			"module":  "handlers",
			"command": name,
			"guildID": i.GuildID,
		}).Errorf("Error delivering replies: %v", err)
		sentryhelper.CaptureException(ctx, err)
		return
	}
	transaction.Status = sentry.SpanStatusOK
}

func (manager *Manager) reportPanic(ctx context.Context, command string, recovered any) {
	err := fmt.Errorf("panic in %s: %v", command, recovered)
	log.WithField("command", command).Error(err)
	sentryhelper.CaptureException(ctx, err)
	if manager.Metrics != nil {
		manager.Metrics.ObservePanic()
	}
}

func (manager *Manager) handlePing() *discordgo.InteractionResponse {
	return discord.TextResponse("Pong! 🏓", false)
}

func (manager *Manager) handleHelp() *discordgo.InteractionResponse {
	return discord.TextResponse("**🎵 songbot**\n\n"+
		"Turns a music link into links for every streaming platform.\n\n"+
		"**`/music <url>`**\n"+
		"> Look up a single song\n"+
		"> Example: `/music url:https://open.spotify.com/track/4cOdK2wGLETKBW3PvgPWqT`\n\n"+
		"**Apps > Get Songs**\n"+
		"> Right-click a message to look up every link in it\n\n"+
		"**`/ping`**\n"+
		"> Check that the bot is alive\n\n"+
		"*Powered by Odesli (https://odesli.co)*", true)
}

func (manager *Manager) handleMusic(ctx context.Context, i *discordgo.Interaction) []discord.Reply {
	url := optionString(i.ApplicationCommandData(), discord.OptionURL)
	if url == "" {
		return []discord.Reply{{Content: missingURLContent}}
	}

	sentryhelper.AddBreadcrumb(ctx, &sentry.Breadcrumb{
		Category: "songs",
		Message:  "resolving " + url,
		Level:    sentry.LevelInfo,
	})
	result := manager.Songs.Resolve(ctx, url)

	replies := discord.BuildReplies("", []songs.Result{result})
	if result.Err == nil {
		replies[0].Content = manager.hint(i)
	}
	return replies
}

func (manager *Manager) handleGetSongs(ctx context.Context, i *discordgo.Interaction) []discord.Reply {
	message := targetMessage(i.ApplicationCommandData())
	if message == nil || !links.Contains(message.Content) {
		return []discord.Reply{{Content: noLinksContent}}
	}

	sentryhelper.AddBreadcrumb(ctx, &sentry.Breadcrumb{
		Category: "songs",
		Message:  "resolving links in message " + message.ID,
		Level:    sentry.LevelInfo,
	})
	results := manager.Songs.ResolveText(ctx, message.Content)
	if len(results) == 0 {
		return []discord.Reply{{Content: noLinksContent}}
	}

	return discord.BuildReplies(foundSongsContent+manager.hint(i), results)
}

func (manager *Manager) hint(i *discordgo.Interaction) string {
	if manager.Hints == nil {
		return ""
	}
	scope := i.GuildID
	if scope == "" {
		scope = i.ChannelID
	}
	return strings.TrimLeft(manager.Hints.ShowIfApplicable(scope), "\n")
}

// ParseInteraction decodes the body of an HTTP interaction.
func (manager *Manager) ParseInteraction(body []byte) (*discordgo.Interaction, error) {
	var interaction discordgo.Interaction
	if err := json.Unmarshal(body, &interaction); err != nil {
		log.Errorf("Error unmarshalling interaction: %v", err)
		return nil, err
	}
	return &interaction, nil
}

// VerifyDiscordRequest checks the ed25519 signature discord puts on every
// HTTP interaction.
func (manager *Manager) VerifyDiscordRequest(signature, timestamp string, body []byte) bool {
	pubKeyBytes, err := hex.DecodeString(manager.PublicKey)
	if err != nil {
		log.Errorf("Error decoding public key: %v", err)
		return false
	}
	if len(pubKeyBytes) != ed25519.PublicKeySize {
		log.Errorf("Public key has %d bytes, want %d", len(pubKeyBytes), ed25519.PublicKeySize)
		return false
	}

	signatureBytes, err := hex.DecodeString(signature)
	if err != nil {
		log.Debugf("Error decoding signature: %v", err)
		return false
	}

	message := []byte(timestamp + string(body))
	return ed25519.Verify(pubKeyBytes, message, signatureBytes)
}

func optionString(data discordgo.ApplicationCommandInteractionData, name string) string {
	for _, opt := range data.Options {
		if opt.Name == name && opt.Type == discordgo.ApplicationCommandOptionString {
			return strings.TrimSpace(opt.StringValue())
		}
	}
	return ""
}

func targetMessage(data discordgo.ApplicationCommandInteractionData) *discordgo.Message {
	if data.Resolved == nil || data.TargetID == "" {
		return nil
	}
	return data.Resolved.Messages[data.TargetID]
}

func userID(i *discordgo.Interaction) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
