package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Responder is the part of *discordgo.Session used to answer interactions.
type Responder interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DeferredResponse acknowledges an interaction; the reply is filled in later
// with EditReplies.
func DeferredResponse() *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}
}

// TextResponse is an immediate plain text reply.
func TextResponse(content string, ephemeral bool) *discordgo.InteractionResponse {
	data := &discordgo.InteractionResponseData{Content: content}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	}
}

// Defer acknowledges interaction so it does not expire while songs resolve.
func Defer(r Responder, interaction *discordgo.Interaction) error {
	if err := r.InteractionRespond(interaction, DeferredResponse()); err != nil {
		return fmt.Errorf("deferring interaction: %w", err)
	}
	return nil
}

// EditReplies fills the deferred reply with the first message and sends the
// rest as follow-ups, in order.
func EditReplies(r Responder, interaction *discordgo.Interaction, replies []Reply) error {
	for i, reply := range replies {
		if i == 0 {
			content := reply.Content
			embeds := reply.Embeds
			if _, err := r.InteractionResponseEdit(interaction, &discordgo.WebhookEdit{
				Content: &content,
				Embeds:  &embeds,
				Files:   reply.Files,
			}); err != nil {
				return fmt.Errorf("editing interaction response: %w", err)
			}
			continue
		}

		if _, err := r.FollowupMessageCreate(interaction, true, &discordgo.WebhookParams{
			Content: reply.Content,
			Embeds:  reply.Embeds,
			Files:   reply.Files,
		}); err != nil {
			return fmt.Errorf("sending follow-up %d: %w", i, err)
		}
	}

	log.WithFields(log.Fields{
		"module": "discord",
		"method": "EditReplies",
	}).Tracef("delivered %d message(s)", len(replies))
	return nil
}

// EditText replaces the deferred reply with a plain message.
func EditText(r Responder, interaction *discordgo.Interaction, content string) error {
	return EditReplies(r, interaction, []Reply{{Content: content}})
}
