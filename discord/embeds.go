package discord

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"

	"songbot/odesli"
	"songbot/songs"
)

const (
	SongColor    = 0x00FFFF
	ErrorColor   = 0xED4245
	WarningColor = 0xFEE75C

	// Discord limits, see https://discord.com/developers/docs/resources/message#embed-object-embed-limits
	MaxEmbedsPerMessage  = 10
	MaxEmbedCharacters   = 6000
	maxDescriptionLength = 4096
	maxErrorBodyLength   = 1000
)

const (
	AttributionName = "Powered by Odesli."
	AttributionURL  = "https://odesli.co/"
)

// Attribution credits Odesli, which its terms of use require on every result.
func Attribution() *discordgo.MessageEmbedAuthor {
	return &discordgo.MessageEmbedAuthor{
		Name: AttributionName,
		URL:  AttributionURL,
	}
}

// BuildSongEmbed renders a resolved song.
func BuildSongEmbed(summary *songs.Summary) *discordgo.MessageEmbed {
	var desc strings.Builder
	desc.WriteString("listen on:")
	for _, link := range summary.Links {
		fmt.Fprintf(&desc, "\n- [%s](%s)", link.Platform.DisplayName(), link.URL)
	}

	embed := &discordgo.MessageEmbed{
		Type:        discordgo.EmbedTypeRich,
		Title:       summary.Heading(),
		Description: clip(desc.String(), maxDescriptionLength),
		Color:       SongColor,
		URL:         summary.PageURL,
		Author:      Attribution(),
	}
	if summary.Thumbnail != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: summary.Thumbnail}
	}
	return embed
}

// BuildResolutionErrorEmbed shows the status code and body Odesli answered
// with, so users can tell a bad link from an outage.
func BuildResolutionErrorEmbed(url string, err *odesli.StatusError) *discordgo.MessageEmbed {
	body := err.Body
	if strings.TrimSpace(body) == "" {
		body = "(empty response body)"
	}

	var desc strings.Builder
	if url != "" {
		fmt.Fprintf(&desc, "Couldn't resolve <%s>\n", url)
	}
	desc.WriteString("```\n")
	desc.WriteString(escapeCodeBlock(clip(body, maxErrorBodyLength)))
	desc.WriteString("\n```")

	return &discordgo.MessageEmbed{
		Type:        discordgo.EmbedTypeRich,
		Title:       fmt.Sprintf("Odesli returned %d", err.StatusCode),
		Description: desc.String(),
		Color:       ErrorColor,
		Author:      Attribution(),
	}
}

// ResolutionErrorLog attaches the full upstream body as "<code>.log".
func ResolutionErrorLog(err *odesli.StatusError) *discordgo.File {
	return &discordgo.File{
		Name:        strconv.Itoa(err.StatusCode) + ".log",
		ContentType: "text/plain",
		Reader:      strings.NewReader(err.Body),
	}
}

// BuildErrorEmbed covers failures that are not an upstream status: no
// supported platform, network trouble, malformed responses.
func BuildErrorEmbed(url string, err error) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Type:   discordgo.EmbedTypeRich,
		Author: Attribution(),
	}

	if errors.Is(err, songs.ErrNoSupportedPlatforms) {
		names := make([]string, 0, len(songs.Platforms))
		for _, p := range songs.Platforms {
			names = append(names, p.DisplayName())
		}
		embed.Title = "No supported platforms"
		embed.Description = fmt.Sprintf("Odesli knows <%s>, but not on %s.", url, strings.Join(names, ", "))
		embed.Color = WarningColor
		return embed
	}

	embed.Title = "Something went wrong"
	embed.Description = clip(fmt.Sprintf("Couldn't resolve <%s>: %v", url, err), maxDescriptionLength)
	embed.Color = ErrorColor
	return embed
}

// BuildResultEmbed renders one result. The file is only set for upstream
// status errors.
func BuildResultEmbed(result songs.Result) (*discordgo.MessageEmbed, *discordgo.File) {
	if result.Err == nil {
		return BuildSongEmbed(result.Summary), nil
	}
	if statusErr, ok := result.StatusError(); ok {
		return BuildResolutionErrorEmbed(result.URL, statusErr), ResolutionErrorLog(statusErr)
	}
	return BuildErrorEmbed(result.URL, result.Err), nil
}

// Reply is a single message worth of embeds and attachments.
type Reply struct {
	Content string
	Embeds  []*discordgo.MessageEmbed
	Files   []*discordgo.File
}

// BuildReplies renders results in order and splits them into as many messages
// as Discord's embed limits require. content goes on the first message only.
func BuildReplies(content string, results []songs.Result) []Reply {
	replies := []Reply{{Content: content}}
	size := 0

	for _, result := range results {
		embed, file := BuildResultEmbed(result)
		embedSize := EmbedSize(embed)

		current := &replies[len(replies)-1]
		if len(current.Embeds) == MaxEmbedsPerMessage ||
			(len(current.Embeds) > 0 && size+embedSize > MaxEmbedCharacters) {
			replies = append(replies, Reply{})
			current = &replies[len(replies)-1]
			size = 0
		}

		current.Embeds = append(current.Embeds, embed)
		if file != nil {
			current.Files = append(current.Files, file)
		}
		size += embedSize
	}

	return replies
}

// EmbedSize counts the characters Discord sums up against the per-message
// limit.
func EmbedSize(embed *discordgo.MessageEmbed) int {
	n := utf8.RuneCountInString(embed.Title) + utf8.RuneCountInString(embed.Description)
	if embed.Author != nil {
		n += utf8.RuneCountInString(embed.Author.Name)
	}
	if embed.Footer != nil {
		n += utf8.RuneCountInString(embed.Footer.Text)
	}
	for _, f := range embed.Fields {
		n += utf8.RuneCountInString(f.Name) + utf8.RuneCountInString(f.Value)
	}
	return n
}

func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-1]) + "…"
}

func escapeCodeBlock(s string) string {
	return strings.ReplaceAll(s, "```", "`\u200b``")
}
