// Package songs turns Odesli responses into display-ready song summaries.
package songs

import (
	"errors"
	"unicode/utf8"

	"songbot/odesli"
)

// MaxHeadingLength is Discord's cap on embed titles.
const MaxHeadingLength = 256

const ellipsis = "…"

// ErrNoSupportedPlatforms is returned when a response has none of the
// allow-listed platforms.
var ErrNoSupportedPlatforms = errors.New("none of the supported platforms have this song")

// SongLink is a listen link on one platform.
type SongLink struct {
	Platform Platform
	URL      string
}

// Summary is what gets shown for a resolved song.
type Summary struct {
	Title     string
	Artist    string
	Thumbnail string
	PageURL   string
	Links     []SongLink
}

// UntitledPlaceholder stands in for a title none of the platforms supplied.
const UntitledPlaceholder = "Untitled"

// Heading is the "Title by Artist" line, capped for display.
func (s *Summary) Heading() string {
	title := s.Title
	if title == "" {
		title = UntitledPlaceholder
	}
	return TruncateHeading(title, s.Artist)
}

// Summarize walks the allow-list and builds a summary from resp. Title, artist
// and thumbnail are each taken from the first platform that has a value.
func Summarize(resp *odesli.Response) (*Summary, error) {
	summary := &Summary{PageURL: resp.PageURL}

	for _, platform := range Platforms {
		link, entity, ok := resp.Link(string(platform))
		if !ok {
			continue
		}

		if entity != nil {
			if summary.Title == "" {
				summary.Title = entity.Title
			}
			if summary.Artist == "" {
				summary.Artist = entity.ArtistName
			}
			if summary.Thumbnail == "" {
				summary.Thumbnail = entity.ThumbnailURL
			}
		}

		summary.Links = append(summary.Links, SongLink{
			Platform: platform,
			URL:      link.URL,
		})
	}

	if len(summary.Links) == 0 {
		return nil, ErrNoSupportedPlatforms
	}
	return summary, nil
}

// TruncateHeading joins title and artist as "title by artist". When that is
// longer than MaxHeadingLength runes the title is shortened and marked with an
// ellipsis; the artist is never cut unless it alone exceeds the cap.
func TruncateHeading(title, artist string) string {
	suffix := ""
	if artist != "" {
		suffix = " by " + artist
	}

	suffixLen := utf8.RuneCountInString(suffix)
	remaining := MaxHeadingLength - suffixLen

	heading := title + suffix
	if utf8.RuneCountInString(title) > remaining {
		keep := max(remaining-2, 0)
		heading = truncateRunes(title, keep) + ellipsis + suffix
	}
	return truncateRunes(heading, MaxHeadingLength)
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
