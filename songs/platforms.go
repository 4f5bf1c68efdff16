package songs

// Platform is an Odesli platform identifier.
type Platform string

const (
	Spotify      Platform = "spotify"
	YouTubeMusic Platform = "youtubeMusic"
	AppleMusic   Platform = "appleMusic"
	AmazonMusic  Platform = "amazonMusic"
	Bandcamp     Platform = "bandcamp"
)

// Platforms is the allow-list in priority order. Metadata is taken from the
// earliest platform that has it, and links are listed in this order.
var Platforms = []Platform{
	Spotify,
	YouTubeMusic,
	AppleMusic,
	AmazonMusic,
	Bandcamp,
}

var displayNames = map[Platform]string{
	Spotify:      "Spotify",
	YouTubeMusic: "YouTube Music",
	AppleMusic:   "Apple Music",
	AmazonMusic:  "Amazon Music",
	Bandcamp:     "Bandcamp",
}

// DisplayName is the human readable name of the platform.
func (p Platform) DisplayName() string {
	if name, ok := displayNames[p]; ok {
		return name
	}
	return string(p)
}
