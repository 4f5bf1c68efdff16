package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// DefaultFile is read when no config path is given. It is optional.
const DefaultFile = "config.json"

const (
	ModeGateway = "gateway"
	ModeHTTP    = "http"
)

type Config struct {
	Discord DiscordConfig
	Odesli  OdesliConfig
	Sentry  SentryConfig
	Options Options
}

type DiscordConfig struct {
	BotToken  string
	AppID     string
	PublicKey string
	// GuildID registers commands to a single guild, which applies instantly.
	// Empty registers them globally.
	GuildID string
}

type OdesliConfig struct {
	BaseURL     string
	UserCountry string
	APIKey      string
}

type SentryConfig struct {
	DSN         string
	Environment string
	Release     string
}

type Options struct {
	Port             string
	LogLevel         string
	InteractionsMode string
	HintChance       float64
}

func (o *Options) HTTPInteractions() bool {
	return o.InteractionsMode == ModeHTTP
}

// Load reads the configuration once. Values come from defaults, then the JSON
// file at path (if present), then the environment. The result is not meant to
// be modified afterwards.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("json")

	if path == "" {
		path = DefaultFile
		if _, err := os.Stat(path); err != nil {
			path = ""
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	v.AutomaticEnv()
	bindings := map[string][]string{
		"bot_token":           {"BOT_TOKEN", "DISCORD_BOT_TOKEN"},
		"app_id":              {"DISCORD_APP_ID"},
		"public_key":          {"DISCORD_PUBLIC_KEY"},
		"guild_id":            {"DISCORD_GUILD_ID"},
		"odesli_base_url":     {"ODESLI_BASE_URL"},
		"odesli_user_country": {"ODESLI_USER_COUNTRY"},
		"odesli_api_key":      {"ODESLI_API_KEY"},
		"port":                {"PORT"},
		"log_level":           {"LOG_LEVEL"},
		"interactions_mode":   {"INTERACTIONS_MODE"},
		"hint_chance":         {"HINT_CHANCE"},
		"sentry_dsn":          {"SENTRY_DSN"},
		"sentry_environment":  {"SENTRY_ENVIRONMENT"},
		"release":             {"RELEASE"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	return &Config{
		Discord: DiscordConfig{
			BotToken:  strings.TrimSpace(v.GetString("bot_token")),
			AppID:     strings.TrimSpace(v.GetString("app_id")),
			PublicKey: strings.TrimSpace(v.GetString("public_key")),
			GuildID:   strings.TrimSpace(v.GetString("guild_id")),
		},
		Odesli: OdesliConfig{
			BaseURL:     strings.TrimSpace(v.GetString("odesli_base_url")),
			UserCountry: getUserCountry(v.GetString("odesli_user_country")),
			APIKey:      strings.TrimSpace(v.GetString("odesli_api_key")),
		},
		Sentry: SentryConfig{
			DSN:         v.GetString("sentry_dsn"),
			Environment: v.GetString("sentry_environment"),
			Release:     v.GetString("release"),
		},
		Options: Options{
			Port:             getPort(v.GetString("port")),
			LogLevel:         v.GetString("log_level"),
			InteractionsMode: getInteractionsMode(v.GetString("interactions_mode")),
			HintChance:       getHintChance(v.GetString("hint_chance")),
		},
	}, nil
}

// Validate checks what the bot needs to connect to Discord.
func (c *Config) Validate() error {
	if c.Discord.BotToken == "" {
		return errors.New("bot token missing: set bot_token in config.json or BOT_TOKEN")
	}
	if c.Options.HTTPInteractions() && c.Discord.PublicKey == "" {
		return errors.New("DISCORD_PUBLIC_KEY must be set when INTERACTIONS_MODE=http")
	}
	return nil
}

func getPort(port string) string {
	port = strings.TrimSpace(port)
	n, err := strconv.Atoi(port)
	if err != nil || n <= 0 || n > 65535 {
		return "8080"
	}
	return port
}

func getUserCountry(country string) string {
	country = strings.ToUpper(strings.TrimSpace(country))
	if len(country) != 2 {
		return "US"
	}
	return country
}

func getInteractionsMode(mode string) string {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case ModeHTTP:
		return ModeHTTP
	default:
		return ModeGateway
	}
}

func getHintChance(chance string) float64 {
	if chance == "" {
		return 0.15
	}
	f, err := strconv.ParseFloat(chance, 64)
	if err != nil || f < 0 {
		return 0.15
	}
	if f > 1 {
		return 1 // it's a probability
	}
	return f
}
