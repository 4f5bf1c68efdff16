package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetPort(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", "8080"},
		{"invalid", "abc", "8080"},
		{"zero", "0", "8080"},
		{"negative", "-1", "8080"},
		{"too_large", "70000", "8080"},
		{"valid", "3000", "3000"},
		{"padded", " 9090 ", "9090"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := getPort(tt.in); got != tt.want {
				t.Errorf("getPort(%q) = %q; want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestGetUserCountry(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", "US"},
		{"lowercase", "gb", "GB"},
		{"too_long", "USA", "US"},
		{"valid", "DE", "DE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := getUserCountry(tt.in); got != tt.want {
				t.Errorf("getUserCountry(%q) = %q; want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestGetInteractionsMode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ModeGateway},
		{"gateway", "gateway", ModeGateway},
		{"http", "http", ModeHTTP},
		{"http_upper", "HTTP", ModeHTTP},
		{"unknown", "webhook", ModeGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := getInteractionsMode(tt.in); got != tt.want {
				t.Errorf("getInteractionsMode(%q) = %q; want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestGetHintChance(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want float64
	}{
		{"empty", "", 0.15},
		{"invalid", "often", 0.15},
		{"negative", "-0.5", 0.15},
		{"zero", "0", 0},
		{"half", "0.5", 0.5},
		{"over", "3", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := getHintChance(tt.in); got != tt.want {
				t.Errorf("getHintChance(%q) = %v; want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("BOT_TOKEN", "env-token")
	t.Setenv("DISCORD_APP_ID", "123")
	t.Setenv("ODESLI_USER_COUNTRY", "gb")
	t.Setenv("INTERACTIONS_MODE", "http")
	t.Setenv("PORT", "9000")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Discord.BotToken != "env-token" {
		t.Errorf("BotToken = %q; want %q", cfg.Discord.BotToken, "env-token")
	}
	if cfg.Discord.AppID != "123" {
		t.Errorf("AppID = %q; want %q", cfg.Discord.AppID, "123")
	}
	if cfg.Odesli.UserCountry != "GB" {
		t.Errorf("UserCountry = %q; want %q", cfg.Odesli.UserCountry, "GB")
	}
	if !cfg.Options.HTTPInteractions() {
		t.Error("expected http interactions mode")
	}
	if cfg.Options.Port != "9000" {
		t.Errorf("Port = %q; want %q", cfg.Options.Port, "9000")
	}
}

func TestLoadLegacyTokenVariable(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("DISCORD_BOT_TOKEN", "legacy-token")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Discord.BotToken != "legacy-token" {
		t.Errorf("BotToken = %q; want %q", cfg.Discord.BotToken, "legacy-token")
	}
}

func TestLoadFromFile(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("DISCORD_BOT_TOKEN", "")

	path := filepath.Join(t.TempDir(), "config.json")
	body := `{"bot_token": "file-token", "odesli_api_key": "k", "hint_chance": 0.5}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Discord.BotToken != "file-token" {
		t.Errorf("BotToken = %q; want %q", cfg.Discord.BotToken, "file-token")
	}
	if cfg.Odesli.APIKey != "k" {
		t.Errorf("APIKey = %q; want %q", cfg.Odesli.APIKey, "k")
	}
	if cfg.Options.HintChance != 0.5 {
		t.Errorf("HintChance = %v; want 0.5", cfg.Options.HintChance)
	}
	if cfg.Options.InteractionsMode != ModeGateway {
		t.Errorf("InteractionsMode = %q; want %q", cfg.Options.InteractionsMode, ModeGateway)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"bot_token": "file-token"}`), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BOT_TOKEN", "env-token")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Discord.BotToken != "env-token" {
		t.Errorf("BotToken = %q; want %q", cfg.Discord.BotToken, "env-token")
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"missing token", Config{}, true},
		{"gateway ok", Config{Discord: DiscordConfig{BotToken: "t"}}, false},
		{
			"http without public key",
			Config{Discord: DiscordConfig{BotToken: "t"}, Options: Options{InteractionsMode: ModeHTTP}},
			true,
		},
		{
			"http ok",
			Config{Discord: DiscordConfig{BotToken: "t", PublicKey: "ab"}, Options: Options{InteractionsMode: ModeHTTP}},
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
