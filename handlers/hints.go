package handlers

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

const defaultHintCooldown = 5 * time.Minute

// Hints appends an occasional tip to successful replies
type Hints struct {
	cooldowns   map[string]time.Time // guild or channel ID -> last hint time
	cooldownMu  sync.RWMutex
	cooldownDur time.Duration
	hintChance  float64
	hints       []string
}

// NewHints creates a Hints manager that shows a tip with probability chance,
// at most once per cooldown in each guild.
func NewHints(chance float64) *Hints {
	return &Hints{
		cooldowns:   make(map[string]time.Time),
		cooldownDur: defaultHintCooldown,
		hintChance:  chance,
		hints: []string{
			"Pro tip: right-click a message and pick Apps > Get Songs to look up every link in it",
			"Pro tip: /music takes links from Spotify, Apple Music, YouTube, Tidal, Deezer and more",
			"Pro tip: click the song title to open its song.link page",
			"Pro tip: add songbot to your account to use it in DMs and group chats",
			"Pro tip: /help lists every command",
		},
	}
}

// ShouldShowHint rolls for a hint and checks the scope's cooldown.
// Returns the hint string and true if a hint should be displayed
func (h *Hints) ShouldShowHint(scope string) (string, bool) {
	if len(h.hints) == 0 || rand.Float64() >= h.hintChance {
		return "", false
	}

	h.cooldownMu.Lock()
	defer h.cooldownMu.Unlock()

	if lastHint, ok := h.cooldowns[scope]; ok && time.Since(lastHint) < h.cooldownDur {
		return "", false
	}

	hint := h.hints[rand.IntN(len(h.hints))]
	h.cooldowns[scope] = time.Now()

	log.Debugf("Showing hint for %s: %s", scope, hint)
	return hint, true
}

// ClearCooldown removes the cooldown for a scope
func (h *Hints) ClearCooldown(scope string) {
	h.cooldownMu.Lock()
	delete(h.cooldowns, scope)
	h.cooldownMu.Unlock()
}

// GetCooldownRemaining returns remaining cooldown time for a scope
func (h *Hints) GetCooldownRemaining(scope string) time.Duration {
	h.cooldownMu.RLock()
	defer h.cooldownMu.RUnlock()
	lastHint, exists := h.cooldowns[scope]
	if !exists {
		return 0
	}
	remaining := h.cooldownDur - time.Since(lastHint)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ShowIfApplicable returns a formatted hint, or "" when none should be shown
func (h *Hints) ShowIfApplicable(scope string) string {
	hint, show := h.ShouldShowHint(scope)
	if show {
		return fmt.Sprintf("\n\n💡 %s", hint)
	}
	return ""
}
