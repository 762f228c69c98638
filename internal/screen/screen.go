package screen

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/syncrate/internal/analytics"
	"github.com/abhisek/syncrate/internal/diagnostics"
	"github.com/abhisek/syncrate/internal/profile"
	"github.com/abhisek/syncrate/internal/store"
	"github.com/abhisek/syncrate/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Focuser is implemented by screens that reload when a screen pushed on
// top of them is popped.
type Focuser interface {
	Refocus() tea.Cmd
}

// EscapeHandler is implemented by screens that use Esc themselves, e.g.
// to leave an editing mode, instead of letting the app pop them.
type EscapeHandler interface {
	HandlesEscape() bool
}

// Env carries the services every screen may need plus the signed-in
// profile. It is shared by pointer and only mutated from Update.
type Env struct {
	Profiles    *profile.Service
	Diagnostics *diagnostics.Service
	Analytics   *analytics.Service
	Events      store.EventRepo

	// Refresh is the command-center polling interval.
	Refresh time.Duration

	// Current is nil until sign-in.
	Current *profile.Profile

	// NewHome and NewLogin build the two session roots. The app sets them
	// so screens can reach each other without import cycles.
	NewHome  func() Screen
	NewLogin func() Screen
}

// SetCurrent swaps in a fresh copy of the signed-in profile, e.g. after a
// submission changed its XP.
func (e *Env) SetCurrent(p *profile.Profile) {
	if p != nil {
		e.Current = p
	}
}

// HeaderStats summarizes the current profile for the header bar.
func (e *Env) HeaderStats() layout.HeaderStats {
	if e == nil || e.Current == nil {
		return layout.HeaderStats{}
	}
	p := e.Current
	return layout.HeaderStats{
		Name:     p.Name,
		Rank:     p.RankLabel(),
		XP:       p.XP,
		SyncRate: p.SyncRate,
	}
}
