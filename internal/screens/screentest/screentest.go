// Package screentest builds screen environments backed by an in-memory
// store for screen tests.
package screentest

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/syncrate/internal/analytics"
	"github.com/abhisek/syncrate/internal/diagnostics"
	"github.com/abhisek/syncrate/internal/profile"
	"github.com/abhisek/syncrate/internal/screen"
	"github.com/abhisek/syncrate/internal/store"
)

// Stub is a placeholder screen for navigation factories.
type Stub struct{ Name string }

func (s *Stub) Init() tea.Cmd                           { return nil }
func (s *Stub) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *Stub) View(int, int) string                    { return s.Name }
func (s *Stub) Title() string                           { return s.Name }

// NewEnv returns an Env over a private in-memory database. NewHome and
// NewLogin return Stubs named "home" and "login".
func NewEnv(t *testing.T) *screen.Env {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	st, err := store.Open("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	diag := diagnostics.NewService(nil, st.EventRepo())
	t.Cleanup(diag.Close)

	return &screen.Env{
		Profiles:    profile.NewService(st.ProfileRepo(), st.EventRepo()),
		Diagnostics: diag,
		Analytics:   analytics.NewService(st.ProfileRepo(), st.EventRepo(), analytics.Options{}),
		Events:      st.EventRepo(),
		Refresh:     time.Second,
		NewHome:     func() screen.Screen { return &Stub{Name: "home"} },
		NewLogin:    func() screen.Screen { return &Stub{Name: "login"} },
	}
}

// SignIn creates a profile and makes it current.
func SignIn(t *testing.T, env *screen.Env, name string, role profile.Role) *profile.Profile {
	t.Helper()
	p, _, err := env.Profiles.SignIn(context.Background(), name, role)
	if err != nil {
		t.Fatalf("sign in %s: %v", name, err)
	}
	env.Current = p
	return p
}

// Key builds a key press for a printable key or a named key such as
// "enter", "esc", "tab", "up", "down" or "ctrl+s".
func Key(k string) tea.KeyPressMsg {
	switch k {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case "tab":
		return tea.KeyPressMsg{Code: tea.KeyTab}
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case "backspace":
		return tea.KeyPressMsg{Code: tea.KeyBackspace}
	}
	if strings.HasPrefix(k, "ctrl+") && len(k) == 6 {
		return tea.KeyPressMsg{Code: rune(k[5]), Mod: tea.ModCtrl}
	}
	r := []rune(k)[0]
	return tea.KeyPressMsg{Code: r, Text: k}
}

// Type sends each rune of s as a key press.
func Type(s screen.Screen, text string) screen.Screen {
	for _, r := range text {
		s, _ = s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	return s
}

// Run executes cmd and returns its message, or nil for a nil cmd.
func Run(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}
