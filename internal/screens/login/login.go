// Package login is the sign-in screen. A name is all it takes: profiles are
// created on first sign-in.
package login

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/syncrate/internal/logger"
	"github.com/abhisek/syncrate/internal/profile"
	"github.com/abhisek/syncrate/internal/router"
	"github.com/abhisek/syncrate/internal/screen"
	"github.com/abhisek/syncrate/internal/ui/components"
	"github.com/abhisek/syncrate/internal/ui/layout"
	"github.com/abhisek/syncrate/internal/ui/theme"
)

type signedInMsg struct {
	profile *profile.Profile
	created bool
	err     error
}

// LoginScreen asks for a callsign and an access level.
type LoginScreen struct {
	env     *screen.Env
	input   components.TextInput
	admin   bool
	pending bool
}

var _ screen.Screen = (*LoginScreen)(nil)
var _ screen.KeyHintProvider = (*LoginScreen)(nil)

// New creates the sign-in screen.
func New(env *screen.Env) *LoginScreen {
	return &LoginScreen{
		env:   env,
		input: components.NewTextInput("callsign", profile.MaxNameLen),
	}
}

func (s *LoginScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *LoginScreen) Title() string {
	return "Sign In"
}

func (s *LoginScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Jack in"},
		{Key: "Tab", Description: "Toggle admin"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Admin reports whether the admin access level is selected.
func (s *LoginScreen) Admin() bool { return s.admin }

func (s *LoginScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case signedInMsg:
		s.pending = false
		if msg.err != nil {
			s.input.SetError(describe(msg.err))
			return s, nil
		}
		s.env.Current = msg.profile
		logger.Get().Info("signed in",
			zap.String("profile", msg.profile.ID),
			zap.String("role", string(msg.profile.Role)),
			zap.Bool("created", msg.created))
		home := s.env.NewHome()
		return s, func() tea.Msg { return router.ResetScreenMsg{Screen: home} }

	case tea.KeyPressMsg:
		if s.pending {
			return s, nil
		}
		switch msg.String() {
		case "tab":
			s.admin = !s.admin
			return s, nil
		case "enter":
			return s, s.submit()
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *LoginScreen) submit() tea.Cmd {
	name, err := profile.NormalizeName(s.input.Value())
	if err != nil {
		s.input.SetError(describe(err))
		return nil
	}
	role := profile.RoleStudent
	if s.admin {
		role = profile.RoleAdmin
	}
	s.pending = true
	profiles := s.env.Profiles
	return func() tea.Msg {
		p, created, err := profiles.SignIn(context.Background(), name, role)
		return signedInMsg{profile: p, created: created, err: err}
	}
}

func describe(err error) string {
	if errors.Is(err, profile.ErrInvalidName) {
		return fmt.Sprintf("callsign must be %d-%d characters", profile.MinNameLen, profile.MaxNameLen)
	}
	return err.Error()
}

func (s *LoginScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	if cw > 48 {
		cw = 48
	}

	level := func(label string, on bool) string {
		if on {
			return theme.Selected.Render("[■] " + label)
		}
		return lipgloss.NewStyle().Foreground(theme.TextDim).Render("[ ] " + label)
	}

	var b strings.Builder
	b.WriteString(theme.Body.Render("IDENTIFY YOURSELF, OPERATOR"))
	b.WriteString("\n\n")
	b.WriteString(s.input.View())
	b.WriteString("\n\n")
	b.WriteString(level("STUDENT", !s.admin) + "   " + level("ADMIN", s.admin))
	if s.pending {
		b.WriteString("\n\n" + theme.Hint.Render("establishing link..."))
	}

	card := components.ArcadeCard("ACCESS TERMINAL", b.String(), cw, theme.Primary)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
