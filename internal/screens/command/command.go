// Package command is the admin command center: a live view of the
// activity feed and leaderboard that refreshes on a timer.
package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/syncrate/internal/analytics"
	"github.com/abhisek/syncrate/internal/screen"
	"github.com/abhisek/syncrate/internal/screens/dashboard"
	"github.com/abhisek/syncrate/internal/screens/history"
	"github.com/abhisek/syncrate/internal/ui/components"
	"github.com/abhisek/syncrate/internal/ui/layout"
	"github.com/abhisek/syncrate/internal/ui/theme"
)

// DefaultRefresh is used when the environment sets no interval.
const DefaultRefresh = 5 * time.Second

// refreshMsg is tagged with its owner so a closed command center's timer
// cannot drive a newer one.
type refreshMsg struct{ owner *CommandScreen }

type snapshotMsg struct {
	owner    *CommandScreen
	overview *analytics.Overview
	err      error
	manual   bool // from R; the timer loop is already running
}

// CommandScreen polls analytics every Env.Refresh.
type CommandScreen struct {
	env      *screen.Env
	overview *analytics.Overview
	errMsg   string
	paused   bool
	polls    int
	now      func() time.Time
}

var _ screen.Screen = (*CommandScreen)(nil)
var _ screen.KeyHintProvider = (*CommandScreen)(nil)

func New(env *screen.Env) *CommandScreen {
	return &CommandScreen{env: env, now: time.Now}
}

func (s *CommandScreen) interval() time.Duration {
	if s.env.Refresh > 0 {
		return s.env.Refresh
	}
	return DefaultRefresh
}

func (s *CommandScreen) Init() tea.Cmd {
	return s.fetch(false)
}

func (s *CommandScreen) fetch(manual bool) tea.Cmd {
	svc := s.env.Analytics
	return func() tea.Msg {
		o, err := svc.Overview(context.Background())
		return snapshotMsg{owner: s, overview: o, err: err, manual: manual}
	}
}

func (s *CommandScreen) schedule() tea.Cmd {
	return tea.Tick(s.interval(), func(time.Time) tea.Msg { return refreshMsg{owner: s} })
}

func (s *CommandScreen) Title() string { return "Command Center" }

func (s *CommandScreen) KeyHints() []layout.KeyHint {
	pause := "Pause"
	if s.paused {
		pause = "Resume"
	}
	return []layout.KeyHint{
		{Key: "P", Description: pause},
		{Key: "R", Description: "Refresh now"},
		{Key: "Esc", Description: "Back"},
	}
}

// Polls counts completed refreshes.
func (s *CommandScreen) Polls() int { return s.polls }

func (s *CommandScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		if msg.owner != s {
			return s, nil
		}
		s.polls++
		if msg.err != nil {
			s.errMsg = msg.err.Error()
		} else {
			s.errMsg = ""
			s.overview = msg.overview
		}
		if msg.manual {
			return s, nil
		}
		return s, s.schedule()

	case refreshMsg:
		if msg.owner != s {
			return s, nil
		}
		if s.paused {
			return s, s.schedule()
		}
		return s, s.fetch(false)

	case tea.KeyMsg:
		switch msg.String() {
		case "p":
			s.paused = !s.paused
		case "r":
			return s, s.fetch(true)
		}
	}
	return s, nil
}

func (s *CommandScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	o := s.overview

	status := lipgloss.NewStyle().Foreground(theme.Success).Bold(true).Render("● LIVE")
	if s.paused {
		status = lipgloss.NewStyle().Foreground(theme.Warning).Bold(true).Render("❚❚ PAUSED")
	}
	status += theme.Hint.Render(fmt.Sprintf("  every %s", s.interval()))
	if o != nil {
		status += theme.Hint.Render("  ·  updated " + o.GeneratedAt.Format("15:04:05"))
	}

	sections := []string{status}
	if s.errMsg != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Error).Render("Error: "+s.errMsg))
	}
	if o == nil {
		sections = append(sections, theme.Hint.Render("establishing uplink..."))
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(sections, "\n\n"))
	}

	sections = append(sections,
		dashboard.RenderVitals(o),
		components.ArcadeCard("LEADERBOARD", dashboard.RenderLeaderboard(o), cw, theme.ArcadeYellow),
		components.ArcadeCard("ACTIVITY FEED", s.feed(o, max(height-20, 3)), cw, theme.Primary),
	)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(sections, "\n"))
}

func (s *CommandScreen) feed(o *analytics.Overview, limit int) string {
	if len(o.Recent) == 0 {
		return theme.Hint.Render("quiet on all channels")
	}
	now := s.now()
	var lines []string
	for i, item := range o.Recent {
		if i == limit {
			break
		}
		lines = append(lines, history.RenderItem(item, now, true))
	}
	return strings.Join(lines, "\n")
}
