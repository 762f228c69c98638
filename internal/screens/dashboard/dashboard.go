// Package dashboard is the admin analytics screen.
package dashboard

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/dustin/go-humanize"

	"github.com/abhisek/syncrate/internal/analytics"
	"github.com/abhisek/syncrate/internal/screen"
	"github.com/abhisek/syncrate/internal/ui/components"
	"github.com/abhisek/syncrate/internal/ui/layout"
	"github.com/abhisek/syncrate/internal/ui/theme"
)

type loadedMsg struct {
	overview *analytics.Overview
	err      error
}

// DashboardScreen shows one analytics snapshot; R reloads it.
type DashboardScreen struct {
	env      *screen.Env
	overview *analytics.Overview
	errMsg   string
	loading  bool
}

var _ screen.Screen = (*DashboardScreen)(nil)
var _ screen.KeyHintProvider = (*DashboardScreen)(nil)

func New(env *screen.Env) *DashboardScreen {
	return &DashboardScreen{env: env}
}

// Load fetches an overview from svc.
func Load(svc *analytics.Service) tea.Cmd {
	return func() tea.Msg {
		o, err := svc.Overview(context.Background())
		return loadedMsg{overview: o, err: err}
	}
}

func (s *DashboardScreen) Init() tea.Cmd {
	s.loading = true
	return Load(s.env.Analytics)
}

func (s *DashboardScreen) Title() string { return "Analytics" }

func (s *DashboardScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "R", Description: "Refresh"},
		{Key: "Esc", Description: "Back"},
	}
}

// Overview returns the snapshot on screen.
func (s *DashboardScreen) Overview() *analytics.Overview { return s.overview }

func (s *DashboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.loading = false
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.overview = msg.overview
	case tea.KeyMsg:
		if msg.String() == "r" && !s.loading {
			s.loading = true
			return s, Load(s.env.Analytics)
		}
	}
	return s, nil
}

func (s *DashboardScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	if s.errMsg != "" {
		return center.Foreground(theme.Error).Render("\n\nError: " + s.errMsg)
	}
	o := s.overview
	if o == nil {
		return center.Foreground(theme.TextDim).Render("\n\n  Crunching numbers...")
	}

	cw := components.ContentWidth(width)
	inner := cw - 6
	sections := []string{
		RenderVitals(o),
		components.ArcadeCard("RANK DISTRIBUTION", RenderRanks(o, inner), cw, theme.ArcadeYellow),
		components.ArcadeCard("CATEGORY AVERAGES", RenderCategories(o, inner), cw, theme.Secondary),
		components.ArcadeCard("TOP DIAGNOSTICS", RenderDiagnostics(o), cw, theme.Error),
		components.ArcadeCard("LEADERBOARD", RenderLeaderboard(o), cw, theme.Primary),
		theme.Hint.Render("generated " + humanize.Time(o.GeneratedAt)),
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(sections, "\n"))
}
