package home

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/syncrate/internal/logger"
	"github.com/abhisek/syncrate/internal/profile"
	"github.com/abhisek/syncrate/internal/router"
	"github.com/abhisek/syncrate/internal/screen"
	"github.com/abhisek/syncrate/internal/screens/badgevault"
	"github.com/abhisek/syncrate/internal/screens/calibrate"
	"github.com/abhisek/syncrate/internal/screens/challengelist"
	"github.com/abhisek/syncrate/internal/screens/command"
	"github.com/abhisek/syncrate/internal/screens/dashboard"
	"github.com/abhisek/syncrate/internal/screens/history"
	"github.com/abhisek/syncrate/internal/screens/students"
	"github.com/abhisek/syncrate/internal/ui/components"
	"github.com/abhisek/syncrate/internal/ui/layout"
)

// Menu labels.
const (
	LabelCalibrate  = "CALIBRATE"
	LabelChallenges = "CHALLENGES"
	LabelBadges     = "BADGE VAULT"
	LabelLog        = "MISSION LOG"
	LabelStudents   = "STUDENTS"
	LabelAnalytics  = "ANALYTICS"
	LabelCommand    = "COMMAND CENTER"
	LabelSignOut    = "SIGN OUT"
	LabelExit       = "EXIT"
)

type reloadedMsg struct {
	p *profile.Profile
}

// HomeScreen is the per-role hub.
type HomeScreen struct {
	env  *screen.Env
	menu components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.Focuser = (*HomeScreen)(nil)

// New builds the menu for env.Current's role.
func New(env *screen.Env) *HomeScreen {
	h := &HomeScreen{env: env}
	h.menu = components.NewMenu(h.items())
	return h
}

func (h *HomeScreen) items() []components.MenuItem {
	env := h.env
	lazy := func(build func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			s := build()
			return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
		}
	}

	var items []components.MenuItem
	if env.Current != nil && env.Current.IsAdmin() {
		items = []components.MenuItem{
			{Label: LabelStudents, Action: lazy(func() screen.Screen { return students.New(env) })},
			{Label: LabelAnalytics, Action: lazy(func() screen.Screen { return dashboard.New(env) })},
			{Label: LabelCommand, Action: lazy(func() screen.Screen { return command.New(env) })},
			{Label: LabelChallenges, Action: lazy(func() screen.Screen { return challengelist.New(env) })},
		}
	} else {
		items = []components.MenuItem{
			{Label: LabelCalibrate, Action: lazy(func() screen.Screen { return calibrate.New(env) })},
			{Label: LabelChallenges, Action: lazy(func() screen.Screen { return challengelist.New(env) })},
			{Label: LabelBadges, Action: lazy(func() screen.Screen { return badgevault.New(env) })},
			{Label: LabelLog, Action: lazy(func() screen.Screen { return history.New(env) })},
		}
	}
	return append(items,
		components.MenuItem{Label: LabelSignOut, Action: h.signOut},
		components.MenuItem{Label: LabelExit, Action: func() tea.Cmd { return tea.Quit }},
	)
}

func (h *HomeScreen) signOut() tea.Cmd {
	if h.env.Current != nil {
		logger.Get().Info("signed out", zap.String("profile", h.env.Current.ID))
	}
	h.env.Current = nil
	h.env.Profiles.Badges().ResetSession()
	login := h.env.NewLogin()
	return func() tea.Msg { return router.ResetScreenMsg{Screen: login} }
}

// Labels returns the menu labels in order.
func (h *HomeScreen) Labels() []string {
	return h.menu.Labels()
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

// Refocus reloads the current profile; the API or another screen may have
// changed it.
func (h *HomeScreen) Refocus() tea.Cmd {
	if h.env.Current == nil {
		return nil
	}
	id := h.env.Current.ID
	profiles := h.env.Profiles
	return func() tea.Msg {
		p, err := profiles.Get(context.Background(), id)
		if err != nil {
			logger.Get().Warn("reload profile failed", zap.String("profile", id), zap.Error(err))
			return nil
		}
		return reloadedMsg{p: p}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if m, ok := msg.(reloadedMsg); ok {
		if h.env.Current != nil && m.p.ID == h.env.Current.ID {
			h.env.SetCurrent(m.p)
		}
		return h, nil
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	compact := layout.IsCompactHeight(height+layout.HeaderHeight+layout.FooterHeight) || width < 60
	cw := components.ContentWidth(width)
	p := h.env.Current

	sections := []string{renderTitle(cw)}
	if !compact {
		if e := renderEmblem(p, cw); e != "" {
			sections = append(sections, e)
		}
	}
	sections = append(sections, renderStatsBar(p, cw, compact))
	if n := renderNextRank(p, cw); n != "" && !compact {
		sections = append(sections, n)
	}
	sections = append(sections, renderMenu(h.menu.Labels(), h.menu.Selected, cw, compact))

	sep := "\n\n"
	if compact {
		sep = "\n"
	}
	return components.CabinetFrame(strings.Join(sections, sep), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
