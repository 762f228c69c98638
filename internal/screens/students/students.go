// Package students is the admin roster: every profile in a table with
// reset and delete actions.
package students

import (
	"context"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/table"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/abhisek/syncrate/internal/calibration"
	"github.com/abhisek/syncrate/internal/logger"
	"github.com/abhisek/syncrate/internal/profile"
	"github.com/abhisek/syncrate/internal/screen"
	"github.com/abhisek/syncrate/internal/ui/layout"
	"github.com/abhisek/syncrate/internal/ui/theme"
)

type loadedMsg struct {
	profiles []profile.Profile
	err      error
}

type actionDoneMsg struct {
	verb string
	name string
	err  error
}

// pendingAction is a destructive action waiting for y/n.
type pendingAction struct {
	verb string // "delete" or "reset"
	id   string
	name string
}

// StudentsScreen shows the roster.
type StudentsScreen struct {
	env     *screen.Env
	table   table.Model
	all     []profile.Profile
	shown   []profile.Profile
	showAll bool
	confirm *pendingAction
	status  string
	errMsg  string
	loaded  bool
	now     func() time.Time
}

var _ screen.Screen = (*StudentsScreen)(nil)
var _ screen.KeyHintProvider = (*StudentsScreen)(nil)
var _ screen.Focuser = (*StudentsScreen)(nil)

func columns() []table.Column {
	return []table.Column{
		{Title: "NAME", Width: 16},
		{Title: "ROLE", Width: 8},
		{Title: "RANK", Width: 13},
		{Title: "XP", Width: 6},
		{Title: "SYNC", Width: 5},
		{Title: "CLEARED", Width: 8},
		{Title: "LAST ACTIVE", Width: 15},
	}
}

func New(env *screen.Env) *StudentsScreen {
	t := table.New(
		table.WithColumns(columns()),
		table.WithHeight(10),
		table.WithFocused(true),
	)
	return &StudentsScreen{env: env, table: t, now: time.Now}
}

func (s *StudentsScreen) Init() tea.Cmd {
	return s.load()
}

// Refocus reloads the roster.
func (s *StudentsScreen) Refocus() tea.Cmd {
	return s.load()
}

func (s *StudentsScreen) load() tea.Cmd {
	profiles := s.env.Profiles
	return func() tea.Msg {
		all, err := profiles.List(context.Background())
		return loadedMsg{profiles: all, err: err}
	}
}

func (s *StudentsScreen) Title() string { return "Students" }

func (s *StudentsScreen) KeyHints() []layout.KeyHint {
	if s.confirm != nil {
		return []layout.KeyHint{{Key: "Y", Description: "Confirm"}, {Key: "N", Description: "Cancel"}}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Tab", Description: "Admins"},
		{Key: "R", Description: "Reset"},
		{Key: "D", Description: "Delete"},
		{Key: "Esc", Description: "Back"},
	}
}

// Shown returns the profiles currently listed.
func (s *StudentsScreen) Shown() []profile.Profile { return s.shown }

func (s *StudentsScreen) selected() (profile.Profile, bool) {
	i := s.table.Cursor()
	if i < 0 || i >= len(s.shown) {
		return profile.Profile{}, false
	}
	return s.shown[i], true
}

func (s *StudentsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.loaded = true
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.all = msg.profiles
		s.refreshRows()
		return s, nil

	case actionDoneMsg:
		if msg.err != nil {
			s.status = fmt.Sprintf("%s %s failed: %v", msg.verb, msg.name, msg.err)
			return s, nil
		}
		s.status = fmt.Sprintf("%s %s", pastTense(msg.verb), msg.name)
		return s, s.load()

	case tea.KeyMsg:
		key := msg.String()
		if s.confirm != nil {
			a := s.confirm
			s.confirm = nil
			if key == "y" {
				return s, s.run(*a)
			}
			s.status = "cancelled"
			return s, nil
		}
		switch key {
		case "tab":
			s.showAll = !s.showAll
			s.refreshRows()
			return s, nil
		case "d", "r":
			p, ok := s.selected()
			if !ok {
				return s, nil
			}
			if s.env.Current != nil && p.ID == s.env.Current.ID {
				s.status = "cannot modify the signed-in profile"
				return s, nil
			}
			verb := "delete"
			if key == "r" {
				verb = "reset"
			}
			s.confirm = &pendingAction{verb: verb, id: p.ID, name: p.Name}
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.table, cmd = s.table.Update(msg)
	return s, cmd
}

func pastTense(verb string) string {
	if verb == "reset" {
		return "reset"
	}
	return verb + "d"
}

func (s *StudentsScreen) run(a pendingAction) tea.Cmd {
	profiles := s.env.Profiles
	return func() tea.Msg {
		var err error
		switch a.verb {
		case "delete":
			err = profiles.Delete(context.Background(), a.id)
		case "reset":
			_, err = profiles.Reset(context.Background(), a.id)
		}
		if err != nil {
			logger.Get().Warn("roster action failed", zap.String("action", a.verb), zap.String("profile", a.id), zap.Error(err))
		} else {
			logger.Get().Info("roster action", zap.String("action", a.verb), zap.String("profile", a.id))
		}
		return actionDoneMsg{verb: a.verb, name: a.name, err: err}
	}
}

func (s *StudentsScreen) refreshRows() {
	s.shown = s.shown[:0]
	for _, p := range s.all {
		if p.IsAdmin() && !s.showAll {
			continue
		}
		s.shown = append(s.shown, p)
	}

	now := s.now()
	rows := make([]table.Row, len(s.shown))
	for i, p := range s.shown {
		rows[i] = table.Row{
			p.Name,
			string(p.Role),
			p.RankLabel(),
			humanize.Comma(int64(p.XP)),
			fmt.Sprintf("%d%%", p.SyncRate),
			fmt.Sprintf("%d", len(p.Completed)),
			humanize.RelTime(p.LastActiveAt, now, "ago", "from now"),
		}
	}
	s.table.SetRows(rows)
	if s.table.Cursor() >= len(rows) && len(rows) > 0 {
		s.table.SetCursor(len(rows) - 1)
	}
}

func (s *StudentsScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	if s.errMsg != "" {
		return center.Foreground(theme.Error).Render("\n\nError: " + s.errMsg)
	}
	if !s.loaded {
		return center.Foreground(theme.TextDim).Render("\n\n  Loading roster...")
	}

	s.table.SetHeight(max(height-12, 4))

	var b strings.Builder
	scope := "students"
	if s.showAll {
		scope = "all profiles"
	}
	b.WriteString(theme.Hint.Render(fmt.Sprintf("%d %s", len(s.shown), scope)))
	b.WriteString("\n")
	b.WriteString(s.table.View())
	b.WriteString("\n\n")

	if p, ok := s.selected(); ok {
		b.WriteString(detail(p))
		b.WriteString("\n")
	}
	switch {
	case s.confirm != nil:
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Warning).Bold(true).
			Render(fmt.Sprintf("%s %s? (y/n)", strings.ToUpper(s.confirm.verb), s.confirm.name)))
	case s.status != "":
		b.WriteString(theme.Hint.Render(s.status))
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
}

func detail(p profile.Profile) string {
	var parts []string
	for _, c := range calibration.AllCategories() {
		parts = append(parts, fmt.Sprintf("%s %d%%", c.DisplayName(), p.Scores[c]))
	}
	line := strings.Join(parts, " · ")
	if !p.Calibrated {
		line = "not calibrated"
	}
	return lipgloss.NewStyle().Foreground(theme.Secondary).Render(line) + "\n" +
		theme.Hint.Render(fmt.Sprintf("streak %d (best %d) · %d badges · joined %s",
			p.Streak, p.BestStreak, len(p.Badges), humanize.Time(p.CreatedAt)))
}
