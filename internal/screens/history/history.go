// Package history is the mission log: the operator's own activity feed.
package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/dustin/go-humanize"

	"github.com/abhisek/syncrate/internal/screen"
	"github.com/abhisek/syncrate/internal/store"
	"github.com/abhisek/syncrate/internal/ui/layout"
	"github.com/abhisek/syncrate/internal/ui/theme"
)

// Limit caps how many feed items the log loads.
const Limit = 50

type historyLoadedMsg struct {
	Items []store.FeedItem
	Err   error
}

// HistoryScreen lists recent events for the signed-in operator.
type HistoryScreen struct {
	env      *screen.Env
	items    []store.FeedItem
	selected int
	loaded   bool
	errMsg   string
	now      func() time.Time
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

func New(env *screen.Env) *HistoryScreen {
	return &HistoryScreen{env: env, now: time.Now}
}

func (s *HistoryScreen) Init() tea.Cmd {
	opts := store.QueryOpts{Limit: Limit}
	if s.env.Current != nil {
		opts.ProfileID = s.env.Current.ID
	}
	events := s.env.Events
	return func() tea.Msg {
		items, err := events.QueryRecent(context.Background(), opts)
		return historyLoadedMsg{Items: items, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "Mission Log"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.items = msg.Items
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.items)-1 {
				s.selected++
			}
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	if s.errMsg != "" {
		return center.Foreground(theme.Error).Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return center.Foreground(theme.TextDim).Render("\n\n  Loading mission log...")
	}
	if len(s.items) == 0 {
		return center.Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No missions yet. Run a calibration or clear a challenge!")
	}

	maxVisible := max(height-2, 3)
	start := 0
	if s.selected >= maxVisible {
		start = s.selected - maxVisible + 1
	}
	end := min(start+maxVisible, len(s.items))

	var b strings.Builder
	b.WriteString("\n")
	now := s.now()
	for i := start; i < end; i++ {
		line := RenderItem(s.items[i], now, false)
		if i == s.selected {
			line = theme.Selected.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, line))
		b.WriteString("\n")
	}
	return b.String()
}

// KindIcon returns the glyph for a feed item kind.
func KindIcon(kind string) string {
	switch kind {
	case store.KindAssessment:
		return "◎"
	case store.KindSubmission:
		return "⌨"
	case store.KindBadge:
		return "◆"
	case store.KindDiagnosis:
		return "⚕"
	default:
		return "·"
	}
}

func kindColor(item store.FeedItem) lipgloss.Style {
	switch item.Kind {
	case store.KindBadge:
		return lipgloss.NewStyle().Foreground(theme.ArcadeYellow)
	case store.KindAssessment:
		return lipgloss.NewStyle().Foreground(theme.ArcadeCyan)
	case store.KindSubmission:
		if strings.HasPrefix(item.Summary, "failed") {
			return lipgloss.NewStyle().Foreground(theme.Error)
		}
		return lipgloss.NewStyle().Foreground(theme.Success)
	default:
		return lipgloss.NewStyle().Foreground(theme.Text)
	}
}

// RenderItem formats one feed row with a relative timestamp. withName
// prefixes the operator's name for multi-user feeds.
func RenderItem(item store.FeedItem, now time.Time, withName bool) string {
	when := lipgloss.NewStyle().Foreground(theme.TextDim).
		Render(fmt.Sprintf("%-14s", humanize.RelTime(item.Timestamp, now, "ago", "from now")))
	text := item.Summary
	if withName && item.ProfileName != "" {
		text = item.ProfileName + " " + text
	}
	return when + " " + kindColor(item).Render(KindIcon(item.Kind)+" "+text)
}
