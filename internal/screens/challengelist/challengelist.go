// Package challengelist lists the coding challenges with the operator's
// progress on each.
package challengelist

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/syncrate/internal/challenges"
	"github.com/abhisek/syncrate/internal/router"
	"github.com/abhisek/syncrate/internal/screen"
	"github.com/abhisek/syncrate/internal/screens/editor"
	"github.com/abhisek/syncrate/internal/ui/components"
	"github.com/abhisek/syncrate/internal/ui/layout"
	"github.com/abhisek/syncrate/internal/ui/theme"
)

// ChallengeListScreen shows the catalog.
type ChallengeListScreen struct {
	env      *screen.Env
	all      []challenges.Challenge
	selected int
}

var _ screen.Screen = (*ChallengeListScreen)(nil)
var _ screen.KeyHintProvider = (*ChallengeListScreen)(nil)

func New(env *screen.Env) *ChallengeListScreen {
	return &ChallengeListScreen{env: env, all: challenges.Catalog()}
}

func (s *ChallengeListScreen) Init() tea.Cmd { return nil }

func (s *ChallengeListScreen) Title() string { return "Challenges" }

func (s *ChallengeListScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open editor"},
		{Key: "Esc", Description: "Back"},
	}
}

// Selected returns the highlighted challenge.
func (s *ChallengeListScreen) Selected() challenges.Challenge {
	return s.all[s.selected]
}

func (s *ChallengeListScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(s.all) == 0 {
		return s, nil
	}
	switch kmsg.String() {
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.all)-1 {
			s.selected++
		}
	case "enter":
		ed := editor.New(s.env, s.Selected())
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: ed} }
	}
	return s, nil
}

func (s *ChallengeListScreen) completed(id string) bool {
	return s.env.Current != nil && s.env.Current.HasCompleted(id)
}

func (s *ChallengeListScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	done := 0
	for _, ch := range s.all {
		if s.completed(ch.ID) {
			done++
		}
	}

	var b strings.Builder
	cleared := components.Meter{Label: fmt.Sprintf("CLEARED %d/%d", done, len(s.all)), Value: done, Max: len(s.all), Width: cw - 4}
	b.WriteString(cleared.View())
	b.WriteString("\n\n")

	for i, ch := range s.all {
		mark := "○"
		markStyle := lipgloss.NewStyle().Foreground(theme.TextDim)
		if s.completed(ch.ID) {
			mark = "✓"
			markStyle = theme.Correct
		}
		line := fmt.Sprintf("%-24s %-8s %3d XP", ch.Title, ch.Difficulty, ch.XP)
		if i == s.selected {
			b.WriteString(markStyle.Render(mark) + theme.Selected.Render(" ▸ "+line))
		} else {
			b.WriteString(markStyle.Render(mark) + theme.Unselected.Render("   "+line))
		}
		b.WriteString("\n")
	}

	sel := s.Selected()
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Render(sel.Category.DisplayName()))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Width(cw - 6).Foreground(theme.Text).Render(sel.Prompt))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		components.ArcadeCard("CHALLENGE CATALOG", b.String(), cw, theme.Primary))
}
