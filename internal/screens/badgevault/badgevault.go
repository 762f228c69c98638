// Package badgevault shows the badge catalog, the operator's unlocks, and
// the resulting sync rate.
package badgevault

import (
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/syncrate/internal/achievements"
	"github.com/abhisek/syncrate/internal/screen"
	"github.com/abhisek/syncrate/internal/ui/components"
	"github.com/abhisek/syncrate/internal/ui/layout"
	"github.com/abhisek/syncrate/internal/ui/theme"
)

// BadgeVaultScreen lists every badge, filtered by rarity.
type BadgeVaultScreen struct {
	env *screen.Env

	// filter indexes AllRarities; -1 shows everything.
	filter       int
	scrollOffset int
}

var _ screen.Screen = (*BadgeVaultScreen)(nil)
var _ screen.KeyHintProvider = (*BadgeVaultScreen)(nil)

func New(env *screen.Env) *BadgeVaultScreen {
	return &BadgeVaultScreen{env: env, filter: -1}
}

func (s *BadgeVaultScreen) Init() tea.Cmd { return nil }

func (s *BadgeVaultScreen) Title() string { return "Badge Vault" }

func (s *BadgeVaultScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Rarity"},
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *BadgeVaultScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	n := len(achievements.AllRarities())
	switch kmsg.String() {
	case "tab":
		s.filter++
		if s.filter >= n {
			s.filter = -1
		}
		s.scrollOffset = 0
	case "shift+tab":
		s.filter--
		if s.filter < -1 {
			s.filter = n - 1
		}
		s.scrollOffset = 0
	case "up", "k":
		if s.scrollOffset > 0 {
			s.scrollOffset--
		}
	case "down", "j":
		if s.scrollOffset < len(s.visible())-1 {
			s.scrollOffset++
		}
	}
	return s, nil
}

func (s *BadgeVaultScreen) visible() []achievements.Badge {
	all := achievements.Catalog()
	if s.filter < 0 {
		return all
	}
	want := achievements.AllRarities()[s.filter]
	var out []achievements.Badge
	for _, b := range all {
		if b.Rarity == want {
			out = append(out, b)
		}
	}
	return out
}

func (s *BadgeVaultScreen) unlocked() map[string]bool {
	set := make(map[string]bool)
	if s.env.Current == nil {
		return set
	}
	for _, name := range s.env.Current.Badges {
		set[name] = true
	}
	return set
}

// fresh names the badges unlocked since sign-in.
func (s *BadgeVaultScreen) fresh() map[string]bool {
	set := make(map[string]bool)
	if s.env.Current == nil {
		return set
	}
	for _, u := range s.env.Profiles.Badges().Session(s.env.Current.ID) {
		set[u.Name] = true
	}
	return set
}

func (s *BadgeVaultScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	unlocked := s.unlocked()
	fresh := s.fresh()

	var names []string
	for n := range unlocked {
		names = append(names, n)
	}
	rate := achievements.SyncRate(names)

	var b strings.Builder
	bar := components.Meter{Label: "SYNC RATE", Value: rate, Max: 100, Width: cw, Percent: true, Fill: theme.ArcadeCyan}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	b.WriteString("\n\n")

	tabs := []string{tab("All", s.filter == -1, theme.Text)}
	for i, r := range achievements.AllRarities() {
		tabs = append(tabs, tab(r.DisplayName(), s.filter == i, theme.RarityColor(string(r))))
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(tabs, "   ")))
	b.WriteString("\n\n")

	list := s.visible()
	maxVisible := max(height-8, 3)
	start := min(s.scrollOffset, max(len(list)-1, 0))
	end := min(start+maxVisible, len(list))

	var rows []string
	for _, badge := range list[start:end] {
		rows = append(rows, row(badge, unlocked[badge.Name], fresh[badge.Name], cw))
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(rows, "\n")))
	if end < len(list) {
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.Hint.Render(fmt.Sprintf("... %d more", len(list)-end))))
	}
	return b.String()
}

func tab(label string, active bool, c color.Color) string {
	style := lipgloss.NewStyle().Foreground(theme.TextDim)
	if active {
		style = lipgloss.NewStyle().Foreground(c).Bold(true).Underline(true)
	}
	return style.Render(label)
}

func row(b achievements.Badge, unlocked, fresh bool, cw int) string {
	if !unlocked {
		return lipgloss.NewStyle().Width(cw).Foreground(theme.TextDim).
			Render(fmt.Sprintf("🔒 %-16s %s", "???", b.Description))
	}
	line := fmt.Sprintf("%s  %-16s %s", b.Icon, b.Name, b.Description)
	if fresh {
		line += "  NEW"
	}
	return lipgloss.NewStyle().Width(cw).Foreground(theme.RarityColor(string(b.Rarity))).Render(line)
}
