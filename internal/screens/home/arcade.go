package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/syncrate/internal/profile"
	"github.com/abhisek/syncrate/internal/ui/components"
	"github.com/abhisek/syncrate/internal/ui/theme"
)

const titleCompact = "S · Y · N · C · R · A · T · E"

// emblems are indexed by rank tier, lowest first.
var emblems = []string{
	"  ◇  \n ◇ ◇ \n  ◇  ",
	"  ◆  \n ◇ ◇ \n  ◆  ",
	"  ◆  \n ◆ ◆ \n  ◇  ",
	"  ◆  \n ◆◆◆ \n  ◆  ",
	" ♛♛♛ \n ◆◆◆ \n  ◆  ",
}

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 24

func renderTitle(cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render(titleCompact))
}

// renderEmblem draws the rank emblem for an operator, or nothing before
// calibration.
func renderEmblem(p *profile.Profile, cw int) string {
	if p == nil || !p.Calibrated {
		return ""
	}
	i := p.Tier().Index()
	if i < 0 || i >= len(emblems) {
		return ""
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Foreground(theme.ArcadeCyan).
		Render(emblems[i])
}

// renderStatsBar summarizes the operator's standing in one double-bordered row.
func renderStatsBar(p *profile.Profile, cw int, compact bool) string {
	rankStyle := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)
	xpStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	syncStyle := lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true)

	var stats string
	switch {
	case p == nil:
		stats = theme.Hint.Render("offline")
	case p.IsAdmin():
		stats = rankStyle.Render("◈ ADMIN CONSOLE  ") + syncStyle.Render(p.Name)
	case compact:
		stats = fmt.Sprintf("%s %s %s",
			rankStyle.Render(p.RankLabel()),
			xpStyle.Render(fmt.Sprintf("%dXP", p.XP)),
			syncStyle.Render(fmt.Sprintf("%d%%", p.SyncRate)))
	default:
		stats = fmt.Sprintf("%s  %s  %s",
			rankStyle.Render("▲ "+p.RankLabel()),
			xpStyle.Render(fmt.Sprintf("✦ %d XP", p.XP)),
			syncStyle.Render(fmt.Sprintf("◎ SYNC %d%%", p.SyncRate)))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.ArcadeCyan).
		Width(cw-2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

// renderNextRank is a one-line nudge toward the next tier.
func renderNextRank(p *profile.Profile, cw int) string {
	if p == nil || p.IsAdmin() {
		return ""
	}
	var text string
	if !p.Calibrated {
		text = "Run the calibration to unlock your rank"
	} else if next, ok := p.Tier().Next(); ok {
		text = fmt.Sprintf("Next rank: %s at %d%%", next.Rank, next.Threshold)
	} else {
		text = "Top rank reached"
	}
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).
		Foreground(theme.TextDim).Italic(true).Render(text)
}

func renderMenu(labels []string, selected, cw int, compact bool) string {
	var rows []string
	for i, label := range labels {
		if compact {
			if i == selected {
				rows = append(rows, theme.Selected.Render(" ▸ "+label+" "))
			} else {
				rows = append(rows, theme.Unselected.Render("   "+label))
			}
			continue
		}
		rows = append(rows, components.ArcadeButton(label, i == selected, buttonWidth))
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(rows, "\n"))
}
