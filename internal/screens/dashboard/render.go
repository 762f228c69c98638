package dashboard

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/dustin/go-humanize"

	"github.com/abhisek/syncrate/internal/analytics"
	"github.com/abhisek/syncrate/internal/calibration"
	"github.com/abhisek/syncrate/internal/rank"
	"github.com/abhisek/syncrate/internal/ui/components"
	"github.com/abhisek/syncrate/internal/ui/theme"
)

// RenderVitals is the one-line roster summary.
func RenderVitals(o *analytics.Overview) string {
	value := lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true)
	label := lipgloss.NewStyle().Foreground(theme.TextDim)
	cell := func(v, l string) string { return value.Render(v) + " " + label.Render(l) }

	return strings.Join([]string{
		cell(humanize.Comma(int64(o.Students)), "students"),
		cell(fmt.Sprintf("%d", o.Calibrated), "calibrated"),
		cell(fmt.Sprintf("%d%%", o.AvgSyncRate), "avg sync"),
		cell(humanize.Comma(int64(o.AvgXP)), "avg XP"),
		cell(fmt.Sprintf("%d%%", o.PassRate), fmt.Sprintf("pass (%d/%d)", o.Passed, o.Submissions)),
	}, "   ")
}

// RenderRanks draws one bar per rank tier, highest first, scaled to the
// calibrated population.
func RenderRanks(o *analytics.Overview, width int) string {
	var b strings.Builder
	for _, t := range rank.Tiers() {
		n := o.RankDistribution[t.Rank]
		bar := components.Meter{Label: fmt.Sprintf("%-10s %3d", t.Rank, n), Value: n, Max: o.Calibrated, Width: width, Fill: theme.ArcadeYellow}
		b.WriteString(bar.View())
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderCategories draws the average calibration score per category.
func RenderCategories(o *analytics.Overview, width int) string {
	var b strings.Builder
	for _, c := range calibration.AllCategories() {
		bar := components.ScoreMeter(fmt.Sprintf("%-14s", c.DisplayName()), o.CategoryAverages[c], width)
		b.WriteString(bar.View())
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderDiagnostics lists the most common diagnostic titles.
func RenderDiagnostics(o *analytics.Overview) string {
	if len(o.TopDiagnostics) == 0 {
		return theme.Hint.Render("no diagnostics yet")
	}
	var lines []string
	for _, tc := range o.TopDiagnostics {
		lines = append(lines, fmt.Sprintf("%4d  %s", tc.Count, tc.Title))
	}
	return theme.Body.Render(strings.Join(lines, "\n"))
}

// RenderLeaderboard lists the top students by XP.
func RenderLeaderboard(o *analytics.Overview) string {
	if len(o.Leaderboard) == 0 {
		return theme.Hint.Render("no students yet")
	}
	var lines []string
	for i, s := range o.Leaderboard {
		line := fmt.Sprintf("%d. %-16s %-13s %6s XP  %3d%%", i+1, s.Name, s.Rank, humanize.Comma(int64(s.XP)), s.SyncRate)
		style := theme.Body
		if i == 0 {
			style = lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)
		}
		lines = append(lines, style.Render(line))
	}
	return strings.Join(lines, "\n")
}
