package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/syncrate/internal/ui/theme"
)

// MaxContentWidth caps how wide console panels stretch.
const MaxContentWidth = 72

// ContentWidth returns the inner width shared by every console panel so
// stacked boxes line up.
func ContentWidth(frameWidth int) int {
	// cabinet border (2) + inner padding (4)
	w := frameWidth - 6
	if w > MaxContentWidth {
		w = MaxContentWidth
	}
	if w < 20 {
		w = 20
	}
	return w
}

// CabinetFrame wraps content in a double border and centers it.
func CabinetFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width-2).
		Height(height-2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// ArcadeCard wraps content in a rounded card of content width cw. A non-empty
// title is rendered as the first line in the accent color.
func ArcadeCard(title, content string, cw int, accent color.Color) string {
	if accent == nil {
		accent = theme.Border
	}
	body := content
	if title != "" {
		body = lipgloss.NewStyle().Foreground(accent).Bold(true).Render(title) + "\n\n" + content
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Width(cw-2).
		Padding(0, 2).
		Render(body)
}

// ArcadeButton renders one menu entry as a bordered button.
func ArcadeButton(label string, selected bool, width int) string {
	style := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)
	if selected {
		return style.
			Bold(true).
			Foreground(theme.BgDark).
			Background(theme.ArcadeCyan).
			BorderForeground(theme.ArcadeCyan).
			Render("▸ " + label)
	}
	return style.
		Foreground(theme.Text).
		BorderForeground(theme.Border).
		Render(label)
}

// Meter is a block gauge with a label and an optional percent readout.
// Value counts out of Max: a score out of 100, challenges cleared out of
// the catalog, students in one rank out of everyone calibrated.
type Meter struct {
	Label   string
	Value   int
	Max     int
	Width   int
	Percent bool
	Fill    color.Color // defaults to theme.Secondary
}

// ScoreMeter shows a 0-100 score, filled rose below 40, yellow below 70
// and green from there.
func ScoreMeter(label string, score, width int) Meter {
	fill := theme.Success
	switch {
	case score < 40:
		fill = theme.Error
	case score < 70:
		fill = theme.Warning
	}
	return Meter{Label: label, Value: score, Max: 100, Width: width, Percent: true, Fill: fill}
}

func (m Meter) ratio() float64 {
	if m.Max <= 0 {
		return 0
	}
	return min(max(float64(m.Value)/float64(m.Max), 0), 1)
}

func (m Meter) View() string {
	var out string
	if m.Label != "" {
		out = lipgloss.NewStyle().Foreground(theme.Text).Render(m.Label) + "  "
	}
	readout := 0
	if m.Percent {
		readout = 6 // "  100%"
	}
	bar := max(m.Width-lipgloss.Width(out)-readout, 4)
	filled := int(float64(bar)*m.ratio() + 0.5)

	fill := m.Fill
	if fill == nil {
		fill = theme.Secondary
	}
	out += lipgloss.NewStyle().Foreground(fill).Render(strings.Repeat("█", filled))
	out += lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("░", bar-filled))
	if m.Percent {
		out += theme.Hint.Render(fmt.Sprintf("  %3d%%", int(m.ratio()*100+0.5)))
	}
	return out
}
