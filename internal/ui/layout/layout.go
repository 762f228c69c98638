// Package layout draws the frame around every screen: the header with the
// learner's standing, the key-hint footer and the too-small notice.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/syncrate/internal/ui/theme"
)

const (
	MinWidth  = 80
	MinHeight = 24

	HeaderHeight = 3
	FooterHeight = 3

	CompactWidthThreshold  = 100
	CompactHeightThreshold = 30
)

// KeyHint represents a key binding hint shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// HeaderStats is the signed-in learner's standing shown on the right of
// the header. A zero value renders nothing.
type HeaderStats struct {
	Name     string
	Rank     string
	XP       int
	SyncRate int
}

func IsCompactWidth(width int) bool {
	return width < CompactWidthThreshold
}

func IsCompactHeight(height int) bool {
	return height < CompactHeightThreshold
}

// IsTooSmall reports whether the terminal is below the minimum frame size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage asks the user to enlarge the terminal.
func RenderMinSizeMessage(width, height int) string {
	title := lipgloss.NewStyle().Foreground(theme.Error).Bold(true).Render("SIGNAL TOO NARROW")
	body := lipgloss.NewStyle().Foreground(theme.Text).Render(fmt.Sprintf(
		"Resize the terminal to at least %d x %d\n\nCurrent: %d x %d",
		MinWidth, MinHeight, width, height,
	))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, title, "", body))
}

// RenderHeader lays out the brand, the screen title centered, and the
// learner's rank, XP and sync rate.
func RenderHeader(title string, stats HeaderStats, width int) string {
	left := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  SYNCRATE")
	center := lipgloss.NewStyle().Foreground(theme.Text).Render(title)
	right := renderStats(stats, IsCompactWidth(width))

	inner := max(width-4, 0)
	lw, cw, rw := lipgloss.Width(left), lipgloss.Width(center), lipgloss.Width(right)
	leftGap := max((inner-cw)/2-lw, 1)
	rightGap := max(inner-lw-leftGap-cw-rw, 1)

	return bar(left+strings.Repeat(" ", leftGap)+center+strings.Repeat(" ", rightGap)+right, width)
}

func renderStats(s HeaderStats, compact bool) string {
	if s.Name == "" {
		return ""
	}
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	parts := []string{
		lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render(s.Rank),
		lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("%d XP", s.XP)),
		lipgloss.NewStyle().Foreground(theme.Primary).Render(fmt.Sprintf("SYNC %d%%", s.SyncRate)),
	}
	if !compact {
		parts = append([]string{dim.Render(s.Name)}, parts...)
	}
	return strings.Join(parts, dim.Render("  "))
}

// RenderFooter renders the key hints.
func RenderFooter(hints []KeyHint, width int) string {
	key := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	desc := lipgloss.NewStyle().Foreground(theme.TextDim)
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, key.Render(h.Key)+" "+desc.Render(h.Description))
	}
	return bar("  "+strings.Join(parts, "   "), width)
}

func bar(content string, width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(content)
}

// RenderFrame stacks header, content and footer, sizing the content to
// whatever height is left.
func RenderFrame(header, content, footer string, width, height int) string {
	h := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().Width(width).Height(h).Render(content)
	return header + "\n" + body + "\n" + footer
}
