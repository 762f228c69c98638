package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/syncrate/internal/ui/theme"
)

// OptionLabels are the letters shown before each choice; keys a-d and 1-4
// select them.
var OptionLabels = []string{"A", "B", "C", "D"}

// MultiChoice renders a question's options. While Reveal is false the
// cursor is shown; once revealed the correct option is green and a wrong
// pick is red.
type MultiChoice struct {
	Options      []string
	Cursor       int
	Chosen       int // -1 when nothing was picked
	CorrectIndex int
	Reveal       bool
}

// OptionForKey maps a, b, c, d or 1-4 to an option index.
func OptionForKey(key string, n int) (int, bool) {
	if len(key) != 1 {
		return 0, false
	}
	c := key[0]
	var i int
	switch {
	case c >= 'a' && c <= 'd':
		i = int(c - 'a')
	case c >= '1' && c <= '4':
		i = int(c - '1')
	default:
		return 0, false
	}
	return i, i < n
}

// View renders the options one per line.
func (m MultiChoice) View() string {
	var b strings.Builder
	for i, opt := range m.Options {
		label := "?"
		if i < len(OptionLabels) {
			label = OptionLabels[i]
		}
		prefix := "  "
		if i == m.Cursor && !m.Reveal {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, label, opt)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case m.Reveal && i == m.CorrectIndex:
			style = theme.Correct
		case m.Reveal && i == m.Chosen:
			style = theme.Incorrect
		case m.Reveal:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == m.Cursor:
			style = theme.Selected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
