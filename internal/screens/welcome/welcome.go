package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/syncrate/internal/router"
	"github.com/abhisek/syncrate/internal/screen"
	"github.com/abhisek/syncrate/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	lineEvery    = 300 * time.Millisecond
	bannerAt     = 1500 * time.Millisecond
	totalDur     = 3000 * time.Millisecond
)

// bootLines scroll in one at a time before the banner appears.
var bootLines = []string{
	"[ OK ] neural link handshake",
	"[ OK ] loading calibration bank",
	"[ OK ] mounting challenge catalog",
	"[ OK ] diagnostics engine online",
	"[ OK ] sync monitor armed",
}

var cursorFrames = []string{"█", " "}

type tickMsg time.Time

// WelcomeScreen plays the boot sequence, then hands over to the sign-in
// screen on the first key press.
type WelcomeScreen struct {
	next         func() screen.Screen
	elapsed      time.Duration
	tickCount    int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that replaces itself with next() on a key press.
func New(next func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{next: next}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.transitioned {
			return w, nil
		}
		if w.elapsed < totalDur {
			w.elapsed += tickInterval
		}
		w.tickCount++
		return w, tick()

	case tea.KeyPressMsg:
		// A key press during the boot sequence skips it.
		return w, w.transition()
	}
	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	next := w.next()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

// visibleLines is how many boot lines have printed so far.
func (w *WelcomeScreen) visibleLines() int {
	n := int(w.elapsed / lineEvery)
	if n > len(bootLines) {
		n = len(bootLines)
	}
	return n
}

func (w *WelcomeScreen) View(width, height int) string {
	var sections []string

	ok := lipgloss.NewStyle().Foreground(theme.Success)
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	var boot []string
	for _, line := range bootLines[:w.visibleLines()] {
		boot = append(boot, ok.Render(line[:6])+dim.Render(line[6:]))
	}
	if w.elapsed < bannerAt {
		boot = append(boot, lipgloss.NewStyle().Foreground(theme.Primary).
			Render(cursorFrames[w.tickCount%len(cursorFrames)]))
	}
	sections = append(sections, lipgloss.NewStyle().Width(34).Render(strings.Join(boot, "\n")))

	if w.elapsed >= bannerAt {
		sections = append(sections, "", RenderBanner(width), "")
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.Text).
			Bold(true).
			Render("Calibrate. Code. Sync."))
		sections = append(sections, "", lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true).
			Render("press any key to jack in"))
	}

	content := strings.Join(sections, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
