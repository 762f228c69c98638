package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/syncrate/internal/router"
	"github.com/abhisek/syncrate/internal/screen"
	"github.com/abhisek/syncrate/internal/screens/home"
	"github.com/abhisek/syncrate/internal/screens/login"
	"github.com/abhisek/syncrate/internal/screens/welcome"
	"github.com/abhisek/syncrate/internal/ui/layout"
)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	env    *screen.Env
	router *router.Router
	boot   []tea.Cmd
	width  int
	height int
}

// Opener builds a screen to open on top of home at startup.
type Opener func(env *screen.Env) screen.Screen

// Wire installs the navigation factories on env.
func Wire(env *screen.Env) {
	env.NewHome = func() screen.Screen { return home.New(env) }
	env.NewLogin = func() screen.Screen { return login.New(env) }
}

// newAppModel starts at the boot splash, or at home when env already has
// a signed-in profile. open is pushed over home; without a profile it is
// the only screen.
func newAppModel(env *screen.Env, open Opener) AppModel {
	Wire(env)
	var first screen.Screen
	switch {
	case env.Current != nil:
		first = env.NewHome()
	case open != nil:
		first = open(env)
	default:
		first = welcome.New(env.NewLogin)
	}
	m := AppModel{env: env, router: router.New(first)}
	m.boot = append(m.boot, first.Init())
	if open != nil && env.Current != nil {
		m.boot = append(m.boot, m.router.Push(open(env)))
	}
	return m
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.boot...)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if h, ok := m.router.Active().(screen.EscapeHandler); ok && h.HandlesEscape() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) footerHints() []layout.KeyHint {
	if p, ok := m.router.Active().(screen.KeyHintProvider); ok {
		return p.KeyHints()
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.env.HeaderStats(), m.width)
	footer := layout.RenderFooter(m.footerHints(), m.width)

	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run starts the Bubble Tea program over env, opening open first when it
// is non-nil.
func Run(env *screen.Env, open Opener) error {
	p := tea.NewProgram(newAppModel(env, open))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
