package app

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/syncrate/internal/challenges"
	"github.com/abhisek/syncrate/internal/profile"
	"github.com/abhisek/syncrate/internal/router"
	"github.com/abhisek/syncrate/internal/screen"
	"github.com/abhisek/syncrate/internal/screens/calibrate"
	"github.com/abhisek/syncrate/internal/screens/editor"
	"github.com/abhisek/syncrate/internal/screens/screentest"
	"github.com/abhisek/syncrate/internal/ui/layout"
)

func TestStartsAtSplashWithoutProfile(t *testing.T) {
	env := screentest.NewEnv(t)
	m := newAppModel(env, nil)
	assert.Equal(t, "", m.router.Active().Title())
}

func TestStartsAtHomeWhenSignedIn(t *testing.T) {
	env := screentest.NewEnv(t)
	screentest.SignIn(t, env, "Ada", profile.RoleStudent)
	m := newAppModel(env, nil)
	assert.Equal(t, "Home", m.router.Active().Title())
}

func TestOpener(t *testing.T) {
	open := func(env *screen.Env) screen.Screen { return calibrate.New(env) }

	env := screentest.NewEnv(t)
	m := newAppModel(env, open)
	assert.Equal(t, 1, m.router.Depth())
	assert.Equal(t, "Calibration", m.router.Active().Title(), "anonymous run")

	screentest.SignIn(t, env, "Ada", profile.RoleStudent)
	m = newAppModel(env, open)
	assert.Equal(t, 2, m.router.Depth())
	assert.Equal(t, "Calibration", m.router.Active().Title())
	assert.NotNil(t, m.Init())
}

func TestEscPopsUnlessScreenHandlesIt(t *testing.T) {
	env := screentest.NewEnv(t)
	screentest.SignIn(t, env, "Ada", profile.RoleStudent)
	m := newAppModel(env, nil)

	ch, err := challenges.Get("hello-world")
	require.NoError(t, err)
	m.router.Push(editor.New(env, ch))

	_, cmd := m.Update(screentest.Key("esc"))
	if cmd != nil {
		_, popped := cmd().(router.PopScreenMsg)
		assert.False(t, popped, "editing editor keeps esc")
	}
	assert.Equal(t, 2, m.router.Depth())

	// The editor left editing mode; the next esc pops.
	_, cmd = m.Update(screentest.Key("esc"))
	require.NotNil(t, cmd)
	_, popped := cmd().(router.PopScreenMsg)
	assert.True(t, popped)
}

func TestHeaderShowsStats(t *testing.T) {
	env := screentest.NewEnv(t)
	screentest.SignIn(t, env, "Ada", profile.RoleStudent)
	m := newAppModel(env, nil)

	model, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 120, model.(AppModel).width)

	header := layout.RenderHeader("Home", env.HeaderStats(), 120)
	assert.Contains(t, header, "UNCALIBRATED")
	assert.Contains(t, header, "0 XP")
}
