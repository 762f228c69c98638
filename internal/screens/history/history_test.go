package history

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/syncrate/internal/challenges"
	"github.com/abhisek/syncrate/internal/profile"
	"github.com/abhisek/syncrate/internal/screens/screentest"
	"github.com/abhisek/syncrate/internal/store"
)

func TestEmptyLog(t *testing.T) {
	env := screentest.NewEnv(t)
	screentest.SignIn(t, env, "Ada", profile.RoleStudent)
	s := New(env)

	assert.Contains(t, s.View(100, 30), "Loading")
	s.Update(screentest.Run(s.Init()))
	assert.Contains(t, s.View(100, 30), "No missions yet")
}

func TestLogShowsOnlyOwnEvents(t *testing.T) {
	env := screentest.NewEnv(t)
	ctx := context.Background()
	other, err := env.Profiles.Create(ctx, "Bob", profile.RoleStudent)
	require.NoError(t, err)
	ada := screentest.SignIn(t, env, "Ada", profile.RoleStudent)

	ch, err := challenges.Get("hello-world")
	require.NoError(t, err)
	_, err = env.Profiles.RecordSubmission(ctx, ada.ID, ch, challenges.Outcome{Passed: true, XP: ch.XP})
	require.NoError(t, err)
	_, err = env.Profiles.RecordSubmission(ctx, other.ID, ch, challenges.Outcome{Passed: false})
	require.NoError(t, err)

	s := New(env)
	s.Update(screentest.Run(s.Init()))
	require.NotEmpty(t, s.items)
	for _, item := range s.items {
		assert.Equal(t, ada.ID, item.ProfileID)
	}
	view := s.View(100, 30)
	assert.Contains(t, view, "passed hello-world")
	assert.NotContains(t, view, "failed")
}

func TestRenderItem(t *testing.T) {
	now := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	item := store.FeedItem{
		Kind:        store.KindBadge,
		ProfileName: "Ada",
		Summary:     "unlocked Calibrated",
		Timestamp:   now.Add(-3 * time.Minute),
	}
	line := RenderItem(item, now, true)
	assert.Contains(t, line, "3 minutes ago")
	assert.Contains(t, line, "Ada unlocked Calibrated")
	assert.NotContains(t, RenderItem(item, now, false), "Ada")
}
