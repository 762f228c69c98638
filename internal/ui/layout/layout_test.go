package layout

import (
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"
)

func TestRenderHeaderStats(t *testing.T) {
	empty := RenderHeader("Home", HeaderStats{}, 120)
	assert.Contains(t, empty, "SYNCRATE")
	assert.NotContains(t, empty, "XP")

	stats := HeaderStats{Name: "Ada", Rank: "CODER", XP: 40, SyncRate: 30}
	wide := RenderHeader("Home", stats, 120)
	assert.Contains(t, wide, "Ada")
	assert.Contains(t, wide, "CODER")
	assert.Contains(t, wide, "40 XP")
	assert.Contains(t, wide, "SYNC 30%")

	narrow := RenderHeader("Home", stats, 90)
	assert.NotContains(t, narrow, "Ada", "name dropped when compact")
	assert.Contains(t, narrow, "SYNC 30%")
}

func TestRenderFrameFillsHeight(t *testing.T) {
	header := RenderHeader("Home", HeaderStats{}, 80)
	footer := RenderFooter([]KeyHint{{Key: "Esc", Description: "Back"}}, 80)
	frame := RenderFrame(header, "body", footer, 80, 30)
	assert.Equal(t, 30, lipgloss.Height(frame))
}

func TestIsTooSmall(t *testing.T) {
	assert.True(t, IsTooSmall(79, 24))
	assert.True(t, IsTooSmall(80, 23))
	assert.False(t, IsTooSmall(80, 24))
}
