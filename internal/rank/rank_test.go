package rank

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForPercent(t *testing.T) {
	tests := []struct {
		p         float64
		wantRank  string
		wantLevel string
	}{
		{100, "ARCHITECT", "Elite"},
		{90, "ARCHITECT", "Elite"},
		{89.9, "ENGINEER", "Advanced"},
		{75, "ENGINEER", "Advanced"},
		{60, "SCRIPTER", "Intermediate"},
		{59, "CODER", "Basic"},
		{40, "CODER", "Basic"},
		{39.99, "RECRUIT", "Novice"},
		{0, "RECRUIT", "Novice"},
		{-5, "RECRUIT", "Novice"},
	}
	for _, tt := range tests {
		got := ForPercent(tt.p)
		assert.Equal(t, tt.wantRank, got.Rank, "p=%v", tt.p)
		assert.Equal(t, tt.wantLevel, got.Level, "p=%v", tt.p)
	}
}

func TestForPercent_NaN(t *testing.T) {
	assert.Equal(t, "RECRUIT", ForPercent(math.NaN()).Rank)
}

func TestForPercent_Monotonic(t *testing.T) {
	prev := ForPercent(0).Index()
	for p := 0; p <= 100; p++ {
		idx := ForPercent(float64(p)).Index()
		if idx < prev {
			t.Fatalf("tier index dropped at p=%d: %d < %d", p, idx, prev)
		}
		prev = idx
	}
}

func TestTiersDescending(t *testing.T) {
	all := Tiers()
	for i := 1; i < len(all); i++ {
		if all[i].Threshold >= all[i-1].Threshold {
			t.Errorf("tier %d threshold %d not below %d", i, all[i].Threshold, all[i-1].Threshold)
		}
	}
	assert.Equal(t, 0, all[len(all)-1].Threshold)
}

func TestIndexAndNext(t *testing.T) {
	assert.Equal(t, 0, Lowest().Index())
	assert.Equal(t, 4, ForPercent(95).Index())

	next, ok := Lowest().Next()
	assert.True(t, ok)
	assert.Equal(t, "CODER", next.Rank)

	_, ok = ForPercent(95).Next()
	assert.False(t, ok)

	assert.Equal(t, -1, Tier{Rank: "NOPE"}.Index())
}

func TestByName(t *testing.T) {
	tier, ok := ByName("SCRIPTER")
	assert.True(t, ok)
	assert.Equal(t, 60, tier.Threshold)
	assert.Equal(t, "SCRIPTER · Intermediate", tier.Label())

	_, ok = ByName("WIZARD")
	assert.False(t, ok)
}
