package achievements

import (
	"math"

	"github.com/abhisek/syncrate/internal/challenges"
	"github.com/abhisek/syncrate/internal/diagnostics"
	"github.com/abhisek/syncrate/internal/rank"
)

// Badge is one unlockable achievement.
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Rarity      Rarity `json:"rarity"`
}

// Badge IDs.
const (
	FirstSteps    = "first-steps"
	Calibrated    = "calibrated"
	Scripter      = "scripter"
	Architect     = "architect"
	OnFire        = "on-fire"
	LoopMaster    = "loop-master"
	DecisionMaker = "decision-maker"
	Completionist = "completionist"
	CleanCoder    = "clean-coder"
	Comeback      = "comeback"
)

// Streak and loop thresholds for the streak and loop badges.
const (
	OnFireStreak    = 5
	LoopMasterCount = 3
)

var catalog = []Badge{
	{FirstSteps, "First Steps", "Pass your first challenge.", "◆", RarityCommon},
	{Calibrated, "Calibrated", "Complete the skill calibration.", "◎", RarityCommon},
	{Scripter, "Scripter", "Reach the SCRIPTER rank or higher.", "▲", RarityRare},
	{Architect, "Architect", "Reach the ARCHITECT rank.", "♛", RarityLegendary},
	{OnFire, "On Fire", "Pass 5 submissions in a row.", "✦", RarityEpic},
	{LoopMaster, "Loop Master", "Pass 3 challenges that need a loop.", "↻", RarityRare},
	{DecisionMaker, "Decision Maker", "Pass every challenge that needs a conditional.", "⑂", RarityRare},
	{Completionist, "Completionist", "Pass every challenge.", "★", RarityLegendary},
	{CleanCoder, "Clean Coder", "Pass a challenge with no feedback at all.", "✓", RarityCommon},
	{Comeback, "Comeback", "Pass a challenge right after failing it.", "↺", RarityEpic},
}

// Catalog returns every badge in vault order.
func Catalog() []Badge {
	out := make([]Badge, len(catalog))
	copy(out, catalog)
	return out
}

// ByName looks a badge up by display name.
func ByName(name string) (Badge, bool) {
	for _, b := range catalog {
		if b.Name == name {
			return b, true
		}
	}
	return Badge{}, false
}

// SyncRate is the share of the badge catalog a learner has unlocked, as a
// whole percentage. Duplicate and unknown names are ignored.
func SyncRate(unlockedNames []string) int {
	seen := make(map[string]bool, len(unlockedNames))
	for _, n := range unlockedNames {
		if _, ok := ByName(n); ok {
			seen[n] = true
		}
	}
	if len(catalog) == 0 {
		return 0
	}
	rate := int(math.Round(float64(len(seen)) / float64(len(catalog)) * 100))
	return min(max(rate, 0), 100)
}

// Progress is the set of facts badges are judged on.
type Progress struct {
	Unlocked   []string // names of badges already held
	Calibrated bool
	Rank       string
	Completed  []string // IDs of passed challenges
	Streak     int      // consecutive passing submissions

	// Facts about the submission that triggered this evaluation.
	LastPassed       bool
	LastClean        bool // passed with no feedback
	LastFailedBefore bool // the previous attempt at the same challenge failed
}

// Evaluate returns the badges progress has earned that are not yet
// unlocked, in catalog order.
func Evaluate(p Progress) []Badge {
	held := make(map[string]bool, len(p.Unlocked))
	for _, n := range p.Unlocked {
		held[n] = true
	}

	var earned []Badge
	for _, b := range catalog {
		if held[b.Name] || !qualifies(b.ID, p) {
			continue
		}
		earned = append(earned, b)
	}
	return earned
}

func qualifies(id string, p Progress) bool {
	tier, _ := rank.ByName(p.Rank)
	switch id {
	case FirstSteps:
		return len(p.Completed) > 0
	case Calibrated:
		return p.Calibrated
	case Scripter:
		return p.Calibrated && tier.Index() >= mustIndex("SCRIPTER")
	case Architect:
		return p.Calibrated && tier.Index() >= mustIndex("ARCHITECT")
	case OnFire:
		return p.Streak >= OnFireStreak
	case LoopMaster:
		return countPattern(p.Completed, diagnostics.PatternLoop) >= LoopMasterCount
	case DecisionMaker:
		need := countPattern(challenges.IDs(), diagnostics.PatternCondition)
		return need > 0 && countPattern(p.Completed, diagnostics.PatternCondition) >= need
	case Completionist:
		return completedAll(p.Completed)
	case CleanCoder:
		return p.LastPassed && p.LastClean
	case Comeback:
		return p.LastPassed && p.LastFailedBefore
	}
	return false
}

func mustIndex(name string) int {
	t, ok := rank.ByName(name)
	if !ok {
		panic("unknown rank " + name)
	}
	return t.Index()
}

func countPattern(ids []string, want diagnostics.Pattern) int {
	seen := make(map[string]bool, len(ids))
	n := 0
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if ch, err := challenges.Get(id); err == nil && ch.Expected == want {
			n++
		}
	}
	return n
}

func completedAll(ids []string) bool {
	done := make(map[string]bool, len(ids))
	for _, id := range ids {
		done[id] = true
	}
	for _, id := range challenges.IDs() {
		if !done[id] {
			return false
		}
	}
	return true
}
