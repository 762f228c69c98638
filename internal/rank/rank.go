package rank

import "math"

// Tier is one row of the rank table.
type Tier struct {
	Threshold int
	Rank      string
	Level     string
}

// tiers is ordered from highest threshold to lowest. The last entry must
// have a zero threshold so every percentage resolves to some tier.
var tiers = []Tier{
	{Threshold: 90, Rank: "ARCHITECT", Level: "Elite"},
	{Threshold: 75, Rank: "ENGINEER", Level: "Advanced"},
	{Threshold: 60, Rank: "SCRIPTER", Level: "Intermediate"},
	{Threshold: 40, Rank: "CODER", Level: "Basic"},
	{Threshold: 0, Rank: "RECRUIT", Level: "Novice"},
}

// Tiers returns a copy of the rank table, highest first.
func Tiers() []Tier {
	out := make([]Tier, len(tiers))
	copy(out, tiers)
	return out
}

// Lowest returns the entry-level tier.
func Lowest() Tier {
	return tiers[len(tiers)-1]
}

// ForPercent returns the first tier whose threshold p meets or exceeds.
func ForPercent(p float64) Tier {
	if math.IsNaN(p) {
		return Lowest()
	}
	for _, t := range tiers {
		if p >= float64(t.Threshold) {
			return t
		}
	}
	return Lowest()
}

// ByName looks up a tier by its rank label.
func ByName(name string) (Tier, bool) {
	for _, t := range tiers {
		if t.Rank == name {
			return t, true
		}
	}
	return Tier{}, false
}

// Index returns the tier's ordinal: 0 for the lowest tier, increasing
// with the threshold. Unknown tiers return -1.
func (t Tier) Index() int {
	for i, row := range tiers {
		if row.Rank == t.Rank {
			return len(tiers) - 1 - i
		}
	}
	return -1
}

// Next returns the tier directly above t, or false at the top.
func (t Tier) Next() (Tier, bool) {
	for i, row := range tiers {
		if row.Rank == t.Rank {
			if i == 0 {
				return Tier{}, false
			}
			return tiers[i-1], true
		}
	}
	return Tier{}, false
}

// Label renders "RANK · Level".
func (t Tier) Label() string {
	return t.Rank + " · " + t.Level
}
