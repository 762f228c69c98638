package calibration

import (
	"math"

	"github.com/abhisek/syncrate/internal/rank"
)

// Score grades a calibration run. answers[i] is the option chosen for
// questions[i], or NoAnswer. Missing trailing answers count as NoAnswer.
// Score is pure: identical inputs always produce identical results.
func Score(questions []Question, answers []int) AssessmentResult {
	correct := make(map[Category]int)
	total := make(map[Category]int)
	totalCorrect := 0

	for i, q := range questions {
		total[q.Category]++

		choice := NoAnswer
		if i < len(answers) {
			choice = answers[i]
		}
		if choice != NoAnswer && choice == q.CorrectIndex {
			correct[q.Category]++
			totalCorrect++
		}
	}

	scores := make(map[Category]int, len(AllCategories()))
	for _, c := range AllCategories() {
		scores[c] = Percentage(correct[c], total[c])
	}

	var overall float64
	if len(questions) > 0 {
		overall = 100 * float64(totalCorrect) / float64(len(questions))
	}
	tier := rank.ForPercent(overall)

	return AssessmentResult{
		Rank:           tier.Rank,
		Level:          tier.Level,
		Scores:         scores,
		Percent:        Percentage(totalCorrect, len(questions)),
		TotalCorrect:   totalCorrect,
		TotalQuestions: len(questions),
	}
}

// Percentage returns round(100*part/whole) clamped to [0,100]; a zero
// whole yields 0.
func Percentage(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	p := int(math.Round(100 * float64(part) / float64(whole)))
	return clamp(p, 0, 100)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
