package calibration

import "time"

// Category buckets calibration questions and their scores.
type Category string

const (
	CategoryLogic        Category = "logic"
	CategorySyntax       Category = "syntax"
	CategoryOptimization Category = "optimization"
)

// AllCategories returns the scored categories in display order.
func AllCategories() []Category {
	return []Category{CategoryLogic, CategorySyntax, CategoryOptimization}
}

// DisplayName returns a human-readable label for the category.
func (c Category) DisplayName() string {
	switch c {
	case CategoryLogic:
		return "Logic"
	case CategorySyntax:
		return "Syntax"
	case CategoryOptimization:
		return "Optimization"
	default:
		return string(c)
	}
}

// NoAnswer marks a question that timed out without a selection.
const NoAnswer = -1

// Question is one entry of the calibration bank.
type Question struct {
	ID           string
	Category     Category
	Prompt       string
	Code         string // optional snippet shown under the prompt
	Options      []string
	CorrectIndex int
	TimeLimit    time.Duration
}

// Seconds returns the countdown length for the question in whole seconds.
func (q Question) Seconds() int {
	s := int(q.TimeLimit / time.Second)
	if s <= 0 {
		return int(DefaultTimeLimit / time.Second)
	}
	return s
}

// AssessmentResult is the outcome of scoring one calibration run.
type AssessmentResult struct {
	Rank           string           `json:"rank"`
	Level          string           `json:"level"`
	Scores         map[Category]int `json:"scores"`
	Percent        int              `json:"percent"`
	TotalCorrect   int              `json:"total_correct"`
	TotalQuestions int              `json:"total_questions"`
}
