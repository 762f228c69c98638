package diagnostics

import "strings"

// Severity orders diagnostic results from advisory to blocking.
type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityModerate Severity = "moderate"
	SeverityCritical Severity = "critical"
)

// Rank returns an ordinal for comparisons: minor < moderate < critical.
// Unknown severities rank below minor.
func (s Severity) Rank() int {
	switch s {
	case SeverityMinor:
		return 1
	case SeverityModerate:
		return 2
	case SeverityCritical:
		return 3
	default:
		return 0
	}
}

// Pattern is the structure a challenge expects the submitted code to use.
type Pattern string

const (
	PatternNone      Pattern = ""
	PatternLoop      Pattern = "loop"
	PatternCondition Pattern = "condition"
)

// ParsePattern maps a tag to a Pattern. The empty string and "none" map
// to PatternNone; anything else unknown reports false.
func ParsePattern(s string) (Pattern, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return PatternNone, true
	case "loop":
		return PatternLoop, true
	case "condition":
		return PatternCondition, true
	default:
		return PatternNone, false
	}
}

// Result is one piece of feedback about a block of code.
type Result struct {
	Title       string   `json:"title"`
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions"`
	Severity    Severity `json:"severity"`
	Rule        string   `json:"rule"` // which rule produced this result
}

// Advisory reports whether the result is feedback on otherwise working code
// rather than a defect.
func (r *Result) Advisory() bool {
	if r == nil {
		return false
	}
	return r.Rule == RuleUnusedVariables || r.Rule == RuleComplexSolution
}

// Input is the code under diagnosis plus the expected pattern tag.
type Input struct {
	Code     string
	Expected Pattern

	words []string
	set   map[string]bool
}

// NewInput prepares code for the rule chain.
func NewInput(code string, expected Pattern) *Input {
	return &Input{Code: code, Expected: expected}
}

// Words returns the lowercased tokens of the code, split on non-word
// characters, in source order.
func (in *Input) Words() []string {
	if in.words == nil {
		in.words = tokenize(in.Code)
	}
	return in.words
}

// HasWord reports whether any lowercased token equals w.
func (in *Input) HasWord(w string) bool {
	if in.set == nil {
		in.set = make(map[string]bool, len(in.Words()))
		for _, t := range in.Words() {
			in.set[t] = true
		}
	}
	return in.set[w]
}

func tokenize(code string) []string {
	parts := nonWord.Split(strings.ToLower(code), -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
