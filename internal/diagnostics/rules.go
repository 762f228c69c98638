package diagnostics

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ComplexityThreshold is the character count above which a submission is
// flagged as overly complex.
const ComplexityThreshold = 500

var (
	nonWord      = regexp.MustCompile(`\W+`)
	infiniteLoop = regexp.MustCompile(`while\s*\(\s*true\s*\)`)
	declaration  = regexp.MustCompile(`\b(?:let|const|var)\s+([A-Za-z_]\w*)`)
)

var (
	loopKeywords      = []string{"for", "foreach", "while", "do"}
	conditionKeywords = []string{"if", "else", "switch", "case"}
	bracketPairs      = [][2]string{{"(", ")"}, {"{", "}"}, {"[", "]"}}
)

type emptyRule struct{}

func (r *emptyRule) Name() string { return RuleNoCode }

func (r *emptyRule) Check(in *Input) *Result {
	if strings.TrimSpace(in.Code) != "" {
		return nil
	}
	return &Result{
		Title:   "No Code Detected",
		Message: "The editor is empty. Write some code before running diagnostics.",
		Suggestions: []string{
			"Start from the challenge's starter template.",
			"Break the problem into small steps and code the first one.",
		},
		Severity: SeverityCritical,
	}
}

// bracketRule only looks for an opener whose closer is absent entirely; it
// does not count or match pairs.
type bracketRule struct{}

func (r *bracketRule) Name() string { return RuleSyntaxIncomplete }

func (r *bracketRule) Check(in *Input) *Result {
	for _, p := range bracketPairs {
		if strings.Contains(in.Code, p[0]) && !strings.Contains(in.Code, p[1]) {
			return &Result{
				Title:   "Syntax Incomplete",
				Message: fmt.Sprintf("Found an opening %q without any closing %q.", p[0], p[1]),
				Suggestions: []string{
					"Check that every opening bracket has a matching closing bracket.",
					"Indent nested blocks so unclosed ones stand out.",
					"Use the syntax check for a line-by-line report.",
				},
				Severity: SeverityCritical,
			}
		}
	}
	return nil
}

type typoRule struct{}

func (r *typoRule) Name() string { return RuleTypo }

func (r *typoRule) Check(in *Input) *Result {
	for _, w := range in.Words() {
		fix, ok := typos[w]
		if !ok {
			continue
		}
		return &Result{
			Title:   "Typo Detected",
			Message: fmt.Sprintf("Found %q. Did you mean %q?", w, fix),
			Suggestions: []string{
				fmt.Sprintf("Replace %q with %q.", w, fix),
				"Keywords are case sensitive and must be spelled exactly.",
			},
			Severity: SeverityModerate,
		}
	}
	return nil
}

type missingLoopRule struct{}

func (r *missingLoopRule) Name() string { return RuleMissingLoop }

func (r *missingLoopRule) Check(in *Input) *Result {
	if in.Expected != PatternLoop || hasAnyWord(in, loopKeywords) {
		return nil
	}
	return &Result{
		Title:   "Missing Loop Structure",
		Message: "This challenge needs repetition, but no loop was found.",
		Suggestions: []string{
			"Use a for loop when you know how many times to repeat.",
			"Use a while loop when repeating until a condition changes.",
			"Use foreach to walk every item in a collection.",
		},
		Severity: SeverityCritical,
	}
}

type missingConditionRule struct{}

func (r *missingConditionRule) Name() string { return RuleMissingCondition }

func (r *missingConditionRule) Check(in *Input) *Result {
	if in.Expected != PatternCondition || hasAnyWord(in, conditionKeywords) {
		return nil
	}
	return &Result{
		Title:   "Missing Conditional Logic",
		Message: "This challenge needs a decision, but no conditional was found.",
		Suggestions: []string{
			"Use if / else to choose between two paths.",
			"Use switch when comparing one value against many cases.",
		},
		Severity: SeverityCritical,
	}
}

type infiniteLoopRule struct{}

func (r *infiniteLoopRule) Name() string { return RuleInfiniteLoop }

func (r *infiniteLoopRule) Check(in *Input) *Result {
	if !infiniteLoop.MatchString(in.Code) {
		return nil
	}
	return &Result{
		Title:   "Infinite Loop Detected",
		Message: "while(true) never stops on its own.",
		Suggestions: []string{
			"Loop on a condition that eventually becomes false.",
			"If the loop must be open-ended, add a break when the work is done.",
		},
		Severity: SeverityCritical,
	}
}

// unusedVariableRule is deliberately naive: a declared name that occurs
// nowhere else in the code is reported, even across scopes.
type unusedVariableRule struct{}

func (r *unusedVariableRule) Name() string { return RuleUnusedVariables }

func (r *unusedVariableRule) Check(in *Input) *Result {
	for _, m := range declaration.FindAllStringSubmatch(in.Code, -1) {
		name := m[1]
		uses := regexp.MustCompile(`\b`+regexp.QuoteMeta(name)+`\b`).FindAllStringIndex(in.Code, -1)
		if len(uses) > 1 {
			continue
		}
		return &Result{
			Title:   "Unused Variables",
			Message: fmt.Sprintf("Variable %q is declared but never used.", name),
			Suggestions: []string{
				fmt.Sprintf("Remove %q if it is not needed.", name),
				"Check whether you meant to use it in a later statement.",
			},
			Severity: SeverityMinor,
		}
	}
	return nil
}

type complexityRule struct{}

func (r *complexityRule) Name() string { return RuleComplexSolution }

func (r *complexityRule) Check(in *Input) *Result {
	n := utf8.RuneCountInString(in.Code)
	if n <= ComplexityThreshold {
		return nil
	}
	return &Result{
		Title:   "Complex Solution",
		Message: fmt.Sprintf("This solution is %d characters long. A simpler approach may exist.", n),
		Suggestions: []string{
			"Extract repeated logic into a helper method.",
			"Look for a loop that can replace copy-pasted statements.",
			"Remove debugging output before submitting.",
		},
		Severity: SeverityModerate,
	}
}

type fallbackRule struct{}

func (r *fallbackRule) Name() string { return RuleLogicError }

func (r *fallbackRule) Check(in *Input) *Result {
	return &Result{
		Title:   "Logic Error",
		Message: "No obvious problems found, but the output may not match what was asked.",
		Suggestions: []string{
			"Trace the code by hand with a small input.",
			"Print intermediate values to see where they diverge.",
			"Re-read the challenge prompt for missed requirements.",
		},
		Severity: SeverityModerate,
	}
}

func hasAnyWord(in *Input, words []string) bool {
	for _, w := range words {
		if in.HasWord(w) {
			return true
		}
	}
	return false
}
