package challenges

import (
	"fmt"
	"strings"

	"github.com/abhisek/syncrate/internal/diagnostics"
)

// Outcome is the grade for one submission.
type Outcome struct {
	Passed   bool                `json:"passed"`
	Feedback *diagnostics.Result `json:"feedback,omitempty"`
	XP       int                 `json:"xp"`
}

// Evaluate grades code against ch. It runs the syntax check, then the
// diagnostic checklist, then the challenge's required tokens. A passing
// submission keeps feedback only when it is advisory.
func Evaluate(ch Challenge, code string) Outcome {
	if r := diagnostics.DiagnoseSyntax(code); r != nil {
		return Outcome{Feedback: r}
	}

	diag := diagnostics.Diagnose(code, ch.Expected)
	if blocks(diag) {
		return Outcome{Feedback: diag}
	}

	for _, tok := range ch.RequiredTokens {
		if !strings.Contains(code, tok) {
			return Outcome{Feedback: requirementNotMet(tok)}
		}
	}

	out := Outcome{Passed: true, XP: ch.XP}
	if diag.Advisory() {
		out.Feedback = diag
	}
	return out
}

// blocks reports whether a diagnosis fails the submission. Typos are only
// moderate but would never compile.
func blocks(r *diagnostics.Result) bool {
	return r.Severity == diagnostics.SeverityCritical || r.Rule == diagnostics.RuleTypo
}

func requirementNotMet(token string) *diagnostics.Result {
	return &diagnostics.Result{
		Title:   "Requirement Not Met",
		Message: fmt.Sprintf("The solution must use %q.", token),
		Suggestions: []string{
			"Re-read the challenge prompt for the required approach.",
			fmt.Sprintf("Add %q where it fits your solution.", token),
		},
		Severity: diagnostics.SeverityModerate,
		Rule:     diagnostics.RuleRequirementNotMet,
	}
}
