package diagnostics

// Rule is one entry of the ordered diagnostic checklist.
// Check returns nil when the rule does not apply.
type Rule interface {
	Name() string
	Check(in *Input) *Result
}

// Rule names, recorded on every Result.
const (
	RuleNoCode            = "no-code"
	RuleSyntaxIncomplete  = "syntax-incomplete"
	RuleTypo              = "typo"
	RuleMissingLoop       = "missing-loop"
	RuleMissingCondition  = "missing-condition"
	RuleInfiniteLoop      = "infinite-loop"
	RuleUnusedVariables   = "unused-variables"
	RuleComplexSolution   = "complex-solution"
	RuleLogicError        = "logic-error"
	RuleCSharpSyntax      = "csharp-syntax"
	RuleRequirementNotMet = "requirement-not-met"
	RuleLLMReview         = "llm-review"
)

// DefaultRules returns the checklist in priority order. The last rule
// always matches, so Run over DefaultRules never returns nil.
func DefaultRules() []Rule {
	return []Rule{
		&emptyRule{},
		&bracketRule{},
		&typoRule{},
		&missingLoopRule{},
		&missingConditionRule{},
		&infiniteLoopRule{},
		&unusedVariableRule{},
		&complexityRule{},
		&fallbackRule{},
	}
}

// Run executes rules in order and returns the first match, or nil if no
// rule applies.
func Run(rules []Rule, in *Input) *Result {
	for _, r := range rules {
		if res := r.Check(in); res != nil {
			if res.Rule == "" {
				res.Rule = r.Name()
			}
			return res
		}
	}
	return nil
}

// Diagnose runs the default checklist over code. It always returns a
// result; the first matching rule wins.
func Diagnose(code string, expected Pattern) *Result {
	return Run(DefaultRules(), NewInput(code, expected))
}
