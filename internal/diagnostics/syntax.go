package diagnostics

import (
	"fmt"
	"regexp"
	"strings"
)

// SyntaxCheck is the outcome of the C# surface-syntax check. Line is
// 1-based and zero when the problem is not tied to a line.
type SyntaxCheck struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
}

type languageTell struct {
	re       *regexp.Regexp
	language string
}

var foreignTells = []languageTell{
	{regexp.MustCompile(`\bconsole\.log\s*\(`), "JavaScript"},
	{regexp.MustCompile(`\bfunction\s+\w*\s*\(`), "JavaScript"},
	{regexp.MustCompile(`\blet\s+\w+\s*=`), "JavaScript"},
	{regexp.MustCompile(`\bconst\s+\w+\s*=`), "JavaScript"},
	{regexp.MustCompile(`\bdef\s+\w+\s*\(.*\)\s*:`), "Python"},
	{regexp.MustCompile(`(?m)^\s*print\s*\(`), "Python"},
	{regexp.MustCompile(`\belif\b`), "Python"},
	{regexp.MustCompile(`\bSystem\.out\.print`), "Java"},
	{regexp.MustCompile(`\bpublic\s+static\s+void\s+main\s*\(\s*String`), "Java"},
	{regexp.MustCompile(`\bfmt\.Print`), "Go"},
	{regexp.MustCompile(`\bfunc\s+\w+\s*\(`), "Go"},
	{regexp.MustCompile(`(?m)^\s*#include\b`), "C/C++"},
	{regexp.MustCompile(`\bstd::`), "C++"},
	{regexp.MustCompile(`(?m)^\s*<\?php`), "PHP"},
	{regexp.MustCompile(`(?m)^\s*puts\s`), "Ruby"},
}

var (
	csharpVocabulary = regexp.MustCompile(`\b(?:using|namespace|class|static|void|int|string|bool|double|float|decimal|char|var|public|private|protected|return|if|else|for|foreach|while|do|switch|case|new|try|catch)\b|\bConsole\.Write(?:Line)?\b`)
	classDecl        = regexp.MustCompile(`\bclass\s+[A-Za-z_]\w*`)
	mainMethod       = regexp.MustCompile(`\bstatic\s+(?:async\s+)?(?:void|int|Task|Task<int>)\s+Main\s*\(`)
	controlLead      = regexp.MustCompile(`^(?:if|else|for|foreach|while|do|switch|try|catch|finally|using|namespace|class|struct|interface|enum|public|private|protected|internal|static|get|set|lock|unsafe|checked)\b`)
	labelLine        = regexp.MustCompile(`^(?:case\b.*|default|[A-Za-z_]\w*)\s*:$`)
)

// continuation marks a line that clearly continues on the next line.
var continuation = []string{"{", "}", "(", "[", ",", "+", "-", "*", "/", "=", "&&", "||", "?", ".", "=>"}

// CheckSyntax runs a heuristic C# surface-syntax check. It is not a
// parser: it catches the mistakes beginners make most often.
func CheckSyntax(code string) SyntaxCheck {
	if strings.TrimSpace(code) == "" {
		return SyntaxCheck{Message: "No code provided."}
	}

	if c := checkBrackets(code); !c.Valid {
		return c
	}

	stripped := stripCommentsAndStrings(code)
	for _, tell := range foreignTells {
		if tell.re.MatchString(stripped) {
			return SyntaxCheck{Message: fmt.Sprintf("This looks like %s, not C#.", tell.language)}
		}
	}

	if !csharpVocabulary.MatchString(stripped) {
		return SyntaxCheck{Message: "No recognizable C# keywords or Console.Write calls found."}
	}

	lines := significantLines(stripped)
	hasEntry := classDecl.MatchString(stripped) && mainMethod.MatchString(stripped)
	if !hasEntry {
		if len(lines) != 1 {
			return SyntaxCheck{Message: "Multi-line programs must be wrapped in a class with a static void Main method."}
		}
		if !strings.HasSuffix(lines[0].text, ";") {
			return SyntaxCheck{Message: "A single statement must end with a semicolon.", Line: lines[0].number}
		}
		return SyntaxCheck{Valid: true, Message: "Looks like a valid C# statement."}
	}

	for i, l := range lines {
		if needsSemicolon(l.text, nextText(lines, i)) {
			return SyntaxCheck{
				Message: fmt.Sprintf("Line %d looks like a statement but is missing a semicolon.", l.number),
				Line:    l.number,
			}
		}
	}
	return SyntaxCheck{Valid: true, Message: "Looks like valid C#."}
}

// DiagnoseSyntax wraps CheckSyntax as a diagnostic. It returns nil when the
// code passes.
func DiagnoseSyntax(code string) *Result {
	c := CheckSyntax(code)
	if c.Valid {
		return nil
	}
	return &Result{
		Title:   "C# Syntax Error",
		Message: c.Message,
		Suggestions: []string{
			"End every statement with a semicolon.",
			"Wrap the program in a class with static void Main().",
			"Use Console.WriteLine to print output.",
		},
		Severity: SeverityCritical,
		Rule:     RuleCSharpSyntax,
	}
}

func needsSemicolon(line, next string) bool {
	if strings.HasSuffix(line, ";") {
		return false
	}
	for _, suffix := range continuation {
		if strings.HasSuffix(line, suffix) {
			return false
		}
	}
	if controlLead.MatchString(line) || labelLine.MatchString(line) {
		return false
	}
	if strings.HasPrefix(line, "[") || strings.HasPrefix(line, "#") || strings.Contains(line, "=>") {
		return false
	}
	// Allman braces and fluent chains continue on the next line.
	if strings.HasPrefix(next, "{") || strings.HasPrefix(next, ".") {
		return false
	}
	return true
}

type sourceLine struct {
	number int
	text   string
}

func significantLines(code string) []sourceLine {
	var out []sourceLine
	for i, raw := range strings.Split(code, "\n") {
		t := strings.TrimSpace(raw)
		if t == "" {
			continue
		}
		out = append(out, sourceLine{number: i + 1, text: t})
	}
	return out
}

func nextText(lines []sourceLine, i int) string {
	if i+1 < len(lines) {
		return lines[i+1].text
	}
	return ""
}

// checkBrackets verifies nesting of (), {} and [] outside string and char
// literals and comments, reporting the line of the first mismatch.
func checkBrackets(code string) SyntaxCheck {
	type open struct {
		ch   rune
		line int
	}
	closers := map[rune]rune{')': '(', '}': '{', ']': '['}
	var stack []open

	line := 1
	scanCode(code, func(r rune, inCode bool) {
		if r == '\n' {
			line++
			return
		}
		if !inCode {
			return
		}
		switch r {
		case '(', '{', '[':
			stack = append(stack, open{ch: r, line: line})
		case ')', '}', ']':
			if len(stack) == 0 || stack[len(stack)-1].ch != closers[r] {
				stack = append(stack, open{ch: r, line: -line})
				return
			}
			stack = stack[:len(stack)-1]
		}
	})

	for _, o := range stack {
		if o.line < 0 {
			return SyntaxCheck{
				Message: fmt.Sprintf("Unexpected %q on line %d.", o.ch, -o.line),
				Line:    -o.line,
			}
		}
	}
	if len(stack) > 0 {
		o := stack[len(stack)-1]
		return SyntaxCheck{
			Message: fmt.Sprintf("Unclosed %q opened on line %d.", o.ch, o.line),
			Line:    o.line,
		}
	}
	return SyntaxCheck{Valid: true}
}

// stripCommentsAndStrings blanks out comments and literal contents while
// keeping line breaks, so later checks see code structure only.
func stripCommentsAndStrings(code string) string {
	var b strings.Builder
	b.Grow(len(code))
	scanCode(code, func(r rune, inCode bool) {
		switch {
		case r == '\n' || inCode:
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	})
	return b.String()
}

// scanCode walks code rune by rune, reporting whether each rune is code
// (true) or part of a comment or literal (false). Newlines are always
// reported.
func scanCode(code string, fn func(r rune, inCode bool)) {
	const (
		stCode = iota
		stLine
		stBlock
		stString
		stChar
		stVerbatim
	)
	state := stCode
	rs := []rune(code)
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		var next rune
		if i+1 < len(rs) {
			next = rs[i+1]
		}
		switch state {
		case stCode:
			switch {
			case r == '/' && next == '/':
				state = stLine
				fn(r, false)
			case r == '/' && next == '*':
				state = stBlock
				fn(r, false)
			case r == '@' && next == '"':
				state = stVerbatim
				fn(r, false)
				fn(next, false)
				i++
			case r == '"':
				state = stString
				fn(r, true)
			case r == '\'':
				state = stChar
				fn(r, true)
			default:
				fn(r, true)
			}
		case stLine:
			if r == '\n' {
				state = stCode
			}
			fn(r, false)
		case stBlock:
			fn(r, false)
			if r == '*' && next == '/' {
				fn(next, false)
				i++
				state = stCode
			}
		case stString, stChar:
			quote := '"'
			if state == stChar {
				quote = '\''
			}
			switch {
			case r == '\\' && next != 0:
				fn(r, false)
				fn(next, false)
				i++
			case r == quote:
				fn(r, true)
				state = stCode
			case r == '\n':
				// unterminated literal; resume scanning code on the next line
				fn(r, false)
				state = stCode
			default:
				fn(r, false)
			}
		case stVerbatim:
			if r == '"' && next == '"' {
				fn(r, false)
				fn(next, false)
				i++
				continue
			}
			if r == '"' {
				fn(r, true)
				state = stCode
				continue
			}
			fn(r, false)
		}
	}
}
