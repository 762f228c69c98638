package diagnostics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/abhisek/syncrate/internal/llm"
)

// ReviewerConfig holds configuration for the LLM reviewer.
type ReviewerConfig struct {
	MaxTokens   int
	Temperature float64
}

// DefaultReviewerConfig returns sensible defaults.
func DefaultReviewerConfig() ReviewerConfig {
	return ReviewerConfig{
		MaxTokens:   400,
		Temperature: 0.3,
	}
}

// Reviewer asks an LLM for feedback the heuristics could not give.
type Reviewer struct {
	provider llm.Provider
	cfg      ReviewerConfig
}

func NewReviewer(provider llm.Provider, cfg ReviewerConfig) *Reviewer {
	return &Reviewer{provider: provider, cfg: cfg}
}

// Request describes one piece of code to diagnose.
type Request struct {
	StudentID   string
	ChallengeID string
	Prompt      string // the challenge statement, if any
	Code        string
	Expected    Pattern
}

type reviewOutput struct {
	Title       string   `json:"title"`
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions"`
	Severity    string   `json:"severity"`
}

// Review sends code to the LLM and returns its feedback as a Result.
func (r *Reviewer) Review(ctx context.Context, req *Request) (*Result, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeCodeReview)

	userMsg, err := render(reviewUserTemplate, req)
	if err != nil {
		return nil, fmt.Errorf("build review prompt: %w", err)
	}

	resp, err := r.provider.Generate(ctx, llm.Request{
		System:      reviewSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: userMsg}},
		Schema:      ReviewSchema,
		MaxTokens:   r.cfg.MaxTokens,
		Temperature: r.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM review failed: %w", err)
	}
	if err := llm.Validate(ReviewSchema, resp.Content); err != nil {
		return nil, err
	}

	var raw reviewOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse review response: %w", err)
	}

	sev := Severity(raw.Severity)
	if sev.Rank() == 0 {
		sev = SeverityModerate
	}
	return &Result{
		Title:       strings.TrimSpace(raw.Title),
		Message:     strings.TrimSpace(raw.Message),
		Suggestions: raw.Suggestions,
		Severity:    sev,
		Rule:        RuleLLMReview,
	}, nil
}

// Hint asks the LLM for a one-sentence nudge on req's challenge.
func (r *Reviewer) Hint(ctx context.Context, req *Request) (string, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeHint)

	userMsg, err := render(reviewUserTemplate, req)
	if err != nil {
		return "", fmt.Errorf("build hint prompt: %w", err)
	}

	resp, err := r.provider.Generate(ctx, llm.Request{
		System:      hintSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: userMsg}},
		Schema:      HintSchema,
		MaxTokens:   150,
		Temperature: r.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("LLM hint failed: %w", err)
	}
	if err := llm.Validate(HintSchema, resp.Content); err != nil {
		return "", err
	}

	var out struct {
		Hint string `json:"hint"`
	}
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return "", fmt.Errorf("failed to parse hint response: %w", err)
	}
	return strings.TrimSpace(out.Hint), nil
}

const reviewSystemPrompt = `You review short C# programs written by beginners on a coding practice platform. Simple checks already passed: the code is not empty, its brackets balance, and it has no obvious typos.

Instructions:
- Identify the single most important problem that stops the code from solving the task.
- Address the learner directly and keep the message to two sentences.
- Give one to three concrete suggestions. Do not paste a full solution.
- Use severity critical only when the program cannot produce the right output.`

const hintSystemPrompt = `You coach beginners solving C# challenges. Give one sentence that nudges the learner toward the next step. Never write the solution code.`

var reviewUserTemplate = template.Must(template.New("review").Parse(`{{if .Prompt}}Task: {{.Prompt}}
{{end}}{{if .Expected}}Expected structure: {{.Expected}}
{{end}}Code:
{{.Code}}`))

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
