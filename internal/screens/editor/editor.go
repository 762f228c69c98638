// Package editor is the in-terminal code editor for one challenge.
package editor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/syncrate/internal/achievements"
	"github.com/abhisek/syncrate/internal/challenges"
	"github.com/abhisek/syncrate/internal/diagnostics"
	"github.com/abhisek/syncrate/internal/llm"
	"github.com/abhisek/syncrate/internal/logger"
	"github.com/abhisek/syncrate/internal/profile"
	"github.com/abhisek/syncrate/internal/screen"
	"github.com/abhisek/syncrate/internal/ui/components"
	"github.com/abhisek/syncrate/internal/ui/layout"
	"github.com/abhisek/syncrate/internal/ui/theme"
)

// ReviewTimeout bounds how long the editor waits for an LLM review.
const ReviewTimeout = 30 * time.Second

type submittedMsg struct {
	outcome challenges.Outcome
	update  *profile.Update
	err     error
}

// reviewMsg delivers an asynchronous LLM review. A nil result means the
// wait timed out.
type reviewMsg struct {
	seq    int
	result *diagnostics.Result
}

type hintMsg struct {
	text string
	err  error
}

// EditorScreen edits and grades code for one challenge.
type EditorScreen struct {
	env      *screen.Env
	ch       challenges.Challenge
	area     textarea.Model
	editing  bool
	feedback *diagnostics.Result
	status   string
	passed   bool
	badges   []achievements.Badge

	// reviews receives LLM reviews from the diagnostics worker; reviewSeq
	// drops a review that arrives after a newer diagnosis.
	reviews   chan *diagnostics.Result
	reviewSeq int
	reviewing bool
}

var _ screen.Screen = (*EditorScreen)(nil)
var _ screen.KeyHintProvider = (*EditorScreen)(nil)
var _ screen.EscapeHandler = (*EditorScreen)(nil)

// New opens ch with its starter code.
func New(env *screen.Env, ch challenges.Challenge) *EditorScreen {
	ta := textarea.New()
	ta.ShowLineNumbers = true
	ta.CharLimit = 16 * 1024
	ta.SetValue(ch.StarterCode())
	ta.SetWidth(72)
	ta.SetHeight(14)
	ta.Focus()

	return &EditorScreen{
		env:     env,
		ch:      ch,
		area:    ta,
		editing: true,
		reviews: make(chan *diagnostics.Result, 1),
	}
}

func (s *EditorScreen) Init() tea.Cmd {
	return s.area.Focus()
}

func (s *EditorScreen) Title() string { return s.ch.Title }

// HandlesEscape keeps Esc inside the editor while typing; it leaves
// editing mode instead of closing the screen.
func (s *EditorScreen) HandlesEscape() bool { return s.editing }

func (s *EditorScreen) KeyHints() []layout.KeyHint {
	if !s.editing {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Edit"},
			{Key: "Esc", Description: "Back"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "Ctrl+S", Description: "Submit"},
		{Key: "Ctrl+D", Description: "Diagnose"},
		{Key: "Ctrl+K", Description: "Syntax"},
	}
	if s.env.Diagnostics != nil && s.env.Diagnostics.CanReview() {
		hints = append(hints, layout.KeyHint{Key: "Ctrl+G", Description: "Hint"})
	}
	return append(hints,
		layout.KeyHint{Key: "Ctrl+R", Description: "Reset"},
		layout.KeyHint{Key: "Esc", Description: "Done"})
}

// Code returns the editor contents.
func (s *EditorScreen) Code() string { return s.area.Value() }

// SetCode replaces the editor contents.
func (s *EditorScreen) SetCode(code string) { s.area.SetValue(code) }

// Feedback returns the diagnostic currently shown, if any.
func (s *EditorScreen) Feedback() *diagnostics.Result { return s.feedback }

func (s *EditorScreen) request() *diagnostics.Request {
	req := &diagnostics.Request{
		ChallengeID: s.ch.ID,
		Prompt:      s.ch.Prompt,
		Code:        s.area.Value(),
		Expected:    s.ch.Expected,
	}
	if s.env.Current != nil {
		req.StudentID = s.env.Current.ID
	}
	return req
}

func (s *EditorScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case submittedMsg:
		return s, s.applySubmission(msg)

	case reviewMsg:
		if msg.seq != s.reviewSeq {
			return s, nil
		}
		s.reviewing = false
		if msg.result != nil {
			s.feedback = msg.result
			s.status = "review received"
		}
		return s, nil

	case hintMsg:
		if msg.err != nil {
			if errors.Is(msg.err, diagnostics.ErrNoReviewer) {
				s.status = "hints need an LLM provider"
			} else {
				s.status = "hint failed: " + llm.Brief(msg.err)
			}
			return s, nil
		}
		s.status = "hint: " + msg.text
		return s, nil

	case tea.KeyPressMsg:
		if !s.editing {
			switch msg.String() {
			case "enter", "i":
				s.editing = true
				return s, s.area.Focus()
			}
			return s, nil
		}
		switch msg.String() {
		case "esc":
			s.editing = false
			s.area.Blur()
			return s, nil
		case "ctrl+s":
			return s, s.submit()
		case "ctrl+d":
			return s, s.diagnose()
		case "ctrl+k":
			s.syntax()
			return s, nil
		case "ctrl+g":
			return s, s.hint()
		case "ctrl+r":
			s.area.SetValue(s.ch.StarterCode())
			s.feedback = nil
			s.status = "reset to starter code"
			return s, nil
		}
	}

	if !s.editing {
		return s, nil
	}
	var cmd tea.Cmd
	s.area, cmd = s.area.Update(msg)
	return s, cmd
}

func (s *EditorScreen) submit() tea.Cmd {
	ch := s.ch
	code := s.area.Value()
	var id string
	if p := s.env.Current; p != nil && !p.IsAdmin() {
		id = p.ID
	}
	profiles := s.env.Profiles
	s.status = "grading..."
	return func() tea.Msg {
		out := challenges.Evaluate(ch, code)
		if id == "" {
			return submittedMsg{outcome: out}
		}
		u, err := profiles.RecordSubmission(context.Background(), id, ch, out)
		if err != nil {
			logger.Get().Error("record submission failed",
				zap.String("profile", id), zap.String("challenge", ch.ID), zap.Error(err))
		}
		return submittedMsg{outcome: out, update: u, err: err}
	}
}

func (s *EditorScreen) applySubmission(msg submittedMsg) tea.Cmd {
	s.feedback = msg.outcome.Feedback
	s.passed = msg.outcome.Passed
	s.badges = nil
	switch {
	case !msg.outcome.Passed:
		s.status = "✗ not passed"
	case msg.update != nil && msg.update.FirstClear:
		s.status = fmt.Sprintf("✓ passed  +%d XP", msg.update.XPAwarded)
	default:
		s.status = "✓ passed"
	}
	if msg.err != nil {
		s.status += " (not saved)"
	}
	if msg.update != nil {
		s.env.SetCurrent(msg.update.Profile)
		s.badges = msg.update.NewBadges
	}
	return nil
}

func (s *EditorScreen) diagnose() tea.Cmd {
	s.reviewSeq++
	seq := s.reviewSeq
	ch := s.reviews

	// Drain a review left over from an earlier diagnosis.
	select {
	case <-ch:
	default:
	}

	cb := func(r *diagnostics.Result) {
		select {
		case ch <- r:
		default:
		}
	}

	svc := s.env.Diagnostics
	if svc == nil {
		s.feedback = diagnostics.Diagnose(s.area.Value(), s.ch.Expected)
		return nil
	}
	s.feedback = svc.Diagnose(context.Background(), s.request(), cb)
	s.status = ""
	s.passed = false
	if s.feedback.Rule != diagnostics.RuleLogicError || !svc.CanReview() {
		return nil
	}
	s.reviewing = true
	s.status = "requesting review..."
	return func() tea.Msg {
		select {
		case r := <-ch:
			return reviewMsg{seq: seq, result: r}
		case <-time.After(ReviewTimeout):
			return reviewMsg{seq: seq}
		}
	}
}

func (s *EditorScreen) syntax() {
	s.passed = false
	if r := diagnostics.DiagnoseSyntax(s.area.Value()); r != nil {
		s.feedback = r
		s.status = ""
		return
	}
	s.feedback = nil
	s.status = "✓ syntax looks valid"
}

func (s *EditorScreen) hint() tea.Cmd {
	svc := s.env.Diagnostics
	if svc == nil || !svc.CanReview() {
		s.status = "hints need an LLM provider"
		return nil
	}
	req := s.request()
	s.status = "asking for a hint..."
	return func() tea.Msg {
		text, err := svc.Hint(context.Background(), req)
		return hintMsg{text: text, err: err}
	}
}

func (s *EditorScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	s.area.SetWidth(cw)
	areaHeight := height - 14
	if areaHeight < 5 {
		areaHeight = 5
	}
	s.area.SetHeight(areaHeight)

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Width(cw).Foreground(theme.Text).Render(s.ch.Prompt))
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render(fmt.Sprintf("%s · %s · %d XP", s.ch.Category.DisplayName(), s.ch.Difficulty, s.ch.XP)))
	b.WriteString("\n\n")

	border := theme.Border
	if s.editing {
		border = theme.Primary
	}
	b.WriteString(lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(border).Render(s.area.View()))
	b.WriteString("\n")

	if s.status != "" {
		style := theme.Hint
		if strings.HasPrefix(s.status, "✓") {
			style = theme.Correct
		} else if strings.HasPrefix(s.status, "✗") {
			style = theme.Incorrect
		}
		b.WriteString(style.Render(s.status))
		b.WriteString("\n")
	}
	if s.feedback != nil {
		b.WriteString(RenderFeedback(s.feedback, cw))
	}
	for _, badge := range s.badges {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.RarityColor(string(badge.Rarity))).
			Render(fmt.Sprintf("%s %s unlocked", badge.Icon, badge.Name)))
		b.WriteString("\n")
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
}

// RenderFeedback draws a diagnostic result as a severity-colored panel.
func RenderFeedback(r *diagnostics.Result, width int) string {
	color := theme.SeverityColor(string(r.Severity))
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(color).Bold(true).
		Render(fmt.Sprintf("%s  [%s]", r.Title, r.Severity)))
	b.WriteString("\n")
	b.WriteString(r.Message)
	for _, sug := range r.Suggestions {
		b.WriteString("\n  • " + sug)
	}
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(color).
		PaddingLeft(1).
		Width(width - 2).
		Render(b.String())
}
