// Package calibrate runs the timed skill-calibration quiz.
package calibrate

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/syncrate/internal/achievements"
	"github.com/abhisek/syncrate/internal/calibration"
	"github.com/abhisek/syncrate/internal/logger"
	"github.com/abhisek/syncrate/internal/profile"
	"github.com/abhisek/syncrate/internal/router"
	"github.com/abhisek/syncrate/internal/screen"
	"github.com/abhisek/syncrate/internal/ui/components"
	"github.com/abhisek/syncrate/internal/ui/layout"
	"github.com/abhisek/syncrate/internal/ui/theme"
)

// Timer messages carry the quiz generation they were scheduled for; a
// message from an earlier question is dropped.
type (
	tickMsg     struct{ gen int }
	advanceMsg  struct{ gen int }
	completeMsg struct{ gen int }
)

type recordedMsg struct {
	update *profile.Update
	err    error
}

// CalibrationScreen hosts one calibration run.
type CalibrationScreen struct {
	env    *screen.Env
	quiz   *calibration.Quiz
	cursor int

	result    calibration.AssessmentResult
	newBadges []achievements.Badge
	saveErr   string
	saved     bool
}

var _ screen.Screen = (*CalibrationScreen)(nil)
var _ screen.KeyHintProvider = (*CalibrationScreen)(nil)

// New creates a calibration run over the default question bank.
func New(env *screen.Env) *CalibrationScreen {
	return NewWithBank(env, calibration.DefaultBank())
}

// NewWithBank creates a calibration run over bank.
func NewWithBank(env *screen.Env, bank []calibration.Question) *CalibrationScreen {
	return &CalibrationScreen{env: env, quiz: calibration.NewQuiz(bank)}
}

func (s *CalibrationScreen) Init() tea.Cmd {
	return nil
}

func (s *CalibrationScreen) Title() string {
	return "Calibration"
}

// Quiz exposes the underlying state machine.
func (s *CalibrationScreen) Quiz() *calibration.Quiz { return s.quiz }

func (s *CalibrationScreen) KeyHints() []layout.KeyHint {
	switch s.quiz.Phase() {
	case calibration.PhaseIntro:
		return []layout.KeyHint{{Key: "Enter", Description: "Begin"}, {Key: "Esc", Description: "Back"}}
	case calibration.PhaseAssessment:
		return []layout.KeyHint{{Key: "A-D", Description: "Answer"}, {Key: "↑↓", Description: "Move"}, {Key: "Enter", Description: "Lock in"}}
	case calibration.PhaseResults:
		return []layout.KeyHint{{Key: "Enter", Description: "Done"}, {Key: "R", Description: "Retake"}}
	}
	return nil
}

func tick(gen int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return tickMsg{gen: gen} })
}

func after(d time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return msg })
}

func (s *CalibrationScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	q := s.quiz
	switch msg := msg.(type) {
	case tickMsg:
		if msg.gen != q.Generation() {
			return s, nil
		}
		if q.Tick() {
			return s, s.next()
		}
		if q.Phase() == calibration.PhaseAssessment && !q.InFeedback() {
			return s, tick(q.Generation())
		}
		return s, nil

	case advanceMsg:
		if msg.gen != q.Generation() || !q.Advance() {
			return s, nil
		}
		return s, s.next()

	case completeMsg:
		if msg.gen != q.Generation() {
			return s, nil
		}
		res, ok := q.Complete()
		if !ok {
			return s, nil
		}
		s.result = res
		return s, s.record(res)

	case recordedMsg:
		s.saved = true
		if msg.err != nil {
			s.saveErr = msg.err.Error()
			return s, nil
		}
		if msg.update != nil {
			s.env.SetCurrent(msg.update.Profile)
			s.newBadges = msg.update.NewBadges
		}
		return s, nil

	case tea.KeyPressMsg:
		return s, s.handleKey(msg.String())
	}
	return s, nil
}

func (s *CalibrationScreen) handleKey(key string) tea.Cmd {
	q := s.quiz
	switch q.Phase() {
	case calibration.PhaseIntro:
		if key == "enter" || key == "space" {
			q.Start()
			s.cursor = 0
			if q.Phase() == calibration.PhaseCalculating {
				return after(calibration.CalculationDelay, completeMsg{gen: q.Generation()})
			}
			return tick(q.Generation())
		}

	case calibration.PhaseAssessment:
		cur, ok := q.Current()
		if !ok || q.InFeedback() {
			return nil
		}
		switch key {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(cur.Options)-1 {
				s.cursor++
			}
		case "enter":
			return s.choose(s.cursor)
		default:
			if i, ok := components.OptionForKey(key, len(cur.Options)); ok {
				s.cursor = i
				return s.choose(i)
			}
		}

	case calibration.PhaseResults:
		switch key {
		case "enter":
			return func() tea.Msg { return router.PopScreenMsg{} }
		case "r":
			q.Reset()
			s.cursor = 0
			s.newBadges = nil
			s.saved = false
			s.saveErr = ""
		}
	}
	return nil
}

// next schedules whatever follows a question change: the countdown for
// the new question, or scoring once the last one is done.
func (s *CalibrationScreen) next() tea.Cmd {
	s.cursor = 0
	if s.quiz.Phase() == calibration.PhaseCalculating {
		return after(calibration.CalculationDelay, completeMsg{gen: s.quiz.Generation()})
	}
	return tick(s.quiz.Generation())
}

func (s *CalibrationScreen) choose(option int) tea.Cmd {
	if !s.quiz.Select(option) {
		return nil
	}
	return after(calibration.FeedbackDelay, advanceMsg{gen: s.quiz.Generation()})
}

// record saves the result for a signed-in student. Admins and anonymous
// runs only see their score.
func (s *CalibrationScreen) record(res calibration.AssessmentResult) tea.Cmd {
	p := s.env.Current
	if p == nil || p.IsAdmin() {
		s.saved = true
		return nil
	}
	id := p.ID
	profiles := s.env.Profiles
	return func() tea.Msg {
		u, err := profiles.RecordAssessment(context.Background(), id, res)
		if err != nil {
			logger.Get().Error("record assessment failed", zap.String("profile", id), zap.Error(err))
		}
		return recordedMsg{update: u, err: err}
	}
}

func (s *CalibrationScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	var body string
	switch s.quiz.Phase() {
	case calibration.PhaseIntro:
		body = s.viewIntro(cw)
	case calibration.PhaseAssessment:
		body = s.viewQuestion(cw)
	case calibration.PhaseCalculating:
		body = components.ArcadeCard("ANALYZING", theme.Hint.Render("computing neural sync profile..."), cw, theme.Secondary)
	case calibration.PhaseResults:
		body = s.viewResults(cw)
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}

func (s *CalibrationScreen) viewIntro(cw int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d questions across %d categories.\n", s.quiz.Total(), len(calibration.AllCategories()))
	b.WriteString("Each question runs on a countdown; time out and it counts as wrong.\n\n")
	b.WriteString(theme.Hint.Render("press enter to begin"))
	return components.ArcadeCard("SKILL CALIBRATION", b.String(), cw, theme.Primary)
}

func (s *CalibrationScreen) viewQuestion(cw int) string {
	q := s.quiz
	cur, _ := q.Current()

	timer := lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true)
	if q.Remaining() <= 5 {
		timer = timer.Foreground(theme.Error)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s   %s   %s\n\n",
		theme.Hint.Render(fmt.Sprintf("Q%d/%d", q.Index()+1, q.Total())),
		lipgloss.NewStyle().Foreground(theme.Secondary).Render(cur.Category.DisplayName()),
		timer.Render(fmt.Sprintf("⏱ %02ds", q.Remaining())))
	b.WriteString(theme.Body.Bold(true).Render(cur.Prompt))
	b.WriteString("\n")
	if cur.Code != "" {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Render(cur.Code) + "\n")
	}
	b.WriteString("\n")

	chosen := calibration.NoAnswer
	if q.InFeedback() {
		chosen = q.LastChoice()
	}
	mc := components.MultiChoice{
		Options:      cur.Options,
		Cursor:       s.cursor,
		Chosen:       chosen,
		CorrectIndex: cur.CorrectIndex,
		Reveal:       q.InFeedback(),
	}
	b.WriteString(mc.View())

	if q.InFeedback() {
		b.WriteString("\n")
		if q.LastCorrect() {
			b.WriteString(theme.Correct.Render("✓ CORRECT"))
		} else {
			b.WriteString(theme.Incorrect.Render("✗ INCORRECT"))
		}
	}
	return components.ArcadeCard("", b.String(), cw, theme.Border)
}

func (s *CalibrationScreen) viewResults(cw int) string {
	res := s.result
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).
		Render(fmt.Sprintf("RANK: %s", res.Rank)))
	fmt.Fprintf(&b, "  %s\n", theme.Hint.Render(res.Level))
	fmt.Fprintf(&b, "%d/%d correct · %d%%\n\n", res.TotalCorrect, res.TotalQuestions, res.Percent)

	barWidth := cw - 8
	for _, c := range calibration.AllCategories() {
		label := fmt.Sprintf("%-12s", c.DisplayName())
		b.WriteString(components.ScoreMeter(label, res.Scores[c], barWidth).View())
		b.WriteString("\n")
	}

	if len(s.newBadges) > 0 {
		b.WriteString("\n")
		for _, badge := range s.newBadges {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.RarityColor(string(badge.Rarity))).
				Render(fmt.Sprintf("%s %s unlocked", badge.Icon, badge.Name)))
			b.WriteString("\n")
		}
	}
	if s.saveErr != "" {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(theme.Error).Render("not saved: "+s.saveErr))
	}
	return components.ArcadeCard("CALIBRATION COMPLETE", b.String(), cw, theme.Success)
}
