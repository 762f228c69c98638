package calibrate

import (
	"context"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/syncrate/internal/calibration"
	"github.com/abhisek/syncrate/internal/profile"
	"github.com/abhisek/syncrate/internal/router"
	"github.com/abhisek/syncrate/internal/screens/screentest"
)

func twoQuestions() []calibration.Question {
	return []calibration.Question{
		{ID: "q1", Category: calibration.CategoryLogic, Prompt: "one?", Options: []string{"a", "b"}, CorrectIndex: 1, TimeLimit: 3 * time.Second},
		{ID: "q2", Category: calibration.CategorySyntax, Prompt: "two?", Options: []string{"a", "b"}, CorrectIndex: 0, TimeLimit: 3 * time.Second},
	}
}

// answerAndAdvance picks key on the current question and delivers the
// feedback timer.
func answerAndAdvance(t *testing.T, s *CalibrationScreen, key string) {
	t.Helper()
	gen := s.quiz.Generation()
	_, cmd := s.Update(screentest.Key(key))
	require.NotNil(t, cmd, "selection should schedule the advance")
	require.True(t, s.quiz.InFeedback())
	s.Update(advanceMsg{gen: gen})
}

func TestFullRunRecordsResult(t *testing.T) {
	env := screentest.NewEnv(t)
	p := screentest.SignIn(t, env, "Ada", profile.RoleStudent)
	s := NewWithBank(env, twoQuestions())

	s.Update(screentest.Key("enter"))
	require.Equal(t, calibration.PhaseAssessment, s.quiz.Phase())
	assert.Contains(t, s.View(100, 40), "one?")

	answerAndAdvance(t, s, "b")
	assert.Equal(t, 1, s.quiz.Index())
	answerAndAdvance(t, s, "a")
	require.Equal(t, calibration.PhaseCalculating, s.quiz.Phase())

	_, cmd := s.Update(completeMsg{gen: s.quiz.Generation()})
	require.Equal(t, calibration.PhaseResults, s.quiz.Phase())
	assert.Equal(t, 100, s.result.Percent)

	s.Update(screentest.Run(cmd))
	assert.True(t, s.saved)
	assert.Empty(t, s.saveErr)
	assert.True(t, env.Current.Calibrated)
	assert.NotEmpty(t, s.newBadges)
	assert.Contains(t, s.View(100, 40), "RANK: ARCHITECT")

	stored, err := env.Profiles.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "ARCHITECT", stored.Rank)

	_, cmd = s.Update(screentest.Key("enter"))
	_, ok := screentest.Run(cmd).(router.PopScreenMsg)
	assert.True(t, ok)
}

func TestCountdownExpiresQuestion(t *testing.T) {
	env := screentest.NewEnv(t)
	s := NewWithBank(env, twoQuestions())
	s.Update(screentest.Key("enter"))
	s.Update(screentest.Key("down"))

	gen := s.quiz.Generation()
	s.Update(tickMsg{gen: gen})
	s.Update(tickMsg{gen: gen})
	assert.Equal(t, 1, s.quiz.Remaining())
	_, cmd := s.Update(tickMsg{gen: gen})
	require.NotNil(t, cmd)

	assert.Equal(t, 1, s.quiz.Index())
	assert.False(t, s.quiz.InFeedback())
	assert.Equal(t, 0, s.cursor)
	assert.Equal(t, calibration.NoAnswer, s.quiz.Answers()[0])
	assert.NotEqual(t, gen, s.quiz.Generation())
	assert.Contains(t, s.View(100, 40), "two?")

	_, cmd = s.Update(tickMsg{gen: s.quiz.Generation()})
	require.NotNil(t, cmd, "the next question should count down")
	assert.Equal(t, 2, s.quiz.Remaining())
}

func TestLastQuestionExpiryStartsScoring(t *testing.T) {
	env := screentest.NewEnv(t)
	s := NewWithBank(env, twoQuestions())
	s.Update(screentest.Key("enter"))
	answerAndAdvance(t, s, "b")

	var cmd tea.Cmd
	for range 3 {
		_, cmd = s.Update(tickMsg{gen: s.quiz.Generation()})
	}
	require.Equal(t, calibration.PhaseCalculating, s.quiz.Phase())
	require.NotNil(t, cmd, "expiry of the last question should schedule scoring")

	s.Update(completeMsg{gen: s.quiz.Generation()})
	require.Equal(t, calibration.PhaseResults, s.quiz.Phase())
	assert.Equal(t, 1, s.result.TotalCorrect)
}

func TestStaleTimersIgnored(t *testing.T) {
	env := screentest.NewEnv(t)
	s := NewWithBank(env, twoQuestions())
	s.Update(screentest.Key("enter"))
	old := s.quiz.Generation()

	answerAndAdvance(t, s, "a")
	require.Equal(t, 1, s.quiz.Index())
	remaining := s.quiz.Remaining()

	_, cmd := s.Update(tickMsg{gen: old})
	assert.Nil(t, cmd)
	assert.Equal(t, remaining, s.quiz.Remaining())

	s.Update(advanceMsg{gen: old})
	assert.Equal(t, 1, s.quiz.Index())
}

func TestKeysIgnoredDuringFeedback(t *testing.T) {
	env := screentest.NewEnv(t)
	s := NewWithBank(env, twoQuestions())
	s.Update(screentest.Key("enter"))

	s.Update(screentest.Key("a"))
	_, cmd := s.Update(screentest.Key("b"))
	assert.Nil(t, cmd)
	assert.Equal(t, 0, s.quiz.LastChoice())
}

func TestAdminRunIsNotRecorded(t *testing.T) {
	env := screentest.NewEnv(t)
	screentest.SignIn(t, env, "Root", profile.RoleAdmin)
	s := NewWithBank(env, twoQuestions())

	s.Update(screentest.Key("enter"))
	answerAndAdvance(t, s, "a")
	answerAndAdvance(t, s, "b")
	_, cmd := s.Update(completeMsg{gen: s.quiz.Generation()})
	assert.Nil(t, cmd)
	assert.True(t, s.saved)
	assert.False(t, env.Current.Calibrated)
	assert.Equal(t, 0, s.result.Percent)
}

func TestRetake(t *testing.T) {
	env := screentest.NewEnv(t)
	s := NewWithBank(env, twoQuestions())
	s.Update(screentest.Key("enter"))
	answerAndAdvance(t, s, "a")
	answerAndAdvance(t, s, "a")
	s.Update(completeMsg{gen: s.quiz.Generation()})
	require.Equal(t, calibration.PhaseResults, s.quiz.Phase())

	s.Update(screentest.Key("r"))
	assert.Equal(t, calibration.PhaseIntro, s.quiz.Phase())
}
