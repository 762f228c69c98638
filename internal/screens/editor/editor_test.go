package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/syncrate/internal/challenges"
	"github.com/abhisek/syncrate/internal/diagnostics"
	"github.com/abhisek/syncrate/internal/llm"
	"github.com/abhisek/syncrate/internal/profile"
	"github.com/abhisek/syncrate/internal/screens/screentest"
)

const helloWorld = `using System;

class Program
{
    static void Main()
    {
        Console.WriteLine("Hello, World!");
    }
}
`

func helloChallenge(t *testing.T) challenges.Challenge {
	t.Helper()
	ch, err := challenges.Get("hello-world")
	require.NoError(t, err)
	return ch
}

func TestSubmitPassesAndAwardsXP(t *testing.T) {
	env := screentest.NewEnv(t)
	screentest.SignIn(t, env, "Ada", profile.RoleStudent)
	s := New(env, helloChallenge(t))
	s.SetCode(helloWorld)

	_, cmd := s.Update(screentest.Key("ctrl+s"))
	require.NotNil(t, cmd)
	s.Update(screentest.Run(cmd))

	assert.True(t, s.passed)
	assert.Equal(t, 10, env.Current.XP)
	assert.True(t, env.Current.HasCompleted("hello-world"))
	assert.NotEmpty(t, s.badges)
	assert.Contains(t, s.View(100, 40), "+10 XP")

	// A second pass is not a first clear.
	_, cmd = s.Update(screentest.Key("ctrl+s"))
	s.Update(screentest.Run(cmd))
	assert.Equal(t, 10, env.Current.XP)
	assert.NotContains(t, s.View(100, 40), "+10 XP")
}

func TestSubmitStarterFails(t *testing.T) {
	env := screentest.NewEnv(t)
	screentest.SignIn(t, env, "Ada", profile.RoleStudent)
	s := New(env, helloChallenge(t))

	_, cmd := s.Update(screentest.Key("ctrl+s"))
	s.Update(screentest.Run(cmd))
	assert.False(t, s.passed)
	require.NotNil(t, s.Feedback())
	assert.Zero(t, env.Current.XP)
	assert.Contains(t, s.View(100, 40), "not passed")
}

func TestDiagnoseAndSyntax(t *testing.T) {
	env := screentest.NewEnv(t)
	s := New(env, helloChallenge(t))

	s.SetCode("  ")
	_, cmd := s.Update(screentest.Key("ctrl+d"))
	assert.Nil(t, cmd)
	require.NotNil(t, s.Feedback())
	assert.Equal(t, "No Code Detected", s.Feedback().Title)

	s.SetCode("print('hi')")
	s.Update(screentest.Key("ctrl+k"))
	require.NotNil(t, s.Feedback())
	assert.Equal(t, diagnostics.SeverityCritical, s.Feedback().Severity)

	s.SetCode(helloWorld)
	s.Update(screentest.Key("ctrl+k"))
	assert.Nil(t, s.Feedback())
	assert.Contains(t, s.View(100, 40), "syntax looks valid")
}

func TestAsyncReviewDelivered(t *testing.T) {
	env := screentest.NewEnv(t)
	review := llm.MockReview("Wrong Output", "The greeting is missing.", "moderate", "Print Hello, World!")
	svc := diagnostics.NewService(llm.NewMockProvider(review), env.Events)
	t.Cleanup(svc.Close)
	env.Diagnostics = svc

	s := New(env, helloChallenge(t))
	s.SetCode("var total = 1; Console.WriteLine(total);")

	_, cmd := s.Update(screentest.Key("ctrl+d"))
	require.NotNil(t, cmd, "a logic error should wait for a review")
	assert.Equal(t, diagnostics.RuleLogicError, s.Feedback().Rule)
	assert.True(t, s.reviewing)

	s.Update(screentest.Run(cmd))
	assert.False(t, s.reviewing)
	assert.Equal(t, "Wrong Output", s.Feedback().Title)
}

func TestStaleReviewDropped(t *testing.T) {
	env := screentest.NewEnv(t)
	s := New(env, helloChallenge(t))
	s.reviewSeq = 2

	s.Update(reviewMsg{seq: 1, result: &diagnostics.Result{Title: "old"}})
	assert.Nil(t, s.Feedback())
}

func TestEscapeLeavesEditingFirst(t *testing.T) {
	env := screentest.NewEnv(t)
	s := New(env, helloChallenge(t))
	assert.True(t, s.HandlesEscape())

	s.Update(screentest.Key("esc"))
	assert.False(t, s.HandlesEscape())

	s.Update(screentest.Key("enter"))
	assert.True(t, s.HandlesEscape())
}

func TestResetRestoresStarter(t *testing.T) {
	env := screentest.NewEnv(t)
	ch := helloChallenge(t)
	s := New(env, ch)
	s.SetCode("junk")

	s.Update(screentest.Key("ctrl+r"))
	assert.Equal(t, ch.StarterCode(), s.Code())
}

func TestHintWithoutProvider(t *testing.T) {
	env := screentest.NewEnv(t)
	s := New(env, helloChallenge(t))

	_, cmd := s.Update(screentest.Key("ctrl+g"))
	assert.Nil(t, cmd)
	assert.Contains(t, s.View(100, 40), "hints need an LLM provider")
}

func TestHintFailureShowsBriefReason(t *testing.T) {
	env := screentest.NewEnv(t)
	svc := diagnostics.NewService(llm.NewMockProvider(), nil)
	t.Cleanup(svc.Close)
	env.Diagnostics = svc

	s := New(env, helloChallenge(t))
	_, cmd := s.Update(screentest.Key("ctrl+g"))
	require.NotNil(t, cmd)
	s.Update(screentest.Run(cmd))
	assert.Equal(t, "hint failed: reviewer is offline", s.status)
}
