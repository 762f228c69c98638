package welcome

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/syncrate/internal/router"
	"github.com/abhisek/syncrate/internal/screen"
)

// stubScreen is a minimal screen implementation for testing.
type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "login" }
func (s *stubScreen) Title() string                           { return "Sign In" }

func newTestWelcome() (*WelcomeScreen, *int) {
	callCount := 0
	factory := func() screen.Screen {
		callCount++
		return &stubScreen{}
	}
	return New(factory), &callCount
}

func sendTicks(w *WelcomeScreen, n int) {
	for i := 0; i < n; i++ {
		w.Update(tickMsg(time.Now()))
	}
}

func TestBootSequence(t *testing.T) {
	w, _ := newTestWelcome()

	if w.visibleLines() != 0 {
		t.Errorf("expected no boot lines at start, got %d", w.visibleLines())
	}
	if strings.Contains(w.View(100, 30), "jack in") {
		t.Error("prompt should not be visible at start")
	}

	sendTicks(w, 6)
	if got := w.visibleLines(); got != 2 {
		t.Errorf("after 600ms expected 2 boot lines, got %d", got)
	}

	sendTicks(w, 10)
	view := w.View(100, 30)
	if !strings.Contains(view, "jack in") {
		t.Error("prompt should be visible once the banner is up")
	}
	if !strings.Contains(view, "sync monitor armed") {
		t.Error("all boot lines should be printed")
	}
}

func TestKeypressSkipsToLogin(t *testing.T) {
	w, callCount := newTestWelcome()
	sendTicks(w, 3)

	_, cmd := w.Update(tea.KeyPressMsg{Code: ' '})
	if cmd == nil {
		t.Fatal("keypress should trigger transition")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	if msg.Screen == nil {
		t.Error("replacement screen should not be nil")
	}
	if *callCount != 1 {
		t.Errorf("factory should be called once, got %d", *callCount)
	}
}

func TestElapsedCapped(t *testing.T) {
	w, callCount := newTestWelcome()
	sendTicks(w, 60)
	if *callCount != 0 {
		t.Errorf("factory should not be called without keypress, got %d", *callCount)
	}
	if w.elapsed != totalDur {
		t.Errorf("expected elapsed capped at %v, got %v", totalDur, w.elapsed)
	}
}

func TestFactoryCalledOnce(t *testing.T) {
	w, callCount := newTestWelcome()
	w.Update(tea.KeyPressMsg{Code: 'a'})

	_, cmd := w.Update(tea.KeyPressMsg{Code: 'b'})
	if cmd != nil {
		t.Error("second keypress should not produce a command")
	}
	_, cmd = w.Update(tickMsg(time.Now()))
	if cmd != nil {
		t.Error("ticks should stop after the transition")
	}
	if *callCount != 1 {
		t.Errorf("factory should be called exactly once, got %d", *callCount)
	}
}

func TestCompactBanner(t *testing.T) {
	if !strings.Contains(RenderBanner(40), "S Y N C R A T E") {
		t.Error("narrow terminals should get the compact banner")
	}
}
