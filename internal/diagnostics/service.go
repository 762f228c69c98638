package diagnostics

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/abhisek/syncrate/internal/llm"
	"github.com/abhisek/syncrate/internal/logger"
	"github.com/abhisek/syncrate/internal/store"
)

// ErrNoReviewer is returned by LLM-only operations when no provider is
// configured.
var ErrNoReviewer = errors.New("no LLM provider configured")

// Diagnosis sources recorded with each event.
const (
	SourceHeuristic = "heuristic"
	SourceLLM       = "llm"
)

// Recorder persists diagnoses.
type Recorder interface {
	AppendDiagnosis(ctx context.Context, data store.DiagnosisEventData) error
}

// Service coordinates the heuristic checklist with an optional LLM review
// for code the heuristics can only call a generic logic error.
type Service struct {
	rules    []Rule
	reviewer *Reviewer
	recorder Recorder

	mu      sync.RWMutex
	closed  bool
	pending chan reviewJob
	wg      sync.WaitGroup
}

type reviewJob struct {
	ctx context.Context
	req *Request
	cb  func(*Result)
}

// NewService creates a diagnostics service. If provider is nil only the
// heuristics run; if recorder is nil nothing is persisted.
func NewService(provider llm.Provider, recorder Recorder) *Service {
	s := &Service{
		rules:    DefaultRules(),
		recorder: recorder,
		pending:  make(chan reviewJob, 32),
	}
	if provider != nil {
		s.reviewer = NewReviewer(provider, DefaultReviewerConfig())
		s.wg.Add(1)
		go s.processLoop()
	}
	return s
}

// CanReview reports whether an LLM reviewer is attached.
func (s *Service) CanReview() bool {
	return s.reviewer != nil
}

// Check runs the checklist and records the result. It never calls the
// reviewer.
func (s *Service) Check(ctx context.Context, req *Request) *Result {
	res := Run(s.rules, NewInput(req.Code, req.Expected))
	s.record(ctx, req, res, SourceHeuristic)
	return res
}

// Diagnose runs the checklist synchronously and returns its result. When the
// checklist falls through to the generic logic error and a reviewer is
// attached, an LLM review is queued and cb receives the refined result.
func (s *Service) Diagnose(ctx context.Context, req *Request, cb func(*Result)) *Result {
	res := s.Check(ctx, req)
	if res.Rule == RuleLogicError && s.reviewer != nil {
		s.dispatch(ctx, req, cb)
	}
	return res
}

// Review runs the LLM review synchronously, falling back to the heuristic
// result when the checklist found a specific problem or the call fails.
func (s *Service) Review(ctx context.Context, req *Request) *Result {
	res := Run(s.rules, NewInput(req.Code, req.Expected))
	if res.Rule != RuleLogicError || s.reviewer == nil {
		s.record(ctx, req, res, SourceHeuristic)
		return res
	}
	refined, err := s.reviewer.Review(ctx, req)
	if err != nil {
		logger.Get().Warn("code review failed", zap.Error(err))
		s.record(ctx, req, res, SourceHeuristic)
		return res
	}
	s.record(ctx, req, refined, SourceLLM)
	return refined
}

// Hint asks the reviewer for a nudge on req's challenge.
func (s *Service) Hint(ctx context.Context, req *Request) (string, error) {
	if s.reviewer == nil {
		return "", ErrNoReviewer
	}
	return s.reviewer.Hint(ctx, req)
}

func (s *Service) dispatch(ctx context.Context, req *Request, cb func(*Result)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return
	}
	select {
	case s.pending <- reviewJob{ctx: ctx, req: req, cb: cb}:
	default:
		logger.Get().Debug("review queue full, dropping request",
			zap.String("challenge", req.ChallengeID))
	}
}

func (s *Service) processLoop() {
	defer s.wg.Done()
	for job := range s.pending {
		result, err := s.reviewer.Review(job.ctx, job.req)
		if err != nil || result == nil {
			logger.Get().Warn("code review failed", zap.Error(err))
			continue
		}
		s.record(job.ctx, job.req, result, SourceLLM)
		if job.cb != nil {
			job.cb(result)
		}
	}
}

func (s *Service) record(ctx context.Context, req *Request, res *Result, source string) {
	if s.recorder == nil || res == nil {
		return
	}
	err := s.recorder.AppendDiagnosis(ctx, store.DiagnosisEventData{
		ProfileID:   req.StudentID,
		ChallengeID: req.ChallengeID,
		Title:       res.Title,
		Severity:    string(res.Severity),
		Rule:        res.Rule,
		Source:      source,
	})
	if err != nil {
		logger.Get().Warn("record diagnosis", zap.Error(err))
	}
}

// Close stops accepting reviews and waits for queued ones to finish.
// It is safe to call more than once.
func (s *Service) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.pending)
	s.mu.Unlock()
	s.wg.Wait()
}
