package profile

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/syncrate/internal/achievements"
	"github.com/abhisek/syncrate/internal/calibration"
	"github.com/abhisek/syncrate/internal/challenges"
	"github.com/abhisek/syncrate/internal/logger"
	"github.com/abhisek/syncrate/internal/store"
)

// Service manages profiles and folds quiz results and submissions into
// them. It is safe for concurrent use: every read-modify-write of a
// profile row runs under mu, so the API server's handlers cannot
// overwrite each other's updates.
type Service struct {
	profiles store.ProfileRepo
	events   store.EventRepo
	badges   *achievements.Service
	now      func() time.Time

	mu sync.Mutex
}

// NewService creates a profile service. events may be nil, in which case
// nothing beyond the profile row is persisted.
func NewService(profiles store.ProfileRepo, events store.EventRepo) *Service {
	var rec achievements.Recorder
	if events != nil {
		rec = events
	}
	return &Service{
		profiles: profiles,
		events:   events,
		badges:   achievements.NewService(rec),
		now:      time.Now,
	}
}

// Badges exposes the badge service so screens can show session unlocks.
func (s *Service) Badges() *achievements.Service {
	return s.badges
}

// SignIn returns the profile named name, creating it when it does not
// exist. The role is updated to the persona chosen at sign-in.
func (s *Service) SignIn(ctx context.Context, name string, role Role) (*Profile, bool, error) {
	name, err := NormalizeName(name)
	if err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.profiles.GetByName(ctx, name)
	switch {
	case err == nil:
		p := fromRecord(rec)
		p.Role = role
		p.LastActiveAt = s.now()
		if err := s.profiles.Update(ctx, p.record()); err != nil {
			return nil, false, fmt.Errorf("sign in %q: %w", name, err)
		}
		s.badges.ResetSession()
		return p, false, nil
	case !errors.Is(err, store.ErrNotFound):
		return nil, false, fmt.Errorf("look up %q: %w", name, err)
	}

	p, err := s.Create(ctx, name, role)
	if err != nil {
		return nil, false, err
	}
	s.badges.ResetSession()
	return p, true, nil
}

// Create adds a new profile. A name already in use case-insensitively
// yields ErrDuplicateName.
func (s *Service) Create(ctx context.Context, name string, role Role) (*Profile, error) {
	name, err := NormalizeName(name)
	if err != nil {
		return nil, err
	}
	now := s.now()
	p := &Profile{
		ID:           uuid.NewString(),
		Name:         name,
		Role:         role,
		Scores:       map[calibration.Category]int{},
		CreatedAt:    now,
		LastActiveAt: now,
	}
	if err := s.profiles.Create(ctx, p.record()); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
		return nil, fmt.Errorf("create profile: %w", err)
	}
	logger.Get().Info("profile created", zap.String("id", p.ID), zap.String("role", string(role)))
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Profile, error) {
	rec, err := s.profiles.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get profile %s: %w", id, err)
	}
	return fromRecord(rec), nil
}

// Find resolves a profile by ID or, failing that, by name.
func (s *Service) Find(ctx context.Context, idOrName string) (*Profile, error) {
	if _, err := uuid.Parse(idOrName); err == nil {
		return s.Get(ctx, idOrName)
	}
	rec, err := s.profiles.GetByName(ctx, idOrName)
	if err != nil {
		return nil, fmt.Errorf("find profile %q: %w", idOrName, err)
	}
	return fromRecord(rec), nil
}

// List returns every profile, most recently active first.
func (s *Service) List(ctx context.Context) ([]Profile, error) {
	recs, err := s.profiles.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Profile, len(recs))
	for i := range recs {
		out[i] = *fromRecord(&recs[i])
	}
	return out, nil
}

// Delete removes a profile and its events.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.profiles.Delete(ctx, id); err != nil {
		return err
	}
	logger.Get().Info("profile deleted", zap.String("id", id))
	return nil
}

// Reset clears all progress while keeping the name and role. Past events
// stay in the log.
func (s *Service) Reset(ctx context.Context, id string) (*Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	*p = Profile{
		ID:           p.ID,
		Name:         p.Name,
		Role:         p.Role,
		Scores:       map[calibration.Category]int{},
		CreatedAt:    p.CreatedAt,
		LastActiveAt: s.now(),
	}
	if err := s.profiles.Update(ctx, p.record()); err != nil {
		return nil, fmt.Errorf("reset profile %s: %w", id, err)
	}
	return p, nil
}

// Update is the outcome of recording a quiz or submission.
type Update struct {
	Profile    *Profile
	XPAwarded  int
	FirstClear bool
	NewBadges  []achievements.Badge
}

// RecordAssessment stores a calibration result on the profile.
func (s *Service) RecordAssessment(ctx context.Context, id string, res calibration.AssessmentResult) (*Update, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Rank = res.Rank
	p.Level = res.Level
	p.Calibrated = true
	p.Scores = make(map[calibration.Category]int, len(res.Scores))
	scores := make(map[string]int, len(res.Scores))
	for c, v := range res.Scores {
		p.Scores[c] = v
		scores[string(c)] = v
	}

	s.appendEvent("assessment", func() error {
		return s.events.AppendAssessment(ctx, store.AssessmentEventData{
			ProfileID:      p.ID,
			Rank:           res.Rank,
			Level:          res.Level,
			Percent:        res.Percent,
			TotalCorrect:   res.TotalCorrect,
			TotalQuestions: res.TotalQuestions,
			Scores:         scores,
		})
	})

	u := &Update{Profile: p}
	u.NewBadges = s.award(ctx, p, achievements.Progress{})
	if err := s.save(ctx, p); err != nil {
		return nil, err
	}
	return u, nil
}

// RecordSubmission folds a graded submission into the profile. XP is
// awarded only the first time a challenge is passed.
func (s *Service) RecordSubmission(ctx context.Context, id string, ch challenges.Challenge, out challenges.Outcome) (*Update, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	u := &Update{Profile: p}
	wasFailing := slices.Contains(p.failing, ch.ID)

	if out.Passed {
		p.Streak++
		p.BestStreak = max(p.BestStreak, p.Streak)
		p.failing = slices.DeleteFunc(p.failing, func(id string) bool { return id == ch.ID })
		if !p.HasCompleted(ch.ID) {
			p.Completed = append(p.Completed, ch.ID)
			p.XP += out.XP
			u.XPAwarded = out.XP
			u.FirstClear = true
		}
	} else {
		p.Streak = 0
		if !wasFailing {
			p.failing = append(p.failing, ch.ID)
		}
	}

	data := store.SubmissionEventData{
		ProfileID:   p.ID,
		ChallengeID: ch.ID,
		Passed:      out.Passed,
		XP:          u.XPAwarded,
	}
	if out.Feedback != nil {
		data.FeedbackTitle = out.Feedback.Title
		data.Severity = string(out.Feedback.Severity)
	}
	s.appendEvent("submission", func() error { return s.events.AppendSubmission(ctx, data) })

	u.NewBadges = s.award(ctx, p, achievements.Progress{
		LastPassed:       out.Passed,
		LastClean:        out.Passed && out.Feedback == nil,
		LastFailedBefore: wasFailing,
	})
	if err := s.save(ctx, p); err != nil {
		return nil, err
	}
	return u, nil
}

// award fills the profile facts into prog, unlocks what it earns, and
// recomputes the sync rate.
func (s *Service) award(ctx context.Context, p *Profile, prog achievements.Progress) []achievements.Badge {
	prog.Unlocked = p.Badges
	prog.Calibrated = p.Calibrated
	prog.Rank = p.Rank
	prog.Completed = p.Completed
	prog.Streak = p.Streak

	earned := s.badges.Award(ctx, p.ID, prog)
	for _, b := range earned {
		p.Badges = append(p.Badges, b.Name)
	}
	p.SyncRate = achievements.SyncRate(p.Badges)
	return earned
}

func (s *Service) save(ctx context.Context, p *Profile) error {
	p.LastActiveAt = s.now()
	if err := s.profiles.Update(ctx, p.record()); err != nil {
		return fmt.Errorf("save profile %s: %w", p.ID, err)
	}
	return nil
}

// appendEvent runs a best-effort event append, logging failures.
func (s *Service) appendEvent(kind string, fn func() error) {
	if s.events == nil {
		return
	}
	if err := fn(); err != nil {
		logger.Get().Warn("append event", zap.String("kind", kind), zap.Error(err))
	}
}
