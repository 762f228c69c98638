package achievements

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/syncrate/internal/logger"
	"github.com/abhisek/syncrate/internal/store"
)

// Recorder persists badge unlocks.
type Recorder interface {
	AppendBadge(ctx context.Context, data store.BadgeEventData) error
}

// Unlock is a badge earned at a point in time.
type Unlock struct {
	Badge
	ProfileID  string
	UnlockedAt time.Time
}

// Service evaluates progress, records new unlocks, and keeps the badges
// earned since the last ResetSession for the celebration banner. It is
// safe for concurrent use.
type Service struct {
	recorder Recorder

	mu sync.Mutex
	// session holds each profile's unlocks since the last reset, at most
	// one per badge, so it never outgrows profiles x catalog size.
	session map[string][]Unlock
}

// NewService creates a badge service. recorder may be nil.
func NewService(recorder Recorder) *Service {
	return &Service{recorder: recorder}
}

// Award evaluates p for profileID and persists every newly earned badge.
// It returns the new badges; p.Unlocked is not modified.
func (s *Service) Award(ctx context.Context, profileID string, p Progress) []Badge {
	earned := Evaluate(p)
	now := time.Now()
	for _, b := range earned {
		s.persist(ctx, profileID, b)
		s.remember(Unlock{Badge: b, ProfileID: profileID, UnlockedAt: now})
	}
	return earned
}

func (s *Service) remember(u Unlock) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, have := range s.session[u.ProfileID] {
		if have.ID == u.ID {
			return
		}
	}
	if s.session == nil {
		s.session = make(map[string][]Unlock)
	}
	s.session[u.ProfileID] = append(s.session[u.ProfileID], u)
}

// Session returns a copy of the badges profileID unlocked since the last
// reset, in unlock order.
func (s *Service) Session(profileID string) []Unlock {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Unlock(nil), s.session[profileID]...)
}

// ResetSession clears the session accumulator. Called at sign-in.
func (s *Service) ResetSession() {
	s.mu.Lock()
	s.session = nil
	s.mu.Unlock()
}

func (s *Service) persist(ctx context.Context, profileID string, b Badge) {
	if s.recorder == nil {
		return
	}
	err := s.recorder.AppendBadge(ctx, store.BadgeEventData{
		ProfileID: profileID,
		BadgeID:   b.ID,
		BadgeName: b.Name,
	})
	if err != nil && !errors.Is(err, store.ErrConflict) {
		logger.Get().Warn("record badge unlock",
			zap.String("profile", profileID),
			zap.String("badge", b.ID),
			zap.Error(err))
	}
}
