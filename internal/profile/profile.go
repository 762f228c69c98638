package profile

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/abhisek/syncrate/internal/calibration"
	"github.com/abhisek/syncrate/internal/rank"
	"github.com/abhisek/syncrate/internal/store"
)

// Role selects the persona a profile signs in as.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// Name length limits, counted in runes after trimming.
const (
	MinNameLen = 2
	MaxNameLen = 32
)

var (
	ErrInvalidName   = errors.New("invalid name")
	ErrDuplicateName = errors.New("name already taken")
	ErrNotFound      = store.ErrNotFound
)

// Profile is a learner's (or admin's) record.
type Profile struct {
	ID           string                       `json:"id"`
	Name         string                       `json:"name"`
	Role         Role                         `json:"role"`
	Rank         string                       `json:"rank"`
	Level        string                       `json:"level"`
	Scores       map[calibration.Category]int `json:"scores"`
	XP           int                          `json:"xp"`
	Completed    []string                     `json:"completed"`
	Streak       int                          `json:"streak"`
	BestStreak   int                          `json:"best_streak"`
	Badges       []string                     `json:"badges"`
	SyncRate     int                          `json:"sync_rate"`
	Calibrated   bool                         `json:"calibrated"`
	CreatedAt    time.Time                    `json:"created_at"`
	LastActiveAt time.Time                    `json:"last_active_at"`

	failing []string
}

// IsAdmin reports whether the profile signs in as an admin.
func (p *Profile) IsAdmin() bool { return p.Role == RoleAdmin }

// HasCompleted reports whether challengeID has been passed.
func (p *Profile) HasCompleted(challengeID string) bool {
	return slices.Contains(p.Completed, challengeID)
}

// Tier returns the profile's rank tier; uncalibrated profiles sit at the
// lowest tier.
func (p *Profile) Tier() rank.Tier {
	if t, ok := rank.ByName(p.Rank); ok {
		return t
	}
	return rank.Lowest()
}

// RankLabel renders the rank for headers and tables.
func (p *Profile) RankLabel() string {
	if !p.Calibrated {
		return "UNCALIBRATED"
	}
	return p.Rank
}

// RankDetail renders rank and level together, e.g. "SCRIPTER · Intermediate".
func (p *Profile) RankDetail() string {
	if t, ok := rank.ByName(p.Rank); ok && p.Calibrated {
		return t.Label()
	}
	return p.RankLabel()
}

// NormalizeName trims name and checks its length.
func NormalizeName(name string) (string, error) {
	name = strings.Join(strings.Fields(name), " ")
	n := utf8.RuneCountInString(name)
	if n < MinNameLen || n > MaxNameLen {
		return "", fmt.Errorf("%w: must be %d-%d characters", ErrInvalidName, MinNameLen, MaxNameLen)
	}
	return name, nil
}

// ParseRole maps "admin" to RoleAdmin and everything else to RoleStudent.
func ParseRole(s string) Role {
	if strings.EqualFold(strings.TrimSpace(s), string(RoleAdmin)) {
		return RoleAdmin
	}
	return RoleStudent
}

func fromRecord(r *store.ProfileRecord) *Profile {
	p := &Profile{
		ID:           r.ID,
		Name:         r.Name,
		Role:         Role(r.Role),
		Rank:         r.Rank,
		Level:        r.Level,
		Scores:       make(map[calibration.Category]int, len(r.Scores)),
		XP:           r.XP,
		Completed:    r.Completed,
		Streak:       r.Streak,
		BestStreak:   r.BestStreak,
		Badges:       r.Badges,
		SyncRate:     r.SyncRate,
		Calibrated:   r.Calibrated,
		CreatedAt:    r.CreatedAt,
		LastActiveAt: r.LastActiveAt,
		failing:      r.Failing,
	}
	for k, v := range r.Scores {
		p.Scores[calibration.Category(k)] = v
	}
	return p
}

func (p *Profile) record() *store.ProfileRecord {
	r := &store.ProfileRecord{
		ID:           p.ID,
		Name:         p.Name,
		Role:         string(p.Role),
		Rank:         p.Rank,
		Level:        p.Level,
		Scores:       make(map[string]int, len(p.Scores)),
		XP:           p.XP,
		Completed:    p.Completed,
		Streak:       p.Streak,
		BestStreak:   p.BestStreak,
		Badges:       p.Badges,
		Failing:      p.failing,
		SyncRate:     p.SyncRate,
		Calibrated:   p.Calibrated,
		CreatedAt:    p.CreatedAt,
		LastActiveAt: p.LastActiveAt,
	}
	for k, v := range p.Scores {
		r.Scores[string(k)] = v
	}
	return r
}
