// Package analytics aggregates the admin overview: roster counts, rank
// spread, category averages, pass rate and the live activity feed.
package analytics

import (
	"context"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/abhisek/syncrate/internal/calibration"
	"github.com/abhisek/syncrate/internal/logger"
	"github.com/abhisek/syncrate/internal/rank"
	"github.com/abhisek/syncrate/internal/store"
)

// Defaults for the feed and the diagnostics leaderboard.
const (
	DefaultRecentLimit      = 15
	DefaultDiagnosticsLimit = 5
)

// Overview is the admin dashboard snapshot.
type Overview struct {
	Students         int                          `json:"students"`
	Admins           int                          `json:"admins"`
	Calibrated       int                          `json:"calibrated"`
	AvgSyncRate      int                          `json:"avg_sync_rate"`
	AvgXP            int                          `json:"avg_xp"`
	RankDistribution map[string]int               `json:"rank_distribution"`
	CategoryAverages map[calibration.Category]int `json:"category_averages"`
	Submissions      int                          `json:"submissions"`
	Passed           int                          `json:"passed"`
	PassRate         int                          `json:"pass_rate"`
	TopDiagnostics   []store.TitleCount           `json:"top_diagnostics"`
	Recent           []store.FeedItem             `json:"recent"`
	Leaderboard      []Standing                   `json:"leaderboard"`
	GeneratedAt      time.Time                    `json:"generated_at"`
}

// Standing is one row of the XP leaderboard.
type Standing struct {
	Name     string `json:"name"`
	Rank     string `json:"rank"`
	XP       int    `json:"xp"`
	SyncRate int    `json:"sync_rate"`
}

// Options bounds the list sections of an Overview.
type Options struct {
	RecentLimit      int
	DiagnosticsLimit int
	LeaderboardSize  int
}

func (o Options) withDefaults() Options {
	if o.RecentLimit <= 0 {
		o.RecentLimit = DefaultRecentLimit
	}
	if o.DiagnosticsLimit <= 0 {
		o.DiagnosticsLimit = DefaultDiagnosticsLimit
	}
	if o.LeaderboardSize <= 0 {
		o.LeaderboardSize = 5
	}
	return o
}

// Build assembles an Overview. The independent queries run concurrently;
// the first failure cancels the rest.
func Build(ctx context.Context, profiles store.ProfileRepo, events store.EventRepo, opts Options) (*Overview, error) {
	opts = opts.withDefaults()
	var (
		roster   []store.ProfileRecord
		averages map[string]int
		stats    store.SubmissionStats
		top      []store.TitleCount
		recent   []store.FeedItem
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		roster, err = profiles.List(ctx)
		return err
	})
	g.Go(func() (err error) {
		averages, err = events.AssessmentAverages(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats, err = events.SubmissionStats(ctx)
		return err
	})
	g.Go(func() (err error) {
		top, err = events.DiagnosisTitleCounts(ctx, opts.DiagnosticsLimit)
		return err
	})
	g.Go(func() (err error) {
		recent, err = events.QueryRecent(ctx, store.QueryOpts{Limit: opts.RecentLimit})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	o := &Overview{
		RankDistribution: make(map[string]int, len(rank.Tiers())),
		CategoryAverages: make(map[calibration.Category]int, len(calibration.AllCategories())),
		Submissions:      stats.Total,
		Passed:           stats.Passed,
		PassRate:         calibration.Percentage(stats.Passed, stats.Total),
		TopDiagnostics:   top,
		Recent:           recent,
		GeneratedAt:      time.Now(),
	}
	for _, t := range rank.Tiers() {
		o.RankDistribution[t.Rank] = 0
	}
	for _, c := range calibration.AllCategories() {
		o.CategoryAverages[c] = averages[string(c)]
	}
	summarizeRoster(o, roster, opts.LeaderboardSize)
	return o, nil
}

func summarizeRoster(o *Overview, roster []store.ProfileRecord, board int) {
	var syncSum, xpSum int
	var students []store.ProfileRecord
	for _, p := range roster {
		if p.Role == "admin" {
			o.Admins++
			continue
		}
		students = append(students, p)
		syncSum += p.SyncRate
		xpSum += p.XP
		if p.Calibrated {
			o.Calibrated++
			o.RankDistribution[p.Rank]++
		}
	}
	o.Students = len(students)
	if o.Students > 0 {
		o.AvgSyncRate = int(math.Round(float64(syncSum) / float64(o.Students)))
		o.AvgXP = int(math.Round(float64(xpSum) / float64(o.Students)))
	}

	sort.SliceStable(students, func(i, j int) bool {
		if students[i].XP != students[j].XP {
			return students[i].XP > students[j].XP
		}
		return students[i].Name < students[j].Name
	})
	for i, p := range students {
		if i == board {
			break
		}
		r := p.Rank
		if !p.Calibrated {
			r = "UNCALIBRATED"
		}
		o.Leaderboard = append(o.Leaderboard, Standing{Name: p.Name, Rank: r, XP: p.XP, SyncRate: p.SyncRate})
	}
}

// Service builds overviews for the dashboard and the HTTP API. Concurrent
// callers share one in-flight build.
type Service struct {
	profiles store.ProfileRepo
	events   store.EventRepo
	opts     Options
	group    singleflight.Group
}

func NewService(profiles store.ProfileRepo, events store.EventRepo, opts Options) *Service {
	return &Service{profiles: profiles, events: events, opts: opts}
}

// Overview returns a fresh snapshot. The build is shared by every caller
// that arrives while it runs, so it ignores the cancellation of whichever
// caller started it; each caller still stops waiting when its own ctx is
// done. The returned Overview may be shared and must not be modified.
func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	ch := s.group.DoChan("overview", func() (any, error) {
		return Build(context.WithoutCancel(ctx), s.profiles, s.events, s.opts)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			logger.Get().Warn("build analytics overview", zap.Error(r.Err))
			return nil, r.Err
		}
		if r.Shared {
			logger.Get().Debug("analytics overview shared with concurrent caller")
		}
		return r.Val.(*Overview), nil
	}
}
