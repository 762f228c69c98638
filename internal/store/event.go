package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// sequenceCounter manages the global monotonic sequence number shared across
// all event tables. Per-table auto-increment IDs can't order events of
// different kinds, so every append draws from this one counter, which lets
// the activity feed merge tables and page by sequence.
//
// The mutex serializes within the process; the RETURNING clause makes the
// increment atomic at the database level.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

// newSequenceCounter creates a counter and ensures the tracking table exists.
func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`)
	if err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}

	_, err = db.Exec(`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`)
	if err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}

	return &sequenceCounter{db: db}, nil
}

// Next atomically returns the next sequence number and increments the counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	err := sc.db.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

// eventRepo implements EventRepo on top of the sql builders and the global
// sequence counter.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

// insertEvent stamps insert with a fresh sequence and timestamp and runs it.
func (r *eventRepo) insertEvent(ctx context.Context, insert *entsql.InsertBuilder, what string) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	insert.Set("sequence", seqNum).Set("created_at", time.Now().UnixMilli())
	if _, err := execQuery(ctx, r.db, insert); err != nil {
		return fmt.Errorf("save %s event: %w", what, err)
	}
	return nil
}

// filter applies the sequence and time bounds of opts to a selector.
func filter(s *entsql.Selector, opts QueryOpts) *entsql.Selector {
	if opts.After > 0 {
		s.Where(entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		s.Where(entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		s.Where(entsql.GTE("created_at", opts.From.UnixMilli()))
	}
	if !opts.To.IsZero() {
		s.Where(entsql.LTE("created_at", opts.To.UnixMilli()))
	}
	if opts.ProfileID != "" {
		s.Where(entsql.EQ("profile_id", opts.ProfileID))
	}
	s.OrderBy(entsql.Desc("sequence"))
	if opts.Limit > 0 {
		s.Limit(opts.Limit)
	}
	return s
}

// feedSource describes how one event table renders into the activity feed.
type feedSource struct {
	table   string
	kind    string
	columns []string
	summary func(cols []sql.NullString) string
}

var feedSources = []feedSource{
	{
		table:   "assessment_events",
		kind:    KindAssessment,
		columns: []string{"rank", "percent"},
		summary: func(c []sql.NullString) string {
			return fmt.Sprintf("calibrated as %s (%s%%)", c[0].String, c[1].String)
		},
	},
	{
		table:   "submission_events",
		kind:    KindSubmission,
		columns: []string{"challenge_id", "passed", "feedback_title"},
		summary: func(c []sql.NullString) string {
			if c[1].String == "1" || c[1].String == "true" {
				return fmt.Sprintf("passed %s", c[0].String)
			}
			return fmt.Sprintf("failed %s: %s", c[0].String, c[2].String)
		},
	},
	{
		table:   "badge_events",
		kind:    KindBadge,
		columns: []string{"badge_name"},
		summary: func(c []sql.NullString) string {
			return fmt.Sprintf("unlocked %s", c[0].String)
		},
	},
	{
		table:   "diagnosis_events",
		kind:    KindDiagnosis,
		columns: []string{"title", "source"},
		summary: func(c []sql.NullString) string {
			return fmt.Sprintf("diagnosed %s (%s)", c[0].String, c[1].String)
		},
	},
}

func (r *eventRepo) QueryRecent(ctx context.Context, opts QueryOpts) ([]FeedItem, error) {
	var items []FeedItem
	for _, src := range feedSources {
		cols := append([]string{"sequence", "created_at", "profile_id"}, src.columns...)
		q := filter(builder.Select(cols...).From(entsql.Table(src.table)), opts)
		got, err := r.scanFeed(ctx, q, src)
		if err != nil {
			return nil, err
		}
		items = append(items, got...)
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Sequence > items[j].Sequence })
	if opts.Limit > 0 && len(items) > opts.Limit {
		items = items[:opts.Limit]
	}
	if err := r.attachNames(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *eventRepo) scanFeed(ctx context.Context, q *entsql.Selector, src feedSource) ([]FeedItem, error) {
	rows, err := queryRows(ctx, r.db, q)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", src.table, err)
	}
	defer rows.Close()

	var out []FeedItem
	for rows.Next() {
		var (
			item    FeedItem
			created int64
			extra   = make([]sql.NullString, len(src.columns))
		)
		dest := []any{&item.Sequence, &created, &item.ProfileID}
		for i := range extra {
			dest = append(dest, &extra[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", src.table, err)
		}
		item.Kind = src.kind
		item.Timestamp = time.UnixMilli(created)
		item.Summary = src.summary(extra)
		out = append(out, item)
	}
	return out, rows.Err()
}

// attachNames resolves profile names for feed items in one query.
func (r *eventRepo) attachNames(ctx context.Context, items []FeedItem) error {
	seen := make(map[string]bool)
	var ids []any
	for _, it := range items {
		if it.ProfileID != "" && !seen[it.ProfileID] {
			seen[it.ProfileID] = true
			ids = append(ids, it.ProfileID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	q := builder.Select("id", "name").From(entsql.Table("profiles")).Where(entsql.In("id", ids...))
	rows, err := queryRows(ctx, r.db, q)
	if err != nil {
		return fmt.Errorf("query feed names: %w", err)
	}
	defer rows.Close()

	names := make(map[string]string, len(ids))
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return fmt.Errorf("scan feed name: %w", err)
		}
		names[id] = name
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for i := range items {
		items[i].ProfileName = names[items[i].ProfileID]
	}
	return nil
}
