package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var profileColumns = []string{
	"id", "name", "role", "rank", "level", "scores", "xp", "completed",
	"streak", "best_streak", "badges", "failing", "sync_rate", "calibrated",
	"created_at", "last_active_at",
}

type profileRepo struct {
	db *sql.DB
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (r *profileRepo) Create(ctx context.Context, p *ProfileRecord) error {
	scores, completed, badges, failing, err := encodeProfileJSON(p)
	if err != nil {
		return err
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	if p.LastActiveAt.IsZero() {
		p.LastActiveAt = p.CreatedAt
	}

	insert := builder.Insert("profiles").
		Set("id", p.ID).
		Set("name", p.Name).
		Set("name_key", nameKey(p.Name)).
		Set("role", p.Role).
		Set("rank", p.Rank).
		Set("level", p.Level).
		Set("scores", scores).
		Set("xp", p.XP).
		Set("completed", completed).
		Set("streak", p.Streak).
		Set("best_streak", p.BestStreak).
		Set("badges", badges).
		Set("failing", failing).
		Set("sync_rate", p.SyncRate).
		Set("calibrated", p.Calibrated).
		Set("created_at", p.CreatedAt.UnixMilli()).
		Set("last_active_at", p.LastActiveAt.UnixMilli())
	if _, err := execQuery(ctx, r.db, insert); err != nil {
		return fmt.Errorf("create profile %q: %w", p.Name, err)
	}
	return nil
}

func (r *profileRepo) Get(ctx context.Context, id string) (*ProfileRecord, error) {
	q := builder.Select(profileColumns...).
		From(entsql.Table("profiles")).
		Where(entsql.EQ("id", id))
	return r.one(ctx, q)
}

func (r *profileRepo) GetByName(ctx context.Context, name string) (*ProfileRecord, error) {
	q := builder.Select(profileColumns...).
		From(entsql.Table("profiles")).
		Where(entsql.EQ("name_key", nameKey(name)))
	return r.one(ctx, q)
}

func (r *profileRepo) List(ctx context.Context) ([]ProfileRecord, error) {
	q := builder.Select(profileColumns...).
		From(entsql.Table("profiles")).
		OrderBy(entsql.Desc("last_active_at"), entsql.Asc("name"))
	rows, err := queryRows(ctx, r.db, q)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var out []ProfileRecord
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *profileRepo) Update(ctx context.Context, p *ProfileRecord) error {
	scores, completed, badges, failing, err := encodeProfileJSON(p)
	if err != nil {
		return err
	}
	update := builder.Update("profiles").
		Set("name", p.Name).
		Set("name_key", nameKey(p.Name)).
		Set("role", p.Role).
		Set("rank", p.Rank).
		Set("level", p.Level).
		Set("scores", scores).
		Set("xp", p.XP).
		Set("completed", completed).
		Set("streak", p.Streak).
		Set("best_streak", p.BestStreak).
		Set("badges", badges).
		Set("failing", failing).
		Set("sync_rate", p.SyncRate).
		Set("calibrated", p.Calibrated).
		Set("last_active_at", p.LastActiveAt.UnixMilli()).
		Where(entsql.EQ("id", p.ID))
	res, err := execQuery(ctx, r.db, update)
	if err != nil {
		return fmt.Errorf("update profile %s: %w", p.ID, err)
	}
	return requireAffected(res, p.ID)
}

func (r *profileRepo) Delete(ctx context.Context, id string) error {
	res, err := execQuery(ctx, r.db, builder.Delete("profiles").Where(entsql.EQ("id", id)))
	if err != nil {
		return fmt.Errorf("delete profile %s: %w", id, err)
	}
	return requireAffected(res, id)
}

func (r *profileRepo) one(ctx context.Context, q *entsql.Selector) (*ProfileRecord, error) {
	rows, err := queryRows(ctx, r.db, q.Limit(1))
	if err != nil {
		return nil, fmt.Errorf("query profile: %w", err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, ErrNotFound
	}
	return scanProfile(rows)
}

func requireAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("profile %s: %w", id, ErrNotFound)
	}
	return nil
}

func scanProfile(rows *sql.Rows) (*ProfileRecord, error) {
	var (
		p                         ProfileRecord
		scores, completed, badges sql.NullString
		failing                   sql.NullString
		created, active           int64
	)
	err := rows.Scan(&p.ID, &p.Name, &p.Role, &p.Rank, &p.Level, &scores, &p.XP,
		&completed, &p.Streak, &p.BestStreak, &badges, &failing, &p.SyncRate, &p.Calibrated,
		&created, &active)
	if err != nil {
		return nil, fmt.Errorf("scan profile: %w", err)
	}
	p.CreatedAt = time.UnixMilli(created)
	p.LastActiveAt = time.UnixMilli(active)

	if err := decodeJSON(scores, &p.Scores); err != nil {
		return nil, fmt.Errorf("decode scores: %w", err)
	}
	if err := decodeJSON(completed, &p.Completed); err != nil {
		return nil, fmt.Errorf("decode completed: %w", err)
	}
	if err := decodeJSON(badges, &p.Badges); err != nil {
		return nil, fmt.Errorf("decode badges: %w", err)
	}
	if err := decodeJSON(failing, &p.Failing); err != nil {
		return nil, fmt.Errorf("decode failing: %w", err)
	}
	return &p, nil
}

func encodeProfileJSON(p *ProfileRecord) (scores, completed, badges, failing string, err error) {
	if scores, err = encodeJSON(p.Scores); err != nil {
		return "", "", "", "", fmt.Errorf("encode scores: %w", err)
	}
	if completed, err = encodeJSON(p.Completed); err != nil {
		return "", "", "", "", fmt.Errorf("encode completed: %w", err)
	}
	if badges, err = encodeJSON(p.Badges); err != nil {
		return "", "", "", "", fmt.Errorf("encode badges: %w", err)
	}
	if failing, err = encodeJSON(p.Failing); err != nil {
		return "", "", "", "", fmt.Errorf("encode failing: %w", err)
	}
	return scores, completed, badges, failing, nil
}

func encodeJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeJSON(s sql.NullString, v any) error {
	if !s.Valid || s.String == "" || s.String == "null" {
		return nil
	}
	return json.Unmarshal([]byte(s.String), v)
}

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
