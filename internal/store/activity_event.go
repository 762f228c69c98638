package store

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendAssessment(ctx context.Context, data AssessmentEventData) error {
	scores, err := encodeJSON(data.Scores)
	if err != nil {
		return fmt.Errorf("encode scores: %w", err)
	}
	insert := builder.Insert("assessment_events").
		Set("profile_id", data.ProfileID).
		Set("rank", data.Rank).
		Set("level", data.Level).
		Set("percent", data.Percent).
		Set("total_correct", data.TotalCorrect).
		Set("total_questions", data.TotalQuestions).
		Set("scores", scores)
	return r.insertEvent(ctx, insert, "assessment")
}

func (r *eventRepo) AppendSubmission(ctx context.Context, data SubmissionEventData) error {
	insert := builder.Insert("submission_events").
		Set("profile_id", data.ProfileID).
		Set("challenge_id", data.ChallengeID).
		Set("passed", data.Passed).
		Set("xp", data.XP).
		Set("feedback_title", data.FeedbackTitle).
		Set("severity", data.Severity)
	return r.insertEvent(ctx, insert, "submission")
}

// AppendBadge records an unlock. Unlocking the same badge twice for one
// profile yields ErrConflict.
func (r *eventRepo) AppendBadge(ctx context.Context, data BadgeEventData) error {
	insert := builder.Insert("badge_events").
		Set("profile_id", data.ProfileID).
		Set("badge_id", data.BadgeID).
		Set("badge_name", data.BadgeName)
	return r.insertEvent(ctx, insert, "badge")
}

func (r *eventRepo) AppendDiagnosis(ctx context.Context, data DiagnosisEventData) error {
	source := data.Source
	if source == "" {
		source = "heuristic"
	}
	insert := builder.Insert("diagnosis_events").
		Set("profile_id", data.ProfileID).
		Set("challenge_id", data.ChallengeID).
		Set("title", data.Title).
		Set("severity", data.Severity).
		Set("rule", data.Rule).
		Set("source", source)
	return r.insertEvent(ctx, insert, "diagnosis")
}

func (r *eventRepo) BadgeNames(ctx context.Context, profileID string) ([]string, error) {
	q := builder.Select("badge_name").
		From(entsql.Table("badge_events")).
		Where(entsql.EQ("profile_id", profileID)).
		OrderBy(entsql.Asc("sequence"))
	rows, err := queryRows(ctx, r.db, q)
	if err != nil {
		return nil, fmt.Errorf("query badges: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scan badge: %w", err)
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

func (r *eventRepo) AssessmentAverages(ctx context.Context) (map[string]int, error) {
	q := builder.Select("profile_id", "scores").
		From(entsql.Table("assessment_events")).
		OrderBy(entsql.Desc("sequence"))
	rows, err := queryRows(ctx, r.db, q)
	if err != nil {
		return nil, fmt.Errorf("query assessments: %w", err)
	}
	defer rows.Close()

	seen := make(map[string]bool)
	sums := make(map[string]int)
	counts := make(map[string]int)
	for rows.Next() {
		var (
			profileID string
			raw       sql.NullString
		)
		if err := rows.Scan(&profileID, &raw); err != nil {
			return nil, fmt.Errorf("scan assessment: %w", err)
		}
		if seen[profileID] {
			continue
		}
		seen[profileID] = true

		var scores map[string]int
		if err := decodeJSON(raw, &scores); err != nil {
			return nil, fmt.Errorf("decode scores: %w", err)
		}
		for cat, v := range scores {
			sums[cat] += v
			counts[cat]++
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	avg := make(map[string]int, len(sums))
	for cat, sum := range sums {
		avg[cat] = int(math.Round(float64(sum) / float64(counts[cat])))
	}
	return avg, nil
}

func (r *eventRepo) SubmissionStats(ctx context.Context) (SubmissionStats, error) {
	q := builder.Select(entsql.Count("*"), entsql.Sum("passed")).
		From(entsql.Table("submission_events"))
	var (
		stats  SubmissionStats
		passed sql.NullInt64
	)
	if err := queryRow(ctx, r.db, q).Scan(&stats.Total, &passed); err != nil {
		return SubmissionStats{}, fmt.Errorf("query submission stats: %w", errNoRows(err))
	}
	stats.Passed = int(passed.Int64)
	return stats, nil
}

func (r *eventRepo) DiagnosisTitleCounts(ctx context.Context, limit int) ([]TitleCount, error) {
	q := builder.Select("title", entsql.As(entsql.Count("*"), "n")).
		From(entsql.Table("diagnosis_events")).
		GroupBy("title").
		OrderBy(entsql.Desc("n"), entsql.Asc("title"))
	if limit > 0 {
		q.Limit(limit)
	}
	rows, err := queryRows(ctx, r.db, q)
	if err != nil {
		return nil, fmt.Errorf("query diagnosis counts: %w", err)
	}
	defer rows.Close()

	var out []TitleCount
	for rows.Next() {
		var tc TitleCount
		if err := rows.Scan(&tc.Title, &tc.Count); err != nil {
			return nil, fmt.Errorf("scan diagnosis count: %w", err)
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}
