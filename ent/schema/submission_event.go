package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// SubmissionEvent records one graded challenge submission.
type SubmissionEvent struct {
	ent.Schema
}

func (SubmissionEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (SubmissionEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("challenge_id"),
		field.Bool("passed"),
		field.Int("xp").
			Default(0).
			Comment("XP awarded; zero unless this was the first clear"),
		field.String("feedback_title").Default(""),
		field.String("severity").Default(""),
		field.String("profile_id"),
	}
}

func (SubmissionEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("profile_id", "challenge_id"),
	}
}
