package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// AssessmentEvent records one completed calibration quiz.
type AssessmentEvent struct {
	ent.Schema
}

func (AssessmentEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (AssessmentEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("rank"),
		field.String("level"),
		field.Int("percent"),
		field.Int("total_correct"),
		field.Int("total_questions"),
		field.JSON("scores", map[string]int{}).Optional(),
		field.String("profile_id"),
	}
}

func (AssessmentEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("profile_id"),
	}
}
