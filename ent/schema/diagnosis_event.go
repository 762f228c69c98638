package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// DiagnosisEvent records one diagnostic result shown to a user.
type DiagnosisEvent struct {
	ent.Schema
}

func (DiagnosisEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (DiagnosisEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("profile_id").
			Default("").
			Comment("Empty for anonymous diagnoses"),
		field.String("challenge_id").Default(""),
		field.String("title"),
		field.String("severity"),
		field.String("rule").Default(""),
		field.String("source").
			Default("heuristic").
			Comment("heuristic or llm"),
	}
}

func (DiagnosisEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("title"),
	}
}
