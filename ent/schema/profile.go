package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Profile is a student or admin with calibration and progress state.
type Profile struct {
	ent.Schema
}

func (Profile) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable(),
		field.String("name").
			NotEmpty(),
		field.String("name_key").
			Unique().
			Comment("Lowercased name for case-insensitive lookups"),
		field.String("role").
			Default("student"),
		field.String("rank").Default(""),
		field.String("level").Default(""),
		field.JSON("scores", map[string]int{}).Optional(),
		field.Int("xp").Default(0),
		field.JSON("completed", []string{}).Optional(),
		field.Int("streak").Default(0),
		field.Int("best_streak").Default(0),
		field.JSON("badges", []string{}).Optional(),
		field.JSON("failing", []string{}).
			Optional().
			Comment("Challenges attempted but not yet cleared"),
		field.Int("sync_rate").Default(0),
		field.Bool("calibrated").Default(false),
		field.Int64("created_at"),
		field.Int64("last_active_at"),
	}
}

func (Profile) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("name_key").Unique(),
	}
}
