package store

import (
	"slices"
	"testing"

	"entgo.io/ent"
	sqlschema "entgo.io/ent/dialect/sql/schema"

	entschema "github.com/abhisek/syncrate/ent/schema"
)

func fieldNames(s ent.Interface) []string {
	var names []string
	for _, m := range s.Mixin() {
		for _, f := range m.Fields() {
			names = append(names, f.Descriptor().Name)
		}
	}
	for _, f := range s.Fields() {
		names = append(names, f.Descriptor().Name)
	}
	slices.Sort(names)
	return names
}

func columnNames(t *sqlschema.Table, withID bool) []string {
	var names []string
	for _, c := range t.Columns {
		if c.Name == "id" && !withID {
			continue
		}
		names = append(names, c.Name)
	}
	slices.Sort(names)
	return names
}

// The migration tables are maintained by hand; they must match the ent
// schema definitions column for column.
func TestTablesMatchEntSchema(t *testing.T) {
	tests := []struct {
		table  *sqlschema.Table
		schema ent.Interface
		withID bool
	}{
		{ProfilesTable, entschema.Profile{}, true},
		{AssessmentEventsTable, entschema.AssessmentEvent{}, false},
		{SubmissionEventsTable, entschema.SubmissionEvent{}, false},
		{BadgeEventsTable, entschema.BadgeEvent{}, false},
		{DiagnosisEventsTable, entschema.DiagnosisEvent{}, false},
		{LlmRequestEventsTable, entschema.LLMRequestEvent{}, false},
	}
	if len(tests) != len(Tables) {
		t.Fatalf("%d tables checked, %d migrated", len(tests), len(Tables))
	}
	for _, tt := range tests {
		t.Run(tt.table.Name, func(t *testing.T) {
			got := columnNames(tt.table, tt.withID)
			want := fieldNames(tt.schema)
			if !slices.Equal(got, want) {
				t.Errorf("columns = %v, ent fields = %v", got, want)
			}
		})
	}
}
