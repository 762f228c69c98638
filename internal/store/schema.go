package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

var (
	// ProfilesColumns holds the columns for the "profiles" table.
	ProfilesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Unique: true},
		{Name: "name", Type: field.TypeString},
		{Name: "name_key", Type: field.TypeString, Unique: true},
		{Name: "role", Type: field.TypeString, Default: "student"},
		{Name: "rank", Type: field.TypeString, Default: ""},
		{Name: "level", Type: field.TypeString, Default: ""},
		{Name: "scores", Type: field.TypeJSON, Nullable: true},
		{Name: "xp", Type: field.TypeInt, Default: 0},
		{Name: "completed", Type: field.TypeJSON, Nullable: true},
		{Name: "streak", Type: field.TypeInt, Default: 0},
		{Name: "best_streak", Type: field.TypeInt, Default: 0},
		{Name: "badges", Type: field.TypeJSON, Nullable: true},
		{Name: "failing", Type: field.TypeJSON, Nullable: true},
		{Name: "sync_rate", Type: field.TypeInt, Default: 0},
		{Name: "calibrated", Type: field.TypeBool, Default: false},
		{Name: "created_at", Type: field.TypeInt64},
		{Name: "last_active_at", Type: field.TypeInt64},
	}
	// ProfilesTable holds the schema information for the "profiles" table.
	ProfilesTable = &schema.Table{
		Name:       "profiles",
		Columns:    ProfilesColumns,
		PrimaryKey: []*schema.Column{ProfilesColumns[0]},
	}

	// AssessmentEventsColumns holds the columns for the "assessment_events" table.
	AssessmentEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "created_at", Type: field.TypeInt64},
		{Name: "rank", Type: field.TypeString},
		{Name: "level", Type: field.TypeString},
		{Name: "percent", Type: field.TypeInt},
		{Name: "total_correct", Type: field.TypeInt},
		{Name: "total_questions", Type: field.TypeInt},
		{Name: "scores", Type: field.TypeJSON, Nullable: true},
		{Name: "profile_id", Type: field.TypeString},
	}
	// AssessmentEventsTable holds the schema information for the "assessment_events" table.
	AssessmentEventsTable = &schema.Table{
		Name:       "assessment_events",
		Columns:    AssessmentEventsColumns,
		PrimaryKey: []*schema.Column{AssessmentEventsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "assessment_events_profiles_assessments",
				Columns:    []*schema.Column{AssessmentEventsColumns[9]},
				RefColumns: []*schema.Column{ProfilesColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "assessmentevent_profile_id",
				Unique:  false,
				Columns: []*schema.Column{AssessmentEventsColumns[9]},
			},
		},
	}

	// SubmissionEventsColumns holds the columns for the "submission_events" table.
	SubmissionEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "created_at", Type: field.TypeInt64},
		{Name: "challenge_id", Type: field.TypeString},
		{Name: "passed", Type: field.TypeBool},
		{Name: "xp", Type: field.TypeInt, Default: 0},
		{Name: "feedback_title", Type: field.TypeString, Default: ""},
		{Name: "severity", Type: field.TypeString, Default: ""},
		{Name: "profile_id", Type: field.TypeString},
	}
	// SubmissionEventsTable holds the schema information for the "submission_events" table.
	SubmissionEventsTable = &schema.Table{
		Name:       "submission_events",
		Columns:    SubmissionEventsColumns,
		PrimaryKey: []*schema.Column{SubmissionEventsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "submission_events_profiles_submissions",
				Columns:    []*schema.Column{SubmissionEventsColumns[8]},
				RefColumns: []*schema.Column{ProfilesColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "submissionevent_profile_id_challenge_id",
				Unique:  false,
				Columns: []*schema.Column{SubmissionEventsColumns[8], SubmissionEventsColumns[3]},
			},
		},
	}

	// BadgeEventsColumns holds the columns for the "badge_events" table.
	BadgeEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "created_at", Type: field.TypeInt64},
		{Name: "badge_id", Type: field.TypeString},
		{Name: "badge_name", Type: field.TypeString},
		{Name: "profile_id", Type: field.TypeString},
	}
	// BadgeEventsTable holds the schema information for the "badge_events" table.
	BadgeEventsTable = &schema.Table{
		Name:       "badge_events",
		Columns:    BadgeEventsColumns,
		PrimaryKey: []*schema.Column{BadgeEventsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "badge_events_profiles_badges",
				Columns:    []*schema.Column{BadgeEventsColumns[5]},
				RefColumns: []*schema.Column{ProfilesColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "badgeevent_profile_id_badge_id",
				Unique:  true,
				Columns: []*schema.Column{BadgeEventsColumns[5], BadgeEventsColumns[3]},
			},
		},
	}

	// DiagnosisEventsColumns holds the columns for the "diagnosis_events" table.
	// profile_id is empty for anonymous diagnoses, so it carries no foreign key.
	DiagnosisEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "created_at", Type: field.TypeInt64},
		{Name: "profile_id", Type: field.TypeString, Default: ""},
		{Name: "challenge_id", Type: field.TypeString, Default: ""},
		{Name: "title", Type: field.TypeString},
		{Name: "severity", Type: field.TypeString},
		{Name: "rule", Type: field.TypeString, Default: ""},
		{Name: "source", Type: field.TypeString, Default: "heuristic"},
	}
	// DiagnosisEventsTable holds the schema information for the "diagnosis_events" table.
	DiagnosisEventsTable = &schema.Table{
		Name:       "diagnosis_events",
		Columns:    DiagnosisEventsColumns,
		PrimaryKey: []*schema.Column{DiagnosisEventsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "diagnosisevent_title",
				Unique:  false,
				Columns: []*schema.Column{DiagnosisEventsColumns[5]},
			},
		},
	}

	// LlmRequestEventsColumns holds the columns for the "llm_request_events" table.
	LlmRequestEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "created_at", Type: field.TypeInt64},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt},
		{Name: "output_tokens", Type: field.TypeInt},
		{Name: "latency_ms", Type: field.TypeInt64},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Nullable: true},
		{Name: "request_body", Type: field.TypeString, Nullable: true, Size: 2147483647},
		{Name: "response_body", Type: field.TypeString, Nullable: true, Size: 2147483647},
	}
	// LlmRequestEventsTable holds the schema information for the "llm_request_events" table.
	LlmRequestEventsTable = &schema.Table{
		Name:       "llm_request_events",
		Columns:    LlmRequestEventsColumns,
		PrimaryKey: []*schema.Column{LlmRequestEventsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "llmrequestevent_purpose",
				Unique:  false,
				Columns: []*schema.Column{LlmRequestEventsColumns[5]},
			},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		ProfilesTable,
		AssessmentEventsTable,
		SubmissionEventsTable,
		BadgeEventsTable,
		DiagnosisEventsTable,
		LlmRequestEventsTable,
	}
)

func init() {
	AssessmentEventsTable.ForeignKeys[0].RefTable = ProfilesTable
	SubmissionEventsTable.ForeignKeys[0].RefTable = ProfilesTable
	BadgeEventsTable.ForeignKeys[0].RefTable = ProfilesTable
}
