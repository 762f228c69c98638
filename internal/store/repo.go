package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit     int       // max results (0 = unlimited)
	After     int64     // sequence > After
	Before    int64     // sequence < Before
	From      time.Time // timestamp >= From
	To        time.Time // timestamp <= To
	ProfileID string    // only events for this profile when set
}

// ProfileRecord is the persisted form of a student or admin profile.
type ProfileRecord struct {
	ID           string
	Name         string
	Role         string
	Rank         string
	Level        string
	Scores       map[string]int
	XP           int
	Completed    []string
	Streak       int
	BestStreak   int
	Badges       []string
	Failing      []string // challenges whose latest attempt failed
	SyncRate     int
	Calibrated   bool
	CreatedAt    time.Time
	LastActiveAt time.Time
}

// ProfileRepo persists profiles.
type ProfileRepo interface {
	// Create inserts a new profile. A name that collides case-insensitively
	// with an existing profile yields ErrConflict.
	Create(ctx context.Context, p *ProfileRecord) error

	// Get returns the profile with id, or ErrNotFound.
	Get(ctx context.Context, id string) (*ProfileRecord, error)

	// GetByName looks a profile up case-insensitively, or returns ErrNotFound.
	GetByName(ctx context.Context, name string) (*ProfileRecord, error)

	// List returns all profiles, most recently active first.
	List(ctx context.Context) ([]ProfileRecord, error)

	// Update overwrites every mutable field of an existing profile.
	Update(ctx context.Context, p *ProfileRecord) error

	// Delete removes a profile and, through cascading keys, its events.
	Delete(ctx context.Context, id string) error
}

// AssessmentEventData captures a completed calibration quiz.
type AssessmentEventData struct {
	ProfileID      string
	Rank           string
	Level          string
	Percent        int
	TotalCorrect   int
	TotalQuestions int
	Scores         map[string]int
}

// SubmissionEventData captures one graded challenge submission.
type SubmissionEventData struct {
	ProfileID     string
	ChallengeID   string
	Passed        bool
	XP            int
	FeedbackTitle string
	Severity      string
}

// BadgeEventData captures a badge unlock.
type BadgeEventData struct {
	ProfileID string
	BadgeID   string
	BadgeName string
}

// DiagnosisEventData captures one diagnostic result shown to a learner.
type DiagnosisEventData struct {
	ProfileID   string
	ChallengeID string
	Title       string
	Severity    string
	Rule        string
	Source      string // "heuristic" or "llm"
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLM request with its sequence metadata.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates token usage for one purpose or model.
type LLMUsage struct {
	Purpose      string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// Feed item kinds.
const (
	KindAssessment = "assessment"
	KindSubmission = "submission"
	KindBadge      = "badge"
	KindDiagnosis  = "diagnosis"
)

// FeedItem is one row of the merged activity feed.
type FeedItem struct {
	Sequence    int64     `json:"sequence"`
	Kind        string    `json:"kind"`
	ProfileID   string    `json:"profile_id,omitempty"`
	ProfileName string    `json:"profile_name,omitempty"`
	Summary     string    `json:"summary"`
	Timestamp   time.Time `json:"timestamp"`
}

// SubmissionStats summarizes all submissions.
type SubmissionStats struct {
	Total  int
	Passed int
}

// TitleCount is a diagnostic title with the number of times it was shown.
type TitleCount struct {
	Title string `json:"title"`
	Count int    `json:"count"`
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	AppendAssessment(ctx context.Context, data AssessmentEventData) error
	AppendSubmission(ctx context.Context, data SubmissionEventData) error
	AppendBadge(ctx context.Context, data BadgeEventData) error
	AppendDiagnosis(ctx context.Context, data DiagnosisEventData) error

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryRecent merges every activity table into one feed ordered by
	// descending sequence.
	QueryRecent(ctx context.Context, opts QueryOpts) ([]FeedItem, error)

	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns a single LLM event, or ErrNotFound.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)

	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)

	// BadgeNames lists the badges a profile unlocked, in unlock order.
	BadgeNames(ctx context.Context, profileID string) ([]string, error)

	// AssessmentAverages averages each category score over every
	// profile's latest assessment.
	AssessmentAverages(ctx context.Context) (map[string]int, error)

	SubmissionStats(ctx context.Context) (SubmissionStats, error)

	// DiagnosisTitleCounts returns the most frequent diagnostic titles.
	DiagnosisTitleCounts(ctx context.Context, limit int) ([]TitleCount, error)
}
