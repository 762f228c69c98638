package llm

import "context"

// Purposes tag each request for the usage report.
const (
	PurposeCodeReview = "code-review"
	PurposeHint       = "challenge-hint"
)

type purposeKey struct{}

// WithPurpose labels requests made with ctx.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the label set by WithPurpose, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok && v != "" {
		return v
	}
	return "unknown"
}
