package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Provider failures. The retry decorator branches on these types; Brief
// turns them into the short line shown to a learner waiting on a review
// or hint.

// ErrRateLimit is returned on HTTP 429.
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("llm: rate limited, retry after %s: %v", e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("llm: rate limited: %v", e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse means the model output was not valid JSON or did not
// match the review or hint schema. Content keeps the raw output for the
// llm_request_events log.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("llm: invalid response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable covers transport failures, 5xx responses and a
// drained mock.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err == nil {
		return "llm: provider unavailable"
	}
	return fmt.Sprintf("llm: provider unavailable: %v", e.Err)
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded means the output was cut off at MaxTokens.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "llm: response truncated at max tokens"
}

// Brief describes err in a few words for the editor status line. Errors
// that are not provider failures come back verbatim.
func Brief(err error) string {
	if err == nil {
		return ""
	}
	var (
		rl      *ErrRateLimit
		inv     *ErrInvalidResponse
		down    *ErrProviderUnavailable
		trimmed *ErrMaxTokensExceeded
	)
	switch {
	case errors.As(err, &rl):
		if rl.RetryAfter > 0 {
			return fmt.Sprintf("reviewer is busy, try again in %s", rl.RetryAfter.Round(time.Second))
		}
		return "reviewer is busy, try again shortly"
	case errors.As(err, &down):
		return "reviewer is offline"
	case errors.As(err, &inv):
		return "reviewer sent an unreadable answer"
	case errors.As(err, &trimmed):
		return "reviewer's answer was cut off"
	case errors.Is(err, context.DeadlineExceeded):
		return "reviewer timed out"
	}
	return err.Error()
}
