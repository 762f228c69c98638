package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is one canned reply.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockReview builds a reply shaped like a code review: a title, a
// message, a severity and optional suggestions.
func MockReview(title, message, severity string, suggestions ...string) MockResponse {
	if suggestions == nil {
		suggestions = []string{}
	}
	body, _ := json.Marshal(map[string]any{
		"title":       title,
		"message":     message,
		"suggestions": suggestions,
		"severity":    severity,
	})
	return MockResponse{Content: body, Usage: Usage{InputTokens: 120, OutputTokens: 40, TotalTokens: 160}}
}

// MockHint builds a reply carrying a one-line hint.
func MockHint(text string) MockResponse {
	body, _ := json.Marshal(map[string]string{"hint": text})
	return MockResponse{Content: body, Usage: Usage{InputTokens: 80, OutputTokens: 12, TotalTokens: 92}}
}

// MockProvider replays canned reviews and hints in order and records the
// requests it saw. Once the queue is drained it answers
// ErrProviderUnavailable, the same as a reviewer that went offline.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	purposes  []string
	Calls     []Request
}

func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

func (m *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)
	m.purposes = append(m.purposes, PurposeFrom(ctx))
	if len(m.responses) == 0 {
		return nil, &ErrProviderUnavailable{}
	}
	next := m.responses[0]
	m.responses = m.responses[1:]
	if next.Err != nil {
		return nil, next.Err
	}
	return &Response{Content: next.Content, Usage: next.Usage, Model: "mock", StopReason: "end"}, nil
}

func (m *MockProvider) ModelID() string { return "mock" }

// AddResponse queues another reply.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	m.responses = append(m.responses, resp)
	m.mu.Unlock()
}

func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// Purposes lists the purpose tag of every request seen, in order.
func (m *MockProvider) Purposes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.purposes...)
}
