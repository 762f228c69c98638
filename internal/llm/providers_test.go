package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	"google.golang.org/genai"
)

func reviewRequest() Request {
	return Request{
		System:    "You review beginner C# code.",
		Messages:  []Message{{Role: RoleUser, Content: "Review this."}},
		MaxTokens: 256,
		Schema: &Schema{
			Name: "providers-test-review",
			Definition: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"title": map[string]any{"type": "string"},
				},
				"required": []any{"title"},
			},
		},
	}
}

func anthropicServer(t *testing.T, status int, body any) *AnthropicProvider {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)

	p, err := NewAnthropicProvider(
		AnthropicConfig{APIKey: "test-key", Model: "claude-haiku"},
		option.WithBaseURL(srv.URL),
		option.WithMaxRetries(0),
	)
	if err != nil {
		t.Fatalf("NewAnthropicProvider: %v", err)
	}
	return p
}

func TestAnthropicProvider_StructuredOutput(t *testing.T) {
	p := anthropicServer(t, http.StatusOK, map[string]any{
		"id":          "msg_1",
		"type":        "message",
		"role":        "assistant",
		"content":     []map[string]any{{"type": "text", "text": `{"title":"Logic Error"}`}},
		"model":       "claude-haiku-4-5",
		"stop_reason": "end_turn",
		"usage":       map[string]any{"input_tokens": 40, "output_tokens": 12},
	})

	resp, err := p.Generate(context.Background(), reviewRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"title":"Logic Error"}` {
		t.Errorf("content = %s", resp.Content)
	}
	if resp.Usage.TotalTokens != 52 {
		t.Errorf("TotalTokens = %d, want 52", resp.Usage.TotalTokens)
	}
	if resp.StopReason != "end" {
		t.Errorf("StopReason = %q, want end", resp.StopReason)
	}
}

func TestAnthropicProvider_SchemaMismatch(t *testing.T) {
	p := anthropicServer(t, http.StatusOK, map[string]any{
		"id":          "msg_2",
		"type":        "message",
		"role":        "assistant",
		"content":     []map[string]any{{"type": "text", "text": `{"message":"no title"}`}},
		"model":       "claude-haiku-4-5",
		"stop_reason": "end_turn",
		"usage":       map[string]any{"input_tokens": 1, "output_tokens": 1},
	})

	_, err := p.Generate(context.Background(), reviewRequest())
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %T (%v)", err, err)
	}
}

func TestAnthropicProvider_ErrorMapping(t *testing.T) {
	errBody := map[string]any{"type": "error", "error": map[string]any{"type": "api_error", "message": "nope"}}

	p := anthropicServer(t, http.StatusTooManyRequests, errBody)
	_, err := p.Generate(context.Background(), reviewRequest())
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Errorf("429: expected ErrRateLimit, got %T", err)
	}

	p = anthropicServer(t, http.StatusBadGateway, errBody)
	_, err = p.Generate(context.Background(), reviewRequest())
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Errorf("502: expected ErrProviderUnavailable, got %T", err)
	}
}

func openAIServer(t *testing.T, status int, body any) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv.URL + "/v1"
}

func chatCompletion(content, finish string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 30, "completion_tokens": 10, "total_tokens": 40},
	}
}

func TestOpenAIProvider_StructuredOutput(t *testing.T) {
	url := openAIServer(t, http.StatusOK, chatCompletion(`{"title":"Typo Detected"}`, "stop"))
	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "k", Model: "gpt-4o-mini", BaseURL: url})
	if err != nil {
		t.Fatal(err)
	}

	resp, err := p.Generate(context.Background(), reviewRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Usage.InputTokens != 30 || resp.Usage.OutputTokens != 10 {
		t.Errorf("usage = %+v", resp.Usage)
	}
	if resp.Model != "gpt-4o-mini" {
		t.Errorf("Model = %q", resp.Model)
	}
}

func TestOpenAIProvider_Truncated(t *testing.T) {
	url := openAIServer(t, http.StatusOK, chatCompletion(`{"title":"x"}`, "length"))
	p, _ := NewOpenAIProvider(OpenAIConfig{APIKey: "k", Model: "gpt-4o-mini", BaseURL: url})

	resp, err := p.Generate(context.Background(), reviewRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StopReason != "max_tokens" {
		t.Errorf("StopReason = %q, want max_tokens", resp.StopReason)
	}
}

func TestOpenAIProvider_NoChoices(t *testing.T) {
	body := chatCompletion("", "stop")
	body["choices"] = []map[string]any{}
	url := openAIServer(t, http.StatusOK, body)
	p, _ := NewOpenAIProvider(OpenAIConfig{APIKey: "k", Model: "gpt-4o-mini", BaseURL: url})

	_, err := p.Generate(context.Background(), reviewRequest())
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %T", err)
	}
}

func TestOpenRouterProvider_UsesCompatibleAPI(t *testing.T) {
	url := openAIServer(t, http.StatusOK, chatCompletion(`{"title":"Logic Error"}`, "stop"))
	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "k", Model: "google/gemini-2.5-flash", BaseURL: url})
	if err != nil {
		t.Fatal(err)
	}
	if p.ModelID() != "google/gemini-2.5-flash" {
		t.Errorf("ModelID = %q", p.ModelID())
	}
	if _, err := p.Generate(context.Background(), reviewRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestProviders_RequireAPIKey(t *testing.T) {
	if _, err := NewAnthropicProvider(AnthropicConfig{}); err == nil {
		t.Error("anthropic: expected error without key")
	}
	if _, err := NewOpenAIProvider(OpenAIConfig{}); err == nil {
		t.Error("openai: expected error without key")
	}
	if _, err := NewOpenRouterProvider(OpenRouterConfig{}); err == nil {
		t.Error("openrouter: expected error without key")
	}
	if _, err := NewGeminiProvider(context.Background(), GeminiConfig{}); err == nil {
		t.Error("gemini: expected error without key")
	}
}

func TestResolveModel(t *testing.T) {
	tests := []struct {
		name    string
		aliases map[string]string
		want    string
	}{
		{"claude-haiku", anthropicAliases, "claude-haiku-4-5"},
		{"claude-sonnet-4-20250514", anthropicAliases, "claude-sonnet-4-20250514"},
		{"gemini-flash", geminiAliases, "gemini-2.5-flash"},
		{"gpt-4o-mini", openaiAliases, "gpt-4o-mini"},
	}
	for _, tt := range tests {
		if got := resolveModel(tt.name, tt.aliases); got != tt.want {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestGeminiSchema(t *testing.T) {
	s := geminiSchema(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"severity":    map[string]any{"type": "string", "enum": []any{"minor", "moderate", "critical"}},
			"suggestions": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"line":        map[string]any{"type": []any{"integer", "null"}},
		},
		"required": []any{"severity"},
	})

	if s.Type != genai.TypeObject {
		t.Fatalf("Type = %s, want OBJECT", s.Type)
	}
	if got := len(s.Properties["severity"].Enum); got != 3 {
		t.Errorf("enum len = %d, want 3", got)
	}
	if s.Properties["suggestions"].Items.Type != genai.TypeString {
		t.Errorf("items type = %s", s.Properties["suggestions"].Items.Type)
	}
	line := s.Properties["line"]
	if line.Type != genai.TypeInteger || line.Nullable == nil || !*line.Nullable {
		t.Errorf("nullable integer not mapped: %+v", line)
	}
	if len(s.Required) != 1 {
		t.Errorf("Required = %v", s.Required)
	}
}
