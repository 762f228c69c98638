package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	schema := &Schema{
		Name: "validate-test",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title":    map[string]any{"type": "string", "minLength": 1},
				"severity": map[string]any{"type": "string", "enum": []any{"minor", "moderate", "critical"}},
				"score":    map[string]any{"type": "number", "minimum": 0, "maximum": 1},
			},
			"required":             []any{"title", "severity"},
			"additionalProperties": false,
		},
	}

	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"title":"Typo","severity":"minor","score":0.5}`, false},
		{"optional omitted", `{"title":"Typo","severity":"critical"}`, false},
		{"missing required", `{"title":"Typo"}`, true},
		{"bad enum", `{"title":"Typo","severity":"fatal"}`, true},
		{"out of range", `{"title":"Typo","severity":"minor","score":2}`, true},
		{"extra property", `{"title":"Typo","severity":"minor","x":1}`, true},
		{"malformed", `{title}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(schema, json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var inv *ErrInvalidResponse
				if !errors.As(err, &inv) {
					t.Errorf("got %T, want ErrInvalidResponse", err)
				}
			}
		})
	}
}

func TestValidate_NilSchema(t *testing.T) {
	if err := Validate(nil, json.RawMessage(`not even json`)); err != nil {
		t.Errorf("nil schema should pass: %v", err)
	}
}
