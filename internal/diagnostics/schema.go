package diagnostics

import "github.com/abhisek/syncrate/internal/llm"

// ReviewSchema defines the JSON schema for LLM code review responses.
var ReviewSchema = &llm.Schema{
	Name:        "code-review",
	Description: "Feedback on a learner's C# solution to a coding challenge",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "Short headline for the main problem, at most five words",
			},
			"message": map[string]any{
				"type":        "string",
				"description": "One or two sentences explaining what is wrong",
			},
			"suggestions": map[string]any{
				"type":        "array",
				"minItems":    1,
				"maxItems":    3,
				"items":       map[string]any{"type": "string"},
				"description": "Concrete next steps the learner can try",
			},
			"severity": map[string]any{
				"type":        "string",
				"enum":        []any{"minor", "moderate", "critical"},
				"description": "critical when the code cannot work, minor for style",
			},
		},
		"required":             []any{"title", "message", "suggestions", "severity"},
		"additionalProperties": false,
	},
}

// HintSchema defines the JSON schema for challenge hint responses.
var HintSchema = &llm.Schema{
	Name:        "challenge-hint",
	Description: "A single nudge toward solving a coding challenge",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"hint": map[string]any{
				"type":        "string",
				"description": "One sentence hint that does not reveal the full solution",
			},
		},
		"required":             []any{"hint"},
		"additionalProperties": false,
	},
}
