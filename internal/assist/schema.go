package assist

import "github.com/abhisek/methodo/internal/llm"

var suggestionsSchema = &llm.Schema{
	Name:        "answer-suggestions",
	Description: "Candidate answers for one methodology question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"suggestions": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"text":       map[string]any{"type": "string", "minLength": 1},
						"confidence": map[string]any{"type": "number", "minimum": 0, "maximum": 1},
					},
					"required":             []any{"text", "confidence"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"suggestions"},
		"additionalProperties": false,
	},
}

var diagramSchema = &llm.Schema{
	Name:        "mermaid-diagram",
	Description: "Mermaid source visualizing a practice session",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"mermaidCode":  map[string]any{"type": "string", "minLength": 1},
			"source":       map[string]any{"type": "string", "enum": []any{"example", "ai"}},
			"detectedType": map[string]any{"type": "string"},
		},
		"required":             []any{"mermaidCode", "source", "detectedType"},
		"additionalProperties": false,
	},
}

// suggestionsOutput mirrors suggestionsSchema.
type suggestionsOutput struct {
	Suggestions []Suggestion `json:"suggestions"`
}

// diagramOutput mirrors diagramSchema.
type diagramOutput struct {
	MermaidCode  string `json:"mermaidCode"`
	Source       string `json:"source"`
	DetectedType string `json:"detectedType"`
}
