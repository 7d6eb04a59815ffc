package explain

import "github.com/aginor/exphil/internal/llm"

// Schema is the structured output requested for an explanation.
var Schema = &llm.Schema{
	Name:        "question-explanation",
	Description: "Short explanation of why the correct option answers a philosophy question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"explanation": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "2-4 sentences in Norwegian (bokmål) explaining the correct answer",
			},
		},
		"required":             []any{"explanation"},
		"additionalProperties": false,
	},
}
