package ingest

import "github.com/abhisek/tutorloop/internal/llm"

// ExtractionSchema defines the JSON schema for concept extraction
// responses.
var ExtractionSchema = &llm.Schema{
	Name:        "concept-extraction",
	Description: "Concepts extracted from study material, with relations and cleaned notes",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"concepts": map[string]any{
				"type":        "array",
				"description": "Every distinct learnable concept found in the material",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"name": map[string]any{
							"type":        "string",
							"description": "Short canonical name of the concept, as used in the material",
						},
						"definition": map[string]any{
							"type":        "string",
							"description": "One or two sentence definition grounded in the material",
						},
						"relations": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "Names of other extracted concepts this one relates to",
						},
						"difficulty": map[string]any{
							"type":        "integer",
							"minimum":     1,
							"maximum":     5,
							"description": "Estimated difficulty from 1 (easy) to 5 (hard)",
						},
					},
					"required":             []any{"name", "definition", "relations", "difficulty"},
					"additionalProperties": false,
				},
			},
			"notes": map[string]any{
				"type":        "string",
				"description": "The material reorganized as clean markdown notes, preserving all content",
			},
		},
		"required":             []any{"concepts", "notes"},
		"additionalProperties": false,
	},
}
