package games

import "github.com/abhisek/tutorloop/internal/llm"

// SwipeSortSchema defines the JSON schema for swipe-sort generation
// responses.
var SwipeSortSchema = &llm.Schema{
	Name:        "swipe-sort-game",
	Description: "A two-category card sorting game",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"left_category": map[string]any{
				"type":        "string",
				"description": "Label of the left bucket",
			},
			"right_category": map[string]any{
				"type":        "string",
				"description": "Label of the right bucket",
			},
			"cards": map[string]any{
				"type":        "array",
				"minItems":    swipeMinCards,
				"maxItems":    swipeMaxCards,
				"items":       map[string]any{"type": "string"},
				"description": "Statements to sort. Each belongs to exactly one category. No duplicates.",
			},
			"answer_key": map[string]any{
				"type":                 "object",
				"additionalProperties": map[string]any{"type": "string", "enum": []any{"left", "right"}},
				"description":          "Correct side for every card, keyed by exact card text",
			},
			"why": map[string]any{
				"type":                 "object",
				"additionalProperties": map[string]any{"type": "string"},
				"description":          "One-sentence explanation of the correct side, keyed by exact card text",
			},
			"card_concepts": map[string]any{
				"type":                 "object",
				"additionalProperties": map[string]any{"type": "string"},
				"description":          "The concept each card exercises, keyed by exact card text. Use the provided concept names.",
			},
		},
		"required":             []any{"left_category", "right_category", "cards", "answer_key", "why", "card_concepts"},
		"additionalProperties": false,
	},
}

// ImpostorSchema defines the JSON schema for impostor generation
// responses.
var ImpostorSchema = &llm.Schema{
	Name:        "impostor-game",
	Description: "An odd-one-out game with exactly one impostor option",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"options": map[string]any{
				"type":        "array",
				"minItems":    impostorOptionCount,
				"maxItems":    impostorOptionCount,
				"items":       map[string]any{"type": "string"},
				"description": "Exactly 4 options. 3 share the target concept, 1 violates it. Similar enough to require careful thinking.",
			},
			"impostor": map[string]any{
				"type":        "string",
				"description": "The one option that does not belong. Must match an entry in options exactly.",
			},
			"why": map[string]any{
				"type":        "string",
				"description": "Why the impostor does not belong and what the others share",
			},
		},
		"required":             []any{"options", "impostor", "why"},
		"additionalProperties": false,
	},
}

// MatchPairsSchema defines the JSON schema for match-pairs generation
// responses.
var MatchPairsSchema = &llm.Schema{
	Name:        "match-pairs-game",
	Description: "A matching game pairing terms with their definitions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"pairs": map[string]any{
				"type":     "array",
				"minItems": pairsMin,
				"maxItems": pairsMax,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"left": map[string]any{
							"type":        "string",
							"description": "Term or concept name",
						},
						"right": map[string]any{
							"type":        "string",
							"description": "Its definition, 1-2 sentences max",
						},
					},
					"required":             []any{"left", "right"},
					"additionalProperties": false,
				},
				"description": "Correct associations. Left and right items must each be unique.",
			},
		},
		"required":             []any{"pairs"},
		"additionalProperties": false,
	},
}

// schemaFor returns the response schema for a variant.
func schemaFor(t Type) *llm.Schema {
	switch t {
	case TypeSwipeSort:
		return SwipeSortSchema
	case TypeImpostor:
		return ImpostorSchema
	default:
		return MatchPairsSchema
	}
}
