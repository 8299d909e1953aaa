package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abhisek/tutorloop/internal/concept"
	"github.com/abhisek/tutorloop/internal/llm"
)

// LLMExtractor implements Extractor using the LLM provider.
type LLMExtractor struct {
	provider llm.Provider
	config   Config
}

// NewLLMExtractor creates an extractor backed by the given provider.
func NewLLMExtractor(provider llm.Provider, cfg Config) *LLMExtractor {
	return &LLMExtractor{provider: provider, config: cfg}
}

// extractionOutput is the raw LLM response before validation.
type extractionOutput struct {
	Concepts []struct {
		Name       string   `json:"name"`
		Definition string   `json:"definition"`
		Relations  []string `json:"relations"`
		Difficulty int      `json:"difficulty"`
	} `json:"concepts"`
	Notes string `json:"notes"`
}

// Extract pulls concepts out of raw study material. Material that
// yields zero concepts is an IngestionError, not an empty result.
func (e *LLMExtractor) Extract(ctx context.Context, material string) (*Result, error) {
	material = strings.TrimSpace(material)
	if material == "" {
		return nil, &IngestionError{Reason: "material is empty"}
	}
	if e.config.MaxMaterialBytes > 0 && len(material) > e.config.MaxMaterialBytes {
		material = material[:e.config.MaxMaterialBytes]
	}

	ctx = llm.WithPurpose(ctx, "concept-extract")

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: userPromptPrefix + material},
		},
		Schema:      ExtractionSchema,
		MaxTokens:   e.config.MaxTokens,
		Temperature: e.config.Temperature,
	}

	resp, err := e.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("extraction failed: %w", err)
	}

	var raw extractionOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse extraction response: %w", err)
	}

	result := &Result{Notes: raw.Notes}
	for _, c := range raw.Concepts {
		if strings.TrimSpace(c.Name) == "" {
			continue
		}
		result.Concepts = append(result.Concepts, concept.Node{
			Name:       strings.TrimSpace(c.Name),
			Definition: c.Definition,
			Relations:  c.Relations,
			Difficulty: c.Difficulty,
		})
	}

	if len(result.Concepts) == 0 {
		return nil, &IngestionError{Reason: "no concepts found in material"}
	}

	return result, nil
}
