// Package ingest turns raw study material into structured concepts.
package ingest

import (
	"context"
	"fmt"

	"github.com/abhisek/tutorloop/internal/concept"
)

// Result is the structured output of extraction: the concepts found in
// the material plus a cleaned-up markdown rendition of the notes.
type Result struct {
	Concepts []concept.Node
	Notes    string
}

// Extractor extracts concepts from raw study material.
type Extractor interface {
	Extract(ctx context.Context, material string) (*Result, error)
}

// IngestionError indicates the material could not be turned into a
// usable concept set.
type IngestionError struct {
	Reason string
	Err    error
}

func (e *IngestionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ingestion failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("ingestion failed: %s", e.Reason)
}

func (e *IngestionError) Unwrap() error { return e.Err }

// Config holds extraction limits.
type Config struct {
	// MaxTokens is the LLM response budget. Notes plus concepts can run
	// long for dense material.
	MaxTokens int

	// Temperature for extraction. Low: extraction should be faithful,
	// not creative.
	Temperature float64

	// MaxMaterialBytes caps the raw material size sent to the LLM.
	MaxMaterialBytes int
}

// DefaultConfig returns the default extraction configuration.
func DefaultConfig() Config {
	return Config{
		MaxTokens:        4096,
		Temperature:      0.2,
		MaxMaterialBytes: 64 * 1024,
	}
}
