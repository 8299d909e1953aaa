package games

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/tutorloop/internal/concept"
	"github.com/abhisek/tutorloop/internal/llm"
	"github.com/abhisek/tutorloop/internal/tracker"
)

// GenerationError reasons.
const (
	ReasonNoConcepts       = "no-concepts"
	ReasonInvalidStructure = "invalid-structure"
	ReasonCapability       = "capability-failure"
)

// GenerationError indicates a batch could not be produced: either the
// capability failed or its output never passed structural validation
// within the attempt budget.
type GenerationError struct {
	Reason string
	Err    error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("game generation failed (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("game generation failed (%s)", e.Reason)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// GenerateInput carries one batch request.
type GenerateInput struct {
	Type    Type
	Graph   *concept.Graph
	Tracker *tracker.Tracker

	// BatchSize overrides the configured size when > 0.
	BatchSize int

	// Exclude removes concepts from selection (e.g. just-practiced).
	Exclude []string

	// Nuances are caller-requested aspects to weave into the content.
	Nuances []string
}

// Generator produces validated game batches.
type Generator struct {
	provider llm.Provider
	cfg      Config
}

// NewGenerator creates a generator.
func NewGenerator(provider llm.Provider, cfg Config) *Generator {
	return &Generator{provider: provider, cfg: cfg}
}

// Generate fills a batch of games of one variant, derived from the
// highest-priority concepts. Slots are filled with bounded concurrency;
// each slot has its own regeneration budget for structurally invalid
// output. Nothing is committed anywhere on failure; the caller owns
// the session.
func (g *Generator) Generate(ctx context.Context, in GenerateInput) (*Batch, error) {
	concepts := selectConcepts(in.Graph, in.Tracker, in.Exclude, g.cfg.MaxConcepts)
	if len(concepts) == 0 {
		return nil, &GenerationError{Reason: ReasonNoConcepts}
	}

	var nodes []*concept.Node
	for _, name := range concepts {
		if n, ok := in.Graph.Get(name); ok {
			nodes = append(nodes, n)
		}
	}

	size := in.BatchSize
	if size <= 0 {
		size = g.cfg.BatchSize
	}

	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()
	ctx = llm.WithPurpose(ctx, "game-gen")

	specs := make([]Spec, size)
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.cfg.Concurrency)
	for i := 0; i < size; i++ {
		eg.Go(func() error {
			nuances := in.Nuances
			if size > 1 {
				nuances = append(append([]string{}, nuances...),
					fmt.Sprintf("variation %d of %d, distinct from the others", i+1, size))
			}
			spec, err := g.generateOne(ctx, in.Type, nodes, concepts, nuances, in.Graph)
			if err != nil {
				return err
			}
			specs[i] = *spec
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		var genErr *GenerationError
		if errors.As(err, &genErr) {
			return nil, err
		}
		return nil, &GenerationError{Reason: ReasonCapability, Err: err}
	}

	return &Batch{Type: in.Type, Concepts: concepts, Games: specs}, nil
}

// generateOne fills a single slot. Provider errors are terminal (the
// provider's own retry layer has already run); validation failures
// trigger a fresh generation call, never a retry of the same output.
func (g *Generator) generateOne(ctx context.Context, t Type, nodes []*concept.Node, concepts, nuances []string, graph *concept.Graph) (*Spec, error) {
	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildGamePrompt(t, nodes, nuances, nil)},
		},
		Schema:      schemaFor(t),
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	}

	var lastErr error
	for attempt := 0; attempt < g.cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, &GenerationError{Reason: ReasonCapability, Err: err}
		}

		resp, err := g.provider.Generate(ctx, req)
		if err != nil {
			return nil, &GenerationError{Reason: ReasonCapability, Err: err}
		}

		spec, err := decodeSpec(t, resp.Content, concepts)
		if err == nil {
			if err = Validate(spec, graph); err == nil {
				return spec, nil
			}
		}
		lastErr = err
	}
	return nil, &GenerationError{Reason: ReasonInvalidStructure, Err: lastErr}
}

// decodeSpec parses one variant payload into a tagged Spec.
func decodeSpec(t Type, content json.RawMessage, concepts []string) (*Spec, error) {
	spec := &Spec{
		ID:       uuid.NewString(),
		Type:     t,
		Concepts: concepts,
	}
	var err error
	switch t {
	case TypeSwipeSort:
		var s SwipeSort
		err = json.Unmarshal(content, &s)
		spec.SwipeSort = &s
	case TypeImpostor:
		var s Impostor
		err = json.Unmarshal(content, &s)
		spec.Impostor = &s
	case TypeMatchPairs:
		var s MatchPairs
		err = json.Unmarshal(content, &s)
		spec.MatchPairs = &s
	default:
		err = fmt.Errorf("unknown game type %q", t)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse game payload: %w", err)
	}
	return spec, nil
}
