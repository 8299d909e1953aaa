// Package tutor selects explanation styles from confusion state and
// produces adaptive explanations.
package tutor

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/tutorloop/internal/concept"
	"github.com/abhisek/tutorloop/internal/llm"
	"github.com/abhisek/tutorloop/internal/tracker"
)

// State is the tutor's per-session memory, carried on the session
// record.
type State struct {
	// ClarificationRequests counts confusion-signaling turns. Past a
	// small number the tutor drops to the direct style regardless of
	// scores.
	ClarificationRequests int `json:"clarification_requests"`

	// Understood is set once the learner demonstrates genuine
	// comprehension (and is not showing false confidence).
	Understood bool `json:"understood"`

	LastStyle Style `json:"last_style,omitempty"`
}

// RespondInput carries everything the tutor needs for one turn. State
// and Tracker are mutated in place; the caller owns persistence.
type RespondInput struct {
	Message string
	Notes   string
	Graph   *concept.Graph
	Tracker *tracker.Tracker
	State   *State
	History []llm.Message
}

// Response is one tutor turn.
type Response struct {
	Text     string
	Style    Style
	Signal   Signal
	Concepts []string // concepts the message resolved to
}

// Service implements the tutor policy plus the LLM-backed explanation.
type Service struct {
	provider llm.Provider
	cfg      Config
}

// NewService creates a tutor service.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg}
}

// clarificationLimit is how many confusion turns force the direct
// style, independent of scores.
const clarificationLimit = 2

// Respond classifies the message, nudges the tracker, selects a style,
// and generates the explanation. Selection happens after the nudge so
// this turn's signal shapes this turn's style.
func (s *Service) Respond(ctx context.Context, in RespondInput) (*Response, error) {
	if strings.TrimSpace(in.Message) == "" {
		return nil, fmt.Errorf("message is empty")
	}

	signal := ClassifyMessage(in.Message)
	referenced := in.Graph.Resolve(in.Message)

	// Style reflects the concepts under discussion. A message that
	// names no concept is judged against the whole graph.
	target := referenced
	if len(target) == 0 {
		target = in.Graph.Names()
	}

	value, alpha := SignalValue(signal, s.cfg)
	for _, c := range target {
		in.Tracker.Observe(c, value, alpha)
	}

	switch signal {
	case SignalConfusion:
		in.State.ClarificationRequests++
	case SignalUnderstanding:
		if !IsFalseConfidence(in.Message) {
			in.State.Understood = true
		}
	}

	style := StyleFor(in.Tracker.Aggregate(target), s.cfg)
	if in.State.ClarificationRequests > clarificationLimit {
		style = StyleDirect
	}

	text, err := s.generate(ctx, in, style, referenced)
	if err != nil {
		return nil, err
	}

	in.State.LastStyle = style
	return &Response{Text: text, Style: style, Signal: signal, Concepts: referenced}, nil
}

func (s *Service) generate(ctx context.Context, in RespondInput, style Style, referenced []string) (string, error) {
	ctx = llm.WithPurpose(ctx, "tutor-explain")

	var nodes []*concept.Node
	for _, name := range referenced {
		if n, ok := in.Graph.Get(name); ok {
			nodes = append(nodes, n)
		}
	}

	history := in.History
	if s.cfg.MaxHistory > 0 && len(history) > s.cfg.MaxHistory {
		history = history[len(history)-s.cfg.MaxHistory:]
	}

	messages := make([]llm.Message, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, llm.Message{
		Role:    llm.RoleUser,
		Content: buildTutorPrompt(in.Message, style, nodes, in.Notes, in.State),
	})

	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    messages,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("explanation failed: %w", err)
	}

	text := strings.TrimSpace(string(resp.Content))
	if text == "" {
		return "", fmt.Errorf("explanation failed: empty response")
	}
	return text, nil
}
