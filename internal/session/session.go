// Package session holds the per-learner state and its storage drivers.
package session

import (
	"time"

	"github.com/abhisek/tutorloop/internal/concept"
	"github.com/abhisek/tutorloop/internal/games"
	"github.com/abhisek/tutorloop/internal/tracker"
	"github.com/abhisek/tutorloop/internal/tutor"
)

// Turn is one chat history entry.
type Turn struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// Round is a served game awaiting (or past) its answer. Once evaluated
// it is marked consumed and the verdict is cached, so resubmission
// returns the same verdict without moving the tracker again.
type Round struct {
	Spec     games.Spec           `json:"spec"`
	Consumed bool                 `json:"consumed"`
	Verdict  *games.VerdictReport `json:"verdict,omitempty"`
}

// Session is the complete per-learner state. It exclusively owns its
// graph, tracker, and game queues; nothing is shared across sessions.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Graph   *concept.Graph   `json:"graph"`
	Tracker *tracker.Tracker `json:"tracker"`
	Tutor   tutor.State      `json:"tutor"`

	// Notes is the cleaned-up markdown produced at ingestion; the
	// tutor grounds explanations in it.
	Notes string `json:"notes,omitempty"`

	History []Turn `json:"history,omitempty"`

	// Pending holds prefetched games per variant, drained
	// front-to-back before a new generation call is made.
	Pending map[games.Type][]games.Spec `json:"pending,omitempty"`

	// Rounds are served games keyed by spec ID.
	Rounds map[string]*Round `json:"rounds,omitempty"`

	// LastServed remembers the most recent round per variant, for
	// answers submitted without a game id.
	LastServed map[games.Type]string `json:"last_served,omitempty"`

	// LastAnswered remembers the concept subset of the most recently
	// evaluated round per variant; the next fresh batch steers away
	// from it so practice rotates through the material.
	LastAnswered map[games.Type][]string `json:"last_answered,omitempty"`
}

// New creates an empty session.
func New(id string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
		Graph:     concept.NewGraph(),
		Tracker:   tracker.New(),
	}
}

// Touch bumps the update timestamp. Stores persist it as-is.
func (s *Session) Touch() {
	s.UpdatedAt = time.Now().UTC()
}

// AppendTurn records one chat exchange.
func (s *Session) AppendTurn(userMsg, assistantMsg string) {
	s.History = append(s.History,
		Turn{Role: "user", Content: userMsg},
		Turn{Role: "assistant", Content: assistantMsg},
	)
}

// PushBatch queues a batch's games behind any already pending for the
// variant.
func (s *Session) PushBatch(b *games.Batch) {
	if s.Pending == nil {
		s.Pending = make(map[games.Type][]games.Spec)
	}
	s.Pending[b.Type] = append(s.Pending[b.Type], b.Games...)
}

// PopGame takes the front pending game of a variant, registers it as a
// served round, and returns it. ok is false when the queue is empty.
func (s *Session) PopGame(t games.Type) (*games.Spec, bool) {
	queue := s.Pending[t]
	if len(queue) == 0 {
		return nil, false
	}
	spec := queue[0]
	s.Pending[t] = queue[1:]

	if s.Rounds == nil {
		s.Rounds = make(map[string]*Round)
	}
	s.Rounds[spec.ID] = &Round{Spec: spec}
	if s.LastServed == nil {
		s.LastServed = make(map[games.Type]string)
	}
	s.LastServed[t] = spec.ID

	return &spec, true
}

// PendingCount reports how many games are queued for a variant.
func (s *Session) PendingCount(t games.Type) int {
	return len(s.Pending[t])
}

// NoteAnswered records the concept subset of an evaluated round.
func (s *Session) NoteAnswered(t games.Type, concepts []string) {
	if s.LastAnswered == nil {
		s.LastAnswered = make(map[games.Type][]string)
	}
	s.LastAnswered[t] = append([]string{}, concepts...)
}

// FindRound resolves a round by explicit id, or falls back to the most
// recently served round of the variant when id is empty.
func (s *Session) FindRound(t games.Type, id string) (*Round, bool) {
	if id == "" {
		id = s.LastServed[t]
	}
	if id == "" {
		return nil, false
	}
	r, ok := s.Rounds[id]
	if !ok || r.Spec.Type != t {
		return nil, false
	}
	return r, true
}
