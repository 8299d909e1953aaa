// Package orchestrator dispatches session-scoped interactions and
// enforces per-session serialization.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/abhisek/tutorloop/internal/config"
	"github.com/abhisek/tutorloop/internal/events"
	"github.com/abhisek/tutorloop/internal/games"
	"github.com/abhisek/tutorloop/internal/ingest"
	"github.com/abhisek/tutorloop/internal/llm"
	"github.com/abhisek/tutorloop/internal/logger"
	"github.com/abhisek/tutorloop/internal/session"
	"github.com/abhisek/tutorloop/internal/tutor"
)

// Interaction classifies a request. The caller declares it; the
// orchestrator validates the payload shape for the declared kind but
// never infers the kind from content.
type Interaction string

const (
	InteractionIngest          Interaction = "ingest"
	InteractionChat            Interaction = "chat"
	InteractionPracticeRequest Interaction = "practice-request"
	InteractionPracticeAnswer  Interaction = "practice-answer"
)

// Payload shapes per interaction.

type IngestPayload struct {
	Material string `json:"material"`
}

type ChatPayload struct {
	Message string `json:"message"`
}

type PracticeRequestPayload struct {
	GameType string   `json:"game_type"`
	Nuances  []string `json:"nuances,omitempty"`
}

type PracticeAnswerPayload struct {
	GameType string `json:"game_type"`
	// GameID picks the round; empty falls back to the most recently
	// served round of the variant.
	GameID   string                `json:"game_id,omitempty"`
	Selected string                `json:"selected,omitempty"`
	Sides    map[string]games.Side `json:"sides,omitempty"`
	Pairs    map[string]string     `json:"pairs,omitempty"`
}

// Results per interaction.

type IngestResult struct {
	SessionID      string `json:"session_id"`
	ConceptsAdded  int    `json:"concepts_added"`
	ConceptsMerged int    `json:"concepts_merged"`
}

type ChatResult struct {
	SessionID string      `json:"session_id"`
	Text      string      `json:"text"`
	Style     tutor.Style `json:"style"`
}

type PracticeResult struct {
	SessionID string     `json:"session_id"`
	Game      games.Spec `json:"game"`
}

type AnswerResult struct {
	SessionID string               `json:"session_id"`
	Verdict   *games.VerdictReport `json:"verdict"`
	// Warning carries a degraded-write notice when the verdict was
	// computed but the session write failed.
	Warning string `json:"warning,omitempty"`
}

// Options wires the orchestrator's collaborators.
type Options struct {
	Store     session.Store
	Extractor ingest.Extractor
	Tutor     *tutor.Service
	Generator *games.Generator
	Recorder  events.Recorder
	Log       *logger.Logger
	Tuning    config.Tuning
}

// Orchestrator is the top-level request dispatcher. All mutation of a
// session happens under its per-id lock, and the store Save is the
// single commit point.
type Orchestrator struct {
	store     session.Store
	extractor ingest.Extractor
	tutor     *tutor.Service
	generator *games.Generator
	recorder  events.Recorder
	log       *logger.Logger
	tuning    config.Tuning
	locker    *session.Locker
}

// New creates an orchestrator.
func New(opts Options) *Orchestrator {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	rec := opts.Recorder
	if rec == nil {
		rec = events.Nop()
	}
	return &Orchestrator{
		store:     opts.Store,
		extractor: opts.Extractor,
		tutor:     opts.Tutor,
		generator: opts.Generator,
		recorder:  rec,
		log:       log,
		tuning:    opts.Tuning,
		locker:    session.NewLocker(),
	}
}

// Handle dispatches one interaction. The payload must match the
// declared kind's shape.
func (o *Orchestrator) Handle(ctx context.Context, sessionID string, kind Interaction, payload any) (any, error) {
	switch kind {
	case InteractionIngest:
		p, ok := payload.(IngestPayload)
		if !ok {
			return nil, validationf("payload does not match interaction %q", kind)
		}
		return o.Ingest(ctx, sessionID, p)
	case InteractionChat:
		p, ok := payload.(ChatPayload)
		if !ok {
			return nil, validationf("payload does not match interaction %q", kind)
		}
		return o.Chat(ctx, sessionID, p)
	case InteractionPracticeRequest:
		p, ok := payload.(PracticeRequestPayload)
		if !ok {
			return nil, validationf("payload does not match interaction %q", kind)
		}
		return o.PracticeRequest(ctx, sessionID, p)
	case InteractionPracticeAnswer:
		p, ok := payload.(PracticeAnswerPayload)
		if !ok {
			return nil, validationf("payload does not match interaction %q", kind)
		}
		return o.PracticeAnswer(ctx, sessionID, p)
	default:
		return nil, validationf("unknown interaction %q", kind)
	}
}

// NewSession mints a fresh session and persists it.
func (o *Orchestrator) NewSession(ctx context.Context) (*session.Session, error) {
	s := session.New(uuid.NewString())
	if err := o.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	o.log.Info("session created", "session_id", s.ID)
	return s, nil
}

// GetSession loads a session read-only.
func (o *Orchestrator) GetSession(ctx context.Context, id string) (*session.Session, error) {
	return o.store.Get(ctx, id)
}

// DeleteSession removes a session.
func (o *Orchestrator) DeleteSession(ctx context.Context, id string) error {
	unlock := o.locker.Lock(id)
	defer unlock()
	return o.store.Delete(ctx, id)
}

// Ingest extracts concepts from material and merges them into the
// session's graph. A session id with no stored state starts a new
// session under that id: ingestion is the entry point of the loop.
func (o *Orchestrator) Ingest(ctx context.Context, sessionID string, p IngestPayload) (*IngestResult, error) {
	if strings.TrimSpace(p.Material) == "" {
		return nil, validationf("material is required")
	}

	unlock := o.locker.Lock(sessionID)
	defer unlock()

	s, err := o.store.Get(ctx, sessionID)
	if errors.Is(err, session.ErrNotFound) {
		s = session.New(sessionID)
	} else if err != nil {
		return nil, err
	}

	result, err := o.extractor.Extract(ctx, p.Material)
	if err != nil {
		return nil, err
	}

	added, merged := 0, 0
	for _, n := range result.Concepts {
		if _, exists := s.Graph.Get(n.Name); exists {
			merged++
		} else {
			added++
		}
		s.Graph.Add(n)
	}

	if result.Notes != "" {
		if s.Notes == "" {
			s.Notes = result.Notes
		} else {
			s.Notes += "\n\n" + result.Notes
		}
	}

	if err := o.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	o.log.Info("material ingested",
		"session_id", sessionID, "added", added, "merged", merged)

	return &IngestResult{SessionID: sessionID, ConceptsAdded: added, ConceptsMerged: merged}, nil
}

// Chat runs one tutor turn and appends it to the history.
func (o *Orchestrator) Chat(ctx context.Context, sessionID string, p ChatPayload) (*ChatResult, error) {
	if strings.TrimSpace(p.Message) == "" {
		return nil, validationf("message is required")
	}

	unlock := o.locker.Lock(sessionID)
	defer unlock()

	s, err := o.loadIngested(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	resp, err := o.tutor.Respond(ctx, tutor.RespondInput{
		Message: p.Message,
		Notes:   s.Notes,
		Graph:   s.Graph,
		Tracker: s.Tracker,
		State:   &s.Tutor,
		History: historyMessages(s.History),
	})
	if err != nil {
		return nil, err
	}

	s.AppendTurn(p.Message, resp.Text)

	if err := o.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	return &ChatResult{SessionID: sessionID, Text: resp.Text, Style: resp.Style}, nil
}

// PracticeRequest returns the next game of a variant: the front of the
// pending queue when one is cached, otherwise a freshly generated
// batch's first game with the remainder queued.
func (o *Orchestrator) PracticeRequest(ctx context.Context, sessionID string, p PracticeRequestPayload) (*PracticeResult, error) {
	gameType, err := games.ParseType(p.GameType)
	if err != nil {
		return nil, validationf("%v", err)
	}

	unlock := o.locker.Lock(sessionID)
	defer unlock()

	s, err := o.loadIngested(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if s.PendingCount(gameType) == 0 {
		batch, err := o.generator.Generate(ctx, games.GenerateInput{
			Type:    gameType,
			Graph:   s.Graph,
			Tracker: s.Tracker,
			Exclude: rotationExclude(s, gameType),
			Nuances: p.Nuances,
		})
		if err != nil {
			return nil, err
		}
		s.PushBatch(batch)
	}

	spec, ok := s.PopGame(gameType)
	if !ok {
		// A generated batch is never empty; this is a bug guard.
		return nil, &games.GenerationError{Reason: games.ReasonInvalidStructure}
	}

	if err := o.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	return &PracticeResult{SessionID: sessionID, Game: *spec}, nil
}

// PracticeAnswer evaluates a submission. The verdict is authoritative
// and always returned; a failed session write degrades to a warning
// instead of discarding the verdict. A consumed round returns its
// cached verdict without touching the tracker again.
func (o *Orchestrator) PracticeAnswer(ctx context.Context, sessionID string, p PracticeAnswerPayload) (*AnswerResult, error) {
	gameType, err := games.ParseType(p.GameType)
	if err != nil {
		return nil, validationf("%v", err)
	}

	unlock := o.locker.Lock(sessionID)
	defer unlock()

	s, err := o.loadIngested(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	round, ok := s.FindRound(gameType, p.GameID)
	if !ok {
		return nil, &PreconditionError{Msg: "no served round to answer; request a game first"}
	}

	if round.Consumed {
		return &AnswerResult{SessionID: sessionID, Verdict: round.Verdict}, nil
	}

	verdict, err := games.Evaluate(&round.Spec, games.Submission{
		Sides:    p.Sides,
		Selected: p.Selected,
		Pairs:    p.Pairs,
	})
	if err != nil {
		return nil, validationf("%v", err)
	}

	verdict.Apply(s.Tracker, o.tuning.Alpha)
	round.Consumed = true
	round.Verdict = verdict
	s.NoteAnswered(gameType, round.Spec.Concepts)

	o.recordAnswer(ctx, sessionID, gameType, verdict)

	result := &AnswerResult{SessionID: sessionID, Verdict: verdict}
	if err := o.store.Save(ctx, s); err != nil {
		o.log.Warn("session write failed after evaluation",
			"session_id", sessionID, "error", err)
		result.Warning = "verdict computed but session state could not be persisted"
	}
	return result, nil
}

// rotationExclude rotates a fresh batch away from the concepts of the
// just-answered round of the variant. When the graph is too small for
// exclusion to leave anything eligible, everything stays in play.
func rotationExclude(s *session.Session, t games.Type) []string {
	answered := s.LastAnswered[t]
	if len(answered) == 0 {
		return nil
	}
	excluded := make(map[string]struct{}, len(answered))
	for _, c := range answered {
		excluded[c] = struct{}{}
	}
	for _, name := range s.Graph.Names() {
		if _, ok := excluded[name]; !ok {
			return answered
		}
	}
	return nil
}

// loadIngested loads a session and enforces the ingested-graph
// precondition shared by chat and practice.
func (o *Orchestrator) loadIngested(ctx context.Context, sessionID string) (*session.Session, error) {
	s, err := o.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s.Graph.Empty() {
		return nil, &PreconditionError{Msg: "session has no ingested concepts"}
	}
	return s, nil
}

// recordAnswer appends per-concept answer events, best-effort.
func (o *Orchestrator) recordAnswer(ctx context.Context, sessionID string, t games.Type, v *games.VerdictReport) {
	for _, c := range v.HitConcepts {
		o.appendAnswerEvent(ctx, sessionID, t, c, true)
	}
	for _, c := range v.MissedConcepts {
		o.appendAnswerEvent(ctx, sessionID, t, c, false)
	}
}

func (o *Orchestrator) appendAnswerEvent(ctx context.Context, sessionID string, t games.Type, concept string, correct bool) {
	err := o.recorder.AppendAnswer(ctx, events.AnswerEvent{
		SessionID: sessionID,
		GameType:  string(t),
		Concept:   concept,
		Correct:   correct,
	})
	if err != nil {
		o.log.Warn("answer event dropped", "session_id", sessionID, "error", err)
	}
}

// historyMessages converts stored chat turns into provider messages.
func historyMessages(turns []session.Turn) []llm.Message {
	msgs := make([]llm.Message, 0, len(turns))
	for _, t := range turns {
		role := llm.RoleUser
		if t.Role == "assistant" {
			role = llm.RoleAssistant
		}
		msgs = append(msgs, llm.Message{Role: role, Content: t.Content})
	}
	return msgs
}
