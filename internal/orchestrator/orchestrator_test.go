package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/abhisek/tutorloop/internal/config"
	"github.com/abhisek/tutorloop/internal/games"
	"github.com/abhisek/tutorloop/internal/ingest"
	"github.com/abhisek/tutorloop/internal/llm"
	"github.com/abhisek/tutorloop/internal/session"
	"github.com/abhisek/tutorloop/internal/tutor"
)

func newTestOrch(mock *llm.MockProvider, store session.Store) *Orchestrator {
	tuning := config.DefaultConfig().Tuning
	tuning.BatchSize = 2
	tuning.GenConcurrency = 1
	if store == nil {
		store = session.NewMemoryStore()
	}
	return New(Options{
		Store:     store,
		Extractor: ingest.NewLLMExtractor(mock, ingest.DefaultConfig()),
		Tutor:     tutor.NewService(mock, tutor.ConfigFromTuning(tuning)),
		Generator: games.NewGenerator(mock, games.ConfigFromTuning(tuning)),
		Tuning:    tuning,
	})
}

func extractionResponse() llm.MockResponse {
	return llm.MockResponse{Content: json.RawMessage(`{
		"concepts": [
			{"name": "Osmosis", "definition": "Passive water movement", "relations": ["Diffusion"], "difficulty": 2},
			{"name": "Diffusion", "definition": "High to low concentration", "relations": [], "difficulty": 1}
		],
		"notes": "# Transport"
	}`)}
}

func impostorResponse() llm.MockResponse {
	return llm.MockResponse{Content: json.RawMessage(`{
		"options": ["mitochondrion", "ribosome", "chloroplast", "doorknob"],
		"impostor": "doorknob",
		"why": "not an organelle"
	}`)}
}

func ingested(t *testing.T, o *Orchestrator, mock *llm.MockProvider, id string) {
	t.Helper()
	mock.AddResponse(extractionResponse())
	if _, err := o.Ingest(context.Background(), id, IngestPayload{Material: "osmosis and diffusion"}); err != nil {
		t.Fatalf("ingest: %v", err)
	}
}

func TestIngest_CreatesSessionAndCounts(t *testing.T) {
	mock := llm.NewMockProvider(extractionResponse())
	o := newTestOrch(mock, nil)

	res, err := o.Ingest(context.Background(), "s1", IngestPayload{Material: "notes about transport"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ConceptsAdded != 2 || res.ConceptsMerged != 0 {
		t.Errorf("got added=%d merged=%d", res.ConceptsAdded, res.ConceptsMerged)
	}

	s, err := o.GetSession(context.Background(), "s1")
	if err != nil {
		t.Fatalf("session not persisted: %v", err)
	}
	if s.Graph.Len() != 2 {
		t.Errorf("got %d concepts", s.Graph.Len())
	}
	if s.Notes != "# Transport" {
		t.Errorf("got notes %q", s.Notes)
	}
}

func TestIngest_ReingestionMergesByName(t *testing.T) {
	mock := llm.NewMockProvider(extractionResponse(), extractionResponse())
	o := newTestOrch(mock, nil)

	ctx := context.Background()
	if _, err := o.Ingest(ctx, "s1", IngestPayload{Material: "first pass"}); err != nil {
		t.Fatal(err)
	}
	res, err := o.Ingest(ctx, "s1", IngestPayload{Material: "second pass"})
	if err != nil {
		t.Fatal(err)
	}
	if res.ConceptsAdded != 0 || res.ConceptsMerged != 2 {
		t.Errorf("got added=%d merged=%d", res.ConceptsAdded, res.ConceptsMerged)
	}

	s, _ := o.GetSession(ctx, "s1")
	if s.Graph.Len() != 2 {
		t.Errorf("re-ingestion must not duplicate concepts, got %d", s.Graph.Len())
	}
}

func TestIngest_EmptyMaterial(t *testing.T) {
	o := newTestOrch(llm.NewMockProvider(), nil)
	_, err := o.Ingest(context.Background(), "s1", IngestPayload{})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("got %v, want ValidationError", err)
	}
}

func TestIngest_NoConceptsSurfacesIngestionError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"concepts": [], "notes": ""}`),
	})
	o := newTestOrch(mock, nil)

	_, err := o.Ingest(context.Background(), "s1", IngestPayload{Material: "filler"})
	var ingErr *ingest.IngestionError
	if !errors.As(err, &ingErr) {
		t.Errorf("got %v, want IngestionError", err)
	}
}

func TestChat_EmptyGraphPrecondition(t *testing.T) {
	o := newTestOrch(llm.NewMockProvider(), nil)
	s, err := o.NewSession(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	_, err = o.Chat(context.Background(), s.ID, ChatPayload{Message: "help me"})
	var perr *PreconditionError
	if !errors.As(err, &perr) {
		t.Errorf("got %v, want PreconditionError", err)
	}
}

func TestChat_UnknownSession(t *testing.T) {
	o := newTestOrch(llm.NewMockProvider(), nil)
	_, err := o.Chat(context.Background(), "missing", ChatPayload{Message: "hi"})
	if !errors.Is(err, session.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestChat_AppendsHistoryAndPersists(t *testing.T) {
	mock := llm.NewMockProvider()
	o := newTestOrch(mock, nil)
	ingested(t, o, mock, "s1")

	mock.AddResponse(llm.MockResponse{Content: json.RawMessage("Think of osmosis as a crowd thinning out.")})
	res, err := o.Chat(context.Background(), "s1", ChatPayload{Message: "what is osmosis?"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text == "" || res.Style == "" {
		t.Errorf("got %+v", res)
	}

	s, _ := o.GetSession(context.Background(), "s1")
	if len(s.History) != 2 {
		t.Errorf("got %d history turns, want 2", len(s.History))
	}
}

func TestPracticeRequest_GeneratesAndQueues(t *testing.T) {
	mock := llm.NewMockProvider()
	o := newTestOrch(mock, nil)
	ingested(t, o, mock, "s1")

	mock.AddResponse(impostorResponse())
	mock.AddResponse(impostorResponse())

	res, err := o.PracticeRequest(context.Background(), "s1", PracticeRequestPayload{GameType: "impostor"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Game.Type != games.TypeImpostor || res.Game.Impostor == nil {
		t.Errorf("got game %+v", res.Game)
	}

	s, _ := o.GetSession(context.Background(), "s1")
	if s.PendingCount(games.TypeImpostor) != 1 {
		t.Errorf("batch remainder not queued, got %d", s.PendingCount(games.TypeImpostor))
	}
}

func TestPracticeRequest_NonEmptyQueueSkipsGeneration(t *testing.T) {
	mock := llm.NewMockProvider()
	o := newTestOrch(mock, nil)
	ingested(t, o, mock, "s1")

	mock.AddResponse(impostorResponse())
	mock.AddResponse(impostorResponse())
	if _, err := o.PracticeRequest(context.Background(), "s1", PracticeRequestPayload{GameType: "impostor"}); err != nil {
		t.Fatal(err)
	}

	before := mock.CallCount()
	if _, err := o.PracticeRequest(context.Background(), "s1", PracticeRequestPayload{GameType: "impostor"}); err != nil {
		t.Fatal(err)
	}
	if mock.CallCount() != before {
		t.Errorf("queued game must be served without a generation call (%d -> %d)", before, mock.CallCount())
	}
}

func TestPracticeRequest_RotatesAwayFromAnsweredConcepts(t *testing.T) {
	mock := llm.NewMockProvider()
	tuning := config.DefaultConfig().Tuning
	tuning.BatchSize = 1
	tuning.GenConcurrency = 1
	o := New(Options{
		Store:     session.NewMemoryStore(),
		Extractor: ingest.NewLLMExtractor(mock, ingest.DefaultConfig()),
		Tutor:     tutor.NewService(mock, tutor.ConfigFromTuning(tuning)),
		Generator: games.NewGenerator(mock, games.ConfigFromTuning(tuning)),
		Tuning:    tuning,
	})

	// One concept more than a batch derives from, so rotation has
	// somewhere to go.
	var concepts []string
	for i := 1; i <= 7; i++ {
		concepts = append(concepts,
			fmt.Sprintf(`{"name": "C%d", "definition": "d", "relations": [], "difficulty": 1}`, i))
	}
	mock.AddResponse(llm.MockResponse{Content: json.RawMessage(
		fmt.Sprintf(`{"concepts": [%s], "notes": ""}`, strings.Join(concepts, ",")))})
	if _, err := o.Ingest(context.Background(), "s1", IngestPayload{Material: "seven concepts"}); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	mock.AddResponse(impostorResponse())
	first, err := o.PracticeRequest(context.Background(), "s1", PracticeRequestPayload{GameType: "impostor"})
	if err != nil {
		t.Fatal(err)
	}
	if len(first.Game.Concepts) != 6 {
		t.Fatalf("got first batch concepts %v", first.Game.Concepts)
	}

	if _, err := o.PracticeAnswer(context.Background(), "s1", PracticeAnswerPayload{
		GameType: "impostor",
		GameID:   first.Game.ID,
		Selected: "doorknob",
	}); err != nil {
		t.Fatal(err)
	}

	mock.AddResponse(impostorResponse())
	second, err := o.PracticeRequest(context.Background(), "s1", PracticeRequestPayload{GameType: "impostor"})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(second.Game.Concepts, []string{"C7"}) {
		t.Errorf("next batch should rotate to the unplayed concept, got %v", second.Game.Concepts)
	}
}

func TestPracticeRequest_BadGameType(t *testing.T) {
	mock := llm.NewMockProvider()
	o := newTestOrch(mock, nil)
	ingested(t, o, mock, "s1")

	_, err := o.PracticeRequest(context.Background(), "s1", PracticeRequestPayload{GameType: "crossword"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("got %v, want ValidationError", err)
	}
}

func TestPracticeAnswer_VerdictAndIdempotence(t *testing.T) {
	mock := llm.NewMockProvider()
	o := newTestOrch(mock, nil)
	ingested(t, o, mock, "s1")

	mock.AddResponse(impostorResponse())
	mock.AddResponse(impostorResponse())
	served, err := o.PracticeRequest(context.Background(), "s1", PracticeRequestPayload{GameType: "impostor"})
	if err != nil {
		t.Fatal(err)
	}

	answer := PracticeAnswerPayload{
		GameType: "impostor",
		GameID:   served.Game.ID,
		Selected: "ribosome", // wrong
	}
	first, err := o.PracticeAnswer(context.Background(), "s1", answer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Verdict.Correct {
		t.Error("expected incorrect verdict")
	}

	s, _ := o.GetSession(context.Background(), "s1")
	attemptsAfterFirst := s.Tracker.Record(served.Game.Concepts[0]).Attempts

	second, err := o.PracticeAnswer(context.Background(), "s1", answer)
	if err != nil {
		t.Fatalf("resubmission: %v", err)
	}
	if second.Verdict.Correct != first.Verdict.Correct {
		t.Error("resubmission changed the verdict")
	}

	s, _ = o.GetSession(context.Background(), "s1")
	if got := s.Tracker.Record(served.Game.Concepts[0]).Attempts; got != attemptsAfterFirst {
		t.Errorf("consumed round double-counted the tracker: %d -> %d", attemptsAfterFirst, got)
	}
}

func TestPracticeAnswer_DefaultsToLastServed(t *testing.T) {
	mock := llm.NewMockProvider()
	o := newTestOrch(mock, nil)
	ingested(t, o, mock, "s1")

	mock.AddResponse(impostorResponse())
	mock.AddResponse(impostorResponse())
	if _, err := o.PracticeRequest(context.Background(), "s1", PracticeRequestPayload{GameType: "impostor"}); err != nil {
		t.Fatal(err)
	}

	res, err := o.PracticeAnswer(context.Background(), "s1", PracticeAnswerPayload{
		GameType: "impostor",
		Selected: "doorknob",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Verdict.Correct {
		t.Error("expected correct verdict")
	}
}

func TestPracticeAnswer_EmptySubmissionRejected(t *testing.T) {
	mock := llm.NewMockProvider()
	o := newTestOrch(mock, nil)
	ingested(t, o, mock, "s1")

	mock.AddResponse(impostorResponse())
	mock.AddResponse(impostorResponse())
	served, err := o.PracticeRequest(context.Background(), "s1", PracticeRequestPayload{GameType: "impostor"})
	if err != nil {
		t.Fatal(err)
	}

	_, err = o.PracticeAnswer(context.Background(), "s1", PracticeAnswerPayload{
		GameType: "impostor",
		GameID:   served.Game.ID,
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("got %v, want ValidationError", err)
	}

	// The round must not be consumed and the tracker must not move.
	s, _ := o.GetSession(context.Background(), "s1")
	if s.Tracker.Record(served.Game.Concepts[0]).Attempts != 0 {
		t.Error("rejected submission moved the tracker")
	}
	res, err := o.PracticeAnswer(context.Background(), "s1", PracticeAnswerPayload{
		GameType: "impostor",
		GameID:   served.Game.ID,
		Selected: "doorknob",
	})
	if err != nil {
		t.Fatalf("round should still be answerable: %v", err)
	}
	if !res.Verdict.Correct {
		t.Error("expected correct verdict")
	}
}

func TestPracticeAnswer_NoRound(t *testing.T) {
	mock := llm.NewMockProvider()
	o := newTestOrch(mock, nil)
	ingested(t, o, mock, "s1")

	_, err := o.PracticeAnswer(context.Background(), "s1", PracticeAnswerPayload{
		GameType: "impostor",
		Selected: "anything",
	})
	var perr *PreconditionError
	if !errors.As(err, &perr) {
		t.Errorf("got %v, want PreconditionError", err)
	}
}

// failingStore wraps a real store and fails Save after a threshold,
// for exercising the degraded-write path.
type failingStore struct {
	session.Store
	failAfter int
	saves     int
}

func (f *failingStore) Save(ctx context.Context, s *session.Session) error {
	f.saves++
	if f.saves > f.failAfter {
		return fmt.Errorf("disk on fire")
	}
	return f.Store.Save(ctx, s)
}

func TestPracticeAnswer_PersistenceWarning(t *testing.T) {
	mock := llm.NewMockProvider()
	store := &failingStore{Store: session.NewMemoryStore(), failAfter: 2}
	o := newTestOrch(mock, store)
	ingested(t, o, mock, "s1") // save 1

	mock.AddResponse(impostorResponse())
	mock.AddResponse(impostorResponse())
	served, err := o.PracticeRequest(context.Background(), "s1", PracticeRequestPayload{GameType: "impostor"}) // save 2
	if err != nil {
		t.Fatal(err)
	}

	res, err := o.PracticeAnswer(context.Background(), "s1", PracticeAnswerPayload{
		GameType: "impostor",
		GameID:   served.Game.ID,
		Selected: "doorknob",
	})
	if err != nil {
		t.Fatalf("a failed write must not block the verdict: %v", err)
	}
	if !res.Verdict.Correct {
		t.Error("expected correct verdict")
	}
	if res.Warning == "" {
		t.Error("expected degraded-write warning")
	}
}

func TestHandle_Dispatch(t *testing.T) {
	mock := llm.NewMockProvider(extractionResponse())
	o := newTestOrch(mock, nil)

	res, err := o.Handle(context.Background(), "s1", InteractionIngest, IngestPayload{Material: "stuff"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := res.(*IngestResult); !ok {
		t.Errorf("got %T", res)
	}

	_, err = o.Handle(context.Background(), "s1", InteractionChat, IngestPayload{Material: "wrong shape"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("mismatched payload: got %v, want ValidationError", err)
	}

	_, err = o.Handle(context.Background(), "s1", Interaction("reboot"), nil)
	if !errors.As(err, &verr) {
		t.Errorf("unknown interaction: got %v, want ValidationError", err)
	}
}
