package tracker

import (
	"math"
	"reflect"
	"testing"
)

const epsilon = 1e-9

func TestRecord_LazyCreation(t *testing.T) {
	tr := New()
	if len(tr.Records) != 0 {
		t.Fatalf("new tracker should be empty, got %d records", len(tr.Records))
	}
	r := tr.Record("Osmosis")
	if r.Concept != "Osmosis" {
		t.Errorf("got concept %q", r.Concept)
	}
	if r.ConfusionScore != 0.0 || r.Attempts != 0 || r.Correct != 0 {
		t.Errorf("fresh record not zeroed: %+v", r)
	}
	if tr.Record("Osmosis") != r {
		t.Error("second lookup should return same record")
	}
}

func TestObserve_DecayRule(t *testing.T) {
	tr := New()
	tr.Observe("Entropy", 1.0, 0.2)
	if got := tr.Score("Entropy"); math.Abs(got-0.2) > epsilon {
		t.Errorf("got %v, want 0.2", got)
	}
	tr.Observe("Entropy", 1.0, 0.2)
	// 0.2*0.8 + 1.0*0.2 = 0.36
	if got := tr.Score("Entropy"); math.Abs(got-0.36) > epsilon {
		t.Errorf("got %v, want 0.36", got)
	}
	tr.Observe("Entropy", 0.0, 0.2)
	// 0.36*0.8 = 0.288
	if got := tr.Score("Entropy"); math.Abs(got-0.288) > epsilon {
		t.Errorf("got %v, want 0.288", got)
	}
}

func TestObserve_StaysInRange(t *testing.T) {
	tr := New()
	for i := 0; i < 100; i++ {
		tr.Observe("X", 1.0, 0.5)
	}
	if got := tr.Score("X"); got > 1.0 {
		t.Errorf("score exceeded 1: %v", got)
	}
	for i := 0; i < 100; i++ {
		tr.Observe("X", 0.0, 0.5)
	}
	if got := tr.Score("X"); got < 0.0 {
		t.Errorf("score fell below 0: %v", got)
	}
}

func TestRecordAnswer(t *testing.T) {
	tr := New()
	tr.RecordAnswer("Mitosis", false, 0.2)
	r := tr.Record("Mitosis")
	if r.Attempts != 1 || r.Correct != 0 {
		t.Errorf("got attempts=%d correct=%d", r.Attempts, r.Correct)
	}
	if math.Abs(r.ConfusionScore-0.2) > epsilon {
		t.Errorf("wrong answer should raise confusion, got %v", r.ConfusionScore)
	}

	tr.RecordAnswer("Mitosis", true, 0.2)
	if r.Attempts != 2 || r.Correct != 1 {
		t.Errorf("got attempts=%d correct=%d", r.Attempts, r.Correct)
	}
	// 0.2*0.8 = 0.16
	if math.Abs(r.ConfusionScore-0.16) > epsilon {
		t.Errorf("correct answer should lower confusion, got %v", r.ConfusionScore)
	}
}

func TestScore_UnknownConceptIsZeroWithoutCreating(t *testing.T) {
	tr := New()
	if got := tr.Score("Unknown"); got != 0.0 {
		t.Errorf("got %v, want 0", got)
	}
	if len(tr.Records) != 0 {
		t.Error("Score must not create a record")
	}
}

func TestAggregate(t *testing.T) {
	tr := New()
	tr.Observe("A", 1.0, 0.5) // 0.5
	tr.Observe("B", 1.0, 0.3) // 0.3

	if got := tr.Aggregate(nil); got != 0.0 {
		t.Errorf("empty aggregate: got %v, want 0", got)
	}
	// (0.5 + 0.3 + 0.0) / 3
	got := tr.Aggregate([]string{"A", "B", "C"})
	if math.Abs(got-0.8/3.0) > epsilon {
		t.Errorf("got %v, want %v", got, 0.8/3.0)
	}
}

func TestPriority(t *testing.T) {
	r := &Record{ConfusionScore: 0.8, Attempts: 4, Correct: 3}
	// 0.8 * (1 - 0.75) = 0.2
	if got := r.Priority(); math.Abs(got-0.2) > epsilon {
		t.Errorf("got %v, want 0.2", got)
	}

	unattempted := &Record{ConfusionScore: 0.5}
	if got := unattempted.Priority(); math.Abs(got-0.5) > epsilon {
		t.Errorf("unattempted concept keeps full confusion weight, got %v", got)
	}
}

func TestPrioritized_OrderAndLimit(t *testing.T) {
	tr := New()
	tr.Observe("Low", 1.0, 0.1)  // 0.1
	tr.Observe("High", 1.0, 0.9) // 0.9
	tr.Observe("Mid", 1.0, 0.5)  // 0.5

	got := tr.Prioritized([]string{"Low", "Mid", "High", "Unseen"}, 0)
	want := []string{"High", "Mid", "Low", "Unseen"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	got = tr.Prioritized([]string{"Low", "Mid", "High"}, 2)
	want = []string{"High", "Mid"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("limited: got %v, want %v", got, want)
	}
}

func TestPrioritized_TieBreakByName(t *testing.T) {
	tr := New()
	got := tr.Prioritized([]string{"Zeta", "Alpha", "Mu"}, 0)
	want := []string{"Alpha", "Mu", "Zeta"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
