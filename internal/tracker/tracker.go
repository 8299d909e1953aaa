// Package tracker maintains per-concept confusion and mastery state
// for a session. Records are created lazily on first reference and
// live as long as the session.
package tracker

import "sort"

// Record holds the confusion and mastery data for one concept.
type Record struct {
	Concept        string  `json:"concept"`
	ConfusionScore float64 `json:"confusion_score"` // decayed estimate in [0,1]
	Attempts       int     `json:"attempts"`
	Correct        int     `json:"correct"`
}

// MasteryRatio returns correct/attempts, or 0 with no attempts.
func (r *Record) MasteryRatio() float64 {
	if r.Attempts == 0 {
		return 0.0
	}
	return float64(r.Correct) / float64(r.Attempts)
}

// Priority scores how urgently a concept needs practice. Confused and
// unmastered concepts rank highest.
func (r *Record) Priority() float64 {
	return r.ConfusionScore * (1.0 - r.MasteryRatio())
}

// Tracker is the per-session collection of records, keyed by concept
// name.
type Tracker struct {
	Records map[string]*Record `json:"records"`
}

// New returns an empty tracker.
func New() *Tracker {
	return &Tracker{Records: make(map[string]*Record)}
}

// Record returns the record for a concept, creating it on first use.
func (t *Tracker) Record(concept string) *Record {
	if t.Records == nil {
		t.Records = make(map[string]*Record)
	}
	r, ok := t.Records[concept]
	if !ok {
		r = &Record{Concept: concept}
		t.Records[concept] = r
	}
	return r
}

// Observe folds a new signal into the concept's confusion score using
// exponential decay: score' = score*(1-alpha) + signal*alpha. The
// result stays in [0,1].
func (t *Tracker) Observe(concept string, signal, alpha float64) {
	r := t.Record(concept)
	r.ConfusionScore = clamp01(r.ConfusionScore*(1.0-alpha) + signal*alpha)
}

// RecordAnswer counts a practice attempt and pulls the confusion score
// toward 1 on a miss or toward 0 on a correct answer.
func (t *Tracker) RecordAnswer(concept string, correct bool, alpha float64) {
	r := t.Record(concept)
	r.Attempts++
	signal := 1.0
	if correct {
		r.Correct++
		signal = 0.0
	}
	r.ConfusionScore = clamp01(r.ConfusionScore*(1.0-alpha) + signal*alpha)
}

// Score returns the confusion score for a concept without creating a
// record.
func (t *Tracker) Score(concept string) float64 {
	if t == nil || t.Records == nil {
		return 0.0
	}
	if r, ok := t.Records[concept]; ok {
		return r.ConfusionScore
	}
	return 0.0
}

// Aggregate returns the mean confusion score over the given concepts.
// Unreferenced concepts count as zero; an empty slice aggregates to
// zero.
func (t *Tracker) Aggregate(concepts []string) float64 {
	if len(concepts) == 0 {
		return 0.0
	}
	var sum float64
	for _, c := range concepts {
		sum += t.Score(c)
	}
	return sum / float64(len(concepts))
}

// Prioritized orders the given concepts by descending practice
// priority, breaking ties by name, and returns at most n of them.
// n <= 0 means no limit.
func (t *Tracker) Prioritized(concepts []string, n int) []string {
	type ranked struct {
		name     string
		priority float64
	}
	rs := make([]ranked, 0, len(concepts))
	for _, c := range concepts {
		p := 0.0
		if t != nil && t.Records != nil {
			if r, ok := t.Records[c]; ok {
				p = r.Priority()
			}
		}
		rs = append(rs, ranked{name: c, priority: p})
	}
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].priority != rs[j].priority {
			return rs[i].priority > rs[j].priority
		}
		return rs[i].name < rs[j].name
	})
	if n > 0 && len(rs) > n {
		rs = rs[:n]
	}
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.name
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0.0 {
		return 0.0
	}
	if v > 1.0 {
		return 1.0
	}
	return v
}
