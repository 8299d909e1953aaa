package games

import (
	"fmt"
	"sort"

	"github.com/abhisek/tutorloop/internal/tracker"
)

// Submission is the learner's structural answer for one game. The
// populated field depends on the variant.
type Submission struct {
	// Sides maps card text to the chosen side (swipe_sort).
	Sides map[string]Side `json:"sides,omitempty"`

	// Selected is the chosen option (impostor).
	Selected string `json:"selected,omitempty"`

	// Pairs maps left item to the chosen right item (match_pairs).
	Pairs map[string]string `json:"pairs,omitempty"`
}

// CardVerdict is the per-card detail of a swipe-sort round.
type CardVerdict struct {
	Card     string `json:"card"`
	Expected Side   `json:"expected_side"`
	Got      Side   `json:"user_side"`
	Correct  bool   `json:"correct"`
	Why      string `json:"why,omitempty"`
}

// PairVerdict is the per-pair detail of a match-pairs round.
type PairVerdict struct {
	Left     string `json:"left"`
	Expected string `json:"expected"`
	Got      string `json:"got"`
	Correct  bool   `json:"correct"`
}

// VerdictReport is the evaluator's result for one round.
type VerdictReport struct {
	Correct bool `json:"correct"`

	Cards []CardVerdict `json:"cards,omitempty"`
	Pairs []PairVerdict `json:"pairs,omitempty"`

	// Why carries the impostor explanation on a miss.
	Why string `json:"why,omitempty"`

	// HitConcepts / MissedConcepts drive the tracker update: confusion
	// rises only for concepts tied to missed items.
	HitConcepts    []string `json:"-"`
	MissedConcepts []string `json:"-"`
}

// Evaluate scores a submission against a spec. Pure: the spec is only
// read and nothing else is touched. Evaluating the same submission
// twice yields the same report.
func Evaluate(spec *Spec, sub Submission) (*VerdictReport, error) {
	switch spec.Type {
	case TypeSwipeSort:
		if spec.SwipeSort == nil {
			return nil, fmt.Errorf("swipe_sort payload missing")
		}
		return evaluateSwipeSort(spec.SwipeSort, sub, spec.Concepts)
	case TypeImpostor:
		if spec.Impostor == nil {
			return nil, fmt.Errorf("impostor payload missing")
		}
		return evaluateImpostor(spec.Impostor, sub, spec.Concepts)
	case TypeMatchPairs:
		if spec.MatchPairs == nil {
			return nil, fmt.Errorf("match_pairs payload missing")
		}
		return evaluateMatchPairs(spec.MatchPairs, sub, spec.Concepts)
	default:
		return nil, fmt.Errorf("unknown game type %q", spec.Type)
	}
}

// Apply folds the verdict into the tracker: one attempt per involved
// concept, correct unless the concept is tied to a missed item. The
// caller guards against applying the same round twice.
func (r *VerdictReport) Apply(tr *tracker.Tracker, alpha float64) {
	for _, c := range r.HitConcepts {
		tr.RecordAnswer(c, true, alpha)
	}
	for _, c := range r.MissedConcepts {
		tr.RecordAnswer(c, false, alpha)
	}
}

func evaluateSwipeSort(s *SwipeSort, sub Submission, concepts []string) (*VerdictReport, error) {
	if len(sub.Sides) == 0 {
		return nil, fmt.Errorf("swipe_sort submission requires a side per card")
	}

	report := &VerdictReport{Correct: true}
	hit := make(map[string]struct{})
	missed := make(map[string]struct{})

	for _, card := range s.Cards {
		expected := s.AnswerKey[card]
		got, answered := sub.Sides[card]
		correct := answered && got == expected
		if !correct {
			report.Correct = false
		}
		report.Cards = append(report.Cards, CardVerdict{
			Card:     card,
			Expected: expected,
			Got:      got,
			Correct:  correct,
			Why:      s.Why[card],
		})

		c := s.CardConcepts[card]
		if c == "" {
			continue
		}
		if correct {
			hit[c] = struct{}{}
		} else {
			missed[c] = struct{}{}
		}
	}

	// Unmapped games fall back to the batch's concept subset.
	if len(hit) == 0 && len(missed) == 0 {
		return fallbackConcepts(report, concepts), nil
	}
	for c := range missed {
		delete(hit, c) // a concept missed anywhere counts as missed
		report.MissedConcepts = append(report.MissedConcepts, c)
	}
	for c := range hit {
		report.HitConcepts = append(report.HitConcepts, c)
	}
	sort.Strings(report.HitConcepts)
	sort.Strings(report.MissedConcepts)
	return report, nil
}

func evaluateImpostor(s *Impostor, sub Submission, concepts []string) (*VerdictReport, error) {
	if sub.Selected == "" {
		return nil, fmt.Errorf("impostor submission requires a selected option")
	}

	report := &VerdictReport{Correct: sub.Selected == s.Impostor}
	if !report.Correct {
		report.Why = s.Why
	}
	return fallbackConcepts(report, concepts), nil
}

func evaluateMatchPairs(s *MatchPairs, sub Submission, concepts []string) (*VerdictReport, error) {
	if len(sub.Pairs) == 0 {
		return nil, fmt.Errorf("match_pairs submission requires a right item per left item")
	}

	report := &VerdictReport{Correct: true}
	for _, p := range s.Pairs {
		got := sub.Pairs[p.Left]
		correct := got == p.Right
		if !correct {
			report.Correct = false
			report.MissedConcepts = appendConcept(report.MissedConcepts, p.Left, concepts)
		} else {
			report.HitConcepts = appendConcept(report.HitConcepts, p.Left, concepts)
		}
		report.Pairs = append(report.Pairs, PairVerdict{
			Left:     p.Left,
			Expected: p.Right,
			Got:      got,
			Correct:  correct,
		})
	}
	// Left items that are not concept names contribute nothing above;
	// make sure a fully unmapped round still moves the tracker.
	if len(report.HitConcepts) == 0 && len(report.MissedConcepts) == 0 {
		return fallbackConcepts(report, concepts), nil
	}
	return report, nil
}

// fallbackConcepts attributes the whole round's outcome to the batch's
// concept subset when no per-item mapping exists.
func fallbackConcepts(r *VerdictReport, concepts []string) *VerdictReport {
	if r.Correct {
		r.HitConcepts = append([]string{}, concepts...)
	} else {
		r.MissedConcepts = append([]string{}, concepts...)
	}
	return r
}

// appendConcept adds left to the list if it names a concept of this
// game, without duplicates.
func appendConcept(list []string, left string, concepts []string) []string {
	for _, c := range concepts {
		if c != left {
			continue
		}
		for _, have := range list {
			if have == left {
				return list
			}
		}
		return append(list, left)
	}
	return list
}
