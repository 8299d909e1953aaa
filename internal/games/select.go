package games

import (
	"github.com/abhisek/tutorloop/internal/concept"
	"github.com/abhisek/tutorloop/internal/tracker"
)

// selectConcepts picks the concept subset a batch derives from, biased
// toward high-confusion, low-mastery concepts. Concepts in exclude are
// skipped. With no confusion data the ordering degrades to name order,
// which keeps selection deterministic.
func selectConcepts(g *concept.Graph, tr *tracker.Tracker, exclude []string, max int) []string {
	excluded := make(map[string]struct{}, len(exclude))
	for _, e := range exclude {
		excluded[e] = struct{}{}
	}

	var eligible []string
	for _, name := range g.Names() {
		if _, skip := excluded[name]; skip {
			continue
		}
		eligible = append(eligible, name)
	}

	return tr.Prioritized(eligible, max)
}
