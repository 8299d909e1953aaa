package games

import (
	"fmt"

	"github.com/abhisek/tutorloop/internal/concept"
)

// Validate checks a generated spec against the variant's structural
// invariants. The graph is used for the impostor's semantic check;
// nil skips it.
func Validate(spec *Spec, g *concept.Graph) error {
	switch spec.Type {
	case TypeSwipeSort:
		if spec.SwipeSort == nil {
			return fmt.Errorf("swipe_sort payload missing")
		}
		return validateSwipeSort(spec.SwipeSort)
	case TypeImpostor:
		if spec.Impostor == nil {
			return fmt.Errorf("impostor payload missing")
		}
		return validateImpostor(spec.Impostor, spec.Concepts, g)
	case TypeMatchPairs:
		if spec.MatchPairs == nil {
			return fmt.Errorf("match_pairs payload missing")
		}
		return validateMatchPairs(spec.MatchPairs)
	default:
		return fmt.Errorf("unknown game type %q", spec.Type)
	}
}

func validateSwipeSort(s *SwipeSort) error {
	if s.LeftCategory == "" || s.RightCategory == "" {
		return fmt.Errorf("swipe_sort: missing category label")
	}
	if s.LeftCategory == s.RightCategory {
		return fmt.Errorf("swipe_sort: categories must differ")
	}
	if len(s.Cards) < swipeMinCards || len(s.Cards) > swipeMaxCards {
		return fmt.Errorf("swipe_sort: %d cards, want %d-%d", len(s.Cards), swipeMinCards, swipeMaxCards)
	}

	seen := make(map[string]struct{}, len(s.Cards))
	var left, right int
	for _, card := range s.Cards {
		if _, dup := seen[card]; dup {
			return fmt.Errorf("swipe_sort: duplicate card %q", card)
		}
		seen[card] = struct{}{}

		side, ok := s.AnswerKey[card]
		if !ok {
			return fmt.Errorf("swipe_sort: card %q missing from answer key", card)
		}
		switch side {
		case SideLeft:
			left++
		case SideRight:
			right++
		default:
			return fmt.Errorf("swipe_sort: card %q has invalid side %q", card, side)
		}
	}

	// A lopsided key tests nothing; each bucket needs enough cards to
	// make the sort a real decision.
	if left < swipeMinPerSide || right < swipeMinPerSide {
		return fmt.Errorf("swipe_sort: %d/%d card split, want at least %d per side", left, right, swipeMinPerSide)
	}
	return nil
}

func validateImpostor(s *Impostor, concepts []string, g *concept.Graph) error {
	if len(s.Options) != impostorOptionCount {
		return fmt.Errorf("impostor: %d options, want %d", len(s.Options), impostorOptionCount)
	}

	seen := make(map[string]struct{}, len(s.Options))
	matches := 0
	for _, opt := range s.Options {
		if _, dup := seen[opt]; dup {
			return fmt.Errorf("impostor: duplicate option %q", opt)
		}
		seen[opt] = struct{}{}
		if opt == s.Impostor {
			matches++
		}
	}
	if matches != 1 {
		return fmt.Errorf("impostor: impostor must appear exactly once among options, found %d", matches)
	}

	// Weak semantic check: the impostor must not be a declared relation
	// of the concepts the game derives from, otherwise it plausibly
	// belongs with the genuine options.
	if g != nil {
		for _, c := range concepts {
			n, ok := g.Get(c)
			if !ok {
				continue
			}
			for _, rel := range n.Relations {
				if rel == s.Impostor {
					return fmt.Errorf("impostor: %q is a declared relation of %q", s.Impostor, c)
				}
			}
		}
	}
	return nil
}

func validateMatchPairs(s *MatchPairs) error {
	if len(s.Pairs) < pairsMin || len(s.Pairs) > pairsMax {
		return fmt.Errorf("match_pairs: %d pairs, want %d-%d", len(s.Pairs), pairsMin, pairsMax)
	}

	lefts := make(map[string]struct{}, len(s.Pairs))
	rights := make(map[string]struct{}, len(s.Pairs))
	for _, p := range s.Pairs {
		if p.Left == "" || p.Right == "" {
			return fmt.Errorf("match_pairs: empty pair member")
		}
		if _, dup := lefts[p.Left]; dup {
			return fmt.Errorf("match_pairs: duplicate left item %q", p.Left)
		}
		if _, dup := rights[p.Right]; dup {
			return fmt.Errorf("match_pairs: duplicate right item %q", p.Right)
		}
		lefts[p.Left] = struct{}{}
		rights[p.Right] = struct{}{}
	}
	return nil
}
