// Package games generates and evaluates practice games derived from a
// session's concept graph.
package games

import "fmt"

// Type identifies a game variant. The set is closed: generation,
// validation, and evaluation all switch exhaustively over it.
type Type string

const (
	TypeSwipeSort  Type = "swipe_sort"
	TypeImpostor   Type = "impostor"
	TypeMatchPairs Type = "match_pairs"
)

// ParseType validates a wire-level game type string.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeSwipeSort, TypeImpostor, TypeMatchPairs:
		return Type(s), nil
	default:
		return "", fmt.Errorf("unknown game type %q", s)
	}
}

// Side is a swipe-sort bucket.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Structural size limits per variant.
const (
	swipeMinCards   = 8
	swipeMaxCards   = 12
	swipeMinPerSide = 2

	impostorOptionCount = 4

	pairsMin = 5
	pairsMax = 8
)

// SwipeSort is a two-bucket sorting game. Each card is a statement
// belonging to exactly one category.
type SwipeSort struct {
	LeftCategory  string          `json:"left_category"`
	RightCategory string          `json:"right_category"`
	Cards         []string        `json:"cards"`
	AnswerKey     map[string]Side `json:"answer_key"`
	// Why explains the correct side, per card.
	Why map[string]string `json:"why"`
	// CardConcepts ties each card to the concept it exercises, so a
	// miss penalizes only that concept.
	CardConcepts map[string]string `json:"card_concepts,omitempty"`
}

// Impostor is an odd-one-out game: all options but one share a
// concept; the learner finds the one that violates it.
type Impostor struct {
	Options  []string `json:"options"`
	Impostor string   `json:"impostor"`
	Why      string   `json:"why"`
}

// Pair is one correct left/right association in a match-pairs game.
type Pair struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// MatchPairs is a matching game. Left and right decks are bijective.
type MatchPairs struct {
	Pairs []Pair `json:"pairs"`
}

// Spec is the tagged union over the three variants. Exactly one of the
// variant pointers is set, matching Type. Specs are immutable once
// generated; evaluation only reads them.
type Spec struct {
	ID   string `json:"id"`
	Type Type   `json:"game_type"`
	// Concepts is the concept subset this game derives from.
	Concepts []string `json:"concepts"`

	SwipeSort  *SwipeSort  `json:"swipe_sort,omitempty"`
	Impostor   *Impostor   `json:"impostor,omitempty"`
	MatchPairs *MatchPairs `json:"match_pairs,omitempty"`
}

// Batch is an ordered set of specs of one variant, all derived from
// the same concept subset.
type Batch struct {
	Type     Type     `json:"game_type"`
	Concepts []string `json:"concepts"`
	Games    []Spec   `json:"games"`
}
