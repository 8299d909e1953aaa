package games

import (
	"fmt"
	"strings"

	"github.com/abhisek/tutorloop/internal/concept"
)

const systemPrompt = `You create practice games from a learner's own study material.

Rules:
- Every game must be answerable from the provided concepts alone. No outside knowledge required, no trick questions.
- Content must be unambiguous: exactly one correct answer per card, option, or pair.
- Include subtle distinctions, not obvious giveaways. The games exist to expose confusion.
- No teaching text, hints, or meta commentary inside game content. Explanations go only in the designated "why" fields.
- Use the exact concept names given when a field asks for a concept.`

var variantDirectives = map[Type]string{
	TypeSwipeSort:  `Create a swipe-sort game: two opposing categories drawn from the concepts, and cards (short statements) the learner sorts into them. Both categories must receive at least two cards.`,
	TypeImpostor:   `Create an impostor game: four options where three genuinely share the target concept and one subtly violates it. The impostor should test boundary understanding, not vocabulary.`,
	TypeMatchPairs: `Create a match-pairs game pairing terms from the concepts with concise definitions. Definitions must be distinct enough that each left item matches exactly one right item.`,
}

// buildGamePrompt assembles the user message for one game generation.
func buildGamePrompt(t Type, nodes []*concept.Node, nuances []string, avoid []string) string {
	var b strings.Builder

	b.WriteString(variantDirectives[t])
	b.WriteString("\n\nConcepts to draw from:\n")
	for _, n := range nodes {
		fmt.Fprintf(&b, "- %s (difficulty %d): %s\n", n.Name, n.Difficulty, n.Definition)
		if len(n.Relations) > 0 {
			fmt.Fprintf(&b, "  related: %s\n", strings.Join(n.Relations, ", "))
		}
	}

	if len(nuances) > 0 {
		fmt.Fprintf(&b, "\nInclude these aspects: %s\n", strings.Join(nuances, ", "))
	}

	if len(avoid) > 0 {
		b.WriteString("\nDo not reuse content from earlier games in this batch:\n")
		for _, a := range avoid {
			fmt.Fprintf(&b, "- %s\n", a)
		}
	}

	return b.String()
}
