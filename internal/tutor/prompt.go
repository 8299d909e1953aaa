package tutor

import (
	"fmt"
	"strings"

	"github.com/abhisek/tutorloop/internal/concept"
)

const systemPrompt = `You are an expert tutor helping a learner work through their own study material.

Rules:
- Ground every explanation in the provided material. Do not introduce content it does not support.
- Follow the teaching strategy you are given for this response: it reflects the learner's current state.
- Never reveal that a strategy or confusion estimate exists.
- Keep responses focused on the learner's question. No lectures.
- End with at most one check-in question, matched to the strategy.`

// styleDirectives encode how each explanation style shapes the prose.
var styleDirectives = map[Style]string{
	StyleDirect: `Style: direct.
- Start from the absolute basics and build one idea at a time.
- Use simple everyday words. No jargon.
- Explain each micro-step explicitly. Very short sentences.
- Check in with a simple yes/no question, nothing intimidating.`,
	StyleSocratic: `Style: socratic.
- Lead the learner with guided questions rather than stating answers.
- Explain core ideas with clear structure, defining technical terms as they appear.
- Ask one gentle question that lets the learner take the next step themselves.`,
	StyleAnalogical: `Style: analogical.
- Anchor the explanation in one vivid analogy to something familiar, then map it back precisely.
- Use appropriate technical vocabulary with context. Do not oversimplify.
- Close with a thought-provoking question that deepens understanding.`,
}

// buildTutorPrompt assembles the user message for one explanation.
func buildTutorPrompt(message string, style Style, nodes []*concept.Node, notes string, state *State) string {
	var b strings.Builder

	b.WriteString(styleDirectives[style])
	b.WriteString("\n\nLearner state:\n")
	fmt.Fprintf(&b, "- Clarification requests so far: %d\n", state.ClarificationRequests)
	fmt.Fprintf(&b, "- Has demonstrated understanding: %t\n", state.Understood)

	if len(nodes) > 0 {
		b.WriteString("\nConcepts the question touches:\n")
		for _, n := range nodes {
			fmt.Fprintf(&b, "- %s: %s\n", n.Name, n.Definition)
			if len(n.Relations) > 0 {
				fmt.Fprintf(&b, "  related: %s\n", strings.Join(n.Relations, ", "))
			}
		}
	}

	if notes != "" {
		b.WriteString("\nStudy material:\n")
		b.WriteString(notes)
		b.WriteString("\n")
	}

	b.WriteString("\nLearner's question:\n")
	b.WriteString(message)

	return b.String()
}
