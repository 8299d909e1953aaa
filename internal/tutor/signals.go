package tutor

import "strings"

// Learners rarely say "I'm confused" outright. Detection casts a wide
// net over direct statements, hedging, simplification requests,
// frustration, partial understanding, and metacognitive doubt.
var confusionPhrases = []string{
	// direct
	"confused", "don't understand", "dont understand", "do not understand",
	"not understanding", "didn't understand", "didnt understand",
	"doesn't make sense", "doesnt make sense", "lost me", "losing me",
	"not following", "can't follow", "cant follow", "not getting",
	"dont get", "don't get", "not clear", "unclear", "no idea",
	"have no clue", "totally lost", "completely lost",
	// hedging
	"not entirely sure", "not completely sure", "not totally sure",
	"kinda lost", "sorta lost", "a bit lost", "little lost",
	// simplification requests
	"simpler", "simplify", "break it down", "step by step", "slow down",
	"too fast", "too complicated", "too complex", "easier way",
	"explain differently", "another way", "different explanation",
	"rephrase", "say that again", "one more time", "eli5",
	"plain english", "basic terms",
	// frustration
	"frustrating", "frustrated", "giving up", "this is hard",
	"this is difficult", "struggling", "stuck", "can't figure",
	"cant figure",
	// partial understanding
	"some of it", "part of it", "halfway there", "except for",
	"but what about", "but how", "but why", "one thing though",
	"still wondering",
	// metacognitive doubt
	"what am i missing", "missing something", "not quite right",
	"am i right", "is this correct", "is that right",
}

// Genuine comprehension shows up as confirmation, transfer to new
// contexts, or paraphrasing, not just recognition.
var understandingPhrases = []string{
	// explicit
	"i understand", "i understood", "understood", "i get it",
	"i got it", "got it", "makes sense", "that makes sense",
	"clear now", "crystal clear", "ah i see", "oh i see", "i see now",
	"now i understand", "now i get", "finally understand", "finally get it",
	// transfer, the strongest signal
	"so that means", "so if i", "that's like", "thats like",
	"similar to", "this is like", "reminds me of", "connects to",
	"relates to", "this explains why", "now i know why",
	// paraphrase
	"so basically", "in other words", "if i understand correctly",
	"so you mean", "in my own words",
	// readiness
	"ready to practice", "ready to try", "want to practice",
	"can i practice", "let me practice", "let's practice", "lets practice",
	"i'm ready", "im ready",
	// confidence
	"i'm confident", "im confident", "feel confident",
	"definitely understand", "totally get", "completely get",
	"fully understand", "comfortable with",
}

// These suggest the learner THINKS they understand but may not; they
// block the understood flag and count as mild confusion.
var falseConfidencePhrases = []string{
	"seems easy", "sounds easy", "looks simple", "got it i think",
	"think i understand", "think i got it", "probably understand",
	"maybe i get", "guess i understand", "suppose i get",
}

// Signal classifies a single chat message.
type Signal int

const (
	SignalNeutral Signal = iota
	SignalConfusion
	SignalUnderstanding
)

// ClassifyMessage reads the confusion/understanding signal out of a
// message. False confidence wins over understanding: "I think I got it"
// is a cue for probing, not for releasing scaffolding.
func ClassifyMessage(message string) Signal {
	lower := strings.ToLower(message)
	if containsAny(lower, falseConfidencePhrases) {
		return SignalConfusion
	}
	if containsAny(lower, confusionPhrases) {
		return SignalConfusion
	}
	if containsAny(lower, understandingPhrases) {
		return SignalUnderstanding
	}
	return SignalNeutral
}

// IsFalseConfidence reports whether the message pattern-matches shallow
// confidence.
func IsFalseConfidence(message string) bool {
	return containsAny(strings.ToLower(message), falseConfidencePhrases)
}

func containsAny(lower string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
