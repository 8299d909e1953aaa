package tutor

import "github.com/abhisek/tutorloop/internal/config"

// Style is the explanation register the tutor uses for one response.
type Style string

const (
	// StyleDirect removes ambiguity: plain statements, no jargon, one
	// idea at a time. Chosen when confusion is high.
	StyleDirect Style = "direct"

	// StyleSocratic leads with guided questions. Chosen at moderate
	// confusion, where the learner can be steered rather than told.
	StyleSocratic Style = "socratic"

	// StyleAnalogical reinforces through comparison to familiar ideas.
	// Chosen when the learner is tracking well.
	StyleAnalogical Style = "analogical"
)

// Config holds the tutor's pedagogical and generation settings.
type Config struct {
	Alpha             float64
	NeutralAlpha      float64
	DirectThreshold   float64
	SocraticThreshold float64

	// MaxHistory is how many recent chat turns go into the prompt.
	MaxHistory int

	MaxTokens   int
	Temperature float64
}

// ConfigFromTuning projects the service-wide tuning knobs onto the
// tutor's config.
func ConfigFromTuning(t config.Tuning) Config {
	return Config{
		Alpha:             t.Alpha,
		NeutralAlpha:      t.NeutralAlpha,
		DirectThreshold:   t.DirectThreshold,
		SocraticThreshold: t.SocraticThreshold,
		MaxHistory:        8,
		MaxTokens:         1024,
		Temperature:       0.7,
	}
}

// StyleFor selects the explanation style from an aggregate confusion
// score. Pure function: the caller updates the tracker first, then
// selects.
func StyleFor(aggregate float64, cfg Config) Style {
	switch {
	case aggregate > cfg.DirectThreshold:
		return StyleDirect
	case aggregate > cfg.SocraticThreshold:
		return StyleSocratic
	default:
		return StyleAnalogical
	}
}

// SignalValue maps a message signal onto the (signal, alpha) pair fed
// into the tracker's decay rule. Confusion pulls toward 1 at the full
// rate, understanding toward 0 at the full rate, and a neutral turn
// drifts toward 0 slowly.
func SignalValue(s Signal, cfg Config) (value, alpha float64) {
	switch s {
	case SignalConfusion:
		return 1.0, cfg.Alpha
	case SignalUnderstanding:
		return 0.0, cfg.Alpha
	default:
		return 0.0, cfg.NeutralAlpha
	}
}
