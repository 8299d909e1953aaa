package games

import (
	"time"

	"github.com/abhisek/tutorloop/internal/config"
)

// Config holds generation settings.
type Config struct {
	// BatchSize is the number of games per generation call.
	BatchSize int

	// MaxAttempts is the regeneration budget per game slot. A spec
	// failing structural validation is discarded and regenerated from
	// scratch; the budget caps how often.
	MaxAttempts int

	// Concurrency bounds parallel LLM calls within a batch fill.
	Concurrency int

	// Timeout caps the whole batch generation, retries included.
	Timeout time.Duration

	// MaxConcepts is how many concepts a batch derives from.
	MaxConcepts int

	MaxTokens   int
	Temperature float64
}

// ConfigFromTuning projects the service-wide tuning onto the
// generator's config.
func ConfigFromTuning(t config.Tuning) Config {
	return Config{
		BatchSize:   t.BatchSize,
		MaxAttempts: t.MaxGenAttempts,
		Concurrency: t.GenConcurrency,
		Timeout:     t.GenerateTimeout,
		MaxConcepts: 6,
		MaxTokens:   2048,
		Temperature: 0.8,
	}
}
