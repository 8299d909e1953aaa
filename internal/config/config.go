package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/abhisek/tutorloop/internal/llm"
)

// Config holds all service configuration.
type Config struct {
	// Mode selects logging/encoder behavior: "dev" or "prod".
	Mode string

	// Addr is the HTTP listen address.
	Addr string

	// AllowedOrigins is the CORS allow-list for browser clients.
	AllowedOrigins []string

	Store StoreConfig

	// EventsPath is the SQLite event log path. Empty disables the log.
	EventsPath string

	LLM llm.Config

	Tuning Tuning
}

// StoreConfig selects and configures the session store driver.
type StoreConfig struct {
	// Driver is "memory" or "redis".
	Driver string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// SessionTTL is how long an idle session survives in the store.
	// Expiry is owned by the store, not the orchestrator.
	SessionTTL time.Duration
}

// Tuning holds the pedagogical knobs. The confusion decay rate and style
// thresholds are deliberately configuration, not constants: the right
// values are an open product question and tests assert ordering
// properties, not exact scores.
type Tuning struct {
	// Alpha is the decay rate for confusion updates on a strong signal:
	// score' = score*(1-alpha) + signal*alpha.
	Alpha float64

	// NeutralAlpha is the (smaller) rate applied when a chat turn carries
	// no confusion or understanding signal; it drifts the score toward 0.
	NeutralAlpha float64

	// DirectThreshold: aggregate confusion above this selects the Direct
	// explanation style.
	DirectThreshold float64

	// SocraticThreshold: aggregate confusion above this (and at or below
	// DirectThreshold) selects Socratic; at or below selects Analogical.
	SocraticThreshold float64

	// BatchSize is the number of games generated per batch; the pending
	// queue drains this before a new generation call is made.
	BatchSize int

	// MaxGenAttempts is the regeneration budget for structurally invalid
	// game specs before the batch fails.
	MaxGenAttempts int

	// GenConcurrency bounds parallel generation calls in a batch fill.
	GenConcurrency int

	// GenerateTimeout caps a single batch generation, including retries.
	GenerateTimeout time.Duration
}

// DefaultConfig returns a Config with development-friendly defaults.
func DefaultConfig() Config {
	return Config{
		Mode: "dev",
		Addr: ":8080",
		AllowedOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
		},
		Store: StoreConfig{
			Driver:     "memory",
			RedisAddr:  "localhost:6379",
			SessionTTL: 24 * time.Hour,
		},
		LLM: llm.DefaultConfig(),
		Tuning: Tuning{
			Alpha:             0.2,
			NeutralAlpha:      0.05,
			DirectThreshold:   0.6,
			SocraticThreshold: 0.3,
			BatchSize:         3,
			MaxGenAttempts:    3,
			GenConcurrency:    2,
			GenerateTimeout:   45 * time.Second,
		},
	}
}

// FromEnv builds a Config from TUTORLOOP_* environment variables, falling
// back to defaults for unset values. LLM settings come from llm.ConfigFromEnv.
func FromEnv() Config {
	cfg := DefaultConfig()
	cfg.LLM = llm.ConfigFromEnv()

	if v := os.Getenv("TUTORLOOP_MODE"); v != "" {
		cfg.Mode = v
	}
	if v := os.Getenv("TUTORLOOP_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("TUTORLOOP_ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("TUTORLOOP_STORE"); v != "" {
		cfg.Store.Driver = v
	}
	if v := os.Getenv("TUTORLOOP_REDIS_ADDR"); v != "" {
		cfg.Store.RedisAddr = v
	}
	if v := os.Getenv("TUTORLOOP_REDIS_PASSWORD"); v != "" {
		cfg.Store.RedisPassword = v
	}
	if v := os.Getenv("TUTORLOOP_REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Store.RedisDB = n
		}
	}
	if v := os.Getenv("TUTORLOOP_SESSION_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Store.SessionTTL = d
		}
	}
	if v := os.Getenv("TUTORLOOP_EVENTS_DB"); v != "" {
		cfg.EventsPath = v
	}

	if v := os.Getenv("TUTORLOOP_ALPHA"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Tuning.Alpha = f
		}
	}
	if v := os.Getenv("TUTORLOOP_BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Tuning.BatchSize = n
		}
	}
	if v := os.Getenv("TUTORLOOP_GENERATE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Tuning.GenerateTimeout = d
		}
	}

	return cfg
}

// Validate checks cross-field consistency before the service starts.
func (c Config) Validate() error {
	if c.Store.Driver != "memory" && c.Store.Driver != "redis" {
		return fmt.Errorf("TUTORLOOP_STORE must be \"memory\" or \"redis\", got %q", c.Store.Driver)
	}
	if c.Store.Driver == "redis" && c.Store.RedisAddr == "" {
		return fmt.Errorf("TUTORLOOP_REDIS_ADDR is required for the redis store")
	}
	if err := c.Tuning.Validate(); err != nil {
		return err
	}
	return c.LLM.Validate()
}

// Validate checks the tuning knobs hold their documented invariants.
func (t Tuning) Validate() error {
	if t.Alpha <= 0 || t.Alpha > 1 {
		return fmt.Errorf("alpha must be in (0,1], got %v", t.Alpha)
	}
	if t.NeutralAlpha < 0 || t.NeutralAlpha > t.Alpha {
		return fmt.Errorf("neutral alpha must be in [0, alpha], got %v", t.NeutralAlpha)
	}
	if t.SocraticThreshold >= t.DirectThreshold {
		return fmt.Errorf("socratic threshold (%v) must be below direct threshold (%v)", t.SocraticThreshold, t.DirectThreshold)
	}
	if t.BatchSize < 1 {
		return fmt.Errorf("batch size must be >= 1, got %d", t.BatchSize)
	}
	if t.MaxGenAttempts < 1 {
		return fmt.Errorf("generation attempt budget must be >= 1, got %d", t.MaxGenAttempts)
	}
	if t.GenConcurrency < 1 {
		return fmt.Errorf("generation concurrency must be >= 1, got %d", t.GenConcurrency)
	}
	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
