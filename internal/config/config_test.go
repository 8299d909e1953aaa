package config

import (
	"testing"
	"time"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LLM.Provider = "mock"
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("TUTORLOOP_ADDR", ":9999")
	t.Setenv("TUTORLOOP_STORE", "redis")
	t.Setenv("TUTORLOOP_REDIS_ADDR", "redis.internal:6379")
	t.Setenv("TUTORLOOP_SESSION_TTL", "2h")
	t.Setenv("TUTORLOOP_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("TUTORLOOP_ALPHA", "0.5")

	cfg := FromEnv()
	if cfg.Addr != ":9999" {
		t.Errorf("got addr %q", cfg.Addr)
	}
	if cfg.Store.Driver != "redis" || cfg.Store.RedisAddr != "redis.internal:6379" {
		t.Errorf("got store %+v", cfg.Store)
	}
	if cfg.Store.SessionTTL != 2*time.Hour {
		t.Errorf("got ttl %v", cfg.Store.SessionTTL)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("got origins %v", cfg.AllowedOrigins)
	}
	if cfg.Tuning.Alpha != 0.5 {
		t.Errorf("got alpha %v", cfg.Tuning.Alpha)
	}
}

func TestTuningValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Tuning)
		ok     bool
	}{
		{"defaults", func(*Tuning) {}, true},
		{"alpha zero", func(tu *Tuning) { tu.Alpha = 0 }, false},
		{"alpha above one", func(tu *Tuning) { tu.Alpha = 1.5 }, false},
		{"neutral above alpha", func(tu *Tuning) { tu.NeutralAlpha = 0.9 }, false},
		{"thresholds inverted", func(tu *Tuning) { tu.SocraticThreshold = 0.7 }, false},
		{"zero batch", func(tu *Tuning) { tu.BatchSize = 0 }, false},
		{"zero attempts", func(tu *Tuning) { tu.MaxGenAttempts = 0 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tu := DefaultConfig().Tuning
			tt.mutate(&tu)
			err := tu.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidate_BadStoreDriver(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LLM.Provider = "mock"
	cfg.Store.Driver = "cassandra"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown store driver")
	}
}
