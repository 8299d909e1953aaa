package events

import (
	"context"
	"time"
)

// LLMRequestEvent captures a single call to the generation capability.
type LLMRequestEvent struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// AnswerEvent captures one evaluated practice answer.
type AnswerEvent struct {
	SessionID string
	GameType  string
	Concept   string
	Correct   bool
}

// Recorder appends domain events. Writes are best-effort: callers log and
// continue on failure, they never fail a request over the event log.
type Recorder interface {
	AppendLLMRequest(ctx context.Context, ev LLMRequestEvent) error
	AppendAnswer(ctx context.Context, ev AnswerEvent) error
	Close() error
}

// Nop returns a Recorder that drops everything.
func Nop() Recorder { return nopRecorder{} }

type nopRecorder struct{}

func (nopRecorder) AppendLLMRequest(context.Context, LLMRequestEvent) error { return nil }
func (nopRecorder) AppendAnswer(context.Context, AnswerEvent) error         { return nil }
func (nopRecorder) Close() error                                            { return nil }

func nowUTC() time.Time { return time.Now().UTC() }
