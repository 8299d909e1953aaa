package llm

import (
	"context"
	"time"

	"github.com/abhisek/tutorloop/internal/events"
	"github.com/abhisek/tutorloop/internal/logger"
)

// LoggingProvider is a decorator that records every LLM request as an
// event and logs a structured summary line.
type LoggingProvider struct {
	inner    Provider
	log      *logger.Logger
	recorder events.Recorder
}

// WithLogging wraps a Provider with event logging.
func WithLogging(p Provider, log *logger.Logger, rec events.Recorder) Provider {
	return &LoggingProvider{inner: p, log: log, recorder: rec}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := l.inner.Generate(ctx, req)

	latencyMs := time.Since(start).Milliseconds()

	ev := events.LLMRequestEvent{
		Provider:  l.inner.ModelID(),
		Model:     l.inner.ModelID(),
		Purpose:   purpose,
		LatencyMs: latencyMs,
		Success:   err == nil,
	}
	if resp != nil {
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		ev.Model = resp.Model
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
		l.log.Warn("llm request failed", "purpose", purpose, "latency_ms", latencyMs, "err", err)
	} else {
		l.log.Debug("llm request", "purpose", purpose, "latency_ms", latencyMs,
			"input_tokens", ev.InputTokens, "output_tokens", ev.OutputTokens)
	}

	// Record the event but don't fail the request if recording fails.
	if recErr := l.recorder.AppendLLMRequest(ctx, ev); recErr != nil {
		l.log.Warn("failed to record llm request event", "err", recErr)
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
