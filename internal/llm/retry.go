package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// retryClass sorts generation failures by how the retry layer reacts.
type retryClass int

const (
	// retryNever: caller aborts, token-limit truncations.
	retryNever retryClass = iota
	// retryOnce: schema-invalid output. One fresh generation call;
	// a second invalid output means the prompt or schema is at fault.
	retryOnce
	// retryTransient: rate limits, outages, network failures.
	retryTransient
)

func classifyFailure(err error) retryClass {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return retryNever
	}
	var truncated *ErrMaxTokensExceeded
	if errors.As(err, &truncated) {
		return retryNever
	}
	var invalid *ErrInvalidResponse
	if errors.As(err, &invalid) {
		return retryOnce
	}
	// Rate limits, unavailability and anything unclassified (raw
	// network errors) are treated as transient.
	return retryTransient
}

// retryingProvider reissues failed generation calls with exponential
// backoff and jitter, up to a fixed attempt budget. Every retry is a
// fresh call to the backend; rejected output is never re-validated.
type retryingProvider struct {
	inner Provider
	cfg   RetryConfig
}

// WithRetry wraps a Provider with the retry policy in cfg.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	return &retryingProvider{inner: p, cfg: cfg}
}

func (p *retryingProvider) ModelID() string { return p.inner.ModelID() }

func (p *retryingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var lastErr error
	invalidBudget := 1

	for attempt := 0; attempt < p.cfg.MaxAttempts; attempt++ {
		resp, err := p.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		switch classifyFailure(err) {
		case retryNever:
			return nil, err
		case retryOnce:
			if invalidBudget == 0 {
				return nil, err
			}
			invalidBudget--
		}

		if attempt == p.cfg.MaxAttempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(p.delay(attempt, err)):
		}
	}
	return nil, lastErr
}

// delay computes the wait before the next attempt. A backend-supplied
// Retry-After takes precedence over the backoff schedule.
func (p *retryingProvider) delay(attempt int, err error) time.Duration {
	var limited *ErrRateLimit
	if errors.As(err, &limited) && limited.RetryAfter > 0 {
		return limited.RetryAfter
	}

	d := float64(p.cfg.InitialWait) * math.Pow(p.cfg.Multiplier, float64(attempt))
	d = math.Min(d, float64(p.cfg.MaxWait))
	// Spread concurrent retries with +-20% jitter.
	d += d * 0.2 * (2*rand.Float64() - 1)
	if d < 0 {
		d = 0
	}
	return time.Duration(d)
}
