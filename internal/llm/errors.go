package llm

import (
	"encoding/json"
	"fmt"
	"time"
)

// The generation capability fails in four distinct ways, and the layers
// above react differently to each: rate limits and outages are transient
// and worth retrying, schema violations get one fresh generation, and a
// token-limit truncation is a tuning problem that retrying cannot fix.

// ErrRateLimit reports a 429 from the backend. RetryAfter, when the
// backend sent one, is honored by the retry layer instead of its own
// backoff schedule.
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("generation rate limited, retry after %s: %v", e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("generation rate limited: %v", e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse reports model output that failed schema validation
// or could not be decoded. Content carries the rejected output so the
// caller can log what the model actually produced.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("model output rejected: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable reports a backend outage or an unreachable
// endpoint (5xx, network failure).
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err == nil {
		return "generation backend unavailable"
	}
	return fmt.Sprintf("generation backend unavailable: %v", e.Err)
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded reports output cut off at the request's token
// limit. The partial Content is kept for diagnostics but is never valid
// JSON for schema-bound requests.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "generation truncated at the token limit"
}
