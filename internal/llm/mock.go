package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is one scripted outcome for the MockProvider: either
// Content (with optional Usage) or an injected Err.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider scripts the generation capability for tests. Responses
// drain in FIFO order, so a test enqueues exactly the outputs its
// pipeline will consume; an exhausted script surfaces as a backend
// outage. Calls keeps every Request so tests can assert on the prompt
// and schema that reached the provider, and CallCount backs the
// no-extra-generation assertions on cached-batch paths.
type MockProvider struct {
	mu    sync.Mutex
	queue []MockResponse

	Calls []Request
}

// NewMockProvider scripts the given responses, oldest first.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{queue: responses}
}

// AddResponse appends one more scripted response.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, resp)
}

func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	if len(m.queue) == 0 {
		return nil, &ErrProviderUnavailable{}
	}
	next := m.queue[0]
	m.queue = m.queue[1:]

	if next.Err != nil {
		return nil, next.Err
	}
	return &Response{
		Content:    next.Content,
		Usage:      next.Usage,
		Model:      m.ModelID(),
		StopReason: "end",
	}, nil
}

func (m *MockProvider) ModelID() string { return "mock" }

// CallCount reports how many Generate calls the provider has seen.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
