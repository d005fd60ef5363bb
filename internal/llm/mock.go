package llm

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/abelbrown/glossia/internal/apperr"
	"github.com/abelbrown/glossia/internal/types"
)

// Mock is an in-process provider for tests and offline use. It synthesizes
// deterministic responses unless canned ones are registered.
type Mock struct {
	mu        sync.Mutex
	failErr   error
	delay     time.Duration
	responses map[string]*types.SimplificationResponse
	calls     int
}

// NewMock builds a mock that succeeds with synthesized responses.
func NewMock() *Mock {
	return &Mock{responses: make(map[string]*types.SimplificationResponse)}
}

// FailWith makes every subsequent call return err. Passing nil restores
// success.
func (m *Mock) FailWith(err error) *Mock {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failErr = err
	return m
}

// Delay makes every call sleep for d before responding.
func (m *Mock) Delay(d time.Duration) *Mock {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
	return m
}

// WithResponse registers a canned simplification for sentence.
func (m *Mock) WithResponse(sentence string, resp *types.SimplificationResponse) *Mock {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[sentence] = resp
	return m
}

// Calls reports how many operations have been invoked.
func (m *Mock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// gate applies the configured delay and failure, counting the call.
func (m *Mock) gate(ctx context.Context) error {
	m.mu.Lock()
	m.calls++
	delay, failErr := m.delay, m.failErr
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return apperr.Network("request cancelled: %v", ctx.Err())
		case <-time.After(delay):
		}
	}
	return failErr
}

// Simplify returns the canned response for sentence, or a synthesized one.
func (m *Mock) Simplify(ctx context.Context, sentence string) (*types.SimplificationResponse, error) {
	if err := m.gate(ctx); err != nil {
		return nil, err
	}

	m.mu.Lock()
	canned := m.responses[sentence]
	m.mu.Unlock()
	if canned != nil {
		return canned, nil
	}

	return &types.SimplificationResponse{
		Original:   sentence,
		Simplified: "Simplified: " + sentence,
		Words:      []types.WordMeaning{},
	}, nil
}

// WordMeaning returns a synthesized definition.
func (m *Mock) WordMeaning(ctx context.Context, word, _ string) (string, error) {
	if err := m.gate(ctx); err != nil {
		return "", err
	}
	return fmt.Sprintf("Mock meaning for '%s'", word), nil
}

// OptimizeImageQuery returns "optimized <word>".
func (m *Mock) OptimizeImageQuery(ctx context.Context, req types.ImageQueryRequest) (string, error) {
	if err := m.gate(ctx); err != nil {
		return "", err
	}
	return "optimized " + req.Word, nil
}

// ProviderName identifies the backend.
func (m *Mock) ProviderName() string { return "Mock" }

// HealthCheck fails only when the mock is configured to fail.
func (m *Mock) HealthCheck(ctx context.Context) error {
	return m.gate(ctx)
}
