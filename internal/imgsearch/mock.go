package imgsearch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/abelbrown/glossia/internal/apperr"
	"github.com/abelbrown/glossia/internal/types"
)

// Mock is an in-process provider for tests and offline use.
type Mock struct {
	mu      sync.Mutex
	failErr error
	delay   time.Duration
	results map[string][]types.ImageResult
	calls   int
}

// NewMock builds a mock that synthesizes results for any query.
func NewMock() *Mock {
	return &Mock{results: make(map[string][]types.ImageResult)}
}

// FailWith makes every subsequent call return err; nil restores success.
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

// WithResults registers canned results for query.
func (m *Mock) WithResults(query string, results []types.ImageResult) *Mock {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[query] = results
	return m
}

// Calls reports how many searches have been issued.
func (m *Mock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// SearchImages returns canned results for query, or count synthesized hits.
func (m *Mock) SearchImages(ctx context.Context, query string, count int) ([]types.ImageResult, error) {
	m.mu.Lock()
	m.calls++
	delay, failErr := m.delay, m.failErr
	canned, hasCanned := m.results[query]
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return nil, apperr.Network("request cancelled: %v", ctx.Err())
		case <-time.After(delay):
		}
	}
	if failErr != nil {
		return nil, failErr
	}
	if hasCanned {
		return canned, nil
	}

	if count <= 0 {
		count = 5
	}
	results := make([]types.ImageResult, count)
	for i := range results {
		results[i] = types.ImageResult{
			URL:          fmt.Sprintf("https://images.example.com/%s/%d.jpg", query, i),
			ThumbnailURL: fmt.Sprintf("https://images.example.com/%s/%d_thumb.jpg", query, i),
			Title:        fmt.Sprintf("Mock image %d for %s", i, query),
		}
	}
	return results, nil
}

// ProviderName identifies the backend.
func (m *Mock) ProviderName() string { return "Mock" }

// HealthCheck fails only when the mock is configured to fail.
func (m *Mock) HealthCheck(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.failErr
}
