// Package cache holds the four keyed stores the orchestrator consults before
// reaching for a provider: simplifications by sentence, word meanings and
// images by lowercased word, and optimized image queries by context key.
package cache

import (
	"sync"

	"github.com/abelbrown/glossia/internal/types"
)

// store is one string-keyed map with insertion-ordered keys so pruning is
// deterministic across runs.
type store[V any] struct {
	entries map[string]V
	order   []string
}

func newStore[V any]() *store[V] {
	return &store[V]{entries: make(map[string]V)}
}

func (s *store[V]) get(key string) (V, bool) {
	v, ok := s.entries[key]
	return v, ok
}

func (s *store[V]) put(key string, v V) {
	if _, exists := s.entries[key]; !exists {
		s.order = append(s.order, key)
	}
	s.entries[key] = v
}

func (s *store[V]) clear() {
	s.entries = make(map[string]V)
	s.order = nil
}

func (s *store[V]) prune(max int) {
	excess := len(s.entries) - max
	if excess <= 0 {
		return
	}
	for _, key := range s.order[:excess] {
		delete(s.entries, key)
	}
	s.order = append([]string(nil), s.order[excess:]...)
}

// Engine owns the four stores behind one mutex.
type Engine struct {
	mu         sync.Mutex
	simplified *store[*types.SimplificationResponse]
	meanings   *store[string]
	images     *store[[]types.ImageResult]
	queries    *store[string]
}

// Stats is the per-store entry count snapshot.
type Stats struct {
	Simplified       int
	WordMeanings     int
	Images           int
	OptimizedQueries int
}

// New builds an empty cache engine.
func New() *Engine {
	return &Engine{
		simplified: newStore[*types.SimplificationResponse](),
		meanings:   newStore[string](),
		images:     newStore[[]types.ImageResult](),
		queries:    newStore[string](),
	}
}

// GetSimplified returns the cached simplification for sentence.
func (e *Engine) GetSimplified(sentence string) (*types.SimplificationResponse, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.simplified.get(sentence)
}

// CacheSimplified stores resp under sentence; repeated puts overwrite.
func (e *Engine) CacheSimplified(sentence string, resp *types.SimplificationResponse) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.simplified.put(sentence, resp)
}

// GetWordMeaning returns the cached definition for word.
func (e *Engine) GetWordMeaning(word string) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.meanings.get(word)
}

// CacheWordMeaning stores meaning under word.
func (e *Engine) CacheWordMeaning(word, meaning string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.meanings.put(word, meaning)
}

// GetImages returns the cached image results for word. The image cache is
// keyed by bare word so hits are reused across sentences.
func (e *Engine) GetImages(word string) ([]types.ImageResult, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.images.get(word)
}

// CacheImages stores results under word.
func (e *Engine) CacheImages(word string, results []types.ImageResult) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.images.put(word, results)
}

// GetOptimizedQuery returns the cached search query for contextKey.
func (e *Engine) GetOptimizedQuery(contextKey string) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.queries.get(contextKey)
}

// CacheOptimizedQuery stores query under contextKey.
func (e *Engine) CacheOptimizedQuery(contextKey, query string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.queries.put(contextKey, query)
}

// ClearTextCaches purges the text-derived stores and preserves images, which
// stay valid across text reloads.
func (e *Engine) ClearTextCaches() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.simplified.clear()
	e.meanings.clear()
	e.queries.clear()
}

// ClearAll purges all four stores.
func (e *Engine) ClearAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.simplified.clear()
	e.meanings.clear()
	e.images.clear()
	e.queries.clear()
}

// Cleanup trims each store to at most max entries, dropping the oldest
// insertions first.
func (e *Engine) Cleanup(max int) {
	if max < 0 {
		max = 0
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.simplified.prune(max)
	e.meanings.prune(max)
	e.images.prune(max)
	e.queries.prune(max)
}

// Stats snapshots the per-store entry counts.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Stats{
		Simplified:       len(e.simplified.entries),
		WordMeanings:     len(e.meanings.entries),
		Images:           len(e.images.entries),
		OptimizedQueries: len(e.queries.entries),
	}
}
