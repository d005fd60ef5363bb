// Package engine is the reading orchestrator: it walks the text through the
// navigator, fills the caches from the LLM and image providers, and keeps
// vocabulary and session statistics current.
package engine

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/abelbrown/glossia/internal/apperr"
	"github.com/abelbrown/glossia/internal/cache"
	"github.com/abelbrown/glossia/internal/history"
	"github.com/abelbrown/glossia/internal/imgsearch"
	"github.com/abelbrown/glossia/internal/llm"
	"github.com/abelbrown/glossia/internal/logging"
	"github.com/abelbrown/glossia/internal/nav"
	"github.com/abelbrown/glossia/internal/types"
	"github.com/abelbrown/glossia/internal/vocab"
)

// DefaultLookahead is how many upcoming sentences PreprocessNext considers
// when no count is given.
const DefaultLookahead = 1

// imageFetchCount is the number of images requested per word.
const imageFetchCount = 5

// Engine composes the navigator, caches, vocabulary, and providers. Its
// mutex covers navigation and statistics only; it is never held across
// provider I/O.
type Engine struct {
	mu sync.Mutex

	navigator *nav.Navigator
	cache     *cache.Engine
	vocab     *vocab.Manager
	llm       llm.Provider
	images    imgsearch.Provider
	sessions  *history.Store

	flight singleflight.Group
	bg     sync.WaitGroup

	sessionStart  time.Time
	sentencesRead int
	wordsLearned  int
}

// Option adjusts an Engine at construction time.
type Option func(*Engine)

// WithHistory persists finished sessions to store.
func WithHistory(store *history.Store) Option {
	return func(e *Engine) { e.sessions = store }
}

// New builds an engine around the given providers and vocabulary.
func New(llmProvider llm.Provider, imageProvider imgsearch.Provider, vocabManager *vocab.Manager, opts ...Option) *Engine {
	e := &Engine{
		navigator:    nav.New(),
		cache:        cache.New(),
		vocab:        vocabManager,
		llm:          llmProvider,
		images:       imageProvider,
		sessionStart: time.Now(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// LoadText replaces the loaded text. The previous session (if any sentences
// were read) is flushed to the history store, manual words and text-derived
// caches are cleared, and statistics reset. Image caches survive.
func (e *Engine) LoadText(text string) error {
	e.mu.Lock()
	e.flushSessionLocked()
	e.sessionStart = time.Now()
	e.sentencesRead = 0
	e.wordsLearned = 0

	e.navigator.LoadText(text)
	total := e.navigator.TotalSentences()
	e.mu.Unlock()
	if total == 0 {
		return apperr.ErrEmptyBook
	}

	e.vocab.ClearManualWords()
	e.cache.ClearTextCaches()

	logging.Info("text loaded", "sentences", total)
	return nil
}

// CurrentSentence returns the sentence under the cursor.
func (e *Engine) CurrentSentence() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.navigator.CurrentSentence()
}

// Next advances one sentence.
func (e *Engine) Next() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.navigator.Advance()
}

// Previous moves one sentence back.
func (e *Engine) Previous() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.navigator.Previous()
}

// Goto jumps to sentence index i.
func (e *Engine) Goto(i int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.navigator.Goto(i)
}

// Position returns the 0-based cursor position.
func (e *Engine) Position() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.navigator.Position()
}

// TotalSentences returns how many sentences are loaded.
func (e *Engine) TotalSentences() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.navigator.TotalSentences()
}

// Progress returns the cursor position as a fraction in [0, 1].
func (e *Engine) Progress() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.navigator.Progress()
}

// ProcessSentence returns the simplification for sentence, cache-first.
// Concurrent calls for the same sentence collapse into one provider request;
// the cache is written only on success.
func (e *Engine) ProcessSentence(ctx context.Context, sentence string) (*types.SimplificationResponse, error) {
	if cached, ok := e.cache.GetSimplified(sentence); ok {
		return cached, nil
	}

	v, err, _ := e.flight.Do(sentence, func() (any, error) {
		if cached, ok := e.cache.GetSimplified(sentence); ok {
			return cached, nil
		}
		resp, err := e.llm.Simplify(ctx, sentence)
		if err != nil {
			return nil, err
		}
		e.cache.CacheSimplified(sentence, resp)
		e.recordSentenceRead(sentence)
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*types.SimplificationResponse), nil
}

// recordSentenceRead bumps the counter when the sentence under the cursor is
// processed for the first time.
func (e *Engine) recordSentenceRead(sentence string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if current, ok := e.navigator.CurrentSentence(); ok && current == sentence {
		e.sentencesRead++
	}
}

// ProcessSentences simplifies a batch sequentially, stopping at the first
// error.
func (e *Engine) ProcessSentences(ctx context.Context, sentences []string) ([]*types.SimplificationResponse, error) {
	results := make([]*types.SimplificationResponse, 0, len(sentences))
	for _, s := range sentences {
		resp, err := e.ProcessSentence(ctx, s)
		if err != nil {
			return results, err
		}
		results = append(results, resp)
	}
	return results, nil
}

// PreprocessNext schedules background simplification for the next lookahead
// uncached sentences (non-positive selects the default). It returns
// immediately; failures are logged and dropped, and the cache write is
// skipped if a concurrent caller already filled it.
func (e *Engine) PreprocessNext(ctx context.Context, lookahead int) {
	if lookahead <= 0 {
		lookahead = DefaultLookahead
	}

	e.mu.Lock()
	sentences := e.navigator.Sentences()
	pos := e.navigator.Position()
	var pending []string
	for i := pos + 1; i <= pos+lookahead && i < len(sentences); i++ {
		if _, ok := e.cache.GetSimplified(sentences[i]); !ok {
			pending = append(pending, sentences[i])
		}
	}
	e.mu.Unlock()

	if len(pending) == 0 {
		return
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, sentence := range pending {
		sentence := sentence
		g.Go(func() error {
			if _, err := e.ProcessSentence(ctx, sentence); err != nil {
				logging.Warn("prefetch failed", "error", err)
			}
			return nil
		})
	}

	e.bg.Add(1)
	go func() {
		defer e.bg.Done()
		g.Wait()
	}()
}

// WaitBackground blocks until all scheduled prefetches have finished.
func (e *Engine) WaitBackground() {
	e.bg.Wait()
}

// GetWordMeaning returns a short definition of word in context, cache-first
// by lowercased word.
func (e *Engine) GetWordMeaning(ctx context.Context, word, sentenceContext string) (string, error) {
	key := strings.ToLower(word)
	if cached, ok := e.cache.GetWordMeaning(key); ok {
		return cached, nil
	}

	meaning, err := e.llm.WordMeaning(ctx, word, sentenceContext)
	if err != nil {
		return "", err
	}
	e.cache.CacheWordMeaning(key, meaning)
	return meaning, nil
}

// ContextKey identifies one usage of word inside sentence for the
// optimized-query cache.
func ContextKey(word, sentence string) string {
	h := fnv.New64a()
	h.Write([]byte(word))
	h.Write([]byte(sentence))
	return fmt.Sprintf("%s_%x", word, h.Sum64())
}

// OptimizeAndFetchImages finds images for word as used in sentence. The
// image cache is keyed by bare lowercased word so hits are shared across
// sentences; the optimized query is cached per usage. An optimizer failure
// falls back to searching for the word itself.
func (e *Engine) OptimizeAndFetchImages(ctx context.Context, word, sentence, meaning string) ([]types.ImageResult, error) {
	imageKey := strings.ToLower(word)
	if cached, ok := e.cache.GetImages(imageKey); ok {
		return cached, nil
	}

	query := word
	contextKey := ContextKey(word, sentence)
	if cached, ok := e.cache.GetOptimizedQuery(contextKey); ok {
		query = cached
	} else {
		optimized, err := e.llm.OptimizeImageQuery(ctx, types.ImageQueryRequest{
			Word:            word,
			SentenceContext: sentence,
			WordMeaning:     meaning,
		})
		if err != nil {
			logging.Warn("image query optimization failed, using word", "word", word, "error", err)
		} else {
			query = optimized
			e.cache.CacheOptimizedQuery(contextKey, optimized)
		}
	}

	results, err := e.images.SearchImages(ctx, query, imageFetchCount)
	if err != nil {
		return nil, err
	}
	e.cache.CacheImages(imageKey, results)
	return results, nil
}

// GetCombinedWords merges apiWords with the session's manual words that
// appear in the current sentence. Manual definitions come from the
// word-meaning cache; a miss shows the loading placeholder.
func (e *Engine) GetCombinedWords(apiWords []types.WordMeaning) []types.WordMeaning {
	current, _ := e.CurrentSentence()
	return e.vocab.GetCombinedWords(apiWords, current, func(word string) (string, bool) {
		return e.cache.GetWordMeaning(word)
	})
}

// AddManualWord tags a word for the current session.
func (e *Engine) AddManualWord(word string) {
	e.vocab.AddManualWord(word)
}

// RemoveManualWord untags a session word.
func (e *Engine) RemoveManualWord(word string) {
	e.vocab.RemoveManualWord(word)
}

// AddWordEncounter counts a sighting, bumping words-learned on promotion.
func (e *Engine) AddWordEncounter(word string) (int, bool, error) {
	count, promoted, err := e.vocab.AddWordEncounter(word)
	if err != nil {
		return 0, false, err
	}
	if promoted {
		e.mu.Lock()
		e.wordsLearned++
		e.mu.Unlock()
	}
	return count, promoted, nil
}

// AddKnownWord marks word known immediately and counts it as learned.
func (e *Engine) AddKnownWord(word string) error {
	if e.vocab.IsKnown(word) {
		return nil
	}
	if err := e.vocab.AddKnownWord(word); err != nil {
		return err
	}
	e.mu.Lock()
	e.wordsLearned++
	e.mu.Unlock()
	return nil
}

// RemoveKnownWord forgets a known word.
func (e *Engine) RemoveKnownWord(word string) error {
	return e.vocab.RemoveKnownWord(word)
}

// FilterKnownWords drops entries the learner already knows.
func (e *Engine) FilterKnownWords(words []types.WordMeaning) []types.WordMeaning {
	return e.vocab.FilterKnownWords(words)
}

// KnownWordsCount returns the size of the known set.
func (e *Engine) KnownWordsCount() int {
	return e.vocab.KnownCount()
}

// AllKnownWords returns the known set, sorted.
func (e *Engine) AllKnownWords() []string {
	return e.vocab.KnownWords()
}

// Stats is the session statistics snapshot.
type Stats struct {
	SentencesRead      int
	WordsLearned       int
	SessionStart       time.Time
	SentencesPerMinute float64
	WordsPerMinute     float64
}

// SessionStats snapshots the current session's counters and rates.
func (e *Engine) SessionStats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := Stats{
		SentencesRead: e.sentencesRead,
		WordsLearned:  e.wordsLearned,
		SessionStart:  e.sessionStart,
	}
	if minutes := time.Since(e.sessionStart).Minutes(); minutes > 0 {
		s.SentencesPerMinute = float64(e.sentencesRead) / minutes
		s.WordsPerMinute = float64(e.wordsLearned) / minutes
	}
	return s
}

// CacheStats snapshots per-store cache entry counts.
func (e *Engine) CacheStats() cache.Stats {
	return e.cache.Stats()
}

// TrimCaches prunes every cache store to at most max entries.
func (e *Engine) TrimCaches(max int) {
	e.cache.Cleanup(max)
}

// HealthCheck verifies the configured LLM provider is reachable.
func (e *Engine) HealthCheck(ctx context.Context) error {
	return e.llm.HealthCheck(ctx)
}

// FinishSession flushes the current session to the history store. Called on
// shutdown; LoadText does the same for the session it replaces.
func (e *Engine) FinishSession() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.flushSessionLocked()
	e.sentencesRead = 0
	e.wordsLearned = 0
	e.sessionStart = time.Now()
}

// flushSessionLocked writes the session to the history store when anything
// was read. Callers hold e.mu.
func (e *Engine) flushSessionLocked() {
	if e.sessions == nil || e.sentencesRead == 0 {
		return
	}
	_, err := e.sessions.SaveSession(history.Session{
		StartedAt:     e.sessionStart,
		DurationSecs:  int64(time.Since(e.sessionStart).Seconds()),
		SentencesRead: e.sentencesRead,
		WordsLearned:  e.wordsLearned,
	})
	if err != nil {
		logging.Error("failed to save session", "error", err)
	}
}
