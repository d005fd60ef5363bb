// Package vocab tracks a learner's vocabulary: words they know, words they
// keep meeting, and words they selected manually in the current session.
// Known words and encounter counts persist as JSON under the user's data
// directory; manual words are session-only.
package vocab

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/abelbrown/glossia/internal/apperr"
	"github.com/abelbrown/glossia/internal/logging"
	"github.com/abelbrown/glossia/internal/types"
)

const (
	knownWordsFile = "known_words.json"
	encountersFile = "word_encounters.json"
)

// LoadingPlaceholder is shown for a manual word whose definition has not
// arrived yet.
const LoadingPlaceholder = "Loading..."

// Manager owns the vocabulary state. All words are normalized to lowercase
// at the boundary.
type Manager struct {
	mu sync.Mutex

	known     map[string]struct{}
	counts    map[string]int
	manual    map[string]int64 // word -> insertion time, unix ms
	threshold int
	dir       string
	now       func() time.Time
}

type knownWordsDoc struct {
	Words []string `json:"words"`
}

type encountersDoc struct {
	Encounters map[string]int `json:"encounters"`
}

// NewManager loads state from dir. Missing files mean empty state; malformed
// files are an error. threshold is the encounter count at which a word
// becomes known (non-positive selects the default 12).
func NewManager(dir string, threshold int) (*Manager, error) {
	if threshold <= 0 {
		threshold = 12
	}
	m := &Manager{
		known:     make(map[string]struct{}),
		counts:    make(map[string]int),
		manual:    make(map[string]int64),
		threshold: threshold,
		dir:       dir,
		now:       time.Now,
	}

	var kw knownWordsDoc
	if err := readJSON(filepath.Join(dir, knownWordsFile), &kw); err != nil {
		return nil, err
	}
	for _, w := range kw.Words {
		m.known[strings.ToLower(w)] = struct{}{}
	}

	var enc encountersDoc
	if err := readJSON(filepath.Join(dir, encountersFile), &enc); err != nil {
		return nil, err
	}
	for w, c := range enc.Encounters {
		if c > 0 {
			m.counts[strings.ToLower(w)] = c
		}
	}

	logging.Debug("vocabulary loaded", "known", len(m.known), "tracked", len(m.counts))
	return m, nil
}

// AddWordEncounter counts one sighting of word. Known words return (0, false)
// without incrementing. Crossing the promotion threshold moves the word into
// the known set atomically and reports became_known.
func (m *Manager) AddWordEncounter(word string) (int, bool, error) {
	word = strings.ToLower(word)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, known := m.known[word]; known {
		return 0, false, nil
	}

	m.counts[word]++
	count := m.counts[word]

	if count >= m.threshold {
		delete(m.counts, word)
		m.known[word] = struct{}{}
		if err := m.persistLocked(true, true); err != nil {
			return 0, false, err
		}
		logging.Info("word promoted to known", "word", word, "encounters", count)
		return count, true, nil
	}

	if err := m.persistLocked(false, true); err != nil {
		return 0, false, err
	}
	return count, false, nil
}

// AddKnownWord marks word as known immediately, clearing any encounter count.
func (m *Manager) AddKnownWord(word string) error {
	word = strings.ToLower(word)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, known := m.known[word]; known {
		return nil
	}
	_, counted := m.counts[word]
	delete(m.counts, word)
	m.known[word] = struct{}{}
	return m.persistLocked(true, counted)
}

// RemoveKnownWord forgets that word is known.
func (m *Manager) RemoveKnownWord(word string) error {
	word = strings.ToLower(word)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, known := m.known[word]; !known {
		return nil
	}
	delete(m.known, word)
	return m.persistLocked(true, false)
}

// IsKnown reports whether word is in the known set.
func (m *Manager) IsKnown(word string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.known[strings.ToLower(word)]
	return ok
}

// WordProgress returns word's encounter count and whether it is known.
func (m *Manager) WordProgress(word string) (int, bool) {
	word = strings.ToLower(word)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, known := m.known[word]; known {
		return 0, true
	}
	return m.counts[word], false
}

// KnownWords returns the known set, sorted.
func (m *Manager) KnownWords() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	words := make([]string, 0, len(m.known))
	for w := range m.known {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

// KnownCount returns the size of the known set.
func (m *Manager) KnownCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.known)
}

// FilterKnownWords drops entries whose word is already known.
func (m *Manager) FilterKnownWords(words []types.WordMeaning) []types.WordMeaning {
	m.mu.Lock()
	defer m.mu.Unlock()

	filtered := make([]types.WordMeaning, 0, len(words))
	for _, w := range words {
		if _, known := m.known[strings.ToLower(w.Word)]; !known {
			filtered = append(filtered, w)
		}
	}
	return filtered
}

// AddManualWord records a user-selected word for the current session.
func (m *Manager) AddManualWord(word string) {
	word = strings.ToLower(word)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.manual[word]; !ok {
		m.manual[word] = m.now().UnixMilli()
	}
}

// RemoveManualWord forgets a user-selected word.
func (m *Manager) RemoveManualWord(word string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.manual, strings.ToLower(word))
}

// ClearManualWords drops all session-selected words (on text reload).
func (m *Manager) ClearManualWords() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.manual = make(map[string]int64)
}

// GetCombinedWords appends to apiWords the manual words that are not already
// present and that occur in currentSentence. meaningLookup supplies cached
// definitions; absent ones show the loading placeholder. Manual entries sort
// newest first, ahead of the provider-ordered entries.
func (m *Manager) GetCombinedWords(apiWords []types.WordMeaning, currentSentence string, meaningLookup func(word string) (string, bool)) []types.WordMeaning {
	m.mu.Lock()
	manual := make(map[string]int64, len(m.manual))
	for w, ts := range m.manual {
		manual[w] = ts
	}
	m.mu.Unlock()

	seen := make(map[string]struct{}, len(apiWords))
	for _, w := range apiWords {
		seen[strings.ToLower(w.Word)] = struct{}{}
	}

	sentence := strings.ToLower(currentSentence)
	combined := append([]types.WordMeaning(nil), apiWords...)
	for word, ts := range manual {
		if _, dup := seen[word]; dup {
			continue
		}
		if !strings.Contains(sentence, word) {
			continue
		}
		meaning := LoadingPlaceholder
		if meaningLookup != nil {
			if cached, ok := meaningLookup(word); ok {
				meaning = cached
			}
		}
		combined = append(combined, types.NewManualWord(word, meaning, ts))
	}

	// Timestamped (manual) entries first, newest on top; the rest keep
	// provider order.
	sort.SliceStable(combined, func(i, j int) bool {
		ti, tj := combined[i].Timestamp, combined[j].Timestamp
		switch {
		case ti != nil && tj != nil:
			return *ti > *tj
		case ti != nil:
			return true
		default:
			return false
		}
	})
	return combined
}

// persistLocked writes the changed files. Callers hold m.mu.
func (m *Manager) persistLocked(knownChanged, countsChanged bool) error {
	if knownChanged {
		words := make([]string, 0, len(m.known))
		for w := range m.known {
			words = append(words, w)
		}
		sort.Strings(words)
		if err := writeJSON(filepath.Join(m.dir, knownWordsFile), knownWordsDoc{Words: words}); err != nil {
			return err
		}
	}
	if countsChanged {
		if err := writeJSON(filepath.Join(m.dir, encountersFile), encountersDoc{Encounters: m.counts}); err != nil {
			return err
		}
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return apperr.Config("read %s: %v", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return apperr.Config("parse %s: %v", path, err)
	}
	return nil
}

// writeJSON writes pretty-printed JSON via a temp file and rename, so a
// crash never leaves a truncated file.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return apperr.Config("encode %s: %v", path, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return apperr.Config("write %s: %v", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return apperr.Config("rename %s: %v", path, err)
	}
	return nil
}
