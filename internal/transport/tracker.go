package transport

import (
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/abelbrown/glossia/internal/logging"
)

// Tracker records request occurrences inside a sliding time window so
// duplicate traffic shows up in the logs. It never suppresses a request.
type Tracker struct {
	mu      sync.Mutex
	entries map[string]*trackerEntry
	ttl     time.Duration

	total      int
	duplicates int

	now func() time.Time
}

type trackerEntry struct {
	count     int
	firstSeen time.Time
}

// TrackerStats summarizes traffic seen since the tracker was created.
type TrackerStats struct {
	Unique       int
	Total        int
	Duplicates   int
	DuplicatePct float64
}

// NewTracker builds a tracker whose entries expire after ttl
// (default 5 minutes).
func NewTracker(ttl time.Duration) *Tracker {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Tracker{
		entries: make(map[string]*trackerEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Record notes one occurrence of the request and returns how many times it
// has been seen within the window, this one included.
func (t *Tracker) Record(method, url string, body []byte) int {
	key := trackerKey(method, url, body)

	t.mu.Lock()
	now := t.now()
	for k, e := range t.entries {
		if now.Sub(e.firstSeen) > t.ttl {
			delete(t.entries, k)
		}
	}

	t.total++
	e, ok := t.entries[key]
	if !ok {
		e = &trackerEntry{firstSeen: now}
		t.entries[key] = e
	}
	e.count++
	count := e.count
	if count > 1 {
		t.duplicates++
	}
	t.mu.Unlock()

	if count > 1 {
		logging.Warn("duplicate request", "key", key, "occurrences", count)
	} else {
		logging.Debug("request tracked", "key", key)
	}
	return count
}

// Stats returns cumulative unique/total/duplicate counts.
func (t *Tracker) Stats() TrackerStats {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := TrackerStats{
		Unique:     len(t.entries),
		Total:      t.total,
		Duplicates: t.duplicates,
	}
	if s.Total > 0 {
		s.DuplicatePct = 100 * float64(s.Duplicates) / float64(s.Total)
	}
	return s
}

// trackerKey is "METHOD:URL" for body-less requests and
// "METHOD:URL:<fnv64a(body)>" otherwise.
func trackerKey(method, url string, body []byte) string {
	if len(body) == 0 {
		return method + ":" + url
	}
	h := fnv.New64a()
	h.Write(body)
	return fmt.Sprintf("%s:%s:%x", method, url, h.Sum64())
}
