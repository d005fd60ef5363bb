package history

import (
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndListSessions(t *testing.T) {
	s := newTestStore(t)

	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := s.SaveSession(Session{
			StartedAt:     base.Add(time.Duration(i) * time.Hour),
			DurationSecs:  600,
			SentencesRead: 10 + i,
			WordsLearned:  i,
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	sessions, err := s.RecentSessions(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 2 {
		t.Fatalf("sessions = %d, want 2", len(sessions))
	}
	if sessions[0].SentencesRead != 12 {
		t.Errorf("newest first: SentencesRead = %d, want 12", sessions[0].SentencesRead)
	}
	if !sessions[0].StartedAt.After(sessions[1].StartedAt) {
		t.Error("sessions should be ordered newest first")
	}
}

func TestTotals(t *testing.T) {
	s := newTestStore(t)

	sentences, words, err := s.Totals()
	if err != nil {
		t.Fatal(err)
	}
	if sentences != 0 || words != 0 {
		t.Errorf("empty totals = %d/%d", sentences, words)
	}

	s.SaveSession(Session{StartedAt: time.Now(), SentencesRead: 5, WordsLearned: 2})
	s.SaveSession(Session{StartedAt: time.Now(), SentencesRead: 7, WordsLearned: 1})

	sentences, words, err = s.Totals()
	if err != nil {
		t.Fatal(err)
	}
	if sentences != 12 || words != 3 {
		t.Errorf("totals = %d/%d, want 12/3", sentences, words)
	}
}
