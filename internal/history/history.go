// Package history provides SQLite persistence for past reading sessions.
// Only aggregate counters are stored, never text.
package history

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Session is one finished reading session.
type Session struct {
	ID            int64
	StartedAt     time.Time
	DurationSecs  int64
	SentencesRead int
	WordsLearned  int
}

// Store handles SQLite persistence. Thread-safe via an internal mutex.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open creates a Store at dbPath, creating the table if needed. Use
// ":memory:" for tests.
func Open(dbPath string) (*Store, error) {
	connStr := dbPath
	if dbPath == ":memory:" {
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return s, nil
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at DATETIME NOT NULL,
		duration_secs INTEGER NOT NULL,
		sentences_read INTEGER NOT NULL,
		words_learned INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_started ON sessions(started_at DESC);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// SaveSession records one finished session and returns its id.
func (s *Store) SaveSession(sess Session) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(
		`INSERT INTO sessions (started_at, duration_secs, sentences_read, words_learned)
		 VALUES (?, ?, ?, ?)`,
		sess.StartedAt.UTC(), sess.DurationSecs, sess.SentencesRead, sess.WordsLearned,
	)
	if err != nil {
		return 0, fmt.Errorf("insert session: %w", err)
	}
	return res.LastInsertId()
}

// RecentSessions returns up to limit sessions, newest first.
func (s *Store) RecentSessions(limit int) ([]Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT id, started_at, duration_secs, sentences_read, words_learned
		 FROM sessions ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var sess Session
		if err := rows.Scan(&sess.ID, &sess.StartedAt, &sess.DurationSecs, &sess.SentencesRead, &sess.WordsLearned); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// Totals sums sentences read and words learned across all sessions.
func (s *Store) Totals() (sentences, words int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRow(
		`SELECT COALESCE(SUM(sentences_read), 0), COALESCE(SUM(words_learned), 0) FROM sessions`)
	if err := row.Scan(&sentences, &words); err != nil {
		return 0, 0, fmt.Errorf("scan totals: %w", err)
	}
	return sentences, words, nil
}
