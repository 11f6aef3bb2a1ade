// Package history keeps a local sqlite log of past searches.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

type Store struct {
	readDB  *sql.DB
	writeDB *sql.DB
}

func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating history dir: %w", err)
	}

	writeDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening write db: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	readDB, err := sql.Open("sqlite", dbPath+"?mode=ro")
	if err != nil {
		writeDB.Close()
		return nil, fmt.Errorf("opening read db: %w", err)
	}

	s := &Store{readDB: readDB, writeDB: writeDB}
	if err := s.init(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.writeDB.Exec(`
		CREATE TABLE IF NOT EXISTS searches (
			id          TEXT PRIMARY KEY,
			date        TEXT NOT NULL,
			year        INTEGER NOT NULL,
			month       TEXT NOT NULL,
			day         TEXT NOT NULL,
			outcome     TEXT NOT NULL,
			message     TEXT NOT NULL DEFAULT '',
			fact_count  INTEGER NOT NULL DEFAULT 0,
			searched_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_searches_searched_at ON searches(searched_at DESC);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	var errs []error
	if s.readDB != nil {
		errs = append(errs, s.readDB.Close())
	}
	if s.writeDB != nil {
		errs = append(errs, s.writeDB.Close())
	}
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}

// Record stores e, filling in ID and SearchedAt when unset, and returns the
// stored entry.
func (s *Store) Record(e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.SearchedAt.IsZero() {
		e.SearchedAt = time.Now()
	}

	_, err := s.writeDB.Exec(`
		INSERT INTO searches (id, date, year, month, day, outcome, message, fact_count, searched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.Date, e.Year, e.Month, e.Day, e.Outcome, e.Message, e.FactCount, e.SearchedAt.UTC())
	if err != nil {
		return Entry{}, fmt.Errorf("recording search %s: %w", e.Date, err)
	}
	return e, nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.readDB.Query(`
		SELECT id, date, year, month, day, outcome, message, fact_count, searched_at
		FROM searches
		ORDER BY searched_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Date, &e.Year, &e.Month, &e.Day, &e.Outcome, &e.Message, &e.FactCount, &e.SearchedAt); err != nil {
			return nil, fmt.Errorf("scanning search: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Prune deletes entries older than retention and returns how many went.
func (s *Store) Prune(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention).UTC()
	res, err := s.writeDB.Exec("DELETE FROM searches WHERE searched_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning history: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		if _, err := s.writeDB.Exec("VACUUM"); err != nil {
			return n, fmt.Errorf("compacting history: %w", err)
		}
	}
	return n, nil
}

// Stats returns the number of stored searches and the database file size.
func (s *Store) Stats(dbPath string) (int, int64, error) {
	var count int
	if err := s.readDB.QueryRow("SELECT COUNT(*) FROM searches").Scan(&count); err != nil {
		return 0, 0, fmt.Errorf("counting searches: %w", err)
	}
	info, err := os.Stat(dbPath)
	if err != nil {
		return count, 0, fmt.Errorf("stat %s: %w", dbPath, err)
	}
	return count, info.Size(), nil
}
