// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/tex2text/pkg/types"
)

// SQLiteStore persists records in a SQLite database keyed by archive name.
// Upserts are immediately durable; Flush is a no-op.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the report database at path and ensures the
// schema exists.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening report database: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS stats (
		name TEXT PRIMARY KEY,
		words INTEGER NOT NULL,
		paragraphs INTEGER NOT NULL,
		chars INTEGER NOT NULL,
		seconds REAL NOT NULL,
		updated_at TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating report schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Upsert inserts the record or replaces the row with the same archive name.
func (s *SQLiteStore) Upsert(rec types.StatsRecord) error {
	_, err := s.db.Exec(
		`INSERT INTO stats (name, words, paragraphs, chars, seconds, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
			words=excluded.words, paragraphs=excluded.paragraphs,
			chars=excluded.chars, seconds=excluded.seconds,
			updated_at=excluded.updated_at`,
		rec.Name, rec.Words, rec.Paragraphs, rec.Chars, rec.Seconds,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting stats for %s: %w", rec.Name, err)
	}
	return nil
}

// Records returns all records ordered by archive name.
func (s *SQLiteStore) Records() ([]types.StatsRecord, error) {
	rows, err := s.db.Query(
		`SELECT name, words, paragraphs, chars, seconds FROM stats ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying stats: %w", err)
	}
	defer rows.Close()

	var out []types.StatsRecord
	for rows.Next() {
		var rec types.StatsRecord
		if err := rows.Scan(&rec.Name, &rec.Words, &rec.Paragraphs, &rec.Chars, &rec.Seconds); err != nil {
			return nil, fmt.Errorf("scanning stats row: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Flush is a no-op: SQLite upserts are already durable.
func (s *SQLiteStore) Flush() error {
	return nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
