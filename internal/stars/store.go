// Package stars provides the star count cache: a rate-limit-respecting view
// of repository popularity, backed by a persistent SQLite cache with a
// time-to-live and a single batched remote query per refresh.
package stars

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/aidatafoundation/contentd/internal/models"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS star_cache (
	repo_key   TEXT PRIMARY KEY,
	count      INTEGER NOT NULL CHECK (count >= 0),
	fetched_at DATETIME NOT NULL
);
`

// Store is the persistent star cache. Writes are idempotent per-key
// overwrites (last write wins); staleness is bounded by the service TTL, so
// no locking beyond SQLite's own is needed.
type Store struct {
	conn *sql.DB
}

// OpenStore opens (or creates) the cache database and applies the schema.
func OpenStore(dsn string) (*Store, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("stars: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("stars: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("stars: apply schema: %w", err)
	}
	return &Store{conn: conn}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Get returns the cached records for the given keys. Keys with no entry are
// simply absent from the result.
func (s *Store) Get(keys []string) (map[string]models.StarRecord, error) {
	out := make(map[string]models.StarRecord, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	placeholders := strings.Repeat("?,", len(keys))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}

	rows, err := s.conn.Query(
		`SELECT repo_key, count, fetched_at FROM star_cache WHERE repo_key IN (`+placeholders+`)`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("stars: query cache: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec models.StarRecord
		if err := rows.Scan(&rec.RepoKey, &rec.Count, &rec.FetchedAt); err != nil {
			return nil, fmt.Errorf("stars: scan cache row: %w", err)
		}
		out[rec.RepoKey] = rec
	}
	return out, rows.Err()
}

// Put upserts records in one transaction. Existing entries for the same key
// are overwritten with the fresh value and timestamp.
func (s *Store) Put(records []models.StarRecord) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("stars: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	stmt, err := tx.Prepare(`
		INSERT INTO star_cache (repo_key, count, fetched_at)
		VALUES (?, ?, ?)
		ON CONFLICT(repo_key) DO UPDATE SET
			count      = excluded.count,
			fetched_at = excluded.fetched_at
	`)
	if err != nil {
		return fmt.Errorf("stars: prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if rec.Count < 0 {
			return fmt.Errorf("stars: refusing negative count for %s", rec.RepoKey)
		}
		if _, err := stmt.Exec(rec.RepoKey, rec.Count, touchTime(rec.FetchedAt)); err != nil {
			return fmt.Errorf("stars: upsert %s: %w", rec.RepoKey, err)
		}
	}
	return tx.Commit()
}

// touchTime truncates to UTC seconds so round-trips through SQLite compare
// cleanly in tests.
func touchTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}
