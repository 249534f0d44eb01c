package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a key has no persistent entry.
var ErrNotFound = errors.New("not found")

const schema = `
CREATE TABLE IF NOT EXISTS responses (
	key        TEXT PRIMARY KEY,
	payload    BLOB NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_responses_created_at ON responses(created_at);
`

// Store is the SQLite-backed persistent cache tier.
type Store struct {
	db *sql.DB
}

// NewStore opens (creating if needed) the cache database at path.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	// SQLite benefits from a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Get returns the payload and creation time for key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, time.Time, error) {
	var payload []byte
	var createdAt int64
	err := s.db.QueryRowContext(ctx,
		"SELECT payload, created_at FROM responses WHERE key = ?", key,
	).Scan(&payload, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, ErrNotFound
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("query cache entry: %w", err)
	}
	return payload, time.Unix(createdAt, 0), nil
}

// Put upserts a cache entry.
func (s *Store) Put(ctx context.Context, key string, payload []byte, createdAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO responses (key, payload, created_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, created_at = excluded.created_at`,
		key, payload, createdAt.Unix())
	if err != nil {
		return fmt.Errorf("upsert cache entry: %w", err)
	}
	return nil
}

// Delete removes one entry.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM responses WHERE key = ?", key)
	return err
}

// DeleteOlderThan removes entries created before cutoff.
func (s *Store) DeleteOlderThan(ctx context.Context, cutoff time.Time) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM responses WHERE created_at < ?", cutoff.Unix())
	return err
}

// Purge removes all entries.
func (s *Store) Purge(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM responses")
	return err
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
