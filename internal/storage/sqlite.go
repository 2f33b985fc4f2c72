package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const schema = `CREATE TABLE IF NOT EXISTS documents (
	key       TEXT PRIMARY KEY,
	body      BLOB NOT NULL,
	cached_at TEXT NOT NULL
)`

// SQLiteStore keeps documents in a single SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	path, err := expandHome(path)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}
	// Single writer; concurrent fetches serialize here.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Get returns the document stored under key.
func (s *SQLiteStore) Get(key string) ([]byte, bool, error) {
	if err := validKey(key); err != nil {
		return nil, false, err
	}

	var body []byte
	err := s.db.QueryRow(`SELECT body FROM documents WHERE key = ?`, key).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("querying cache: %w", err)
	}
	return body, true, nil
}

// Put inserts or replaces the document under key.
func (s *SQLiteStore) Put(key string, data []byte) error {
	if err := validKey(key); err != nil {
		return err
	}

	_, err := s.db.Exec(`INSERT INTO documents (key, body, cached_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET body = excluded.body, cached_at = excluded.cached_at`,
		key, data, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("writing cache: %w", err)
	}
	return nil
}

// Size returns the total size of stored document bodies.
func (s *SQLiteStore) Size() (int64, error) {
	var total int64
	if err := s.db.QueryRow(`SELECT COALESCE(SUM(LENGTH(body)), 0) FROM documents`).Scan(&total); err != nil {
		return 0, fmt.Errorf("measuring cache: %w", err)
	}
	return total, nil
}

// Flush deletes every document.
func (s *SQLiteStore) Flush() error {
	if _, err := s.db.Exec(`DELETE FROM documents`); err != nil {
		return fmt.Errorf("flushing cache: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
