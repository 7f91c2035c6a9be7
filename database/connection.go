package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB represents the embedded credit store
type DB struct {
	*sql.DB
	path string
}

// NewConnection opens the store file at path, creating its directory if
// needed. WAL journaling and a bounded busy timeout are applied to every
// connection, and transactions take the write lock up front so concurrent
// writers queue instead of deadlocking.
func NewConnection(ctx context.Context, path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", buildDSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	// Test connection
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping store: %w", err)
	}

	return &DB{DB: db, path: path}, nil
}

// Path returns the store file path.
func (db *DB) Path() string {
	return db.path
}

// Close closes the store
func (db *DB) Close() {
	db.DB.Close()
}

func buildDSN(path string) string {
	q := url.Values{}
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "foreign_keys(ON)")
	q.Add("_pragma", "synchronous(NORMAL)")
	q.Set("_txlock", "immediate")
	return "file:" + path + "?" + q.Encode()
}
