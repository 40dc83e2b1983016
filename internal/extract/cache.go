package extract

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.

	"github.com/ZhiHanZ/forge/internal/filemap"
)

const cacheSchema = `
CREATE TABLE IF NOT EXISTS file_info (
    path         TEXT NOT NULL,
    content_hash TEXT NOT NULL,
    model        TEXT NOT NULL,
    info         TEXT NOT NULL,
    created_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (path, content_hash, model)
);
`

// SQLiteCache stores extraction results keyed by path, content hash and
// model. A nil *SQLiteCache misses on every lookup and drops every store.
type SQLiteCache struct {
	db *sql.DB
}

// OpenCache opens (or creates) the cache database at path, creating the
// parent directory if needed.
func OpenCache(ctx context.Context, path string) (*SQLiteCache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("cache: create directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cache: open database: %w", err)
	}

	// One connection: SQLite has a single writer and PRAGMAs are per
	// connection.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: enable WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: set busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, cacheSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: create schema: %w", err)
	}
	return &SQLiteCache{db: db}, nil
}

// Get returns the cached info, or ok=false on a miss.
func (c *SQLiteCache) Get(ctx context.Context, path, hash, model string) (info *filemap.Info, ok bool, err error) {
	if c == nil {
		return nil, false, nil
	}
	var raw string
	err = c.db.QueryRowContext(ctx,
		"SELECT info FROM file_info WHERE path = ? AND content_hash = ? AND model = ?",
		path, hash, model).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache: get %s: %w", path, err)
	}
	var out filemap.Info
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		// A row we cannot decode is treated as a miss and overwritten later.
		return nil, false, nil
	}
	return &out, true, nil
}

// Put stores info for (path, hash, model), replacing any previous row.
func (c *SQLiteCache) Put(ctx context.Context, path, hash, model string, info *filemap.Info) error {
	if c == nil || info == nil {
		return nil
	}
	raw, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", path, err)
	}
	const q = `
		INSERT INTO file_info (path, content_hash, model, info)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(path, content_hash, model) DO UPDATE SET info = excluded.info, created_at = CURRENT_TIMESTAMP`
	if _, err := c.db.ExecContext(ctx, q, path, hash, model, string(raw)); err != nil {
		return fmt.Errorf("cache: put %s: %w", path, err)
	}
	return nil
}

// Prune deletes rows for path whose hash differs from keep, so the cache
// keeps only the current generation of each file.
func (c *SQLiteCache) Prune(ctx context.Context, path, keep string) error {
	if c == nil {
		return nil
	}
	if _, err := c.db.ExecContext(ctx,
		"DELETE FROM file_info WHERE path = ? AND content_hash <> ?", path, keep); err != nil {
		return fmt.Errorf("cache: prune %s: %w", path, err)
	}
	return nil
}

// Close closes the database. Safe on nil.
func (c *SQLiteCache) Close() error {
	if c == nil {
		return nil
	}
	return c.db.Close()
}
