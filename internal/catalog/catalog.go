// Package catalog persists a record of indexed assets so watch mode and
// incremental runs can skip files whose content has not changed.
package catalog

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	_ "modernc.org/sqlite"
)

// Catalog is a SQLite-backed index of processed assets keyed by path.
// Use ":memory:" for an ephemeral catalog.
type Catalog struct {
	db *sql.DB
}

// Entry describes one indexed asset.
type Entry struct {
	Path      string
	Hash      string // sha256 of the source file content
	Exports   int
	Imports   int
	IndexedAt time.Time
}

// Open opens (and if needed initializes) a catalog database.
func Open(path string) (*Catalog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open catalog database: %w", err)
	}

	c := &Catalog{db: db}
	if err := c.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, fmt.Errorf("initialize catalog schema: %w", err)
	}
	return c, nil
}

func (c *Catalog) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS assets (
		path TEXT PRIMARY KEY,
		hash TEXT NOT NULL,
		exports INTEGER NOT NULL,
		imports INTEGER NOT NULL,
		indexed_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_assets_hash ON assets(hash);
	`
	_, err := c.db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Record upserts the entry for an asset path.
func (c *Catalog) Record(e Entry) error {
	_, err := c.db.Exec(`
		INSERT INTO assets (path, hash, exports, imports, indexed_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			hash = excluded.hash,
			exports = excluded.exports,
			imports = excluded.imports,
			indexed_at = excluded.indexed_at`,
		e.Path, e.Hash, e.Exports, e.Imports, e.IndexedAt.Unix())
	if err != nil {
		return fmt.Errorf("record catalog entry for %s: %w", e.Path, err)
	}
	return nil
}

// Lookup returns the entry for path, or nil when the asset was never indexed.
func (c *Catalog) Lookup(path string) (*Entry, error) {
	row := c.db.QueryRow(`SELECT path, hash, exports, imports, indexed_at FROM assets WHERE path = ?`, path)

	var e Entry
	var indexedAt int64
	if err := row.Scan(&e.Path, &e.Hash, &e.Exports, &e.Imports, &indexedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lookup catalog entry for %s: %w", path, err)
	}
	e.IndexedAt = time.Unix(indexedAt, 0)
	return &e, nil
}

// Unchanged reports whether the file at path still matches its recorded hash.
// The computed hash is returned either way so callers can record it after a
// successful re-index.
func (c *Catalog) Unchanged(path string) (bool, string, error) {
	hash, err := HashFile(path)
	if err != nil {
		return false, "", err
	}
	e, err := c.Lookup(path)
	if err != nil {
		return false, hash, err
	}
	return e != nil && e.Hash == hash, hash, nil
}

// HashFile computes the sha256 content hash used for catalog comparisons.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
