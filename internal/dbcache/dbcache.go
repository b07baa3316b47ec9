// Package dbcache is a small sqlite-backed blob cache for the preview
// server: decoding a dungeon means decompressing and parsing its archive
// entry, so rendered previews are kept keyed by source file, dungeon
// index and the source's modification time. A changed source file simply
// misses the cache.
package dbcache

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// Cache wraps the sqlite handle.
type Cache struct {
	db *sql.DB
}

// Open creates or opens the cache database at path.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "open cache db")
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS
			preview
		(
			source TEXT NOT NULL,
			idx INTEGER NOT NULL,
			sourceModified TEXT NOT NULL,
			content BLOB,

			CONSTRAINT source_idx UNIQUE (source, idx)
		)
	`)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create cache schema")
	}

	return &Cache{db: db}, nil
}

// Get returns the cached blob for (source, index) if it was stored for
// the same source modification time, or nil on a miss.
func (c *Cache) Get(source string, index int, sourceModified string) ([]byte, error) {
	row := c.db.QueryRow(`
	SELECT
		content
	FROM
		preview
	WHERE
		source = ? AND idx = ? AND sourceModified = ?`, source, index, sourceModified)

	var content []byte
	err := row.Scan(&content)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "cache lookup")
	}
	return content, nil
}

// Put stores a blob, replacing any stale row for the same key.
func (c *Cache) Put(source string, index int, sourceModified string, content []byte) error {
	_, err := c.db.Exec(`
		INSERT OR REPLACE INTO
			preview
				(
					source, idx, sourceModified, content
				)
		VALUES
				(?, ?, ?, ?)
	`, source, index, sourceModified, content)
	return errors.Wrap(err, "cache store")
}

// Close closes the database.
func (c *Cache) Close() error {
	return c.db.Close()
}
