package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/cognicore/deduce/pkg/deduce/internalerr"
	"github.com/cognicore/deduce/pkg/deduce/kb"
	"github.com/cognicore/deduce/pkg/deduce/parse"
	"github.com/cognicore/deduce/pkg/deduce/render"
)

// Catalog is an ordered collection of input statements kept in SQLite.
// It stores what users assert, never derived knowledge or support edges.
type Catalog struct {
	db *sql.DB
}

// Open opens (or creates) a catalog database with WAL mode enabled
func Open(ctx context.Context, path string) (*Catalog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &Catalog{db: db}, nil
}

// Close closes the database connection
func (c *Catalog) Close() error {
	return c.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS statements (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	kind TEXT NOT NULL,
	text TEXT NOT NULL UNIQUE,
	position INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS statements_position ON statements(position);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// Put appends items after the existing ones. Items already present keep
// their original position. Returns how many were new.
func (c *Catalog) Put(ctx context.Context, items ...kb.Item) (int, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var next int64
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position), 0) + 1 FROM statements`).Scan(&next); err != nil {
		return 0, err
	}

	const stmt = `
INSERT INTO statements (kind, text, position)
VALUES (?, ?, ?)
ON CONFLICT(text) DO NOTHING;
`
	added := 0
	for _, item := range items {
		if item == nil {
			return 0, fmt.Errorf("%w: nil item", internalerr.ErrInvalidInput)
		}
		res, err := tx.ExecContext(ctx, stmt, item.Kind().String(), render.Item(item), next)
		if err != nil {
			return 0, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		if n > 0 {
			added++
			next++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return added, nil
}

// Items returns the catalog in insertion order
func (c *Catalog) Items(ctx context.Context) ([]kb.Item, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT id, text FROM statements ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []kb.Item
	for rows.Next() {
		var (
			id   int64
			text string
		)
		if err := rows.Scan(&id, &text); err != nil {
			return nil, err
		}
		item, err := parse.Item(text)
		if err != nil {
			return nil, fmt.Errorf("statement %d: %w", id, err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Delete removes an item from the catalog
func (c *Catalog) Delete(ctx context.Context, item kb.Item) error {
	res, err := c.db.ExecContext(ctx, `DELETE FROM statements WHERE text = ?`, render.Item(item))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", item, internalerr.ErrNotFound)
	}
	return nil
}

// Count returns the number of stored statements
func (c *Catalog) Count(ctx context.Context) (int, error) {
	var n int
	err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM statements`).Scan(&n)
	return n, err
}
