// Package sqlite is the default storage driver, backed by the CGo-free
// modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// DB implements store.Driver on SQLite.
type DB struct {
	db *sql.DB
}

// NewDB opens (and creates if missing) the database at dsn.
func NewDB(dsn string) (*DB, error) {
	sqldb, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "open sqlite db %q", dsn)
	}
	// SQLite handles one writer at a time; a single connection avoids
	// SQLITE_BUSY under concurrent handlers.
	sqldb.SetMaxOpenConns(1)
	return &DB{db: sqldb}, nil
}

// Migrate creates the schema if missing.
func (d *DB) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS thread (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			uid        TEXT NOT NULL UNIQUE,
			user_id    TEXT NOT NULL,
			title      TEXT NOT NULL DEFAULT 'New Chat',
			summary    TEXT NOT NULL DEFAULT '',
			created_ts BIGINT NOT NULL DEFAULT (strftime('%s', 'now')),
			updated_ts BIGINT NOT NULL DEFAULT (strftime('%s', 'now'))
		)`,
		`CREATE TABLE IF NOT EXISTS message (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			thread_id   INTEGER NOT NULL REFERENCES thread(id) ON DELETE CASCADE,
			role        TEXT NOT NULL,
			content     TEXT NOT NULL,
			token_count INTEGER NOT NULL DEFAULT 0,
			created_ts  BIGINT NOT NULL DEFAULT (strftime('%s', 'now'))
		)`,
		`CREATE INDEX IF NOT EXISTS idx_message_thread ON message(thread_id)`,
		`CREATE INDEX IF NOT EXISTS idx_thread_user ON thread(user_id)`,
	}
	for _, s := range stmts {
		if _, err := d.db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the connection pool.
func (d *DB) Close() error {
	return d.db.Close()
}
