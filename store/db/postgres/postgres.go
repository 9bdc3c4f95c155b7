// Package postgres is the PostgreSQL storage driver.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/pkg/errors"
)

// DB implements store.Driver on PostgreSQL.
type DB struct {
	db *sql.DB
}

// NewDB opens a Postgres connection pool for the given DSN.
func NewDB(dsn string) (*DB, error) {
	sqldb, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open postgres db")
	}
	if err := sqldb.Ping(); err != nil {
		return nil, errors.Wrap(err, "ping postgres db")
	}
	return &DB{db: sqldb}, nil
}

// Migrate creates the schema if missing.
func (d *DB) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS thread (
			id         SERIAL PRIMARY KEY,
			uid        TEXT NOT NULL UNIQUE,
			user_id    TEXT NOT NULL,
			title      TEXT NOT NULL DEFAULT 'New Chat',
			summary    TEXT NOT NULL DEFAULT '',
			created_ts BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW()),
			updated_ts BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())
		)`,
		`CREATE TABLE IF NOT EXISTS message (
			id          SERIAL PRIMARY KEY,
			thread_id   INTEGER NOT NULL REFERENCES thread(id) ON DELETE CASCADE,
			role        TEXT NOT NULL,
			content     TEXT NOT NULL,
			token_count INTEGER NOT NULL DEFAULT 0,
			created_ts  BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())
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

func placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}
