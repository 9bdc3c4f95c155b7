// Package mysql is the MySQL storage driver.
package mysql

import (
	"context"
	"database/sql"

	_ "github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
)

// DB implements store.Driver on MySQL.
type DB struct {
	db *sql.DB
}

// NewDB opens a MySQL connection pool for the given DSN.
func NewDB(dsn string) (*DB, error) {
	sqldb, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open mysql db")
	}
	if err := sqldb.Ping(); err != nil {
		return nil, errors.Wrap(err, "ping mysql db")
	}
	return &DB{db: sqldb}, nil
}

// Migrate creates the schema if missing.
func (d *DB) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS thread (
			id         INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			uid        VARCHAR(256) NOT NULL UNIQUE,
			user_id    VARCHAR(256) NOT NULL,
			title      TEXT NOT NULL,
			summary    TEXT NOT NULL,
			created_ts TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_ts TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS message (
			id          INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			thread_id   INT NOT NULL,
			role        VARCHAR(256) NOT NULL,
			content     TEXT NOT NULL,
			token_count INT NOT NULL DEFAULT 0,
			created_ts  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT fk_message_thread FOREIGN KEY (thread_id) REFERENCES thread(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX idx_message_thread ON message(thread_id)`,
		`CREATE INDEX idx_thread_user ON thread(user_id)`,
	}
	for _, s := range stmts {
		if _, err := d.db.ExecContext(ctx, s); err != nil {
			// Index creation is not idempotent on MySQL; ignore duplicates.
			if isDuplicateKeyName(err) {
				continue
			}
			return err
		}
	}
	return nil
}

// Close closes the connection pool.
func (d *DB) Close() error {
	return d.db.Close()
}
