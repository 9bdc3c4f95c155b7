// Package db selects a store driver based on the profile.
package db

import (
	"github.com/pkg/errors"

	"github.com/nikoo-app/assistant/server/profile"
	"github.com/nikoo-app/assistant/store"
	"github.com/nikoo-app/assistant/store/db/mysql"
	"github.com/nikoo-app/assistant/store/db/postgres"
	"github.com/nikoo-app/assistant/store/db/sqlite"
)

// NewDriver opens the storage backend named by the profile.
func NewDriver(p *profile.Profile) (store.Driver, error) {
	switch p.Driver {
	case "sqlite":
		return sqlite.NewDB(p.DSN)
	case "mysql":
		return mysql.NewDB(p.DSN)
	case "postgres":
		return postgres.NewDB(p.DSN)
	default:
		return nil, errors.Errorf("unknown driver %q", p.Driver)
	}
}
