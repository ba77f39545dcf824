package dialect

import (
	"fmt"
)

// Dialect selects the SQL backend the hub stores its data in.
type Dialect string

const (
	SQLite     Dialect = "sqlite"
	PostgreSQL Dialect = "postgres"
)

func (d Dialect) Validate() error {
	switch d {
	case SQLite, PostgreSQL:
		return nil
	default:
		return fmt.Errorf("unsupported dialect: %s", d)
	}
}

func (d Dialect) String() string {
	return string(d)
}

// Driver returns the database/sql driver name for the dialect.
func (d Dialect) Driver() string {
	switch d {
	case SQLite:
		return "sqlite3"
	case PostgreSQL:
		return "pgx"
	default:
		return ""
	}
}

// MigrationsDir returns the per-dialect subdirectory inside the embedded
// migrations filesystem.
func (d Dialect) MigrationsDir() string {
	switch d {
	case SQLite:
		return "sqlite/migrations"
	case PostgreSQL:
		return "postgres/migrations"
	default:
		return ""
	}
}
