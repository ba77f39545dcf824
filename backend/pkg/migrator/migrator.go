package migrator

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"garden-hub/backend/pkg/dialect"
)

// Migrator defines the interface for database migrations and schema operations.
type Migrator interface {
	Migrate() error
	DumpSchema(outputPath string) error
}

// New creates a migrator for the given dialect.
// The embed.FS must contain the dialect's migrations directory (see dialect.MigrationsDir).
//
//nolint:ireturn // Returns Migrator interface
func New(l *slog.Logger, d dialect.Dialect, connString string, fs embed.FS) (Migrator, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	dir := d.MigrationsDir()
	if dir == "" {
		return nil, errors.New("dialect has no migrations directory")
	}

	switch d {
	case dialect.SQLite:
		return newSQLiteMigrator(l, fs, dir, connString)
	case dialect.PostgreSQL:
		return newPostgresMigrator(l, fs, dir, connString)
	default:
		return nil, fmt.Errorf("unsupported dialect: %s", d)
	}
}
