package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"garden-hub/backend/pkg/dialect"
)

const doorSecretName = "door"

// SecretStore persists the door secret in the secrets table. An unset secret
// reads back as empty; the doorlock controller applies its own default.
type SecretStore struct {
	l  *slog.Logger
	db *sql.DB
	d  dialect.Dialect
}

func NewSecretStore(l *slog.Logger, db *sql.DB, d dialect.Dialect) *SecretStore {
	return &SecretStore{
		l:  l.With(slog.String("component", "secret-store")),
		db: db,
		d:  d,
	}
}

func (s *SecretStore) GetSecret(ctx context.Context) (string, error) {
	query := `SELECT value FROM secrets WHERE name = ?`
	if s.d == dialect.PostgreSQL {
		query = `SELECT value FROM secrets WHERE name = $1`
	}

	var value string

	err := s.db.QueryRowContext(ctx, query, doorSecretName).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}

	if err != nil {
		return "", fmt.Errorf("failed to read secret: %w", err)
	}

	return value, nil
}

func (s *SecretStore) SetSecret(ctx context.Context, secret string) error {
	query := `INSERT INTO secrets (name, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (name) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`
	if s.d == dialect.PostgreSQL {
		query = `INSERT INTO secrets (name, value, updated_at) VALUES ($1, $2, CURRENT_TIMESTAMP)
			ON CONFLICT (name) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`
	}

	if _, err := s.db.ExecContext(ctx, query, doorSecretName, secret); err != nil {
		return fmt.Errorf("failed to store secret: %w", err)
	}

	return nil
}
