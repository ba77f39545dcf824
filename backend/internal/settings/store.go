package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"garden-hub/backend/pkg/dialect"
	"garden-hub/backend/pkg/utils"
)

const settingsKey = "dashboard"

// Store persists the settings blob in the settings key-value table.
type Store struct {
	l  *slog.Logger
	db *sql.DB
	d  dialect.Dialect
}

func NewStore(l *slog.Logger, db *sql.DB, d dialect.Dialect) *Store {
	return &Store{
		l:  l.With(slog.String("component", "settings-store")),
		db: db,
		d:  d,
	}
}

// Load returns the persisted settings, or the defaults when nothing has been
// saved yet.
func (s *Store) Load(ctx context.Context) (Settings, error) {
	query := `SELECT value FROM settings WHERE key = ?`
	if s.d == dialect.PostgreSQL {
		query = `SELECT value FROM settings WHERE key = $1`
	}

	var raw string

	err := s.db.QueryRowContext(ctx, query, settingsKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return Defaults(), nil
	}

	if err != nil {
		return Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}

	loaded, err := utils.FromJSON[Settings]([]byte(raw))
	if err != nil {
		// A corrupt blob should not brick the dashboard.
		s.l.Warn("stored settings are unreadable, using defaults", utils.ErrAttr(err))
		return Defaults(), nil
	}

	return loaded, nil
}

// Save upserts the settings blob.
func (s *Store) Save(ctx context.Context, settings Settings) error {
	raw, err := utils.ToJSON(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	query := `INSERT INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`
	if s.d == dialect.PostgreSQL {
		query = `INSERT INTO settings (key, value, updated_at) VALUES ($1, $2, CURRENT_TIMESTAMP)
			ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`
	}

	if _, err := s.db.ExecContext(ctx, query, settingsKey, string(raw)); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	return nil
}
