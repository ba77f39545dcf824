// Package history persists lock sessions and periodic sensor snapshots for
// later display.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"garden-hub/backend/internal/doorlock"
	"garden-hub/backend/pkg/dialect"
)

// End reasons recorded for a closed lock session.
const (
	endReasonAuto   = "auto"
	endReasonManual = "manual"
)

// SessionStore persists lock sessions in the lock_sessions table. It
// implements doorlock.SessionStore.
type SessionStore struct {
	l  *slog.Logger
	db *sql.DB
	d  dialect.Dialect
}

func NewSessionStore(l *slog.Logger, db *sql.DB, d dialect.Dialect) *SessionStore {
	return &SessionStore{
		l:  l.With(slog.String("component", "session-store")),
		db: db,
		d:  d,
	}
}

func (s *SessionStore) AppendSession(ctx context.Context, session doorlock.Session) error {
	query := `INSERT INTO lock_sessions (id, started_at) VALUES (?, ?)`
	if s.d == dialect.PostgreSQL {
		query = `INSERT INTO lock_sessions (id, started_at) VALUES ($1, $2)`
	}

	if _, err := s.db.ExecContext(ctx, query, session.ID, session.OpenedAt); err != nil {
		return fmt.Errorf("failed to append lock session: %w", err)
	}

	return nil
}

func (s *SessionStore) CloseSession(ctx context.Context, id string, closedAt time.Time, autoClosed bool) error {
	query := `UPDATE lock_sessions SET ended_at = ?, end_reason = ? WHERE id = ? AND ended_at IS NULL`
	if s.d == dialect.PostgreSQL {
		query = `UPDATE lock_sessions SET ended_at = $1, end_reason = $2 WHERE id = $3 AND ended_at IS NULL`
	}

	reason := endReasonManual
	if autoClosed {
		reason = endReasonAuto
	}

	res, err := s.db.ExecContext(ctx, query, closedAt, reason, id)
	if err != nil {
		return fmt.Errorf("failed to close lock session: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("lock session %s not found or already closed", id)
	}

	return nil
}

func (s *SessionStore) ListRecent(ctx context.Context, limit int) ([]doorlock.Session, error) {
	query := `SELECT id, started_at, ended_at, end_reason FROM lock_sessions ORDER BY started_at DESC LIMIT ?`
	if s.d == dialect.PostgreSQL {
		query = `SELECT id, started_at, ended_at, end_reason FROM lock_sessions ORDER BY started_at DESC LIMIT $1`
	}

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list lock sessions: %w", err)
	}
	defer rows.Close()

	var sessions []doorlock.Session

	for rows.Next() {
		var (
			session doorlock.Session
			endedAt sql.NullTime
			reason  sql.NullString
		)

		if err := rows.Scan(&session.ID, &session.OpenedAt, &endedAt, &reason); err != nil {
			return nil, fmt.Errorf("failed to scan lock session: %w", err)
		}

		if endedAt.Valid {
			t := endedAt.Time
			session.ClosedAt = &t
			session.AutoClosed = reason.String == endReasonAuto
		}

		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate lock sessions: %w", err)
	}

	return sessions, nil
}
