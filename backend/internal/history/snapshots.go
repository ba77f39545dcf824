package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"garden-hub/backend/pkg/dialect"
)

// Snapshot is one periodic record of the sensor readings.
type Snapshot struct {
	ID           int64     `json:"id"`
	RecordedAt   time.Time `json:"recordedAt"`
	Temperature  float64   `json:"temperature"`
	Humidity     float64   `json:"humidity"`
	Gas          float64   `json:"gas"`
	SoilMoisture float64   `json:"soilMoisture"`
	Rain         bool      `json:"rain"`
}

// SnapshotStore persists sensor snapshots in the sensor_snapshots table.
type SnapshotStore struct {
	l  *slog.Logger
	db *sql.DB
	d  dialect.Dialect
}

func NewSnapshotStore(l *slog.Logger, db *sql.DB, d dialect.Dialect) *SnapshotStore {
	return &SnapshotStore{
		l:  l.With(slog.String("component", "snapshot-store")),
		db: db,
		d:  d,
	}
}

func (s *SnapshotStore) Insert(ctx context.Context, snap Snapshot) error {
	query := `INSERT INTO sensor_snapshots (recorded_at, temperature, humidity, gas, soil_moisture, rain)
		VALUES (?, ?, ?, ?, ?, ?)`
	if s.d == dialect.PostgreSQL {
		query = `INSERT INTO sensor_snapshots (recorded_at, temperature, humidity, gas, soil_moisture, rain)
			VALUES ($1, $2, $3, $4, $5, $6)`
	}

	_, err := s.db.ExecContext(ctx, query,
		snap.RecordedAt, snap.Temperature, snap.Humidity, snap.Gas, snap.SoilMoisture, snap.Rain)
	if err != nil {
		return fmt.Errorf("failed to insert sensor snapshot: %w", err)
	}

	return nil
}

// ListRecent returns the newest snapshots, most recent first.
func (s *SnapshotStore) ListRecent(ctx context.Context, limit int) ([]Snapshot, error) {
	query := `SELECT id, recorded_at, temperature, humidity, gas, soil_moisture, rain
		FROM sensor_snapshots ORDER BY recorded_at DESC LIMIT ?`
	if s.d == dialect.PostgreSQL {
		query = `SELECT id, recorded_at, temperature, humidity, gas, soil_moisture, rain
			FROM sensor_snapshots ORDER BY recorded_at DESC LIMIT $1`
	}

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sensor snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []Snapshot

	for rows.Next() {
		var snap Snapshot
		if err := rows.Scan(&snap.ID, &snap.RecordedAt, &snap.Temperature, &snap.Humidity, &snap.Gas, &snap.SoilMoisture, &snap.Rain); err != nil {
			return nil, fmt.Errorf("failed to scan sensor snapshot: %w", err)
		}

		snaps = append(snaps, snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sensor snapshots: %w", err)
	}

	return snaps, nil
}
