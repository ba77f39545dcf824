package hub

import (
	"context"
	"log/slog"
	"time"

	"garden-hub/backend/internal/history"
	"garden-hub/backend/pkg/utils"
)

// RecordSnapshot persists the current sensor readings.
func (s *Services) RecordSnapshot(ctx context.Context) error {
	sample := s.state.Sample()

	return s.snapshots.Insert(ctx, history.Snapshot{
		RecordedAt:   time.Now(),
		Temperature:  sample.Temperature,
		Humidity:     sample.Humidity,
		Gas:          sample.Gas,
		SoilMoisture: sample.SoilMoisture,
		Rain:         sample.Rain,
	})
}

// RunRecorder persists a snapshot every interval until the context is
// cancelled. Insert failures are logged and the loop keeps going.
func (s *Services) RunRecorder(ctx context.Context, interval time.Duration) {
	s.l.Info("snapshot recorder started", slog.Duration("interval", interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.l.Info("snapshot recorder stopped")
			return
		case <-ticker.C:
			if err := s.RecordSnapshot(ctx); err != nil {
				s.l.Warn("failed to record sensor snapshot", utils.ErrAttr(err))
			}
		}
	}
}
