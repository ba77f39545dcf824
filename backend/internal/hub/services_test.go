//go:build cgo
// +build cgo

package hub

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"garden-hub/backend/internal/alerting"
	"garden-hub/backend/internal/narrative"
	"garden-hub/backend/internal/settings"
	"garden-hub/backend/pkg/dialect"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })

	schema := `
		CREATE TABLE settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE secrets (
			name TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE lock_sessions (
			id TEXT PRIMARY KEY,
			started_at TIMESTAMP NOT NULL,
			ended_at TIMESTAMP,
			end_reason TEXT
		);
		CREATE TABLE sensor_snapshots (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			recorded_at TIMESTAMP NOT NULL,
			temperature REAL,
			humidity REAL,
			gas REAL,
			soil_moisture REAL,
			rain INTEGER
		);`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	return db
}

type published struct {
	operationID string
	topic       string
	payload     any
}

type fakePublisher struct {
	connected bool
	messages  []published
}

func (p *fakePublisher) Publish(operationID, topic string, payload any) error {
	p.messages = append(p.messages, published{operationID: operationID, topic: topic, payload: payload})
	return nil
}

func (p *fakePublisher) IsConnected() bool {
	return p.connected
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServices(t *testing.T, notifier alerting.Notifier) (*Services, *fakePublisher) {
	t.Helper()

	pub := &fakePublisher{connected: true}
	narratives := narrative.NewClient(testLogger(), "", time.Second)
	svc := NewServices(context.Background(), testLogger(), testDB(t), dialect.SQLite, pub, notifier, narratives)

	return svc, pub
}

type countingNotifier struct {
	sent []alerting.Alert
}

func (n *countingNotifier) Send(_ context.Context, _ string, alert alerting.Alert) error {
	n.sent = append(n.sent, alert)
	return nil
}

func TestHandleSensorReadingFiresAndPublishes(t *testing.T) {
	t.Parallel()

	notifier := &countingNotifier{}
	svc, pub := newTestServices(t, notifier)

	// Enable notifications so the dispatcher actually sends.
	cfg := settings.Defaults()
	cfg.NotifyEnabled = true
	cfg.NotifyDestination = "owner@example.com"

	if fieldErrs, err := svc.UpdateSettings(context.Background(), cfg); fieldErrs != nil || err != nil {
		t.Fatalf("UpdateSettings() = %v, %v", fieldErrs, err)
	}

	alerts := svc.HandleSensorReading(context.Background(), "esp32", SensorGas, 55)
	if len(alerts) != 1 || alerts[0].Kind != alerting.KindGas {
		t.Fatalf("HandleSensorReading() alerts = %v, want [gas]", alerts)
	}

	if len(pub.messages) != 1 {
		t.Fatalf("published %d messages, want 1", len(pub.messages))
	}

	if pub.messages[0].operationID != OpPublishAlert || pub.messages[0].topic != "alerts/gas" {
		t.Errorf("published to %s/%s, want %s/alerts/gas", pub.messages[0].operationID, pub.messages[0].topic, OpPublishAlert)
	}

	if len(notifier.sent) != 1 {
		t.Errorf("notifier called %d times, want 1", len(notifier.sent))
	}
}

func TestHandleSensorReadingUnknownType(t *testing.T) {
	t.Parallel()

	svc, pub := newTestServices(t, nil)

	if alerts := svc.HandleSensorReading(context.Background(), "esp32", "pressure", 1013); alerts != nil {
		t.Errorf("unknown sensor type fired %v", alerts)
	}

	if len(pub.messages) != 0 {
		t.Error("nothing should be published for an unknown sensor type")
	}
}

func TestUpdateSettingsValidation(t *testing.T) {
	t.Parallel()

	svc, _ := newTestServices(t, nil)

	bad := settings.Defaults()
	bad.GasThreshold = -1

	fieldErrs, err := svc.UpdateSettings(context.Background(), bad)
	if err != nil {
		t.Fatalf("UpdateSettings() error = %v", err)
	}

	if _, ok := fieldErrs["gasThreshold"]; !ok {
		t.Errorf("UpdateSettings() fieldErrs = %v, want gasThreshold entry", fieldErrs)
	}

	// The active settings must be untouched.
	if svc.Settings().GasThreshold != settings.Defaults().GasThreshold {
		t.Error("invalid settings must not be activated")
	}
}

func TestResetSettings(t *testing.T) {
	t.Parallel()

	svc, _ := newTestServices(t, nil)

	next := settings.Defaults()
	next.TempThreshold = 60

	if fieldErrs, err := svc.UpdateSettings(context.Background(), next); fieldErrs != nil || err != nil {
		t.Fatalf("UpdateSettings() = %v, %v", fieldErrs, err)
	}

	restored, err := svc.ResetSettings(context.Background())
	if err != nil {
		t.Fatalf("ResetSettings() error = %v", err)
	}

	if restored != settings.Defaults() {
		t.Errorf("ResetSettings() = %+v, want defaults", restored)
	}

	if svc.Settings() != settings.Defaults() {
		t.Error("defaults should be active after reset")
	}
}

func TestSetDeviceFlag(t *testing.T) {
	t.Parallel()

	svc, pub := newTestServices(t, nil)

	if err := svc.SetDeviceFlag(context.Background(), DevicePump, true); err != nil {
		t.Fatalf("SetDeviceFlag() error = %v", err)
	}

	if !svc.DeviceFlags()[DevicePump] {
		t.Error("pump flag should be set")
	}

	if len(pub.messages) != 1 || pub.messages[0].topic != "devices/pump/commands" {
		t.Errorf("published = %+v, want devices/pump/commands", pub.messages)
	}

	if err := svc.SetDeviceFlag(context.Background(), "heater", true); err == nil {
		t.Error("unknown device should be rejected")
	}

	if err := svc.SetDeviceFlag(context.Background(), DeviceDoor, true); err == nil {
		t.Error("the door must be driven through the lock controller")
	}
}

func TestDoorUnlockPublishesCommand(t *testing.T) {
	t.Parallel()

	svc, pub := newTestServices(t, nil)

	if _, err := svc.Door.Unlock(context.Background(), "1234", 5*time.Second); err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}

	found := false

	for _, m := range pub.messages {
		if m.operationID == OpPublishDeviceCommand && m.topic == "devices/door/commands" {
			found = true
		}
	}

	if !found {
		t.Errorf("unlock should publish a door command, got %+v", pub.messages)
	}

	if !svc.DeviceFlags()[DeviceDoor] {
		t.Error("door flag should be set after unlock")
	}
}

func TestRecordSnapshot(t *testing.T) {
	t.Parallel()

	svc, _ := newTestServices(t, nil)

	svc.HandleSensorReading(context.Background(), "esp32", SensorTemperature, 21)
	svc.HandleSensorReading(context.Background(), "esp32", SensorSoilMoisture, 45)

	if err := svc.RecordSnapshot(context.Background()); err != nil {
		t.Fatalf("RecordSnapshot() error = %v", err)
	}

	snaps, err := svc.RecentSnapshots(context.Background(), 10)
	if err != nil {
		t.Fatalf("RecentSnapshots() error = %v", err)
	}

	if len(snaps) != 1 {
		t.Fatalf("got %d snapshots, want 1", len(snaps))
	}

	if snaps[0].Temperature != 21 || snaps[0].SoilMoisture != 45 {
		t.Errorf("snapshot = %+v", snaps[0])
	}
}

func TestNarrativeUsesLatestReadings(t *testing.T) {
	t.Parallel()

	svc, _ := newTestServices(t, nil)

	svc.HandleSensorReading(context.Background(), "esp32", SensorSoilMoisture, 20)

	n := svc.Narrative(context.Background(), narrative.KindIrrigation)
	if n.Source != narrative.SourceOffline {
		t.Errorf("Source = %v, want offline (no endpoint configured)", n.Source)
	}

	if !strings.Contains(n.Text, "Watering is recommended") {
		t.Errorf("Text = %q, want watering recommendation for dry soil", n.Text)
	}
}
