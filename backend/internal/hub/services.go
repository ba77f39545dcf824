package hub

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"garden-hub/backend/internal/alerting"
	"garden-hub/backend/internal/doorlock"
	"garden-hub/backend/internal/history"
	mqtttypes "garden-hub/backend/internal/mqttapi/types"
	"garden-hub/backend/internal/narrative"
	"garden-hub/backend/internal/settings"
	"garden-hub/backend/pkg/dialect"
	"garden-hub/backend/pkg/utils"
)

// MQTT operation IDs the hub publishes through. The mqttapi package registers
// the matching specs.
const (
	OpPublishDeviceCommand = "publishDeviceCommand"
	OpPublishAlert         = "publishAlert"
)

var (
	ErrUnknownDevice       = errors.New("unknown device")
	ErrDeviceNotToggleable = errors.New("device is not directly toggleable")
)

// Publisher pushes payloads to a registered MQTT operation.
type Publisher interface {
	Publish(operationID string, actualTopic string, payload any) error
	IsConnected() bool
}

// Services wires the core components together: sensor state, threshold
// monitoring, notification dispatch, the door controller, and persistence.
type Services struct {
	l          *slog.Logger
	db         *sql.DB
	pub        Publisher
	state      *State
	monitor    *alerting.Monitor
	dispatcher *alerting.Dispatcher
	store      *settings.Store
	snapshots  *history.SnapshotStore
	narratives *narrative.Client

	// Door is the timed-action controller for the door actuator.
	Door *doorlock.Controller

	mu      sync.RWMutex
	current settings.Settings
}

// NewServices builds the service graph. The notifier may be nil when push
// notifications are not configured; the dispatcher then suppresses every
// send.
func NewServices(
	ctx context.Context,
	l *slog.Logger,
	db *sql.DB,
	d dialect.Dialect,
	pub Publisher,
	notifier alerting.Notifier,
	narratives *narrative.Client,
) *Services {
	state := NewState()

	svc := &Services{
		l:          l.With(slog.String("module", "hub")),
		db:         db,
		pub:        pub,
		state:      state,
		monitor:    alerting.NewMonitor(),
		dispatcher: alerting.NewDispatcher(l, notifier),
		store:      settings.NewStore(l, db, d),
		snapshots:  history.NewSnapshotStore(l, db, d),
		narratives: narratives,
	}

	actuator := &commandActuator{pub: pub, state: state}
	svc.Door = doorlock.NewController(
		l,
		DeviceDoor,
		settings.NewSecretStore(l, db, d),
		history.NewSessionStore(l, db, d),
		actuator,
		nil,
	)

	current, err := svc.store.Load(ctx)
	if err != nil {
		svc.l.Warn("failed to load settings, using defaults", utils.ErrAttr(err))
		current = settings.Defaults()
	}

	svc.current = current

	return svc
}

// Settings returns the active configuration.
func (s *Services) Settings() settings.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.current
}

// UpdateSettings validates, persists, and activates new settings. Field
// errors are returned without touching the stored configuration.
func (s *Services) UpdateSettings(ctx context.Context, next settings.Settings) (map[string]string, error) {
	if fieldErrs := next.Validate(); fieldErrs != nil {
		return fieldErrs, nil
	}

	if err := s.store.Save(ctx, next); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.current = next
	s.mu.Unlock()

	// Changed thresholds start with a clean slate: an alert suppressed
	// under the old configuration should not stay suppressed under the new.
	s.monitor.Reset()

	return nil, nil
}

// ResetSettings restores and activates the default configuration.
func (s *Services) ResetSettings(ctx context.Context) (settings.Settings, error) {
	defaults := settings.Defaults()

	if err := s.store.Save(ctx, defaults); err != nil {
		return settings.Settings{}, err
	}

	s.mu.Lock()
	s.current = defaults
	s.mu.Unlock()

	s.monitor.Reset()

	return defaults, nil
}

// HandleSensorReading folds one sensor field update into the latest sample,
// evaluates the thresholds, pushes any fired alerts to the dashboard topic,
// and hands them to the notification dispatcher. It returns the fired
// alerts.
func (s *Services) HandleSensorReading(ctx context.Context, deviceID, sensorType string, value float64) []alerting.Alert {
	now := time.Now()

	if !s.state.ApplySensor(sensorType, value, now) {
		s.l.Warn("ignoring unknown sensor type",
			slog.String("device_id", deviceID),
			slog.String("sensor_type", sensorType),
		)

		return nil
	}

	cfg := s.Settings()

	alerts := s.monitor.Evaluate(s.state.AlertSample(), cfg.Thresholds(), now)
	for _, alert := range alerts {
		s.publishAlert(alert, cfg, now)

		if _, err := s.dispatcher.MaybeNotify(ctx, alert, cfg.NotifyConfig(), now); err != nil {
			// Already logged by the dispatcher; delivery failures must not
			// stall sensor processing.
			continue
		}
	}

	return alerts
}

func (s *Services) publishAlert(alert alerting.Alert, cfg settings.Settings, now time.Time) {
	event := mqtttypes.AlertEvent{
		Kind:                 string(alert.Kind),
		Value:                alert.Value,
		Threshold:            alert.Threshold,
		Context:              alert.Context,
		Sound:                cfg.SoundEnabled,
		SoundDurationSeconds: cfg.SoundDurationSeconds,
		Timestamp:            now,
	}

	topic := fmt.Sprintf("alerts/%s", alert.Kind)
	if err := s.pub.Publish(OpPublishAlert, topic, event); err != nil {
		s.l.Warn("failed to publish alert event", slog.String("kind", string(alert.Kind)), utils.ErrAttr(err))
	}
}

// SetDeviceFlag toggles one of the simple actuators. The door is managed by
// the Door controller and is rejected here.
func (s *Services) SetDeviceFlag(ctx context.Context, deviceID string, on bool) error {
	if deviceID == DeviceDoor {
		return fmt.Errorf("device %s is managed by the door lock: %w", deviceID, ErrDeviceNotToggleable)
	}

	if !s.state.KnownDevice(deviceID) {
		return fmt.Errorf("device %s: %w", deviceID, ErrUnknownDevice)
	}

	actuator := &commandActuator{pub: s.pub, state: s.state}

	return actuator.SetFlag(ctx, deviceID, on)
}

// CurrentSample returns the latest sensor readings.
func (s *Services) CurrentSample() Sample {
	return s.state.Sample()
}

// DeviceFlags returns the last commanded state of every actuator.
func (s *Services) DeviceFlags() map[string]bool {
	return s.state.Flags()
}

// Narrative produces analysis text for the latest readings.
func (s *Services) Narrative(ctx context.Context, kind narrative.Kind) narrative.Narrative {
	sample := s.state.Sample()

	return s.narratives.Analyze(ctx, kind, narrative.Input{
		Temperature:  sample.Temperature,
		Humidity:     sample.Humidity,
		Gas:          sample.Gas,
		SoilMoisture: sample.SoilMoisture,
		Rain:         sample.Rain,
	})
}

// RecentSnapshots lists the newest persisted sensor snapshots.
func (s *Services) RecentSnapshots(ctx context.Context, limit int) ([]history.Snapshot, error) {
	return s.snapshots.ListRecent(ctx, limit)
}

// HealthStatus reports the reachability of the hub's collaborators.
type HealthStatus struct {
	Database bool
	MQTT     bool
}

// Health checks the database and the MQTT connection.
func (s *Services) Health(ctx context.Context) HealthStatus {
	status := HealthStatus{Database: true, MQTT: true}

	if err := s.db.PingContext(ctx); err != nil {
		s.l.Error("database unreachable", utils.ErrAttr(err))

		status.Database = false
	}

	if !s.pub.IsConnected() {
		s.l.Error("mqtt broker unreachable")

		status.MQTT = false
	}

	return status
}

// commandActuator reflects actuator state to devices over MQTT and mirrors
// it in the in-memory flags. It implements doorlock.Actuator.
type commandActuator struct {
	pub   Publisher
	state *State
}

func (a *commandActuator) SetFlag(_ context.Context, deviceID string, on bool) error {
	a.state.SetFlag(deviceID, on)

	cmd := mqtttypes.DeviceCommand{
		DeviceID:  deviceID,
		On:        on,
		Timestamp: time.Now(),
	}

	topic := fmt.Sprintf("devices/%s/commands", deviceID)
	if err := a.pub.Publish(OpPublishDeviceCommand, topic, cmd); err != nil {
		return fmt.Errorf("failed to publish device command: %w", err)
	}

	return nil
}
