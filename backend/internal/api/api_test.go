//go:build cgo
// +build cgo

package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"garden-hub/backend/internal/hub"
	"garden-hub/backend/internal/narrative"
	"garden-hub/backend/internal/settings"
	"garden-hub/backend/pkg/dialect"
	"garden-hub/backend/pkg/router"
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

type fakePublisher struct{}

func (p *fakePublisher) Publish(_, _ string, _ any) error { return nil }
func (p *fakePublisher) IsConnected() bool                { return true }

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	l := slog.New(slog.NewTextHandler(io.Discard, nil))
	narratives := narrative.NewClient(l, "", time.Second)
	svc := hub.NewServices(context.Background(), l, testDB(t), dialect.SQLite, &fakePublisher{}, nil, narratives)

	rb, err := router.NewRouteBuilder(l, "Garden Hub API Test", "0.0.0")
	if err != nil {
		t.Fatalf("failed to create route builder: %v", err)
	}

	h := NewHandler(l, svc)

	h.RegisterPing("/api/ping", rb)
	h.RegisterHealth("/api/health", rb)
	h.RegisterVersion("/api/version", rb)
	h.RegisterUnlock("/api/door/unlock", rb)
	h.RegisterLock("/api/door/lock", rb)
	h.RegisterDoorStatus("/api/door", rb)
	h.RegisterChangeSecret("/api/door/secret", rb)
	h.RegisterDoorSessions("/api/door/sessions", rb)
	h.RegisterGetSettings("/api/settings", rb)
	h.RegisterUpdateSettings("/api/settings", rb)
	h.RegisterResetSettings("/api/settings/reset", rb)
	h.RegisterDeviceState("/api/devices", rb)
	h.RegisterToggleDevice("/api/devices/{deviceID}/toggle", rb)
	h.RegisterSnapshots("/api/history/snapshots", rb)
	h.RegisterNarrative("/api/narratives/{kind}", rb)

	return rb.Router()
}

func doRequest(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	return rec
}

func TestPing(t *testing.T) {
	t.Parallel()

	handler := newTestHandler(t)

	rec := doRequest(t, handler, http.MethodGet, "/api/ping", "")
	if rec.Code != http.StatusOK {
		t.Errorf("GET /api/ping status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestDoorLifecycle(t *testing.T) {
	t.Parallel()

	handler := newTestHandler(t)

	rec := doRequest(t, handler, http.MethodPost, "/api/door/unlock", `{"secret":"wrong"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unlock with wrong secret status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	rec = doRequest(t, handler, http.MethodPost, "/api/door/unlock", `{"secret":"1234","delaySeconds":60}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("unlock status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var status struct {
		State   string `json:"state"`
		Session *struct {
			ID string `json:"id"`
		} `json:"session"`
	}

	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("failed to decode unlock response: %v", err)
	}

	if status.State != "unlocked" || status.Session == nil || status.Session.ID == "" {
		t.Errorf("unlock response = %+v, want unlocked with a session", status)
	}

	rec = doRequest(t, handler, http.MethodGet, "/api/door", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("door status = %d, want %d", rec.Code, http.StatusOK)
	}

	if !strings.Contains(rec.Body.String(), `"unlocked"`) {
		t.Errorf("door status body = %s, want unlocked", rec.Body.String())
	}

	rec = doRequest(t, handler, http.MethodPost, "/api/door/lock", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("lock status = %d, want %d", rec.Code, http.StatusOK)
	}

	rec = doRequest(t, handler, http.MethodGet, "/api/door/sessions", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("sessions status = %d, want %d", rec.Code, http.StatusOK)
	}

	var sessions []json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &sessions); err != nil {
		t.Fatalf("failed to decode sessions: %v", err)
	}

	if len(sessions) != 1 {
		t.Errorf("len(sessions) = %d, want 1", len(sessions))
	}
}

func TestUnlockRejectsShortDelay(t *testing.T) {
	t.Parallel()

	handler := newTestHandler(t)

	rec := doRequest(t, handler, http.MethodPost, "/api/door/unlock", `{"secret":"1234","delaySeconds":-1}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unlock with negative delay status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestChangeSecret(t *testing.T) {
	t.Parallel()

	handler := newTestHandler(t)

	rec := doRequest(t, handler, http.MethodPut, "/api/door/secret", `{"oldSecret":"nope","newSecret":"9999"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("change secret with wrong old secret status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	rec = doRequest(t, handler, http.MethodPut, "/api/door/secret", `{"oldSecret":"1234","newSecret":"9999"}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("change secret status = %d, want %d", rec.Code, http.StatusNoContent)
	}

	rec = doRequest(t, handler, http.MethodPost, "/api/door/unlock", `{"secret":"1234"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unlock with old secret status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	rec = doRequest(t, handler, http.MethodPost, "/api/door/unlock", `{"secret":"9999"}`)
	if rec.Code != http.StatusOK {
		t.Errorf("unlock with new secret status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	t.Parallel()

	handler := newTestHandler(t)

	rec := doRequest(t, handler, http.MethodGet, "/api/settings", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get settings status = %d, want %d", rec.Code, http.StatusOK)
	}

	var current settings.Settings
	if err := json.Unmarshal(rec.Body.Bytes(), &current); err != nil {
		t.Fatalf("failed to decode settings: %v", err)
	}

	if current != settings.Defaults() {
		t.Errorf("initial settings = %+v, want defaults", current)
	}

	current.GasThreshold = 70

	payload, err := json.Marshal(current)
	if err != nil {
		t.Fatalf("failed to marshal settings: %v", err)
	}

	rec = doRequest(t, handler, http.MethodPut, "/api/settings", string(payload))
	if rec.Code != http.StatusOK {
		t.Fatalf("update settings status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	rec = doRequest(t, handler, http.MethodGet, "/api/settings", "")

	var updated settings.Settings
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("failed to decode settings: %v", err)
	}

	if updated.GasThreshold != 70 {
		t.Errorf("GasThreshold = %v, want 70", updated.GasThreshold)
	}

	rec = doRequest(t, handler, http.MethodPost, "/api/settings/reset", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("reset settings status = %d, want %d", rec.Code, http.StatusOK)
	}

	var restored settings.Settings
	if err := json.Unmarshal(rec.Body.Bytes(), &restored); err != nil {
		t.Fatalf("failed to decode settings: %v", err)
	}

	if restored != settings.Defaults() {
		t.Errorf("restored settings = %+v, want defaults", restored)
	}
}

func TestUpdateSettingsValidation(t *testing.T) {
	t.Parallel()

	handler := newTestHandler(t)

	rec := doRequest(t, handler, http.MethodPut, "/api/settings",
		`{"gasThreshold":-5,"tempThreshold":40,"soundEnabled":true,"soundDurationSeconds":5,"autoLockDelaySeconds":5}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("update with invalid settings status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	if !strings.Contains(rec.Body.String(), "gasThreshold") {
		t.Errorf("validation body = %s, want gasThreshold field error", rec.Body.String())
	}
}

func TestToggleDevice(t *testing.T) {
	t.Parallel()

	handler := newTestHandler(t)

	rec := doRequest(t, handler, http.MethodPost, "/api/devices/pump/toggle", `{"on":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("toggle pump status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	if !strings.Contains(rec.Body.String(), `"pump":true`) {
		t.Errorf("toggle response = %s, want pump flag set", rec.Body.String())
	}

	rec = doRequest(t, handler, http.MethodPost, "/api/devices/heater/toggle", `{"on":true}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("toggle unknown device status = %d, want %d", rec.Code, http.StatusNotFound)
	}

	rec = doRequest(t, handler, http.MethodPost, "/api/devices/door/toggle", `{"on":true}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("toggle door status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestSnapshotsLimitValidation(t *testing.T) {
	t.Parallel()

	handler := newTestHandler(t)

	rec := doRequest(t, handler, http.MethodGet, "/api/history/snapshots?limit=0", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("snapshots with limit=0 status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	rec = doRequest(t, handler, http.MethodGet, "/api/history/snapshots", "")
	if rec.Code != http.StatusOK {
		t.Errorf("snapshots status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestNarrativeKindValidation(t *testing.T) {
	t.Parallel()

	handler := newTestHandler(t)

	rec := doRequest(t, handler, http.MethodGet, "/api/narratives/weather", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown narrative kind status = %d, want %d", rec.Code, http.StatusNotFound)
	}

	rec = doRequest(t, handler, http.MethodGet, "/api/narratives/irrigation", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("narrative status = %d, want %d", rec.Code, http.StatusOK)
	}

	if !strings.Contains(rec.Body.String(), `"offline"`) {
		t.Errorf("narrative body = %s, want offline source", rec.Body.String())
	}
}
