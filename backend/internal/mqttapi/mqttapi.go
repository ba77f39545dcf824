// Package mqttapi registers the hub's MQTT operations: sensor telemetry in,
// device commands and alert events out.
package mqttapi

import (
	"log/slog"

	"garden-hub/backend/internal/hub"
)

// Handler handles MQTT message processing.
type Handler struct {
	l   *slog.Logger
	svc *hub.Services
}

// NewHandler creates a new MQTT handler.
func NewHandler(l *slog.Logger, svc *hub.Services) *Handler {
	return &Handler{
		l:   l.With(slog.String("component", "mqtt-handler")),
		svc: svc,
	}
}
