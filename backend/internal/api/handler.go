// Package api exposes the hub over HTTP: door control, settings, device
// toggles, history, and narratives.
package api

import (
	"log/slog"

	"garden-hub/backend/internal/hub"
)

const (
	CoreGroup      = "Core"
	DoorGroup      = "Door"
	SettingsGroup  = "Settings"
	DevicesGroup   = "Devices"
	HistoryGroup   = "History"
	NarrativeGroup = "Narratives"
)

// Handler represents the hub API handler.
type Handler struct {
	l   *slog.Logger
	svc *hub.Services
}

// NewHandler creates a new hub API handler.
func NewHandler(l *slog.Logger, svc *hub.Services) *Handler {
	return &Handler{
		l:   l.With(slog.String("component", "api")),
		svc: svc,
	}
}
