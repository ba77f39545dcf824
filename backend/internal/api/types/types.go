package types

import (
	"garden-hub/backend/internal/doorlock"
	"garden-hub/backend/internal/hub"
)

// UnlockRequest carries the candidate secret for a door unlock.
type UnlockRequest struct {
	// Secret to check against the stored one
	Secret string `json:"secret"`
	// DelaySeconds overrides the configured auto-lock delay for this
	// unlock; 0 uses the setting
	DelaySeconds int `json:"delaySeconds,omitempty"`
}

// ChangeSecretRequest rotates the door secret.
type ChangeSecretRequest struct {
	// OldSecret must match the currently stored secret
	OldSecret string `json:"oldSecret"`
	// NewSecret replaces it
	NewSecret string `json:"newSecret"`
}

// DoorStatusResponse is the current door state.
type DoorStatusResponse struct {
	// State of the door (locked, unlocked)
	State string `json:"state"`
	// Session is the open lock session, if any
	Session *doorlock.Session `json:"session,omitempty"`
}

// ToggleDeviceRequest flips an actuator.
type ToggleDeviceRequest struct {
	// On is the desired actuator state
	On bool `json:"on"`
}

// DeviceStateResponse is the dashboard's live view.
type DeviceStateResponse struct {
	// Sample is the latest sensor readings
	Sample hub.Sample `json:"sample"`
	// Flags is the last commanded state of every actuator
	Flags map[string]bool `json:"flags"`
}

// HealthResponse is the response to a health check request.
type HealthResponse struct {
	// Status of the database connection
	Database bool `json:"database"`
	// Status of the MQTT broker connection
	MQTT bool `json:"mqtt"`
}

// VersionResponse describes the running build.
type VersionResponse struct {
	// Version of the build
	Version string `json:"version"`
	// Commit the build was made from
	Commit string `json:"commit"`
	// BuildTime of the binary
	BuildTime string `json:"buildTime"`
	// GoVersion used to build
	GoVersion string `json:"goVersion"`
}
