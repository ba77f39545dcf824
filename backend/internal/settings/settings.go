// Package settings holds the user-tunable dashboard configuration and its
// persistence.
package settings

import (
	"time"

	"garden-hub/backend/internal/alerting"
)

// Settings is the user-tunable configuration blob.
type Settings struct {
	// GasThreshold is the gas alert trigger level in ppm.
	GasThreshold float64 `json:"gasThreshold"`
	// TempThreshold is the temperature alert trigger level in °C.
	TempThreshold float64 `json:"tempThreshold"`
	// SoundEnabled turns the audible alert tone on.
	SoundEnabled bool `json:"soundEnabled"`
	// SoundDurationSeconds is how long the tone plays.
	SoundDurationSeconds int `json:"soundDurationSeconds"`
	// NotifyEnabled turns outbound notifications on.
	NotifyEnabled bool `json:"notifyEnabled"`
	// NotifyDestination is the opaque notification address, required when
	// NotifyEnabled is set.
	NotifyDestination string `json:"notifyDestination"`
	// AutoLockDelaySeconds is the door auto-lock countdown.
	AutoLockDelaySeconds int `json:"autoLockDelaySeconds"`
}

// Defaults returns the out-of-the-box configuration.
func Defaults() Settings {
	return Settings{
		GasThreshold:         50,
		TempThreshold:        40,
		SoundEnabled:         true,
		SoundDurationSeconds: 5,
		NotifyEnabled:        false,
		NotifyDestination:    "",
		AutoLockDelaySeconds: 5,
	}
}

// Validate returns field-level errors, or nil when the settings are valid.
func (s Settings) Validate() map[string]string {
	errs := make(map[string]string)

	if s.GasThreshold <= 0 {
		errs["gasThreshold"] = "must be positive"
	}

	if s.TempThreshold <= 0 {
		errs["tempThreshold"] = "must be positive"
	}

	if s.SoundDurationSeconds < 1 {
		errs["soundDurationSeconds"] = "must be at least 1"
	}

	if s.AutoLockDelaySeconds < 1 {
		errs["autoLockDelaySeconds"] = "must be at least 1"
	}

	if s.NotifyEnabled && s.NotifyDestination == "" {
		errs["notifyDestination"] = "required when notifications are enabled"
	}

	if len(errs) == 0 {
		return nil
	}

	return errs
}

// Thresholds returns the alerting view of these settings.
func (s Settings) Thresholds() alerting.Thresholds {
	return alerting.Thresholds{
		Gas:         s.GasThreshold,
		Temperature: s.TempThreshold,
	}
}

// NotifyConfig returns the dispatcher view of these settings.
func (s Settings) NotifyConfig() alerting.NotifyConfig {
	return alerting.NotifyConfig{
		Enabled:     s.NotifyEnabled,
		Destination: s.NotifyDestination,
	}
}

// AutoLockDelay returns the auto-lock countdown as a duration.
func (s Settings) AutoLockDelay() time.Duration {
	return time.Duration(s.AutoLockDelaySeconds) * time.Second
}
