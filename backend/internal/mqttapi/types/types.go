package types

import "time"

// SensorReading is one field update published by a device.
type SensorReading struct {
	// DeviceID is the unique identifier of the device sending the reading
	DeviceID string `json:"deviceID"`
	// SensorType is the field being updated (temperature, humidity, gas, soilMoisture, rain)
	SensorType string `json:"sensorType"`
	// Value is the numeric reading; rain sensors report 0 or 1
	Value float64 `json:"value"`
	// Timestamp is when the reading was taken
	Timestamp time.Time `json:"timestamp"`
}

// DeviceCommand flips an actuator on or off.
type DeviceCommand struct {
	// DeviceID is the unique identifier of the target device
	DeviceID string `json:"deviceID"`
	// On is the desired actuator state
	On bool `json:"on"`
	// Timestamp is when the command was issued
	Timestamp time.Time `json:"timestamp"`
}

// AlertEvent is a fired alert pushed to dashboard clients.
type AlertEvent struct {
	// Kind of threshold breach (gas, temperature, fire, lowHumidity, highHumidity)
	Kind string `json:"kind"`
	// Value is the reading that crossed the threshold
	Value float64 `json:"value"`
	// Threshold that was crossed
	Threshold float64 `json:"threshold"`
	// Context carries secondary readings for composite kinds
	Context map[string]float64 `json:"context,omitempty"`
	// Sound tells clients whether to play the audible tone
	Sound bool `json:"sound"`
	// SoundDurationSeconds is how long the tone should play
	SoundDurationSeconds int `json:"soundDurationSeconds"`
	// Timestamp is when the alert fired
	Timestamp time.Time `json:"timestamp"`
}
