package hub

import (
	"sync"
	"time"

	"garden-hub/backend/internal/alerting"
)

// Sensor types accepted on the telemetry topic.
const (
	SensorTemperature  = "temperature"
	SensorHumidity     = "humidity"
	SensorGas          = "gas"
	SensorSoilMoisture = "soilMoisture"
	SensorRain         = "rain"
)

// Toggleable actuators.
const (
	DeviceLight = "light"
	DeviceFan   = "fan"
	DevicePump  = "pump"
	DeviceDoor  = "door"
)

// Sample is the latest known reading of every sensor. Fields arrive
// independently, so a fresh sample may be partially populated.
type Sample struct {
	Temperature  float64   `json:"temperature"`
	Humidity     float64   `json:"humidity"`
	Gas          float64   `json:"gas"`
	SoilMoisture float64   `json:"soilMoisture"`
	Rain         bool      `json:"rain"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// State holds the latest sensor sample and actuator flags.
type State struct {
	mu     sync.RWMutex
	sample Sample
	flags  map[string]bool
}

func NewState() *State {
	return &State{
		flags: map[string]bool{
			DeviceLight: false,
			DeviceFan:   false,
			DevicePump:  false,
			DeviceDoor:  false,
		},
	}
}

// ApplySensor folds one field update into the sample. It reports whether the
// sensor type was recognized.
func (s *State) ApplySensor(sensorType string, value float64, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch sensorType {
	case SensorTemperature:
		s.sample.Temperature = value
	case SensorHumidity:
		s.sample.Humidity = value
	case SensorGas:
		s.sample.Gas = value
	case SensorSoilMoisture:
		s.sample.SoilMoisture = value
	case SensorRain:
		s.sample.Rain = value != 0
	default:
		return false
	}

	s.sample.UpdatedAt = now

	return true
}

// Sample returns a copy of the latest readings.
func (s *State) Sample() Sample {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sample
}

// AlertSample returns the alerting view of the latest readings.
func (s *State) AlertSample() alerting.SensorSample {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return alerting.SensorSample{
		Temperature:  s.sample.Temperature,
		GasLevel:     s.sample.Gas,
		SoilHumidity: s.sample.SoilMoisture,
	}
}

// SetFlag records the last commanded state of an actuator.
func (s *State) SetFlag(deviceID string, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.flags[deviceID] = on
}

// Flags returns a copy of the actuator flags.
func (s *State) Flags() map[string]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]bool, len(s.flags))
	for k, v := range s.flags {
		out[k] = v
	}

	return out
}

// KnownDevice reports whether deviceID is a known actuator.
func (s *State) KnownDevice(deviceID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.flags[deviceID]

	return ok
}
