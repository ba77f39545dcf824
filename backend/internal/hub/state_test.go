package hub

import (
	"testing"
	"time"
)

func TestApplySensor(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		sensorType string
		value      float64
		known      bool
		check      func(s Sample) bool
	}{
		{
			name:       "temperature",
			sensorType: SensorTemperature,
			value:      22.5,
			known:      true,
			check:      func(s Sample) bool { return s.Temperature == 22.5 },
		},
		{
			name:       "gas",
			sensorType: SensorGas,
			value:      12,
			known:      true,
			check:      func(s Sample) bool { return s.Gas == 12 },
		},
		{
			name:       "soil moisture",
			sensorType: SensorSoilMoisture,
			value:      45,
			known:      true,
			check:      func(s Sample) bool { return s.SoilMoisture == 45 },
		},
		{
			name:       "rain as boolean",
			sensorType: SensorRain,
			value:      1,
			known:      true,
			check:      func(s Sample) bool { return s.Rain },
		},
		{
			name:       "unknown type is rejected",
			sensorType: "pressure",
			value:      1013,
			known:      false,
			check:      func(s Sample) bool { return s == Sample{} },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			state := NewState()

			if got := state.ApplySensor(tt.sensorType, tt.value, now); got != tt.known {
				t.Errorf("ApplySensor() = %v, want %v", got, tt.known)
			}

			if !tt.check(state.Sample()) {
				t.Errorf("Sample() = %+v", state.Sample())
			}
		})
	}
}

func TestPartialUpdatesAccumulate(t *testing.T) {
	t.Parallel()

	state := NewState()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	state.ApplySensor(SensorTemperature, 30, now)
	state.ApplySensor(SensorGas, 55, now.Add(time.Second))

	sample := state.AlertSample()
	if sample.Temperature != 30 || sample.GasLevel != 55 {
		t.Errorf("AlertSample() = %+v, fields should accumulate across updates", sample)
	}

	// SoilHumidity was never observed; it must stay zero.
	if sample.SoilHumidity != 0 {
		t.Errorf("SoilHumidity = %v, want 0", sample.SoilHumidity)
	}
}

func TestFlags(t *testing.T) {
	t.Parallel()

	state := NewState()

	if !state.KnownDevice(DevicePump) {
		t.Error("pump should be a known device")
	}

	if state.KnownDevice("heater") {
		t.Error("heater should not be a known device")
	}

	state.SetFlag(DeviceFan, true)

	flags := state.Flags()
	if !flags[DeviceFan] {
		t.Error("fan flag should be set")
	}

	if flags[DeviceLight] {
		t.Error("light flag should be unset")
	}
}
