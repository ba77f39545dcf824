// Package alerting decides when sensor readings turn into alerts and when
// alerts turn into outbound notifications. Both decisions are rate-limited
// by independent per-kind cooldowns.
package alerting

import "time"

// Kind is a named category of threshold breach.
type Kind string

const (
	KindGas          Kind = "gas"
	KindTemperature  Kind = "temperature"
	KindFire         Kind = "fire"
	KindLowHumidity  Kind = "lowHumidity"
	KindHighHumidity Kind = "highHumidity"
)

// Kinds lists every alert kind in evaluation order.
//
//nolint:gochecknoglobals // Static enumeration of the alert kinds
var Kinds = []Kind{KindGas, KindTemperature, KindFire, KindLowHumidity, KindHighHumidity}

// Valid reports whether k is a known alert kind.
func (k Kind) Valid() bool {
	switch k {
	case KindGas, KindTemperature, KindFire, KindLowHumidity, KindHighHumidity:
		return true
	}

	return false
}

// cooldownSlot maps a kind to its cooldown bookkeeping key. Low and high
// humidity share one slot since their ranges are disjoint and only one can
// be active for a given reading.
func (k Kind) cooldownSlot() string {
	switch k {
	case KindLowHumidity, KindHighHumidity:
		return "humidity"
	default:
		return string(k)
	}
}

// Cooldown windows. Alerts may re-fire every 30 seconds; outbound
// notifications are held back for five minutes per kind.
const (
	AlertCooldown  = 30 * time.Second
	NotifyCooldown = 300 * time.Second
)

// Soil humidity alert band: below 40% is too dry, above 80% is too wet.
const (
	lowHumidityMax  = 40
	highHumidityMin = 80
)

// SensorSample is the latest known reading of each monitored field.
// Fields update independently, so a sample may be partially populated;
// unobserved fields stay at zero and never trigger an alert.
type SensorSample struct {
	// Temperature in degrees Celsius.
	Temperature float64 `json:"temperature"`
	// GasLevel in ppm.
	GasLevel float64 `json:"gasLevel"`
	// SoilHumidity in percent.
	SoilHumidity float64 `json:"soilHumidity"`
}

// Thresholds holds the user-tunable trigger levels.
type Thresholds struct {
	// Gas trigger level in ppm.
	Gas float64
	// Temperature trigger level in degrees Celsius.
	Temperature float64
}

// Alert is one fired alert with the reading and threshold that caused it.
type Alert struct {
	Kind      Kind    `json:"kind"`
	Value     float64 `json:"value"`
	Threshold float64 `json:"threshold"`
	// Context carries secondary readings for composite kinds. A fire alert
	// includes both the gas level and the temperature that produced it.
	Context map[string]float64 `json:"context,omitempty"`
}
