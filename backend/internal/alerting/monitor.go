package alerting

import (
	"sync"
	"time"
)

// Monitor evaluates sensor samples against thresholds and fires alerts,
// holding each kind back for AlertCooldown after it last fired.
type Monitor struct {
	mu sync.Mutex
	// lastFired is keyed by cooldown slot, not kind, so the low/high
	// humidity pair shares one entry.
	lastFired map[string]time.Time
}

func NewMonitor() *Monitor {
	return &Monitor{
		lastFired: make(map[string]time.Time),
	}
}

// Evaluate checks one sample against the thresholds at the given instant and
// returns the alerts that fired. Kinds are evaluated independently, so a
// single sample may fire several at once. A kind whose condition holds but
// whose cooldown window is still open is skipped without mutating state.
func (m *Monitor) Evaluate(sample SensorSample, thresholds Thresholds, now time.Time) []Alert {
	gasOver := sample.GasLevel > thresholds.Gas
	tempOver := sample.Temperature > thresholds.Temperature

	var candidates []Alert

	if gasOver {
		candidates = append(candidates, Alert{
			Kind:      KindGas,
			Value:     sample.GasLevel,
			Threshold: thresholds.Gas,
		})
	}

	if tempOver {
		candidates = append(candidates, Alert{
			Kind:      KindTemperature,
			Value:     sample.Temperature,
			Threshold: thresholds.Temperature,
		})
	}

	if gasOver && tempOver {
		candidates = append(candidates, Alert{
			Kind:      KindFire,
			Value:     sample.GasLevel,
			Threshold: thresholds.Gas,
			Context: map[string]float64{
				"gasLevel":    sample.GasLevel,
				"temperature": sample.Temperature,
			},
		})
	}

	switch {
	case sample.SoilHumidity > 0 && sample.SoilHumidity < lowHumidityMax:
		candidates = append(candidates, Alert{
			Kind:      KindLowHumidity,
			Value:     sample.SoilHumidity,
			Threshold: lowHumidityMax,
		})
	case sample.SoilHumidity > highHumidityMin:
		candidates = append(candidates, Alert{
			Kind:      KindHighHumidity,
			Value:     sample.SoilHumidity,
			Threshold: highHumidityMin,
		})
	}

	if len(candidates) == 0 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var fired []Alert

	for _, a := range candidates {
		slot := a.Kind.cooldownSlot()

		last, seen := m.lastFired[slot]
		if seen && now.Sub(last) < AlertCooldown {
			continue
		}

		m.lastFired[slot] = now
		fired = append(fired, a)
	}

	return fired
}

// Reset clears all cooldown bookkeeping, as after a process restart.
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastFired = make(map[string]time.Time)
}
