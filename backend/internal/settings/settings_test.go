package settings

import (
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	t.Parallel()

	d := Defaults()

	if d.GasThreshold != 50 {
		t.Errorf("GasThreshold = %v, want 50", d.GasThreshold)
	}

	if d.TempThreshold != 40 {
		t.Errorf("TempThreshold = %v, want 40", d.TempThreshold)
	}

	if !d.SoundEnabled {
		t.Error("SoundEnabled should default to true")
	}

	if d.NotifyEnabled {
		t.Error("NotifyEnabled should default to false")
	}

	if d.AutoLockDelaySeconds != 5 {
		t.Errorf("AutoLockDelaySeconds = %v, want 5", d.AutoLockDelaySeconds)
	}

	if errs := d.Validate(); errs != nil {
		t.Errorf("Defaults() should validate cleanly, got %v", errs)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mutate    func(s Settings) Settings
		wantField string
	}{
		{
			name:      "non-positive gas threshold",
			mutate:    func(s Settings) Settings { s.GasThreshold = 0; return s },
			wantField: "gasThreshold",
		},
		{
			name:      "negative temperature threshold",
			mutate:    func(s Settings) Settings { s.TempThreshold = -1; return s },
			wantField: "tempThreshold",
		},
		{
			name:      "zero sound duration",
			mutate:    func(s Settings) Settings { s.SoundDurationSeconds = 0; return s },
			wantField: "soundDurationSeconds",
		},
		{
			name:      "zero auto-lock delay",
			mutate:    func(s Settings) Settings { s.AutoLockDelaySeconds = 0; return s },
			wantField: "autoLockDelaySeconds",
		},
		{
			name: "notify enabled without destination",
			mutate: func(s Settings) Settings {
				s.NotifyEnabled = true
				s.NotifyDestination = ""
				return s
			},
			wantField: "notifyDestination",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			errs := tt.mutate(Defaults()).Validate()
			if errs == nil {
				t.Fatal("Validate() should report an error")
			}

			if _, ok := errs[tt.wantField]; !ok {
				t.Errorf("Validate() errors = %v, want entry for %q", errs, tt.wantField)
			}
		})
	}
}

func TestViews(t *testing.T) {
	t.Parallel()

	s := Settings{
		GasThreshold:         55,
		TempThreshold:        42,
		NotifyEnabled:        true,
		NotifyDestination:    "owner@example.com",
		AutoLockDelaySeconds: 10,
	}

	th := s.Thresholds()
	if th.Gas != 55 || th.Temperature != 42 {
		t.Errorf("Thresholds() = %+v", th)
	}

	nc := s.NotifyConfig()
	if !nc.Enabled || nc.Destination != "owner@example.com" {
		t.Errorf("NotifyConfig() = %+v", nc)
	}

	if s.AutoLockDelay() != 10*time.Second {
		t.Errorf("AutoLockDelay() = %v, want 10s", s.AutoLockDelay())
	}
}
