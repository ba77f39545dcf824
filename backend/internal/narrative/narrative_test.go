package narrative

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAnalyzeLive(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/analyze/fire-risk" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"All clear."}`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(testLogger(), srv.URL, 5*time.Second)

	got := c.Analyze(context.Background(), KindFireRisk, Input{})
	if got.Source != SourceLive {
		t.Errorf("Source = %v, want %v", got.Source, SourceLive)
	}

	if got.Text != "All clear." {
		t.Errorf("Text = %q", got.Text)
	}
}

func TestAnalyzeRetriesTransientFailure(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}

		_, _ = w.Write([]byte(`{"text":"Recovered."}`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(testLogger(), srv.URL, 5*time.Second)

	got := c.Analyze(context.Background(), KindIrrigation, Input{SoilMoisture: 50})
	if got.Source != SourceLive || got.Text != "Recovered." {
		t.Errorf("Analyze() = %+v, want live Recovered.", got)
	}

	if calls.Load() != 3 {
		t.Errorf("endpoint called %d times, want 3", calls.Load())
	}
}

func TestAnalyzeFallsBackToCache(t *testing.T) {
	t.Parallel()

	var broken atomic.Bool

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if broken.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		_, _ = w.Write([]byte(`{"text":"From the endpoint."}`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(testLogger(), srv.URL, 5*time.Second)

	first := c.Analyze(context.Background(), KindRainfall, Input{})
	if first.Source != SourceLive {
		t.Fatalf("first Analyze() source = %v", first.Source)
	}

	broken.Store(true)

	second := c.Analyze(context.Background(), KindRainfall, Input{})
	if second.Source != SourceCache {
		t.Errorf("second Analyze() source = %v, want %v", second.Source, SourceCache)
	}

	if second.Text != "From the endpoint." {
		t.Errorf("cached text = %q", second.Text)
	}
}

func TestAnalyzeOfflineWithoutEndpoint(t *testing.T) {
	t.Parallel()

	c := NewClient(testLogger(), "", 5*time.Second)

	got := c.Analyze(context.Background(), KindFireRisk, Input{Gas: 60, Temperature: 45})
	if got.Source != SourceOffline {
		t.Fatalf("Source = %v, want %v", got.Source, SourceOffline)
	}

	if !strings.Contains(got.Text, "fire risk") && !strings.Contains(got.Text, "Fire risk") {
		t.Errorf("offline text = %q", got.Text)
	}
}

func TestFallbackText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		kind  Kind
		input Input
		want  string
	}{
		{
			name:  "dry soil recommends watering",
			kind:  KindIrrigation,
			input: Input{SoilMoisture: 20},
			want:  "Watering is recommended",
		},
		{
			name:  "saturated soil holds off",
			kind:  KindIrrigation,
			input: Input{SoilMoisture: 90},
			want:  "Hold off",
		},
		{
			name:  "missing soil reading",
			kind:  KindIrrigation,
			input: Input{},
			want:  "Check the sensor",
		},
		{
			name:  "rain detected",
			kind:  KindRainfall,
			input: Input{Rain: true},
			want:  "Rain detected",
		},
		{
			name:  "both elevated is high risk",
			kind:  KindFireRisk,
			input: Input{Gas: 60, Temperature: 45},
			want:  "High fire risk",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := fallbackText(tt.kind, tt.input)
			if !strings.Contains(got, tt.want) {
				t.Errorf("fallbackText() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}
