package utils

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestErrAttr(t *testing.T) {
	t.Parallel()

	err := errors.New("broker unreachable")

	attr := ErrAttr(err)
	if attr.Key != "error" {
		t.Errorf("ErrAttr key = %q, want %q", attr.Key, "error")
	}

	if attr.Value.Any() != err {
		t.Errorf("ErrAttr value = %v, want %v", attr.Value.Any(), err)
	}
}

func TestSlogReplacer(t *testing.T) {
	t.Parallel()

	ts := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)

	got := SlogReplacer(nil, slog.Time("recordedAt", ts))
	if got.Value.String() != "2025-06-01 09:30:00" {
		t.Errorf("time attr = %q, want %q", got.Value.String(), "2025-06-01 09:30:00")
	}

	got = SlogReplacer(nil, slog.Duration("cooldown", 30*time.Second))
	if got.Value.String() != "30s" {
		t.Errorf("duration attr = %q, want %q", got.Value.String(), "30s")
	}

	plain := slog.String("kind", "gas")
	if got = SlogReplacer(nil, plain); !got.Equal(plain) {
		t.Errorf("string attr changed: %v", got)
	}
}

func TestSlogReplacerInHandler(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	l := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{ReplaceAttr: SlogReplacer}))
	l.Info("alert fired", slog.Duration("cooldown", 5*time.Minute))

	if !strings.Contains(buf.String(), `"cooldown":"5m0s"`) {
		t.Errorf("log output = %s, want stringified duration", buf.String())
	}
}

func TestLogOnError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	l := slog.New(slog.NewTextHandler(&buf, nil))

	LogOnError(l, func() error { return nil }, "close failed")

	if buf.Len() != 0 {
		t.Errorf("nothing should be logged on success, got %s", buf.String())
	}

	LogOnError(l, func() error { return errors.New("nope") }, "close failed")

	if !strings.Contains(buf.String(), "close failed") || !strings.Contains(buf.String(), "nope") {
		t.Errorf("log output = %s, want message and error", buf.String())
	}
}

func TestSlogWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	w := NewSlogWriter(slog.New(slog.NewTextHandler(&buf, nil)))

	payload := "line one\n\nline two\n"

	n, err := w.Write([]byte(payload))
	if err != nil {
		t.Fatalf("Write() unexpected error: %v", err)
	}

	if n != len(payload) {
		t.Errorf("Write() = %d, want %d", n, len(payload))
	}

	out := buf.String()
	if !strings.Contains(out, "line one") || !strings.Contains(out, "line two") {
		t.Errorf("log output = %s, want both lines", out)
	}

	if strings.Count(out, "msg=") != 2 {
		t.Errorf("log output = %s, empty lines should be skipped", out)
	}
}
