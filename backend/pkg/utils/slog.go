package utils

import (
	"log/slog"
	"strings"
)

// ErrAttr returns a standard slog attribute for an error.
func ErrAttr(err error) slog.Attr {
	return slog.Any("error", err)
}

// SlogReplacer normalizes time and duration attributes to readable strings.
// Intended as the ReplaceAttr option of a slog handler.
func SlogReplacer(groups []string, a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindTime:
		a.Value = slog.StringValue(a.Value.Time().Format("2006-01-02 15:04:05"))
	case slog.KindDuration:
		a.Value = slog.StringValue(a.Value.Duration().String())
	default:
	}

	return a
}

// LogOnError runs fn and logs msg with the error if fn fails.
// Useful for deferred Close calls where the error is worth recording but not acting on.
func LogOnError(l *slog.Logger, fn func() error, msg string) {
	if err := fn(); err != nil {
		l.Error(msg, ErrAttr(err))
	}
}

// SlogWriter adapts a slog.Logger to io.Writer, for libraries that want a
// plain writer for their log output.
type SlogWriter struct {
	logger *slog.Logger
}

// NewSlogWriter creates a new SlogWriter wrapping the given logger.
func NewSlogWriter(l *slog.Logger) *SlogWriter {
	return &SlogWriter{logger: l}
}

// Write logs each non-empty line of p at info level.
// Always reports the full length of p as written.
func (w *SlogWriter) Write(p []byte) (int, error) {
	for line := range strings.SplitSeq(string(p), "\n") {
		if line == "" {
			continue
		}

		w.logger.Info(line)
	}

	return len(p), nil
}
