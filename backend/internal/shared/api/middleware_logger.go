package apicommon

import (
	"log/slog"
	"net/http"
	"time"
)

// statusRecorder wraps http.ResponseWriter to remember what was sent.
type statusRecorder struct {
	http.ResponseWriter

	status int
	bytes  int64
	wrote  bool
}

func (sr *statusRecorder) WriteHeader(code int) {
	if sr.wrote {
		return
	}

	sr.status = code
	sr.wrote = true
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	// An implicit 200 when the handler writes without WriteHeader.
	if !sr.wrote {
		sr.status = http.StatusOK
		sr.wrote = true
	}

	n, err := sr.ResponseWriter.Write(b)
	sr.bytes += int64(n)

	return n, err
}

// LoggerMiddleware puts a request-scoped logger in the context and writes one
// access log line per request. Handlers retrieve the logger with
// GetLoggerFromContext so their own lines carry the same request attributes.
func (m *MiddlewareHandler) LoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqLogger := m.l.With(
			slog.String("request_id", GetRequestIDFromContext(r.Context())),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr),
		)

		ctx := WithLogger(r.Context(), reqLogger)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		start := time.Now()

		next.ServeHTTP(rec, r.WithContext(ctx))

		reqLogger.Info("request completed",
			slog.Int("status", rec.status),
			slog.Int64("request_bytes", r.ContentLength),
			slog.Int64("response_bytes", rec.bytes),
			slog.Duration("duration", time.Since(start)),
		)
	})
}
