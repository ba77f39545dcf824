package apicommon

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"garden-hub/backend/internal/shared/types"
)

// RecoveryMiddleware turns handler panics into a 500 response instead of a
// dropped connection. The panic value and stack go to the log only; the body
// stays generic.
func (m *MiddlewareHandler) RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			l := GetLoggerFromContextOrNil(r.Context())
			if l == nil {
				l = m.l
			}

			l.Error("panic recovered",
				slog.Any("panic", rec),
				slog.String("stack", string(debug.Stack())),
			)

			RespondJSON(w, r, http.StatusInternalServerError, &types.ErrorResponse{
				RequestID: GetRequestIDFromContext(r.Context()),
				Message:   "Internal Server Error",
			})
		}()

		next.ServeHTTP(w, r)
	})
}
