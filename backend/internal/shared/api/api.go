package apicommon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"garden-hub/backend/internal/shared/types"
	"garden-hub/backend/pkg/router"
	"garden-hub/backend/pkg/utils"
)

const (
	MaxBodySize     = 1048576 // 1MB
	MaxBodyText     = "1MB"
	RequestIDHeader = "X-Request-ID"

	ReadHeaderTimeout = 5 * time.Second
	ReadTimeout       = 30 * time.Second
	WriteTimeout      = 30 * time.Second
	IdleTimeout       = 120 * time.Second
	ShutdownTimeout   = 30 * time.Second
)

// zeroUUID stands in for a request ID in documentation examples.
const zeroUUID = "00000000-0000-0000-0000-000000000000"

// HTTPServer wraps http.Server with the timeouts and lifecycle helpers every
// deployment of this API uses.
type HTTPServer struct {
	l      *slog.Logger
	server *http.Server
}

func NewHTTPServer(l *slog.Logger, addr string, handler http.Handler) *HTTPServer {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: ReadHeaderTimeout,
		ReadTimeout:       ReadTimeout,
		WriteTimeout:      WriteTimeout,
		IdleTimeout:       IdleTimeout,
	}
	srv.SetKeepAlivesEnabled(true)

	return &HTTPServer{
		l:      l.With(slog.String("component", "http-server")),
		server: srv,
	}
}

// StartOnBackground serves in a goroutine. A listen failure calls cancel so
// the main loop can shut the rest of the process down.
func (s *HTTPServer) StartOnBackground(cancel context.CancelFunc) {
	go func() {
		s.l.Info("starting", "addr", s.server.Addr)

		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.l.Error("failed", utils.ErrAttr(err))
			cancel()
		}
	}()
}

func (s *HTTPServer) ShutdownWithDefaultTimeout() error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	return s.server.Shutdown(ctx)
}

// HandlerFunc is an HTTP handler that reports failure through its return
// value instead of writing error responses itself.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// NewError creates an error response with the given status.
func NewError(statusCode int, message string) *types.ErrorResponse {
	return &types.ErrorResponse{
		StatusCode: statusCode,
		Message:    message,
	}
}

// NewValidationError creates a 400 response carrying field-level errors.
func NewValidationError(fieldErrors map[string]string) *types.ErrorResponse {
	return &types.ErrorResponse{
		StatusCode: http.StatusBadRequest,
		Message:    "Validation failed",
		Errors:     fieldErrors,
	}
}

// ErrorHandler adapts a HandlerFunc to http.HandlerFunc. A returned
// *ErrorResponse goes to the client as-is with its status; any other error is
// logged and masked behind a generic 500 so internals never leak.
func ErrorHandler(fn HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)
		if err == nil {
			return
		}

		l := GetLoggerFromContext(r.Context())
		requestID := GetRequestIDFromContext(r.Context())

		var httpErr *types.ErrorResponse
		if errors.As(err, &httpErr) {
			httpErr.RequestID = requestID
			l.Warn("handler returned HTTP error", "status", httpErr.StatusCode, "message", httpErr.Message)
			RespondJSON(w, r, httpErr.StatusCode, httpErr)

			return
		}

		l.Error("internal error", utils.ErrAttr(err))
		RespondJSON(w, r, http.StatusInternalServerError, &types.ErrorResponse{
			RequestID: requestID,
			Message:   "Internal Server Error",
		})
	}
}

// RespondJSON writes data as a JSON response with the given status. A nil
// data sends headers only. Encoding failures are logged; the status line has
// already gone out by then, so nothing else can be done.
func RespondJSON(w http.ResponseWriter, r *http.Request, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data == nil {
		return
	}

	if err := utils.ToJSONStream(w, data); err != nil {
		GetLoggerFromContext(r.Context()).Error("failed to encode JSON response", utils.ErrAttr(err))
	}
}

// DecodeJSON reads the request body into T, capping it at MaxBodySize and
// translating decode failures into client-facing 400/413 responses.
//
//nolint:ireturn // Generic functions must return type parameter T
func DecodeJSON[T any](r *http.Request) (T, error) {
	var zero T

	r.Body = http.MaxBytesReader(nil, r.Body, MaxBodySize)

	res, err := utils.FromJSONStream[T](r.Body)
	if err == nil {
		return res, nil
	}

	var (
		syntaxError        *json.SyntaxError
		unmarshalTypeError *json.UnmarshalTypeError
		maxBytesError      *http.MaxBytesError
		extraDataError     *utils.ExtraDataAfterJSONError
	)

	switch {
	case errors.As(err, &syntaxError):
		return zero, NewError(http.StatusBadRequest, fmt.Sprintf("Invalid JSON syntax at position %d", syntaxError.Offset))

	case errors.As(err, &unmarshalTypeError):
		return zero, NewError(http.StatusBadRequest, fmt.Sprintf("Invalid type for field '%s'", unmarshalTypeError.Field))

	case errors.Is(err, io.EOF):
		return zero, NewError(http.StatusBadRequest, "Request body is empty")

	case errors.Is(err, io.ErrUnexpectedEOF):
		return zero, NewError(http.StatusBadRequest, "Malformed JSON")

	case errors.As(err, &maxBytesError):
		return zero, NewError(http.StatusRequestEntityTooLarge, "Request body too large (max "+MaxBodyText+")")

	case errors.As(err, &extraDataError):
		return zero, NewError(http.StatusBadRequest, "Request body contains multiple JSON objects")

	case strings.HasPrefix(err.Error(), "json: unknown field"):
		// The json package already names the field in its message.
		return zero, NewError(http.StatusBadRequest, err.Error())

	default:
		return zero, NewError(http.StatusBadRequest, "Invalid JSON payload")
	}
}

// GenerateResponses fills in the error responses every route can produce, so
// individual route specs only declare their own.
func GenerateResponses(responses map[int]router.ResponseSpec) map[int]router.ResponseSpec {
	if _, exists := responses[http.StatusRequestEntityTooLarge]; !exists {
		responses[http.StatusRequestEntityTooLarge] = router.ResponseSpec{
			Description: "Request entity too large",
			Type:        types.ErrorResponse{},
			Examples: map[string]any{
				"Request Entity Too Large": types.ErrorResponse{
					RequestID: zeroUUID,
					Message:   "Request body too large (max " + MaxBodyText + ")",
				},
			},
		}
	}

	if _, exists := responses[http.StatusInternalServerError]; !exists {
		responses[http.StatusInternalServerError] = router.ResponseSpec{
			Description: "Internal Server Error",
			Type:        types.ErrorResponse{},
			Examples: map[string]any{
				"Internal Server Error": types.ErrorResponse{
					RequestID: zeroUUID,
					Message:   "Internal Server Error",
				},
			},
		}
	}

	return responses
}
