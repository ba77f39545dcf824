package types

// ErrorResponse is the single error envelope every endpoint returns, for
// both plain errors and validation failures.
//
//nolint:errname // API response type, not a traditional error
type ErrorResponse struct {
	// StatusCode is used internally to pick the HTTP status; it is not
	// part of the JSON body.
	StatusCode int `json:"-"`
	// RequestID ties the response to the server logs.
	RequestID string `json:"requestID"`
	Message   string `json:"message"`
	// Errors holds field-level validation messages, keyed by field name.
	Errors map[string]string `json:"errors,omitempty"`
}

func (e *ErrorResponse) Error() string {
	return e.Message
}

// PingResponse is the response to a ping request.
type PingResponse struct {
	Message string     `json:"message"`
	Status  PingStatus `json:"status"`
}

type PingStatus string

const (
	PingStatusOK    PingStatus = "OK"
	PingStatusError PingStatus = "ERROR"
)
