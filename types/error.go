package types

import "fmt"

// ErrorCode represents a unified error code across the service.
type ErrorCode string

// Engine error codes. These are orchestrator-level failures and are never
// absorbed into degraded conversation content.
const (
	// ErrRoutingContract indicates the router broke its contract: zero labels
	// with no fallback, or duplicate labels in one decision.
	ErrRoutingContract ErrorCode = "ROUTING_CONTRACT_VIOLATION"
	// ErrInvalidState indicates a state-machine misuse: resuming a session that
	// is not awaiting input, or starting a turn while another is in flight.
	ErrInvalidState ErrorCode = "INVALID_STATE"
	// ErrNotFound indicates an unknown session identifier.
	ErrNotFound ErrorCode = "NOT_FOUND"
	// ErrStageExecution indicates a specialist stage failed and its fallback
	// path failed too. Stage-local failures that degrade gracefully never
	// surface with this code.
	ErrStageExecution ErrorCode = "STAGE_EXECUTION"
	// ErrInternal is the catch-all for unexpected failures.
	ErrInternal ErrorCode = "INTERNAL_ERROR"
)

// Collaborator error codes.
const (
	ErrInvalidRequest  ErrorCode = "INVALID_REQUEST"
	ErrUpstreamTimeout ErrorCode = "UPSTREAM_TIMEOUT"
	ErrUpstreamError   ErrorCode = "UPSTREAM_ERROR"
	ErrRateLimited     ErrorCode = "RATE_LIMITED"
	ErrStoreFailure    ErrorCode = "STORE_FAILURE"
)

// Error represents a structured error with code, message, and metadata.
type Error struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	HTTPStatus int       `json:"http_status,omitempty"`
	Retryable  bool      `json:"retryable"`
	Cause      error     `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new Error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithCause adds a cause to the error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithHTTPStatus sets the HTTP status code.
func (e *Error) WithHTTPStatus(status int) *Error {
	e.HTTPStatus = status
	return e
}

// WithRetryable marks the error as retryable.
func (e *Error) WithRetryable(retryable bool) *Error {
	e.Retryable = retryable
	return e
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) ErrorCode {
	if e, ok := err.(*Error); ok {
		return e.Code
	}
	return ""
}

// IsCode reports whether err carries the given error code.
func IsCode(err error, code ErrorCode) bool {
	return GetErrorCode(err) == code
}
