// Package dto holds the request bodies, response envelopes and validation
// helpers of the HTTP adapter.
package dto

import "net/http"

// ErrorResponse is the envelope of every non-2xx answer.
type ErrorResponse struct {
	Error   ErrorDetail `json:"error"`
	TraceID string      `json:"traceId,omitempty"`
}

// ErrorDetail is the machine-readable code, a message for humans, and
// optional details: field messages for validation failures, the Connect
// operation and code for upstream failures.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// Error codes.
const (
	ErrorCodeBadRequest       = "BAD_REQUEST"
	ErrorCodeValidation       = "VALIDATION_ERROR"
	ErrorCodeUnauthorized     = "UNAUTHORIZED"
	ErrorCodeForbidden        = "FORBIDDEN"
	ErrorCodeNotFound         = "NOT_FOUND"
	ErrorCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	ErrorCodeConflict         = "CONFLICT"
	ErrorCodeTooLarge         = "PAYLOAD_TOO_LARGE"
	ErrorCodeInternal         = "INTERNAL_ERROR"
	// ErrorCodeUpstream means Connect answered with an error status.
	ErrorCodeUpstream = "UPSTREAM_ERROR"
	// ErrorCodeUnavailable means a dependency could not be reached or its
	// circuit is open.
	ErrorCodeUnavailable = "SERVICE_UNAVAILABLE"
	ErrorCodeTimeout     = "TIMEOUT"
)

var statusByCode = map[string]int{
	ErrorCodeBadRequest:       http.StatusBadRequest,
	ErrorCodeValidation:       http.StatusBadRequest,
	ErrorCodeUnauthorized:     http.StatusUnauthorized,
	ErrorCodeForbidden:        http.StatusForbidden,
	ErrorCodeNotFound:         http.StatusNotFound,
	ErrorCodeMethodNotAllowed: http.StatusMethodNotAllowed,
	ErrorCodeConflict:         http.StatusConflict,
	ErrorCodeTooLarge:         http.StatusRequestEntityTooLarge,
	ErrorCodeInternal:         http.StatusInternalServerError,
	ErrorCodeUpstream:         http.StatusBadGateway,
	ErrorCodeUnavailable:      http.StatusServiceUnavailable,
	ErrorCodeTimeout:          http.StatusGatewayTimeout,
}

// HTTPStatusFromCode returns the status sent with code. Unknown codes are
// internal errors.
func HTTPStatusFromCode(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}

	return http.StatusInternalServerError
}

// NewErrorResponse creates an envelope without details.
func NewErrorResponse(code, message string) *ErrorResponse {
	return NewErrorResponseWithDetails(code, message, nil)
}

// NewErrorResponseWithDetails creates an envelope carrying details.
func NewErrorResponseWithDetails(code, message string, details map[string]string) *ErrorResponse {
	return &ErrorResponse{Error: ErrorDetail{Code: code, Message: message, Details: details}}
}

// WithTraceID sets the trace id and returns e.
func (e *ErrorResponse) WithTraceID(traceID string) *ErrorResponse {
	e.TraceID = traceID
	return e
}
