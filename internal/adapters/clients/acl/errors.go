package acl

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jsamuelsen/customer-service/internal/adapters/clients"
	"github.com/jsamuelsen/customer-service/internal/domain"
)

// maxErrorBody caps how much of an error response is read for its code.
const maxErrorBody = 64 << 10

// ErrorResponse is Connect's error body.
type ErrorResponse struct {
	ErrorCode string `json:"error_code"`
}

// ParseErrorCode returns the error_code of an error body, or "" when the body
// is empty or not JSON.
func ParseErrorCode(body io.Reader) string {
	if body == nil {
		return ""
	}

	var errResp ErrorResponse
	if err := json.NewDecoder(io.LimitReader(body, maxErrorBody)).Decode(&errResp); err != nil {
		return ""
	}

	return errResp.ErrorCode
}

// MapHTTPError maps the outcome of a Connect call to a domain error.
//
// A client error (no usable response) becomes *domain.UnavailableError. A
// non-2xx response becomes *domain.ExternalServiceError with the response
// status, the error_code from the body and the operation name. A 2xx
// response maps to nil.
func MapHTTPError(resp *http.Response, clientErr error, serviceName, operation string) error {
	if clientErr != nil {
		return mapClientError(clientErr, serviceName, operation)
	}

	if resp == nil {
		return domain.NewUnavailableError(serviceName, "no response received")
	}

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	return domain.NewExternalServiceError(serviceName, operation, resp.StatusCode, ParseErrorCode(resp.Body))
}

func mapClientError(err error, serviceName, operation string) error {
	switch {
	case errors.Is(err, clients.ErrCircuitOpen):
		return domain.NewUnavailableError(serviceName,
			fmt.Sprintf("circuit breaker open during %s", operation))

	case errors.Is(err, clients.ErrMaxRetriesExceeded):
		return domain.NewUnavailableError(serviceName,
			fmt.Sprintf("max retries exceeded during %s", operation))

	default:
		return domain.NewUnavailableError(serviceName,
			fmt.Sprintf("%s failed: %v", operation, err))
	}
}
