package dto

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/customer-service/internal/app"
	"github.com/jsamuelsen/customer-service/internal/domain"
	"github.com/jsamuelsen/customer-service/internal/platform/logging"
)

// TraceIDKey is the gin context key consulted first by GetTraceID.
const TraceIDKey = "trace_id"

// MapDomainError maps a domain error to an HTTP status code and error response.
// Unknown errors are mapped to 500 Internal Server Error with a generic message.
//
// ExternalServiceError is matched before the other unavailable errors: a
// remote error status is reported as 502, an unreachable dependency as 503.
func MapDomainError(err error) (int, *ErrorResponse) {
	if err == nil {
		return http.StatusOK, nil
	}

	var external *domain.ExternalServiceError

	switch {
	case domain.IsNotFound(err):
		return http.StatusNotFound, NewErrorResponse(ErrorCodeNotFound, err.Error())

	case domain.IsConflict(err):
		return http.StatusConflict, NewErrorResponse(ErrorCodeConflict, err.Error())

	case domain.IsValidation(err):
		resp := NewErrorResponse(ErrorCodeValidation, err.Error())

		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) && validationErr.Field != "" {
			resp.Error.Details = map[string]string{
				validationErr.Field: validationErr.Message,
			}
		}

		return http.StatusBadRequest, resp

	case domain.IsForbidden(err):
		return http.StatusForbidden, NewErrorResponse(ErrorCodeForbidden, err.Error())

	case errors.As(err, &external):
		details := map[string]string{
			"service":   external.Service,
			"operation": external.Operation,
			"status":    strconv.Itoa(external.StatusCode),
		}
		if external.Code != "" {
			details["code"] = external.Code
		}

		return http.StatusBadGateway, NewErrorResponseWithDetails(ErrorCodeUpstream, external.Error(), details)

	case domain.IsUnavailable(err):
		return http.StatusServiceUnavailable, NewErrorResponse(
			ErrorCodeUnavailable,
			"a dependency is temporarily unavailable: "+err.Error(),
		)

	default:
		// Unknown errors get a generic message to avoid leaking internals
		return http.StatusInternalServerError, NewErrorResponse(
			ErrorCodeInternal,
			"an internal error occurred",
		)
	}
}

// GetTraceID returns the id used to correlate an error response with logs:
// the trace_id context key, then the active span, then X-Request-ID.
func GetTraceID(c *gin.Context) string {
	if v, ok := c.Get(TraceIDKey); ok {
		if id, ok := v.(string); ok {
			return id
		}

		return ""
	}

	if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().HasTraceID() {
		return span.SpanContext().TraceID().String()
	}

	return c.GetHeader("X-Request-ID")
}

// HandleError writes the response for an error returned by a use case.
// 5xx responses are logged with the failed execution step when known.
func HandleError(c *gin.Context, err error) {
	status, resp := MapDomainError(err)
	resp.TraceID = GetTraceID(c)

	logServerError(c, status, err, resp.TraceID)

	c.JSON(status, resp)
}

// AbortWithError is HandleError for middleware: it stops the chain.
func AbortWithError(c *gin.Context, err error) {
	status, resp := MapDomainError(err)
	resp.TraceID = GetTraceID(c)

	c.AbortWithStatusJSON(status, resp)
}

// RespondWithErrorCode writes an error response with a specific error code.
// Use this for adapter-level errors that don't originate from domain errors.
func RespondWithErrorCode(c *gin.Context, code, message string) {
	c.JSON(HTTPStatusFromCode(code), NewErrorResponse(code, message).WithTraceID(GetTraceID(c)))
}

// RespondWithValidationErrors writes a 400 response with field-level validation errors.
func RespondWithValidationErrors(c *gin.Context, fieldErrors map[string]string) {
	resp := NewErrorResponseWithDetails(ErrorCodeValidation, "request validation failed", fieldErrors)
	c.JSON(http.StatusBadRequest, resp.WithTraceID(GetTraceID(c)))
}

// RespondWithBindError writes the response for a failed BindAndValidate: a
// field map for validation failures, BAD_REQUEST for an undecodable body.
func RespondWithBindError(c *gin.Context, err error) {
	if IsValidationError(err) {
		RespondWithValidationErrors(c, ValidationErrors(err))
		return
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		RespondWithErrorCode(c, ErrorCodeTooLarge, fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
		return
	}

	RespondWithErrorCode(c, ErrorCodeBadRequest, "malformed request body")
}

func logServerError(c *gin.Context, status int, err error, traceID string) {
	if status < http.StatusInternalServerError {
		return
	}

	attrs := []any{
		slog.String("error", err.Error()),
		slog.Int("status", status),
		slog.String("trace_id", traceID),
	}

	if step, ok := app.GetExecutionStep(err); ok {
		attrs = append(attrs, slog.String("step", string(step)))
	}

	logger := logging.FromContext(c.Request.Context())
	if status == http.StatusInternalServerError {
		logger.Error("internal error", attrs...)
		return
	}

	logger.Warn("dependency error", attrs...)
}
