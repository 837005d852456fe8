package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/customer-service/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext(method, target string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, nil)

	return c, w
}

func TestNewErrorResponse(t *testing.T) {
	got := NewErrorResponse(ErrorCodeNotFound, "resource not found").WithTraceID("abc")

	assert.Equal(t, &ErrorResponse{
		Error:   ErrorDetail{Code: ErrorCodeNotFound, Message: "resource not found"},
		TraceID: "abc",
	}, got)
}

func TestNewErrorResponseWithDetails(t *testing.T) {
	details := map[string]string{"email": "must be a valid email address"}

	got := NewErrorResponseWithDetails(ErrorCodeValidation, "request validation failed", details)

	assert.Equal(t, ErrorCodeValidation, got.Error.Code)
	assert.Equal(t, details, got.Error.Details)
	assert.Empty(t, got.TraceID)
}

func TestHTTPStatusFromCode(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{ErrorCodeNotFound, http.StatusNotFound},
		{ErrorCodeConflict, http.StatusConflict},
		{ErrorCodeValidation, http.StatusBadRequest},
		{ErrorCodeBadRequest, http.StatusBadRequest},
		{ErrorCodeForbidden, http.StatusForbidden},
		{ErrorCodeUnauthorized, http.StatusUnauthorized},
		{ErrorCodeUnavailable, http.StatusServiceUnavailable},
		{ErrorCodeUpstream, http.StatusBadGateway},
		{ErrorCodeTimeout, http.StatusGatewayTimeout},
		{ErrorCodeTooLarge, http.StatusRequestEntityTooLarge},
		{ErrorCodeMethodNotAllowed, http.StatusMethodNotAllowed},
		{ErrorCodeInternal, http.StatusInternalServerError},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatusFromCode(tt.code))
		})
	}
}

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", domain.NewNotFoundError("customer", "123"), http.StatusNotFound, ErrorCodeNotFound},
		{"wrapped not found", fmt.Errorf("loading: %w", domain.ErrNotFound), http.StatusNotFound, ErrorCodeNotFound},
		{"conflict", domain.NewConflictError("user", "modified by another transaction"), http.StatusConflict, ErrorCodeConflict},
		{"validation", domain.NewRequiredFieldError("name"), http.StatusBadRequest, ErrorCodeValidation},
		{"forbidden", domain.NewForbiddenError("DELETE_CUSTOMER", "customer has child contexts"), http.StatusForbidden, ErrorCodeForbidden},
		{"unavailable", domain.NewUnavailableError("connect", "circuit breaker open"), http.StatusServiceUnavailable, ErrorCodeUnavailable},
		{
			"remote error status",
			domain.NewExternalServiceError("connect", domain.OpCreateUser, http.StatusBadRequest, "INVALID_EMAIL"),
			http.StatusBadGateway, ErrorCodeUpstream,
		},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, ErrorCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := MapDomainError(tt.err)

			assert.Equal(t, tt.wantStatus, status)
			require.NotNil(t, resp)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}

	t.Run("nil", func(t *testing.T) {
		status, resp := MapDomainError(nil)
		assert.Equal(t, http.StatusOK, status)
		assert.Nil(t, resp)
	})

	t.Run("validation carries the field", func(t *testing.T) {
		_, resp := MapDomainError(domain.NewValidationError("userId", "must be a valid UUID"))
		assert.Equal(t, map[string]string{"userId": "must be a valid UUID"}, resp.Error.Details)
	})

	t.Run("remote error carries operation and code", func(t *testing.T) {
		_, resp := MapDomainError(domain.NewExternalServiceError("connect", domain.OpFindUserByID, http.StatusNotFound, "USER_NOT_FOUND"))

		assert.Equal(t, map[string]string{
			"service":   "connect",
			"operation": domain.OpFindUserByID,
			"status":    "404",
			"code":      "USER_NOT_FOUND",
		}, resp.Error.Details)
	})

	t.Run("unknown errors do not leak", func(t *testing.T) {
		_, resp := MapDomainError(errors.New("pq: password authentication failed"))
		assert.NotContains(t, resp.Error.Message, "password")
	})
}

func TestGetTraceID(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*gin.Context)
		want  string
	}{
		{
			name:  "context key",
			setup: func(c *gin.Context) { c.Set(TraceIDKey, "ctx-123") },
			want:  "ctx-123",
		},
		{
			name:  "request id header",
			setup: func(c *gin.Context) { c.Request.Header.Set("X-Request-ID", "hdr-456") },
			want:  "hdr-456",
		},
		{
			name: "context key wins",
			setup: func(c *gin.Context) {
				c.Set(TraceIDKey, "ctx-123")
				c.Request.Header.Set("X-Request-ID", "hdr-456")
			},
			want: "ctx-123",
		},
		{
			name:  "wrong type",
			setup: func(c *gin.Context) { c.Set(TraceIDKey, 42) },
			want:  "",
		},
		{
			name:  "nothing",
			setup: func(*gin.Context) {},
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestContext(http.MethodGet, "/")
			tt.setup(c)

			assert.Equal(t, tt.want, GetTraceID(c))
		})
	}
}

func TestHandleError(t *testing.T) {
	c, w := newTestContext(http.MethodPost, "/api/v1/users")
	c.Set(TraceIDKey, "trace-1")

	HandleError(c, domain.NewExternalServiceError("connect", domain.OpCreateUser, http.StatusConflict, "EMAIL_EXISTS"))

	assert.Equal(t, http.StatusBadGateway, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, ErrorCodeUpstream, resp.Error.Code)
	assert.Equal(t, "EMAIL_EXISTS", resp.Error.Details["code"])
	assert.Equal(t, "trace-1", resp.TraceID)
}

func TestAbortWithError(t *testing.T) {
	c, w := newTestContext(http.MethodGet, "/")

	AbortWithError(c, domain.NewForbiddenError("DELETE_CUSTOMER", "not allowed"))

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRespondWithErrorCode(t *testing.T) {
	c, w := newTestContext(http.MethodGet, "/")

	RespondWithErrorCode(c, ErrorCodeTimeout, "request timeout exceeded")

	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Contains(t, w.Body.String(), ErrorCodeTimeout)
}
