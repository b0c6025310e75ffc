package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{"VALIDATION_ERROR", http.StatusBadRequest},
		{"NOT_FOUND", http.StatusNotFound},
		{"STORE_ERROR", http.StatusInternalServerError},
		{"IDEMPOTENCY_IN_PROGRESS", http.StatusConflict},
		{"IDEMPOTENCY_KEY_REUSED", http.StatusUnprocessableEntity},
		{"CONCURRENT_MODIFICATION", http.StatusConflict},
		{"USERNAME_EXISTS", http.StatusConflict},
		{"TOKEN_REVOKED", http.StatusUnauthorized},
		{"ACCOUNT_INACTIVE", http.StatusForbidden},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{"SOMETHING_NEW", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, GetHTTPStatus(tt.code))
		})
	}
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]int{1}, 41, 2, 20)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 3, resp.Meta.TotalPages)

	resp = NewSuccessResponseWithMeta(nil, 0, 1, 0)
	assert.Equal(t, 0, resp.Meta.TotalPages)
}

func TestNewValidationErrorResponse_JSONShape(t *testing.T) {
	resp := NewValidationErrorResponse("Request validation failed", "req-1", []ValidationDetail{
		{Field: "payment_type", Message: "is required"},
		{Field: "amount", Message: "must not be negative"},
	})

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"success": false,
		"error": {
			"code": "VALIDATION_ERROR",
			"message": "Request validation failed",
			"request_id": "req-1",
			"details": [
				{"field": "payment_type", "message": "is required"},
				{"field": "amount", "message": "must not be negative"}
			]
		}
	}`, string(raw))
}

func TestNewErrorResponse_OmitsEmptyRequestID(t *testing.T) {
	raw, err := json.Marshal(NewErrorResponse("NOT_FOUND", "lead 9 not found"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"error":{"code":"NOT_FOUND","message":"lead 9 not found"}}`, string(raw))
}
