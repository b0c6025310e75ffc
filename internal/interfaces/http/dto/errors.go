package dto

import "net/http"

// Transport-level error codes. Domain codes pass through unchanged.
const (
	ErrCodeInternal     = "ERR_INTERNAL"
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeRateLimited  = "ERR_RATE_LIMITED"
	ErrCodeBodyTooLarge = "ERR_BODY_TOO_LARGE"
	ErrCodeUnavailable  = "ERR_UNAVAILABLE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// the three-way store taxonomy
	"VALIDATION_ERROR": http.StatusBadRequest,
	"NOT_FOUND":        http.StatusNotFound,
	"STORE_ERROR":      http.StatusInternalServerError,

	"INVALID_INPUT":           http.StatusBadRequest,
	"INVALID_STATE":           http.StatusConflict,
	"ALREADY_EXISTS":          http.StatusConflict,
	"ALREADY_ACTIVE":          http.StatusConflict,
	"ALREADY_INACTIVE":        http.StatusConflict,
	"USERNAME_EXISTS":         http.StatusConflict,
	"IDEMPOTENCY_IN_PROGRESS": http.StatusConflict,
	"IDEMPOTENCY_KEY_REUSED":  http.StatusUnprocessableEntity,
	"CONCURRENT_MODIFICATION": http.StatusConflict,

	"UNAUTHORIZED":        http.StatusUnauthorized,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"TOKEN_EXPIRED":       http.StatusUnauthorized,
	"TOKEN_INVALID":       http.StatusUnauthorized,
	"TOKEN_REVOKED":       http.StatusUnauthorized,
	"FORBIDDEN":           http.StatusForbidden,
	"ACCOUNT_INACTIVE":    http.StatusForbidden,

	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeRateLimited:  http.StatusTooManyRequests,
	ErrCodeBodyTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeUnavailable:  http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the status for code, 500 when unknown
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
