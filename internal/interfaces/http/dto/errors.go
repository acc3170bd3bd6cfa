package dto

import (
	"net/http"

	"github.com/hidenkeys/receipt/internal/domain/receipt"
)

// Transport error codes; receipt error codes are passed through unchanged
const (
	ErrCodeInternal        = "ERR_INTERNAL"
	ErrCodeInvalidJSON     = "ERR_INVALID_JSON"
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
	ErrCodeNotFound        = "ERR_NOT_FOUND"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeNotFound:        http.StatusNotFound,

	receipt.ErrCodeInvalidArgument: http.StatusBadRequest,
	// The logo host is an upstream of this server
	receipt.ErrCodeImageFetch:  http.StatusBadGateway,
	receipt.ErrCodeImageDecode: http.StatusBadGateway,
	receipt.ErrCodePrinter:     http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
