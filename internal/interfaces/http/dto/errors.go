package dto

import "net/http"

// Error codes returned in the error envelope.
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Input error codes
const (
	// ErrCodeValidation is used when a field is missing or malformed
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeBadRequest is used for requests that cannot be parsed
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidTenant is used when the store header is absent or not a uuid
	ErrCodeInvalidTenant = "ERR_INVALID_TENANT"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when an order, receivable, product or sale is unknown
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeConflict is used when a unique value is already taken
	ErrCodeConflict = "ERR_CONFLICT"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when the current status forbids the operation
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeInsufficientStock is used when a sale asks for more than is on hand
	ErrCodeInsufficientStock = "ERR_INSUFFICIENT_STOCK"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:    http.StatusBadRequest,
	ErrCodeBadRequest:    http.StatusBadRequest,
	ErrCodeInvalidTenant: http.StatusBadRequest,

	ErrCodeNotFound: http.StatusNotFound,
	ErrCodeConflict: http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:      http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock: http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to API error codes
var DomainErrorCodeMapping = map[string]string{
	"VALIDATION_ERROR":   ErrCodeValidation,
	"NOT_FOUND":          ErrCodeNotFound,
	"INVALID_STATE":      ErrCodeInvalidState,
	"INSUFFICIENT_STOCK": ErrCodeInsufficientStock,
	"CONFLICT":           ErrCodeConflict,
	"INTERNAL_ERROR":     ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the API format.
// Codes already in the API format, or unknown ones, are returned as-is.
func NormalizeErrorCode(code string) string {
	if apiCode, ok := DomainErrorCodeMapping[code]; ok {
		return apiCode
	}
	return code
}
