package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a local order is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeRemoteOrderNotFound is used when a warehouse order is unknown
	ErrCodeRemoteOrderNotFound = "ERR_REMOTE_ORDER_NOT_FOUND"
	// ErrCodeAlreadyExists is used when a warehouse order is already tracked
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
)

// Fulfillment state error codes
const (
	// ErrCodeNotSubmitted is used when the order was never handed off
	ErrCodeNotSubmitted = "ERR_NOT_SUBMITTED"
	// ErrCodeAlreadySubmitted is used when the hand-off already happened
	ErrCodeAlreadySubmitted = "ERR_ALREADY_SUBMITTED"
	// ErrCodeNotReady is used when the order fails the readiness check
	ErrCodeNotReady = "ERR_NOT_READY"
	// ErrCodeAutoUpdateDisabled is used when warehouse-driven updates are off
	ErrCodeAutoUpdateDisabled = "ERR_AUTO_UPDATE_DISABLED"
)

// Warehouse error codes
const (
	// ErrCodeWarehouseUnreachable is used when the WMS cannot be reached
	ErrCodeWarehouseUnreachable = "ERR_WAREHOUSE_UNREACHABLE"
	// ErrCodeWarehouseRejected is used when the WMS rejects a request
	ErrCodeWarehouseRejected = "ERR_WAREHOUSE_REJECTED"
	// ErrCodeMalformedResponse is used when the WMS answer cannot be parsed
	ErrCodeMalformedResponse = "ERR_MALFORMED_RESPONSE"
	// ErrCodeSubmissionFailed is used when the hand-off endpoint fails
	ErrCodeSubmissionFailed = "ERR_SUBMISSION_FAILED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeBadRequest:  http.StatusBadRequest,
	ErrCodeValidation:  http.StatusBadRequest,
	ErrCodeInvalidJSON: http.StatusBadRequest,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeRemoteOrderNotFound: http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,

	ErrCodeNotSubmitted:       http.StatusUnprocessableEntity,
	ErrCodeAlreadySubmitted:   http.StatusConflict,
	ErrCodeNotReady:           http.StatusUnprocessableEntity,
	ErrCodeAutoUpdateDisabled: http.StatusForbidden,

	ErrCodeWarehouseUnreachable: http.StatusBadGateway,
	ErrCodeWarehouseRejected:    http.StatusUnprocessableEntity,
	ErrCodeMalformedResponse:    http.StatusBadGateway,
	ErrCodeSubmissionFailed:     http.StatusBadGateway,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
