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

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeValidationRequired is used when a required field is missing
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	// ErrCodeValidationFormat is used when a field has invalid format
	ErrCodeValidationFormat = "ERR_VALIDATION_FORMAT"
	// ErrCodeValidationRange is used when a value is out of range
	ErrCodeValidationRange = "ERR_VALIDATION_RANGE"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeBusinessRule is used for generic business rule violations
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
	// ErrCodeInsufficientStock is used when stock cannot cover an order line
	ErrCodeInsufficientStock = "ERR_INSUFFICIENT_STOCK"
	// ErrCodeApprovalConflict is used when a document already has an open approval
	ErrCodeApprovalConflict = "ERR_APPROVAL_CONFLICT"
	// ErrCodePromotionRejected is used when a requested promotion cannot be applied
	ErrCodePromotionRejected = "ERR_PROMOTION_REJECTED"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
	// ErrCodeRequestTooLarge is used when the request body exceeds the size limit
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,
	ErrCodeValidationRange:    http.StatusBadRequest,

	// Resource errors
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:      http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:      http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock: http.StatusUnprocessableEntity,
	ErrCodePromotionRejected: http.StatusUnprocessableEntity,

	// Approval conflicts -> 409 Conflict
	ErrCodeApprovalConflict: http.StatusConflict,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps raw domain error codes to the standardized
// transport-level codes above
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"BATCH_NOT_FOUND":      ErrCodeNotFound,
	"SERIAL_NOT_FOUND":     ErrCodeNotFound,
	"PROMOTION_NOT_FOUND":  ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,
	"APPROVAL_CONFLICT":    ErrCodeApprovalConflict,
	"DEPOT_IN_USE":         ErrCodeConflict,

	"INVALID_INPUT":        ErrCodeInvalidInput,
	"INVALID_CODE":         ErrCodeInvalidInput,
	"INVALID_NAME":         ErrCodeInvalidInput,
	"INVALID_CHANNEL":      ErrCodeInvalidInput,
	"INVALID_PRICE":        ErrCodeInvalidInput,
	"INVALID_AMOUNT":       ErrCodeInvalidInput,
	"INVALID_QUANTITY":     ErrCodeInvalidInput,
	"INVALID_PERIOD":       ErrCodeInvalidInput,
	"INVALID_SCOPE":        ErrCodeInvalidInput,
	"INVALID_CONDITION":    ErrCodeInvalidInput,
	"INVALID_LEVEL":        ErrCodeInvalidInput,
	"INVALID_BENEFIT":      ErrCodeInvalidInput,
	"INVALID_CUSTOMER":     ErrCodeInvalidInput,
	"INVALID_DEPOT":        ErrCodeInvalidInput,
	"INVALID_PRODUCT":      ErrCodeInvalidInput,
	"INVALID_SALESPERSON":  ErrCodeInvalidInput,
	"INVALID_TRACKING":     ErrCodeInvalidInput,
	"INVALID_MOVEMENT":     ErrCodeInvalidInput,
	"INVALID_BATCH":        ErrCodeInvalidInput,
	"INVALID_SERIAL":       ErrCodeInvalidInput,
	"INVALID_DOCUMENT":     ErrCodeInvalidInput,
	"INVALID_RECIPIENT":    ErrCodeInvalidInput,
	"INVALID_TITLE":        ErrCodeInvalidInput,
	"INVALID_ORDER_NUMBER": ErrCodeInvalidInput,
	"MISSING_ACTOR":        ErrCodeBadRequest,

	"INVALID_STATE":         ErrCodeInvalidState,
	"EMPTY_ORDER":           ErrCodeBusinessRule,
	"CUSTOMER_CANNOT_ORDER": ErrCodeBusinessRule,
	"PRODUCT_NOT_SELLABLE":  ErrCodeBusinessRule,
	"DEPOT_REQUIRED":        ErrCodeBusinessRule,

	"INSUFFICIENT_STOCK":      ErrCodeInsufficientStock,
	"BATCH_REQUIRED":          ErrCodeBusinessRule,
	"SERIAL_REQUIRED":         ErrCodeBusinessRule,
	"BATCH_QUANTITY_MISMATCH": ErrCodeBusinessRule,
	"SERIAL_COUNT_MISMATCH":   ErrCodeBusinessRule,
	"SERIAL_UNAVAILABLE":      ErrCodeBusinessRule,

	"PROMOTION_INACTIVE":        ErrCodePromotionRejected,
	"PROMOTION_EXPIRED":         ErrCodePromotionRejected,
	"PROMOTION_EXCLUDED":        ErrCodePromotionRejected,
	"PROMOTION_INELIGIBLE":      ErrCodePromotionRejected,
	"PROMOTION_CONDITION_UNMET": ErrCodePromotionRejected,
	"PROMOTION_THRESHOLD_UNMET": ErrCodePromotionRejected,
	"PROMOTION_NO_LEVELS":       ErrCodePromotionRejected,

	"VALIDATION_ERROR": ErrCodeValidation,
	"BAD_REQUEST":      ErrCodeBadRequest,
	"INTERNAL_ERROR":   ErrCodeInternal,
}

// NormalizeErrorCode converts a raw domain error code to the standardized format
// If the code is already in the new format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if newCode, ok := DomainErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
