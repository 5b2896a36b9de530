package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_007"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeDatabaseError      ErrorCode = "COMMON_012"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeMessagingError     ErrorCode = "COMMON_014"
	ErrCodeFeatureDisabled    ErrorCode = "COMMON_015"
	ErrCodeNotImplemented     ErrorCode = "COMMON_016"
)

// Deadline computation error codes
const (
	ErrCodeInvalidDuration  ErrorCode = "PRZ_001"
	ErrCodeComputationError ErrorCode = "PRZ_002"
)

// Calendar error codes
const (
	ErrCodeCourtUnknown       ErrorCode = "CAL_001"
	ErrCodeDuplicateEntry     ErrorCode = "CAL_002"
	ErrCodeInvalidSuspension  ErrorCode = "CAL_003"
	ErrCodeInvalidRange       ErrorCode = "CAL_004"
	ErrCodeCalendarImport     ErrorCode = "CAL_005"
	ErrCodeInvalidRecurrence  ErrorCode = "CAL_006"
	ErrCodeCalendarUnreadable ErrorCode = "CAL_007"
)

// Catalog error codes
const (
	ErrCodeCatalogNotFound     ErrorCode = "CAT_001"
	ErrCodeCatalogInvalidEntry ErrorCode = "CAT_002"
	ErrCodeCatalogDuplicate    ErrorCode = "CAT_003"
)

// Conflict detection error codes
const (
	ErrCodeConflictInput   ErrorCode = "CFL_001"
	ErrCodeConflictAborted ErrorCode = "CFL_002"
)

// Aliases used across layers.
const (
	CodeInternal       = ErrCodeInternal
	CodeInvalidParam   = ErrCodeBadRequest
	CodeNotFound       = ErrCodeNotFound
	CodeConflict       = ErrCodeConflict
	CodeRateLimit      = ErrCodeTooManyRequests
	CodeNotImplemented = ErrCodeNotImplemented
	CodeOK             = ErrorCode("OK")
	CodeUnknown        = ErrorCode("")

	CodeInvalidDuration  = ErrCodeInvalidDuration
	CodeComputationError = ErrCodeComputationError
	CodeCatalogNotFound  = ErrCodeCatalogNotFound

	CodeDatabaseError     = ErrCodeDatabaseError
	CodeDBQueryError      = ErrCodeDatabaseError
	CodeCacheError        = ErrCodeCacheError
	CodeMessageQueueError = ErrCodeMessagingError
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeMessagingError:     http.StatusInternalServerError,
	ErrCodeFeatureDisabled:    http.StatusForbidden,
	ErrCodeNotImplemented:     http.StatusNotImplemented,

	ErrCodeInvalidDuration:  http.StatusBadRequest,
	ErrCodeComputationError: http.StatusUnprocessableEntity,

	ErrCodeCourtUnknown:       http.StatusBadRequest,
	ErrCodeDuplicateEntry:     http.StatusConflict,
	ErrCodeInvalidSuspension:  http.StatusBadRequest,
	ErrCodeInvalidRange:       http.StatusBadRequest,
	ErrCodeCalendarImport:     http.StatusUnprocessableEntity,
	ErrCodeInvalidRecurrence:  http.StatusBadRequest,
	ErrCodeCalendarUnreadable: http.StatusServiceUnavailable,

	ErrCodeCatalogNotFound:     http.StatusNotFound,
	ErrCodeCatalogInvalidEntry: http.StatusBadRequest,
	ErrCodeCatalogDuplicate:    http.StatusConflict,

	ErrCodeConflictInput:   http.StatusBadRequest,
	ErrCodeConflictAborted: http.StatusServiceUnavailable,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeMessagingError:     "messaging error",
	ErrCodeFeatureDisabled:    "feature disabled",
	ErrCodeNotImplemented:     "not implemented",

	ErrCodeInvalidDuration:  "deadline duration must be positive",
	ErrCodeComputationError: "deadline could not be computed; manual calculation required",

	ErrCodeCourtUnknown:       "unknown court",
	ErrCodeDuplicateEntry:     "calendar entry already registered for this date and scope",
	ErrCodeInvalidSuspension:  "invalid suspension period",
	ErrCodeInvalidRange:       "invalid date range",
	ErrCodeCalendarImport:     "calendar import failed",
	ErrCodeInvalidRecurrence:  "invalid recurrence rule",
	ErrCodeCalendarUnreadable: "calendar data unavailable",

	ErrCodeCatalogNotFound:     "deadline code not found in catalog",
	ErrCodeCatalogInvalidEntry: "invalid catalog entry",
	ErrCodeCatalogDuplicate:    "catalog code already registered",

	ErrCodeConflictInput:   "invalid conflict detection input",
	ErrCodeConflictAborted: "conflict detection aborted",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}

//Personal.AI order the ending
