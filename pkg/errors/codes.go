package errors

import "net/http"

// ErrorCode is a string identifier for a specific failure category.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes.
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_003"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_004"
	ErrCodeTimeout            ErrorCode = "COMMON_005"
	ErrCodeValidation         ErrorCode = "COMMON_006"
	ErrCodeSerialization      ErrorCode = "COMMON_007"
	ErrCodeCacheError         ErrorCode = "COMMON_008"
)

// Scan pipeline error codes.
const (
	ErrCodeMarketplaceUnknown ErrorCode = "SCAN_001"
	ErrCodeExtractionFailed   ErrorCode = "SCAN_002"
	ErrCodeScanFailed         ErrorCode = "SCAN_003"
)

// Search collaborator error codes.
const (
	ErrCodeSearchNotConfigured ErrorCode = "SRC_001"
	ErrCodeSearchUnavailable   ErrorCode = "SRC_002"
	ErrCodeSearchParseError    ErrorCode = "SRC_003"
)

// AI collaborator error codes.
const (
	ErrCodeAINotConfigured    ErrorCode = "AI_001"
	ErrCodeAICallFailed       ErrorCode = "AI_002"
	ErrCodeAIMalformedPayload ErrorCode = "AI_003"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,

	ErrCodeMarketplaceUnknown: http.StatusBadRequest,
	ErrCodeExtractionFailed:   http.StatusInternalServerError,
	ErrCodeScanFailed:         http.StatusInternalServerError,

	ErrCodeSearchNotConfigured: http.StatusServiceUnavailable,
	ErrCodeSearchUnavailable:   http.StatusBadGateway,
	ErrCodeSearchParseError:    http.StatusBadGateway,

	ErrCodeAINotConfigured:    http.StatusServiceUnavailable,
	ErrCodeAICallFailed:       http.StatusBadGateway,
	ErrCodeAIMalformedPayload: http.StatusBadGateway,
}

// ErrorCodeMessage maps error codes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeCacheError:         "cache error",

	ErrCodeMarketplaceUnknown: "unknown marketplace",
	ErrCodeExtractionFailed:   "asset extraction failed",
	ErrCodeScanFailed:         "marketplace scan failed",

	ErrCodeSearchNotConfigured: "search provider not configured",
	ErrCodeSearchUnavailable:   "search provider unavailable",
	ErrCodeSearchParseError:    "failed to parse search provider response",

	ErrCodeAINotConfigured:    "AI verifier not configured",
	ErrCodeAICallFailed:       "AI verifier call failed",
	ErrCodeAIMalformedPayload: "AI verifier response not parseable",
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
