package dto

import (
	"net/http"
	"strings"
)

// Wire error codes, ERR_<CATEGORY>_<DESCRIPTION>. Handlers never invent
// codes inline; everything the API can return is listed here.
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"

	ErrCodeValidation         = "ERR_VALIDATION"
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	ErrCodeValidationFormat   = "ERR_VALIDATION_FORMAT"
	ErrCodeValidationRange    = "ERR_VALIDATION_RANGE"
	ErrCodeValidationLength   = "ERR_VALIDATION_LENGTH"

	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"

	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"

	ErrCodeInvalidState = "ERR_INVALID_STATE"
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"

	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"

	ErrCodeRateLimited     = "ERR_RATE_LIMITED"
	ErrCodeTooManyRequests = "ERR_TOO_MANY_REQUESTS"
)

// GetHTTPStatus returns the HTTP status for a wire error code. Unknown
// codes fall back to 500 so a missing mapping never leaks a 200.
func GetHTTPStatus(code string) int {
	switch code {
	case ErrCodeValidation, ErrCodeValidationRequired, ErrCodeValidationFormat,
		ErrCodeValidationRange, ErrCodeValidationLength,
		ErrCodeBadRequest, ErrCodeInvalidInput, ErrCodeInvalidJSON:
		return http.StatusBadRequest
	case ErrCodeUnauthorized, ErrCodeTokenExpired, ErrCodeTokenInvalid:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeAlreadyExists, ErrCodeConflict, ErrCodeConcurrencyConflict:
		return http.StatusConflict
	case ErrCodeInvalidState, ErrCodeBusinessRule:
		return http.StatusUnprocessableEntity
	case ErrCodeRateLimited, ErrCodeTooManyRequests:
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}

// domainErrorCodes maps the short codes emitted by domain entities and
// services (NOT_FOUND, SLUG_TAKEN) to their ERR_* wire form.
var domainErrorCodes = map[string]string{
	"NOT_FOUND":                 ErrCodeNotFound,
	"USER_NOT_FOUND":            ErrCodeNotFound,
	"SERVICE_NOT_FOUND":         ErrCodeNotFound,
	"ALREADY_EXISTS":            ErrCodeAlreadyExists,
	"SLUG_TAKEN":                ErrCodeAlreadyExists,
	"INVALID_INPUT":             ErrCodeInvalidInput,
	"INVALID_STATE":             ErrCodeInvalidState,
	"INVALID_STATUS_TRANSITION": ErrCodeInvalidState,
	"ALREADY_ACTIVE":            ErrCodeInvalidState,
	"ALREADY_INACTIVE":          ErrCodeInvalidState,
	"NOT_APPROVED":              ErrCodeInvalidState,
	"UNAUTHORIZED":              ErrCodeUnauthorized,
	"INVALID_CREDENTIALS":       ErrCodeUnauthorized,
	"TOKEN_EXPIRED":             ErrCodeTokenExpired,
	"TOKEN_INVALID":             ErrCodeTokenInvalid,
	"TOKEN_MAX_REFRESH":         ErrCodeTokenInvalid,
	"FORBIDDEN":                 ErrCodeForbidden,
	"ACCOUNT_DEACTIVATED":       ErrCodeForbidden,
	"CONCURRENCY_CONFLICT":      ErrCodeConcurrencyConflict,
	"VALIDATION_ERROR":          ErrCodeValidation,
	"BAD_REQUEST":               ErrCodeBadRequest,
	"INTERNAL_ERROR":            ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to its wire form.
// Field-level INVALID_* codes all normalize to a validation error; codes
// already in the wire format or unknown are returned as-is.
func NormalizeErrorCode(code string) string {
	if wire, ok := domainErrorCodes[code]; ok {
		return wire
	}
	if strings.HasPrefix(code, "INVALID_") {
		return ErrCodeValidation
	}
	return code
}
