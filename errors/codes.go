package errors

import "net/http"

// ErrorCode is the machine-readable part of an AppError.
type ErrorCode string

const (
	ErrCodeNotFound            ErrorCode = "NOT_FOUND"
	ErrCodeInvalidInput        ErrorCode = "INVALID_INPUT"
	ErrCodeConstructionFailed  ErrorCode = "CONSTRUCTION_FAILED"
	ErrCodeContributionInvalid ErrorCode = "CONTRIBUTION_INVALID"
	ErrCodeUnknownClass        ErrorCode = "UNKNOWN_CLASS"

	// Retryable: the same call may succeed once the backend recovers.
	ErrCodePersistenceFailed  ErrorCode = "PERSISTENCE_FAILED"
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

type codeInfo struct {
	status    int
	retryable bool
}

var codes = map[ErrorCode]codeInfo{
	ErrCodeNotFound:            {http.StatusNotFound, false},
	ErrCodeInvalidInput:        {http.StatusBadRequest, false},
	ErrCodeConstructionFailed:  {http.StatusUnprocessableEntity, false},
	ErrCodeContributionInvalid: {http.StatusUnprocessableEntity, false},
	ErrCodeUnknownClass:        {http.StatusUnprocessableEntity, false},
	ErrCodePersistenceFailed:   {http.StatusServiceUnavailable, true},
	ErrCodeServiceUnavailable:  {http.StatusServiceUnavailable, true},
	ErrCodeInternal:            {http.StatusInternalServerError, false},
}

// HTTPStatus maps code to its response status; unknown codes are 500.
func (c ErrorCode) HTTPStatus() int {
	if info, ok := codes[c]; ok {
		return info.status
	}
	return http.StatusInternalServerError
}

// Retryable reports whether errors with this code are transient.
func (c ErrorCode) Retryable() bool {
	return codes[c].retryable
}
