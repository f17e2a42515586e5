package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the error type crossing package boundaries in extkit. The
// API renders it as is; the CLI prints Error().
type AppError struct {
	Code       ErrorCode      `json:"code"`
	Message    string         `json:"message"`
	Retryable  bool           `json:"retryable"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Cause      error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Cause }

// WithCause attaches cause and returns e.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail adds one detail and returns e.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New returns an AppError whose status and retryability follow from code.
// Details are given as key/value pairs.
func New(code ErrorCode, message string, kv ...any) *AppError {
	e := &AppError{
		Code:       code,
		Message:    message,
		Retryable:  code.Retryable(),
		HTTPStatus: code.HTTPStatus(),
	}
	for i := 0; i+1 < len(kv); i += 2 {
		e.WithDetail(fmt.Sprint(kv[i]), kv[i+1])
	}
	return e
}

// NotFound reports a missing resource; id is omitted from the details
// when empty.
func NotFound(resource, id string) *AppError {
	e := New(ErrCodeNotFound, fmt.Sprintf("The requested %s was not found.", resource), "resource", resource)
	if id != "" {
		e.WithDetail("id", id)
	}
	return e
}

// FactoryNotFound reports an id that no factory of point carries.
func FactoryNotFound(point, id string) *AppError {
	return NotFound("factory", id).WithDetail("point", point)
}

// PointNotFound reports an extension point the host does not manage.
func PointNotFound(point string) *AppError {
	return NotFound("extension point", point)
}

// InvalidInput rejects a request value; field may be empty.
func InvalidInput(field, reason string) *AppError {
	e := New(ErrCodeInvalidInput, "Invalid input: "+reason)
	if field != "" {
		e.WithDetail("field", field)
	}
	return e
}

// Validation carries the joined messages of failed field checks.
func Validation(message string) *AppError {
	return New(ErrCodeInvalidInput, message)
}

// ConstructionFailed wraps the error a factory's Create returned.
func ConstructionFailed(factoryID string, cause error) *AppError {
	return New(ErrCodeConstructionFailed, fmt.Sprintf("Creating the object for %s failed.", factoryID),
		"factory", factoryID).WithCause(cause)
}

// ContributionInvalid rejects a contribution entry of contributor.
func ContributionInvalid(contributor, reason string) *AppError {
	return New(ErrCodeContributionInvalid, "Invalid contribution: "+reason, "contributor", contributor)
}

// UnknownClass rejects a contribution naming a class nobody registered.
func UnknownClass(class string) *AppError {
	return New(ErrCodeUnknownClass, fmt.Sprintf("No constructor registered for class %q.", class), "class", class)
}

// PersistenceFailed wraps a preference store failure of op ("read" or
// "write") on key.
func PersistenceFailed(op, key string, cause error) *AppError {
	return New(ErrCodePersistenceFailed, fmt.Sprintf("Preference %s of %q failed.", op, key),
		"operation", op, "key", key).WithCause(cause)
}

// ServiceUnavailable reports a dependency that is down, such as the event hub.
func ServiceUnavailable(service string) *AppError {
	return New(ErrCodeServiceUnavailable, fmt.Sprintf("The %s is temporarily unavailable. Please try again.", service),
		"service", service)
}

// Internal hides cause behind a generic message.
func Internal(cause error) *AppError {
	return New(ErrCodeInternal, "An unexpected error occurred.").WithCause(cause)
}

// AsAppError finds the first AppError in err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Wrap returns the AppError in err's chain, or err as an internal error.
func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return Internal(err)
}

// HasCode reports whether err's chain holds an AppError with code.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// IsRetryable reports whether err's chain holds a retryable AppError.
func IsRetryable(err error) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Retryable
}
