package errors

// ErrorResponse is the body of every failed API call:
//
//	{"error": {"code": "NOT_FOUND", "message": "...", "retryable": false, "details": {...}}}
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody is AppError without the cause and the status.
type ErrorBody struct {
	Code      ErrorCode      `json:"code"`
	Message   string         `json:"message"`
	Retryable bool           `json:"retryable"`
	Details   map[string]any `json:"details,omitempty"`
}

// ToResponse returns the client view of e.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{Error: ErrorBody{
		Code:      e.Code,
		Message:   e.Message,
		Retryable: e.Retryable,
		Details:   e.Details,
	}}
}
