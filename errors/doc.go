// Package errors defines AppError, the error extkit packages return across
// their boundaries. The code decides the HTTP status and whether a retry may
// help; the API serializes AppError.ToResponse as the error body.
package errors
