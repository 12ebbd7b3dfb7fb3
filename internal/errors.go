package internal

import "errors"

var (
	// ErrNotFound is returned when a referenced session or user id has no record.
	ErrNotFound = errors.New("not found")
	// ErrStoreUnavailable signals the persistence backend is not configured or
	// unreachable. Surfaced directly; the service does not retry.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// AppError is the error payload shape returned by every failing endpoint.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"error"`
}

func NewAppError(code int, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func (e *AppError) Error() string {
	return e.Message
}
