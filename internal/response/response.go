package response

import (
	"net/http"

	"github.com/yourname/focustracker/internal"
)

// Success payloads are written as-is by the handlers; only error payloads
// share a shape, the AppError {"error": ..., "code": ...} object.

func BadRequest(msg string) *internal.AppError {
	return internal.NewAppError(http.StatusBadRequest, msg)
}

func NotFound(msg string) *internal.AppError {
	return internal.NewAppError(http.StatusNotFound, msg)
}

func TooManyRequests(msg string) *internal.AppError {
	return internal.NewAppError(http.StatusTooManyRequests, msg)
}

func InternalError(msg string) *internal.AppError {
	return internal.NewAppError(http.StatusInternalServerError, msg)
}

func Error(status int, msg string) *internal.AppError {
	return internal.NewAppError(status, msg)
}
