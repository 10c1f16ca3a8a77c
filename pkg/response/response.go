package response

import (
	"errors"
	"net/http"
)

// Response represents a standard API response format
type Response struct {
	Status     string      `json:"status"`      // "success" or "error"
	StatusCode int         `json:"status_code"` // HTTP status code
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
	Code       string      `json:"code,omitempty"` // machine-readable error code
}

// Success returns a standard success response wrapping the data
func Success(statusCode int, data interface{}) Response {
	return Response{
		Status:     "success",
		StatusCode: statusCode,
		Data:       data,
	}
}

// Error returns a standard error response wrapping the error message
func Error(statusCode int, err string) Response {
	return Response{
		Status:     "error",
		StatusCode: statusCode,
		Error:      err,
	}
}

// ErrorWithCode returns an error response carrying a stable machine-readable
// code alongside the message.
func ErrorWithCode(statusCode int, code, err string) Response {
	return Response{
		Status:     "error",
		StatusCode: statusCode,
		Error:      err,
		Code:       code,
	}
}

// Coded is satisfied by errors that carry their own HTTP mapping.
type Coded interface {
	error
	HTTPStatus() int
	ErrorCode() string
}

// FromError maps err to its response, defaulting to 500 for unknown errors so
// internals never leak.
func FromError(err error) (int, Response) {
	var coded Coded
	if errors.As(err, &coded) {
		return coded.HTTPStatus(), ErrorWithCode(coded.HTTPStatus(), coded.ErrorCode(), coded.Error())
	}
	return http.StatusInternalServerError, ErrorWithCode(
		http.StatusInternalServerError, "internal_error", "An internal server error occurred")
}
