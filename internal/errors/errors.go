package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUserNotFound is returned when a user lookup misses.
	ErrUserNotFound = errors.New("user not found")
	// ErrMessageNotFound is returned when a message lookup misses.
	ErrMessageNotFound = errors.New("message not found")
	// ErrRecipientNotFound is returned when a delivery target does not exist.
	ErrRecipientNotFound = errors.New("recipient not found")
	// ErrDepartmentNotFound is returned when a department reference does not resolve.
	ErrDepartmentNotFound = errors.New("department not found")
	// ErrNotRecipient is returned when a read-state change is attempted by
	// someone other than the message recipient.
	ErrNotRecipient = errors.New("only the recipient may mark a message read")
	// ErrEmptyContent is returned when a message has no content.
	ErrEmptyContent = errors.New("message content must not be empty")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch err {
	case ErrUserNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case ErrMessageNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "MESSAGE_NOT_FOUND")
	case ErrRecipientNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "RECIPIENT_NOT_FOUND")
	case ErrDepartmentNotFound:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "DEPARTMENT_NOT_FOUND")
	case ErrEmptyContent:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "EMPTY_CONTENT")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
