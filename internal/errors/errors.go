package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrInvalidSubject is returned when a subject is not in the registry.
	ErrInvalidSubject = errors.New("invalid subject")
	// ErrDisallowedExtension is returned when an uploaded file's extension is not allowed.
	ErrDisallowedExtension = errors.New("file type not allowed")
	// ErrEmptyUpload is returned when an upload carries no filename or content.
	ErrEmptyUpload = errors.New("no file provided")
	// ErrFileNotFound is returned when a file does not exist in a subject folder.
	ErrFileNotFound = errors.New("file not found")
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
	case ErrInvalidSubject:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_SUBJECT")
	case ErrDisallowedExtension:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "DISALLOWED_EXTENSION")
	case ErrEmptyUpload:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "EMPTY_UPLOAD")
	case ErrFileNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "FILE_NOT_FOUND")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
