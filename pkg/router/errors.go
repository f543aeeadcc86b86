package router

import (
	"fmt"
)

// HTTPError represents an HTTP error with a status code and message.
// When returned from a generic handler, the framework uses the status
// code and message to build the response, giving handlers control over
// the exact error sent to clients.
type HTTPError struct {
	StatusCode int    // HTTP status code (e.g., 400, 404, 500)
	Message    string // Error message sent in the response body
}

// Error implements the error interface.
// It returns a string representation in the format "status: message".
func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

// NewHTTPError creates a new HTTPError with the given status code and message.
func NewHTTPError(statusCode int, message string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
	}
}
