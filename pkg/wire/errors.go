package wire

import (
	"errors"
	"fmt"
)

// Parse errors returned by Parse. The connection handler recovers both
// into a 400 response without closing the connection.
var (
	// ErrEmptyRequest is returned when the head section contains no lines.
	ErrEmptyRequest = errors.New("empty request")

	// ErrInvalidRequestLine is returned when the request line does not
	// split into exactly three tokens (method, target, version).
	ErrInvalidRequestLine = errors.New("invalid request line format")
)

// BodyDecodeError wraps a failure to decode the request body into a
// caller-specified shape. It carries the underlying decoder message and
// never escapes the handler boundary.
type BodyDecodeError struct {
	Err error
}

// Error implements the error interface.
func (e *BodyDecodeError) Error() string {
	return fmt.Sprintf("failed to decode request body: %v", e.Err)
}

// Unwrap returns the underlying decode error.
func (e *BodyDecodeError) Unwrap() error {
	return e.Err
}
