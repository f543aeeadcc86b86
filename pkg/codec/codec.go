// Package codec provides encoding and decoding functionality for different data formats.
package codec

import (
	"github.com/quadframe/qhttp/pkg/wire"
)

// Codec defines an interface for marshaling and unmarshaling request
// and response data. Decode extracts typed data from a parsed request
// body; Encode builds a response of the given status from typed data,
// setting the appropriate Content-Type. This allows different data
// formats (e.g., JSON, Protocol Buffers) behind the same handler shape.
type Codec[T any, U any] interface {
	// Decode deserializes the request body into a value of type T.
	// If the deserialization fails, it returns an error.
	Decode(r *wire.Request) (T, error)

	// Encode serializes a value of type U into a response with the
	// given status code. Serialization failure is returned as an error
	// at construction time, never deferred to write time.
	Encode(status int, resp U) (*wire.Response, error)
}
