package codec

import (
	"encoding/json"

	"github.com/quadframe/qhttp/pkg/wire"
)

// JSONCodec is a codec that uses JSON for marshaling and unmarshaling.
// It implements the Codec interface for encoding responses and decoding requests.
type JSONCodec[T any, U any] struct{}

// Decode decodes the request body into a value of type T.
// It unmarshals the raw body text from JSON.
func (c *JSONCodec[T, U]) Decode(r *wire.Request) (T, error) {
	var data T

	err := json.Unmarshal([]byte(r.Body()), &data)
	if err != nil {
		return data, &wire.BodyDecodeError{Err: err}
	}

	return data, nil
}

// Encode encodes a value of type U into a response with the given
// status code. It marshals the value to JSON and sets the Content-Type.
func (c *JSONCodec[T, U]) Encode(status int, resp U) (*wire.Response, error) {
	return wire.JSON(status, resp)
}

// NewJSONCodec creates a new JSONCodec instance for the specified types.
// T represents the request type and U represents the response type.
func NewJSONCodec[T any, U any]() *JSONCodec[T, U] {
	return &JSONCodec[T, U]{}
}
