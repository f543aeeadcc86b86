package codec

import (
	"errors"
	"reflect"

	"github.com/quadframe/qhttp/pkg/wire"
)

// ProtoCodec is a codec that uses Protocol Buffers for marshaling and
// unmarshaling. This is a basic implementation that requires the types
// T and U to have Marshal/Unmarshal methods in the proto.Message style.
// It implements the Codec interface for encoding responses and decoding requests.
type ProtoCodec[T any, U any] struct{}

// Decode decodes the request body into a value of type T.
// The type T must implement the Unmarshal method.
func (c *ProtoCodec[T, U]) Decode(r *wire.Request) (T, error) {
	var data T

	// Create a new instance of T
	dataValue := reflect.New(reflect.TypeOf(data).Elem()).Interface()

	protoMsg, ok := dataValue.(interface {
		Unmarshal([]byte) error
	})
	if !ok {
		var zero T
		return zero, errors.New("type T does not implement Unmarshal method")
	}

	if err := protoMsg.Unmarshal([]byte(r.Body())); err != nil {
		var zero T
		return zero, err
	}

	result, ok := dataValue.(T)
	if !ok {
		var zero T
		return zero, errors.New("failed to convert unmarshaled data to type T")
	}

	return result, nil
}

// Encode encodes a value of type U into a response with the given
// status code. The type U must implement the Marshal method.
func (c *ProtoCodec[T, U]) Encode(status int, resp U) (*wire.Response, error) {
	protoMsg, ok := interface{}(resp).(interface {
		Marshal() ([]byte, error)
	})
	if !ok {
		return nil, errors.New("type U does not implement Marshal method")
	}

	body, err := protoMsg.Marshal()
	if err != nil {
		return nil, err
	}

	out := &wire.Response{StatusCode: status, Body: body}
	return out.WithHeader("Content-Type", "application/x-protobuf"), nil
}

// NewProtoCodec creates a new ProtoCodec instance for the specified types.
// T represents the request type and U represents the response type.
// Both types must implement the appropriate Protocol Buffers methods.
func NewProtoCodec[T any, U any]() *ProtoCodec[T, U] {
	return &ProtoCodec[T, U]{}
}
