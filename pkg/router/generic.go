package router

import (
	"errors"

	"github.com/quadframe/qhttp/pkg/codec"
	"github.com/quadframe/qhttp/pkg/common"
	"github.com/quadframe/qhttp/pkg/wire"
)

// Generic adapts a handler with typed request and response data into a
// common.Handler. The codec decodes the request body into Req and
// encodes the returned Resp as a 200 response. A decode failure becomes
// a 400 response; a handler error becomes a 500 response unless it is
// an *HTTPError, whose status code and message are used instead. Encode
// failure becomes a 500 response.
func Generic[Req any, Resp any](c codec.Codec[Req, Resp], handler func(*wire.Request, Req) (Resp, error)) common.Handler {
	return common.HandlerFunc(func(req *wire.Request) *wire.Response {
		data, err := c.Decode(req)
		if err != nil {
			return wire.New(400, "Failed to decode request: "+err.Error())
		}

		resp, err := handler(req, data)
		if err != nil {
			var httpErr *HTTPError
			if errors.As(err, &httpErr) {
				return wire.New(httpErr.StatusCode, httpErr.Message)
			}
			return wire.New(500, "Handler error")
		}

		out, err := c.Encode(200, resp)
		if err != nil {
			return wire.New(500, "Failed to encode response")
		}
		return out
	})
}
