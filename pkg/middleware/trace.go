package middleware

import (
	"github.com/google/uuid"

	"github.com/quadframe/qhttp/pkg/common"
	"github.com/quadframe/qhttp/pkg/wire"
)

// TraceHeader carries the per-request trace ID through the pipeline.
const TraceHeader = "X-Trace-Id"

// Trace creates a middleware that stamps each request with a unique
// trace ID unless the client already supplied one. The ID rides on the
// request's header map so every later layer and the handler can log it.
func Trace() common.Middleware {
	return common.MiddlewareFunc(func(req *wire.Request) (*wire.Request, *wire.Response) {
		if id, ok := req.Header(TraceHeader); !ok || id == "" {
			req.Headers[TraceHeader] = uuid.New().String()
		}
		return req, nil
	})
}

// GetTraceID extracts the trace ID from a request.
// Returns an empty string if no trace ID is present.
func GetTraceID(req *wire.Request) string {
	id, _ := req.Header(TraceHeader)
	return id
}
