// Package middleware provides a collection of middleware components for the qhttp framework.
package middleware

import (
	"strings"

	"go.uber.org/zap"

	"github.com/quadframe/qhttp/pkg/common"
	"github.com/quadframe/qhttp/pkg/wire"
)

// Logging creates a middleware that logs every request passing through
// it. Logging is a side effect only; the request always continues.
func Logging(logger *zap.Logger) common.Middleware {
	return common.MiddlewareFunc(func(req *wire.Request) (*wire.Request, *wire.Response) {
		logger.Info("Request",
			zap.String("method", req.Method),
			zap.String("path", req.Path),
			zap.String("version", req.Version),
		)
		return req, nil
	})
}

// Maintenance creates a middleware that short-circuits every request
// with a 503 while the enabled function reports true. The function is
// consulted per request so the flag can be flipped at runtime.
func Maintenance(enabled func() bool) common.Middleware {
	return common.MiddlewareFunc(func(req *wire.Request) (*wire.Request, *wire.Response) {
		if enabled() {
			return nil, wire.New(503, "Service under maintenance")
		}
		return req, nil
	})
}

// CORS creates a middleware that answers OPTIONS preflight requests
// with the configured origins, methods, and headers. Non-preflight
// requests continue down the pipeline untouched.
func CORS(origins, methods, headers []string) common.Middleware {
	return common.MiddlewareFunc(func(req *wire.Request) (*wire.Request, *wire.Response) {
		if req.Method != "OPTIONS" {
			return req, nil
		}

		resp := wire.OK("")
		if len(origins) > 0 {
			resp.WithHeader("Access-Control-Allow-Origin", strings.Join(origins, ", "))
		}
		if len(methods) > 0 {
			resp.WithHeader("Access-Control-Allow-Methods", strings.Join(methods, ", "))
		}
		if len(headers) > 0 {
			resp.WithHeader("Access-Control-Allow-Headers", strings.Join(headers, ", "))
		}
		return nil, resp
	})
}

// APIKey creates a middleware that requires a non-empty API key in the
// given header. If validate is non-nil it is also consulted; a missing,
// empty, or rejected key short-circuits with a 401.
func APIKey(header string, validate func(string) bool, logger *zap.Logger) common.Middleware {
	return common.MiddlewareFunc(func(req *wire.Request) (*wire.Request, *wire.Response) {
		key, ok := req.Header(header)
		if !ok || key == "" || (validate != nil && !validate(key)) {
			logger.Warn("Missing or invalid API key",
				zap.String("method", req.Method),
				zap.String("path", req.Path),
			)
			return nil, wire.New(401, "API key required")
		}
		return req, nil
	})
}

// RequireHeader creates a middleware that requires an exact header
// value, short-circuiting with the given status and message otherwise.
// Header comparison is exact-case on both key and value.
func RequireHeader(header, want string, status int, message string) common.Middleware {
	return common.MiddlewareFunc(func(req *wire.Request) (*wire.Request, *wire.Response) {
		if got, ok := req.Header(header); !ok || got != want {
			return nil, wire.New(status, message)
		}
		return req, nil
	})
}
