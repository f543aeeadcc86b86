// Package common provides shared types and utilities used across the qhttp framework.
package common

import (
	"github.com/quadframe/qhttp/pkg/wire"
)

// Handler is the terminal step of the pipeline. It receives the fully
// processed request and always produces a response; errors must be
// turned into error-status responses by the handler itself.
type Handler interface {
	Serve(*wire.Request) *wire.Response
}

// HandlerFunc adapts a plain function to the Handler interface,
// so both functions and stateful objects can serve as handlers.
type HandlerFunc func(*wire.Request) *wire.Response

// Serve calls f(req).
func (f HandlerFunc) Serve(req *wire.Request) *wire.Response {
	return f(req)
}

// Middleware is a single step in a processing chain. Handle either
// returns a (possibly augmented) request and a nil response to continue,
// or a nil request and a terminal response to short-circuit the rest of
// the pipeline. Middleware must not rely on shared mutable state; side
// effects such as logging must not affect the decision.
type Middleware interface {
	Handle(*wire.Request) (*wire.Request, *wire.Response)
}

// MiddlewareFunc adapts a plain function to the Middleware interface.
type MiddlewareFunc func(*wire.Request) (*wire.Request, *wire.Response)

// Handle calls f(req).
func (f MiddlewareFunc) Handle(req *wire.Request) (*wire.Request, *wire.Response) {
	return f(req)
}
