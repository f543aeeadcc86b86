package common

import (
	"github.com/quadframe/qhttp/pkg/wire"
)

// Chain represents an ordered list of middleware.
type Chain []Middleware

// NewChain creates a new middleware chain.
func NewChain(middlewares ...Middleware) Chain {
	return middlewares
}

// Append adds middleware to the end of the chain.
func (c Chain) Append(middlewares ...Middleware) Chain {
	return append(c, middlewares...)
}

// Prepend adds middleware to the beginning of the chain.
func (c Chain) Prepend(middlewares ...Middleware) Chain {
	result := make(Chain, len(middlewares)+len(c))
	copy(result, middlewares)
	copy(result[len(middlewares):], c)
	return result
}

// Run folds the chain over the request. Each middleware receives the
// current request only while every preceding member has continued; the
// first terminal response stops the fold and is returned with a nil
// request, and the remaining middleware never run.
func (c Chain) Run(req *wire.Request) (*wire.Request, *wire.Response) {
	for _, m := range c {
		next, resp := m.Handle(req)
		if resp != nil {
			return nil, resp
		}
		req = next
	}
	return req, nil
}
