// Package router provides the routing engine of the qhttp framework:
// segment-wise pattern matching, ordered route tables grouped under a
// path prefix, and the router- and route-scoped middleware layers.
package router

import (
	"errors"
	"fmt"
	"strings"

	"github.com/quadframe/qhttp/pkg/common"
	"github.com/quadframe/qhttp/pkg/wire"
)

// ErrNotMatched is the internal signal that a router does not own a
// request, either because its prefix did not match or because no route
// matched. It is deliberately distinct from a 404 response so that a
// handler's genuine "resource not found" is never mistaken for "try the
// next router" by the server's fan-out.
var ErrNotMatched = errors.New("route not matched")

// Route is a single registered route: an exact method, a path pattern
// that may contain {name} placeholder segments, the handler, and the
// route-scoped middleware chain. Routes are append-only during
// construction and read-only once the server starts.
type Route struct {
	method      string
	pattern     string
	handler     common.Handler
	middlewares common.Chain
}

// Method returns the route's HTTP method.
func (r *Route) Method() string { return r.method }

// Pattern returns the route's path pattern.
func (r *Route) Pattern() string { return r.pattern }

// Router is an ordered collection of routes under a common path prefix,
// with a router-scoped middleware chain that runs for every matched
// route before the route's own middleware.
type Router struct {
	prefix      string
	routes      []*Route
	middlewares common.Chain
}

// New creates a router with the given path prefix. A prefix of "/"
// makes the router own the root path space.
func New(prefix string) *Router {
	return &Router{prefix: prefix}
}

// Prefix returns the router's path prefix.
func (rt *Router) Prefix() string { return rt.prefix }

// Use appends middleware to the router-scoped chain and returns the
// receiver for chaining.
func (rt *Router) Use(middlewares ...common.Middleware) *Router {
	rt.middlewares = rt.middlewares.Append(middlewares...)
	return rt
}

// Handle registers a route for the given method and pattern. Routes are
// tried in registration order; if two patterns could match the same
// method and path, the one registered first silently shadows the other.
func (rt *Router) Handle(method, pattern string, handler common.Handler, middlewares ...common.Middleware) *Router {
	rt.routes = append(rt.routes, &Route{
		method:      method,
		pattern:     pattern,
		handler:     handler,
		middlewares: common.NewChain(middlewares...),
	})
	return rt
}

// Get registers a GET route.
func (rt *Router) Get(pattern string, handler common.Handler, middlewares ...common.Middleware) *Router {
	return rt.Handle("GET", pattern, handler, middlewares...)
}

// Post registers a POST route.
func (rt *Router) Post(pattern string, handler common.Handler, middlewares ...common.Middleware) *Router {
	return rt.Handle("POST", pattern, handler, middlewares...)
}

// Put registers a PUT route.
func (rt *Router) Put(pattern string, handler common.Handler, middlewares ...common.Middleware) *Router {
	return rt.Handle("PUT", pattern, handler, middlewares...)
}

// Patch registers a PATCH route.
func (rt *Router) Patch(pattern string, handler common.Handler, middlewares ...common.Middleware) *Router {
	return rt.Handle("PATCH", pattern, handler, middlewares...)
}

// Delete registers a DELETE route.
func (rt *Router) Delete(pattern string, handler common.Handler, middlewares ...common.Middleware) *Router {
	return rt.Handle("DELETE", pattern, handler, middlewares...)
}

// Dispatch routes a request through this router. It returns an error
// wrapping ErrNotMatched when the router does not own the request; any
// returned response, whatever its status, is final.
//
// On a match the route parameters are injected into the request, then
// the router-scoped chain runs, then the matched route's own chain,
// then the handler. A short-circuit response from either chain skips
// everything after it.
func (rt *Router) Dispatch(req *wire.Request) (*wire.Response, error) {
	// The relative path is computed once and reused for both the match
	// and the parameter extraction, keeping the two in sync.
	relative := req.Path
	if rt.prefix != "/" {
		var ok bool
		relative, ok = strings.CutPrefix(req.Path, rt.prefix)
		if !ok {
			return nil, fmt.Errorf("%w: prefix %q does not own %q", ErrNotMatched, rt.prefix, req.Path)
		}
	}

	for _, route := range rt.routes {
		if req.Method != route.method || !Matches(route.pattern, relative) {
			continue
		}

		for name, value := range ExtractParams(route.pattern, relative) {
			req.RouteParams[name] = value
		}

		current, resp := rt.middlewares.Run(req)
		if resp != nil {
			return resp, nil
		}
		current, resp = route.middlewares.Run(current)
		if resp != nil {
			return resp, nil
		}
		return route.handler.Serve(current), nil
	}

	return nil, fmt.Errorf("%w: no route for %s %s", ErrNotMatched, req.Method, relative)
}
