// Package server implements the connection layer of the qhttp
// framework: a TCP listener that spawns one goroutine per accepted
// connection, and a per-connection loop that reads raw bytes, parses
// them, runs the four-layer middleware pipeline, and writes the
// serialized response back, repeating until the peer disconnects.
package server

import (
	"errors"
	"io"
	"net"
	"time"

	"go.uber.org/zap"

	"github.com/quadframe/qhttp/pkg/common"
	"github.com/quadframe/qhttp/pkg/metrics"
	"github.com/quadframe/qhttp/pkg/router"
	"github.com/quadframe/qhttp/pkg/wire"
)

// readBufferSize bounds a single request read. Requests are expected to
// arrive complete in one read; there is no incremental parser.
const readBufferSize = 4096

// Config defines the configuration for a Server.
// Routers and middleware registered here (or via the builder methods)
// are frozen once the listener starts and shared read-only across all
// connection goroutines.
type Config struct {
	Addr        string              // TCP bind address, e.g. "127.0.0.1:8081"
	Logger      *zap.Logger         // Logger for all server operations
	Middlewares []common.Middleware // Connection-global middleware, run before any routing
	Routers     []*router.Router    // Routers tried in registration order
	Metrics     *metrics.Metrics    // Optional Prometheus instrumentation
}

// Server accepts TCP connections and drives each through the pipeline:
// parse, connection-global middleware, router fan-out, serialize, write.
type Server struct {
	addr        string
	logger      *zap.Logger
	middlewares common.Chain
	routers     []*router.Router
	metrics     *metrics.Metrics
}

// New creates a Server from the given configuration. If no logger is
// provided, a production zap logger is created, falling back to a no-op
// logger if that fails.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		var err error
		logger, err = zap.NewProduction()
		if err != nil {
			logger = zap.NewNop()
		}
	}

	return &Server{
		addr:        cfg.Addr,
		logger:      logger,
		middlewares: common.NewChain(cfg.Middlewares...),
		routers:     cfg.Routers,
		metrics:     cfg.Metrics,
	}
}

// Use appends connection-global middleware and returns the receiver.
// It must not be called once the listener has started.
func (s *Server) Use(middlewares ...common.Middleware) *Server {
	s.middlewares = s.middlewares.Append(middlewares...)
	return s
}

// AddRouter appends a router to the fan-out order and returns the
// receiver. It must not be called once the listener has started.
func (s *Server) AddRouter(rt *router.Router) *Server {
	s.routers = append(s.routers, rt)
	return s
}

// ListenAndServe binds the configured address and accepts connections
// until the listener fails. It blocks forever on success.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.logger.Info("Server listening", zap.String("addr", s.addr))
	return s.Serve(ln)
}

// Serve accepts connections from the listener, spawning one goroutine
// per connection. There is no admission control: every accepted
// connection gets a goroutine immediately.
func (s *Server) Serve(ln net.Listener) error {
	defer ln.Close()
	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		go s.serveConn(conn)
	}
}

// serveConn runs the per-connection state machine: read, process,
// write, repeat. It returns when the peer disconnects or an I/O error
// occurs. A panic in this goroutine is recovered and logged so it never
// takes down the listener or sibling connections.
func (s *Server) serveConn(conn net.Conn) {
	defer conn.Close()
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("Panic in connection handler",
				zap.Any("panic", rec),
				zap.String("remote_addr", conn.RemoteAddr().String()),
			)
		}
	}()
	if s.metrics != nil {
		s.metrics.ConnOpened()
		defer s.metrics.ConnClosed()
	}

	buf := make([]byte, readBufferSize)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.logger.Warn("Read error",
					zap.Error(err),
					zap.String("remote_addr", conn.RemoteAddr().String()),
				)
			}
			return
		}
		if n == 0 {
			// Peer disconnected cleanly.
			return
		}

		req, err := wire.Parse(buf[:n])
		if err != nil {
			// A parse failure yields an immediate 400 and keeps the
			// connection open; middleware and routing are skipped.
			if s.metrics != nil {
				s.metrics.ObserveParseError()
			}
			if !s.write(conn, wire.New(400, "Bad Request: "+err.Error())) {
				return
			}
			continue
		}

		if !s.write(conn, s.handle(req)) {
			return
		}
	}
}

// write serializes and writes a response, reporting whether the
// connection is still usable. A write failure aborts the connection.
func (s *Server) write(conn net.Conn, resp *wire.Response) bool {
	if _, err := conn.Write(resp.Serialize()); err != nil {
		s.logger.Warn("Write error",
			zap.Error(err),
			zap.String("remote_addr", conn.RemoteAddr().String()),
		)
		return false
	}
	return true
}

// handle runs a parsed request through the pipeline and always produces
// a response. A panic below this point is converted into a 500 so one
// bad handler cannot kill the whole connection.
func (s *Server) handle(req *wire.Request) (resp *wire.Response) {
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("Panic recovered",
				zap.Any("panic", rec),
				zap.String("method", req.Method),
				zap.String("path", req.Path),
			)
			resp = wire.New(500, "Internal Server Error")
		}
		if s.metrics != nil && resp != nil {
			s.metrics.ObserveRequest(req.Method, resp.StatusCode, time.Since(start))
		}
	}()

	current, short := s.middlewares.Run(req)
	if short != nil {
		// A connection-global short-circuit bypasses routing entirely.
		return short
	}

	return s.dispatch(current)
}

// dispatch fans the request out across the registered routers in
// registration order. A router that does not own the request signals
// router.ErrNotMatched and the next one is tried; the first real
// response, whatever its status code, is final.
func (s *Server) dispatch(req *wire.Request) *wire.Response {
	for _, rt := range s.routers {
		resp, err := rt.Dispatch(req)
		if err != nil {
			if errors.Is(err, router.ErrNotMatched) {
				continue
			}
			s.logger.Error("Dispatch error",
				zap.Error(err),
				zap.String("method", req.Method),
				zap.String("path", req.Path),
			)
			return wire.New(500, "Internal Server Error")
		}
		return resp
	}
	return wire.NotFound("No router matched this path")
}
