package common

import (
	"testing"

	"github.com/quadframe/qhttp/pkg/wire"
)

func parseRequest(t *testing.T, raw string) *wire.Request {
	t.Helper()
	req, err := wire.Parse([]byte(raw))
	if err != nil {
		t.Fatalf("Failed to parse request: %v", err)
	}
	return req
}

// TestChainOrder tests that middleware run in registration order and
// that the final request carries every augmentation.
func TestChainOrder(t *testing.T) {
	var order []string

	chain := NewChain().
		Append(MiddlewareFunc(func(req *wire.Request) (*wire.Request, *wire.Response) {
			order = append(order, "first")
			req.Headers["X-Step-1"] = "done"
			return req, nil
		})).
		Append(MiddlewareFunc(func(req *wire.Request) (*wire.Request, *wire.Response) {
			order = append(order, "second")
			req.Headers["X-Step-2"] = "done"
			return req, nil
		}))

	req := parseRequest(t, "GET / HTTP/1.1\r\n\r\n")
	out, resp := chain.Run(req)
	if resp != nil {
		t.Fatalf("Expected chain to continue, got response with status %d", resp.StatusCode)
	}

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("Expected order [first second], got %v", order)
	}
	if v, _ := out.Header("X-Step-1"); v != "done" {
		t.Errorf("Expected first augmentation to survive, got %q", v)
	}
	if v, _ := out.Header("X-Step-2"); v != "done" {
		t.Errorf("Expected second augmentation to survive, got %q", v)
	}
}

// TestChainShortCircuit tests that a failing middleware produces
// exactly its response and that later middleware never run.
func TestChainShortCircuit(t *testing.T) {
	terminal := wire.New(401, "API key required")
	thirdRan := false

	chain := NewChain(
		MiddlewareFunc(func(req *wire.Request) (*wire.Request, *wire.Response) {
			return req, nil
		}),
		MiddlewareFunc(func(req *wire.Request) (*wire.Request, *wire.Response) {
			return nil, terminal
		}),
		MiddlewareFunc(func(req *wire.Request) (*wire.Request, *wire.Response) {
			thirdRan = true
			return req, nil
		}),
	)

	out, resp := chain.Run(parseRequest(t, "GET / HTTP/1.1\r\n\r\n"))
	if out != nil {
		t.Errorf("Expected nil request after short-circuit")
	}
	if resp != terminal {
		t.Errorf("Expected the exact terminal response, got %+v", resp)
	}
	if thirdRan {
		t.Errorf("Expected third middleware to be skipped")
	}
}

// TestEmptyChain tests that an empty chain passes the request through.
func TestEmptyChain(t *testing.T) {
	req := parseRequest(t, "GET / HTTP/1.1\r\n\r\n")
	out, resp := NewChain().Run(req)
	if resp != nil {
		t.Errorf("Expected no response from empty chain")
	}
	if out != req {
		t.Errorf("Expected the same request back")
	}
}

// TestPrepend tests that prepended middleware run before the rest.
func TestPrepend(t *testing.T) {
	var order []string
	record := func(name string) Middleware {
		return MiddlewareFunc(func(req *wire.Request) (*wire.Request, *wire.Response) {
			order = append(order, name)
			return req, nil
		})
	}

	chain := NewChain(record("base")).Prepend(record("pre")).Append(record("post"))
	chain.Run(parseRequest(t, "GET / HTTP/1.1\r\n\r\n"))

	want := []string{"pre", "base", "post"}
	for i, name := range want {
		if i >= len(order) || order[i] != name {
			t.Fatalf("Expected order %v, got %v", want, order)
		}
	}
}
