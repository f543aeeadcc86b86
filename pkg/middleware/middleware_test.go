package middleware

import (
	"testing"

	"go.uber.org/zap"

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

// TestLogging tests that the logging middleware always continues.
func TestLogging(t *testing.T) {
	mw := Logging(zap.NewNop())

	req := parseRequest(t, "GET /about HTTP/1.1\r\n\r\n")
	out, resp := mw.Handle(req)
	if resp != nil {
		t.Errorf("Expected logging to continue, got status %d", resp.StatusCode)
	}
	if out != req {
		t.Errorf("Expected the same request back")
	}
}

// TestMaintenance tests the maintenance flag in both positions.
func TestMaintenance(t *testing.T) {
	enabled := false
	mw := Maintenance(func() bool { return enabled })
	req := parseRequest(t, "GET / HTTP/1.1\r\n\r\n")

	if _, resp := mw.Handle(req); resp != nil {
		t.Errorf("Expected request to pass while maintenance is off")
	}

	enabled = true
	_, resp := mw.Handle(req)
	if resp == nil {
		t.Fatalf("Expected maintenance short-circuit")
	}
	if resp.StatusCode != 503 {
		t.Errorf("Expected status %d, got %d", 503, resp.StatusCode)
	}
	if string(resp.Body) != "Service under maintenance" {
		t.Errorf("Expected maintenance body, got %q", string(resp.Body))
	}
}

// TestAPIKey tests the API key guard.
func TestAPIKey(t *testing.T) {
	mw := APIKey("X-API-Key", nil, zap.NewNop())

	if _, resp := mw.Handle(parseRequest(t, "GET /api/users HTTP/1.1\r\nX-API-Key: abc\r\n\r\n")); resp != nil {
		t.Errorf("Expected request with key to pass, got status %d", resp.StatusCode)
	}

	_, resp := mw.Handle(parseRequest(t, "GET /api/users HTTP/1.1\r\n\r\n"))
	if resp == nil {
		t.Fatalf("Expected short-circuit without key")
	}
	if resp.StatusCode != 401 {
		t.Errorf("Expected status %d, got %d", 401, resp.StatusCode)
	}
	if string(resp.Body) != "API key required" {
		t.Errorf("Expected body %q, got %q", "API key required", string(resp.Body))
	}

	// An empty value is as good as no key.
	if _, resp := mw.Handle(parseRequest(t, "GET /api/users HTTP/1.1\r\nX-API-Key:\r\n\r\n")); resp == nil {
		t.Errorf("Expected short-circuit for empty key")
	}
}

// TestAPIKeyValidator tests the optional validation function.
func TestAPIKeyValidator(t *testing.T) {
	mw := APIKey("X-API-Key", func(key string) bool { return key == "valid" }, zap.NewNop())

	if _, resp := mw.Handle(parseRequest(t, "GET / HTTP/1.1\r\nX-API-Key: valid\r\n\r\n")); resp != nil {
		t.Errorf("Expected valid key to pass")
	}
	if _, resp := mw.Handle(parseRequest(t, "GET / HTTP/1.1\r\nX-API-Key: stolen\r\n\r\n")); resp == nil {
		t.Errorf("Expected rejected key to short-circuit")
	}
}

// TestRequireHeader tests the exact-value header guard.
func TestRequireHeader(t *testing.T) {
	mw := RequireHeader("X-Admin-Key", "supersecret", 403, "Admin access required")

	if _, resp := mw.Handle(parseRequest(t, "DELETE /api/users/42 HTTP/1.1\r\nX-Admin-Key: supersecret\r\n\r\n")); resp != nil {
		t.Errorf("Expected correct key to pass, got status %d", resp.StatusCode)
	}

	_, resp := mw.Handle(parseRequest(t, "DELETE /api/users/42 HTTP/1.1\r\nX-Admin-Key: wrong\r\n\r\n"))
	if resp == nil {
		t.Fatalf("Expected short-circuit for wrong key")
	}
	if resp.StatusCode != 403 {
		t.Errorf("Expected status %d, got %d", 403, resp.StatusCode)
	}
	if string(resp.Body) != "Admin access required" {
		t.Errorf("Expected body %q, got %q", "Admin access required", string(resp.Body))
	}
}

// TestCORS tests that preflight requests are answered and everything
// else passes through.
func TestCORS(t *testing.T) {
	mw := CORS([]string{"*"}, []string{"GET", "POST"}, []string{"X-API-Key"})

	if _, resp := mw.Handle(parseRequest(t, "GET / HTTP/1.1\r\n\r\n")); resp != nil {
		t.Errorf("Expected non-preflight request to pass")
	}

	_, resp := mw.Handle(parseRequest(t, "OPTIONS /api/users HTTP/1.1\r\n\r\n"))
	if resp == nil {
		t.Fatalf("Expected preflight short-circuit")
	}
	if resp.StatusCode != 200 {
		t.Errorf("Expected status %d, got %d", 200, resp.StatusCode)
	}
	if v, _ := resp.Header("Access-Control-Allow-Origin"); v != "*" {
		t.Errorf("Expected allow-origin %q, got %q", "*", v)
	}
	if v, _ := resp.Header("Access-Control-Allow-Methods"); v != "GET, POST" {
		t.Errorf("Expected allow-methods %q, got %q", "GET, POST", v)
	}
}

// TestTrace tests trace ID stamping and passthrough.
func TestTrace(t *testing.T) {
	mw := Trace()

	out, resp := mw.Handle(parseRequest(t, "GET / HTTP/1.1\r\n\r\n"))
	if resp != nil {
		t.Fatalf("Expected trace middleware to continue")
	}
	if GetTraceID(out) == "" {
		t.Errorf("Expected a trace ID to be stamped")
	}

	out, _ = mw.Handle(parseRequest(t, "GET / HTTP/1.1\r\nX-Trace-Id: fixed\r\n\r\n"))
	if GetTraceID(out) != "fixed" {
		t.Errorf("Expected existing trace ID to be preserved, got %q", GetTraceID(out))
	}
}
