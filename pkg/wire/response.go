package wire

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// headerField is one response header. Headers are kept as an ordered
// list so the wire output preserves insertion order.
type headerField struct {
	Key   string
	Value string
}

// Response is a structured HTTP response serialized to bytes before
// being written to the connection. Headers are emitted in the order
// they were added.
type Response struct {
	StatusCode int
	Body       []byte

	headers []headerField
}

// New creates a response with the given status code and plain-text body.
func New(status int, body string) *Response {
	return &Response{
		StatusCode: status,
		Body:       []byte(body),
	}
}

// OK creates a 200 response with a plain-text body.
func OK(body string) *Response {
	return New(200, body)
}

// NotFound creates a 404 response carrying the given reason as its body.
func NotFound(reason string) *Response {
	return New(404, reason)
}

// HTML creates a response with a text/html body.
func HTML(status int, markup string) *Response {
	return New(status, markup).WithHeader("Content-Type", "text/html")
}

// JSON creates a response whose body is the JSON encoding of v, with
// Content-Type set to application/json. Serialization failure is a
// construction-time error and is never deferred to write time.
func JSON(status int, v any) (*Response, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode response body: %w", err)
	}
	resp := &Response{StatusCode: status, Body: body}
	return resp.WithHeader("Content-Type", "application/json"), nil
}

// WithHeader appends a header and returns the receiver, allowing
// builder-style chaining.
func (r *Response) WithHeader(key, value string) *Response {
	r.headers = append(r.headers, headerField{Key: key, Value: value})
	return r
}

// Header returns the first header with the given key.
func (r *Response) Header(key string) (string, bool) {
	for _, h := range r.headers {
		if h.Key == key {
			return h.Value, true
		}
	}
	return "", false
}

// Serialize emits the response in HTTP/1.1 wire format: status line,
// headers in insertion order, blank line, then the raw body bytes.
func (r *Response) Serialize() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "HTTP/1.1 %d %s\r\n", r.StatusCode, StatusText(r.StatusCode))
	for _, h := range r.headers {
		fmt.Fprintf(&buf, "%s: %s\r\n", h.Key, h.Value)
	}
	buf.WriteString("\r\n")
	buf.Write(r.Body)
	return buf.Bytes()
}

// StatusText returns the reason phrase for a status code, or the empty
// string for codes outside the table.
func StatusText(code int) string {
	switch code {
	case 200:
		return "OK"
	case 201:
		return "Created"
	case 204:
		return "No Content"
	case 301:
		return "Moved Permanently"
	case 302:
		return "Found"
	case 400:
		return "Bad Request"
	case 401:
		return "Unauthorized"
	case 403:
		return "Forbidden"
	case 404:
		return "Not Found"
	case 405:
		return "Method Not Allowed"
	case 429:
		return "Too Many Requests"
	case 500:
		return "Internal Server Error"
	case 503:
		return "Service Unavailable"
	default:
		return ""
	}
}
