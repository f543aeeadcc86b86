// Package wire implements the HTTP/1.1 message model: parsing raw bytes
// into structured requests and serializing responses back onto the wire.
// It targets simple, complete-in-one-read requests; there is no chunked
// transfer encoding and no percent-decoding of paths or query strings.
package wire

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Request is a structured HTTP request parsed from raw bytes.
// Method, Path, and Version are always non-empty once parsing succeeds.
// Header keys are kept exactly as received; lookups are exact-match only.
// RouteParams is empty until the routing engine injects matched
// placeholder values; query parameters are parsed once during Parse and
// are immutable afterwards.
type Request struct {
	Method  string
	Path    string
	Version string
	Headers map[string]string

	// RouteParams holds values bound to {name} pattern segments.
	// The routing engine writes it after a successful pattern match.
	RouteParams map[string]string

	body  string
	query map[string]string
}

// Parse parses a raw HTTP/1.1 request. The input is split on the first
// blank line into a head section and a body (body defaults to empty).
// The request line must contain exactly three whitespace-separated
// tokens; header lines without a colon are silently skipped.
func Parse(raw []byte) (*Request, error) {
	head, body, _ := strings.Cut(string(raw), "\r\n\r\n")

	lines := strings.Split(head, "\r\n")
	if len(lines) == 0 || lines[0] == "" {
		return nil, ErrEmptyRequest
	}

	tokens := strings.Fields(lines[0])
	if len(tokens) != 3 {
		return nil, ErrInvalidRequestLine
	}
	method, target, version := tokens[0], tokens[1], tokens[2]

	headers := make(map[string]string)
	for _, line := range lines[1:] {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			// Malformed header lines are skipped rather than rejected.
			continue
		}
		headers[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	path, query := splitTarget(target)

	return &Request{
		Method:      method,
		Path:        path,
		Version:     version,
		Headers:     headers,
		RouteParams: make(map[string]string),
		body:        body,
		query:       query,
	}, nil
}

// splitTarget splits a request target on the first '?' into the path and
// the parsed query parameters. Pairs without '=' are silently skipped.
// No percent-decoding is applied to the path, keys, or values.
func splitTarget(target string) (string, map[string]string) {
	query := make(map[string]string)
	path, rawQuery, ok := strings.Cut(target, "?")
	if !ok {
		return target, query
	}
	for _, pair := range strings.Split(rawQuery, "&") {
		if key, value, ok := strings.Cut(pair, "="); ok {
			query[key] = value
		}
	}
	return path, query
}

// Header returns the value of a header by exact key. Header names are
// not case-normalized, so "content-type" and "Content-Type" are
// distinct keys.
func (r *Request) Header(key string) (string, bool) {
	v, ok := r.Headers[key]
	return v, ok
}

// Query returns a query parameter, or def if the key is absent.
func (r *Request) Query(key, def string) string {
	if v, ok := r.query[key]; ok {
		return v
	}
	return def
}

// QueryInt returns a query parameter coerced to an int. An absent key
// or a value that does not parse both fall back to def.
func (r *Request) QueryInt(key string, def int) int {
	v, ok := r.query[key]
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// QueryBool returns a query parameter coerced to a bool. An absent key
// or a value that does not parse both fall back to def.
func (r *Request) QueryBool(key string, def bool) bool {
	v, ok := r.query[key]
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// HasQuery reports whether a query parameter is present.
func (r *Request) HasQuery(key string) bool {
	_, ok := r.query[key]
	return ok
}

// Param returns a route parameter bound during pattern matching, or def
// if the route had no such placeholder.
func (r *Request) Param(key, def string) string {
	if v, ok := r.RouteParams[key]; ok {
		return v
	}
	return def
}

// Body returns the raw request body text, possibly empty.
func (r *Request) Body() string {
	return r.body
}

// DecodeBody decodes the request body as JSON into v. A decode failure
// is returned as a *BodyDecodeError carrying the underlying message.
func (r *Request) DecodeBody(v any) error {
	if err := json.Unmarshal([]byte(r.body), v); err != nil {
		return &BodyDecodeError{Err: err}
	}
	return nil
}
