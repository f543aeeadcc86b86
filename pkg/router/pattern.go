package router

import (
	"strings"
)

// Matches reports whether a route pattern matches an actual path.
// Both are split on '/'; the segment counts must be equal. A pattern
// segment wrapped in braces, such as {id}, matches any non-empty actual
// segment; every other segment must match exactly, case-sensitively,
// with no decoding. There are no wildcard or optional segments.
func Matches(pattern, path string) bool {
	patternParts := strings.Split(pattern, "/")
	pathParts := strings.Split(path, "/")

	if len(patternParts) != len(pathParts) {
		return false
	}

	for i, pp := range patternParts {
		if isPlaceholder(pp) {
			if pathParts[i] == "" {
				return false
			}
			continue
		}
		if pp != pathParts[i] {
			return false
		}
	}
	return true
}

// ExtractParams walks the zipped segments of a pattern and a path known
// to match it, binding every {name} segment to the corresponding actual
// segment. Non-placeholder segments never appear as keys. The path must
// be the same prefix-stripped path the match was computed from;
// Dispatch computes it once and threads it into both calls.
func ExtractParams(pattern, path string) map[string]string {
	params := make(map[string]string)
	patternParts := strings.Split(pattern, "/")
	pathParts := strings.Split(path, "/")

	for i, pp := range patternParts {
		if i >= len(pathParts) {
			break
		}
		if name, ok := placeholderName(pp); ok {
			params[name] = pathParts[i]
		}
	}
	return params
}

func isPlaceholder(segment string) bool {
	_, ok := placeholderName(segment)
	return ok
}

func placeholderName(segment string) (string, bool) {
	if len(segment) >= 2 && segment[0] == '{' && segment[len(segment)-1] == '}' {
		return segment[1 : len(segment)-1], true
	}
	return "", false
}
