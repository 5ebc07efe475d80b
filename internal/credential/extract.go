// Package credential locates the raw session token regardless of which
// transport carried it. It performs no validation; that belongs to the
// token codec.
package credential

import "strings"

// FromCookies parses a raw Cookie header ("k=v; k=v") and returns the
// value stored under name. Parsing is deliberately tolerant: entries
// without '=', stray whitespace, and an empty header all yield absent
// instead of an error, because browsers and older clients send all of
// those shapes.
func FromCookies(cookieHeader, name string) (string, bool) {
	if strings.TrimSpace(cookieHeader) == "" || name == "" {
		return "", false
	}
	for _, part := range strings.Split(cookieHeader, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, found := strings.Cut(part, "=")
		if !found {
			continue
		}
		if strings.TrimSpace(key) == name {
			return strings.TrimSpace(value), true
		}
	}
	return "", false
}

// FromAuthorizationHeader treats the whole header value as the token.
// The existing mobile and API clients send the raw signed token without a
// "Bearer " scheme prefix; this is non-standard but preserved so they
// keep working.
func FromAuthorizationHeader(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	return value, true
}
