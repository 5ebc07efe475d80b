package gate

import "strings"

// PublicPaths is the allow-list of routes served without any credential
// or permission work. It is built once at process start and never
// mutated afterwards.
type PublicPaths struct {
	Exact    []string
	Prefixes []string
}

// DefaultPublicPaths lists the open surface: authentication endpoints,
// the client-portal self-service routes, catalog lookups, and the
// third-party callback paths that arrive unauthenticated by nature.
func DefaultPublicPaths() PublicPaths {
	return PublicPaths{
		Exact: []string{
			"/login",
			"/sign-off",
			"/accounts/contact",
			"/accounts/validate",
			"/clients/contact",
			"/catalogs/countries",
			"/catalogs/states",
		},
		Prefixes: []string{
			"/public",
			"/uploads",
			"/payment-response",
			"/openpay/webhook",
		},
	}
}

// Contains reports whether path is public, by exact match or prefix.
func (p PublicPaths) Contains(path string) bool {
	for _, e := range p.Exact {
		if path == e {
			return true
		}
	}
	for _, pre := range p.Prefixes {
		if strings.HasPrefix(path, pre) {
			return true
		}
	}
	return false
}
