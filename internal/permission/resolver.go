package permission

import (
	"context"
	"fmt"

	"github.com/pecadorcelestial/panda-proxy/pkg/logger"
)

// Fetcher retrieves a caller's authorization profile from the identity
// service. Implementations must honor ctx cancellation and carry a
// bounded timeout; the resolver never retries.
type Fetcher interface {
	Permissions(ctx context.Context, user string) ([]Entry, error)
}

// Decision is the ephemeral outcome of one authorization check. It is
// never persisted.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow(reason string) Decision { return Decision{Allowed: true, Reason: reason} }
func deny(reason string) Decision  { return Decision{Allowed: false, Reason: reason} }

// globalAllow lists modules every authenticated caller may reach without
// a profile lookup. Temporary global-allow policy, not a long-term
// security boundary.
var globalAllow = map[string]bool{
	"catalogs":  true,
	"processes": true,
	"uploads":   true,
}

// Resolver decides whether (identity, path, method) is authorized
// against the caller's remotely-owned permission profile.
type Resolver struct {
	fetcher Fetcher
}

func NewResolver(fetcher Fetcher) *Resolver {
	return &Resolver{fetcher: fetcher}
}

// Evaluate runs the decision procedure. A non-nil error means the
// profile could not be fetched: the caller must fail closed (deny) and
// may log the cause, but must present it identically to a plain denial.
func (r *Resolver) Evaluate(ctx context.Context, user, path, method string) (Decision, error) {
	pc := Classify(path)
	if pc.Module == "" {
		return deny("request path has no module"), nil
	}

	if globalAllow[pc.Module] {
		return allow("module is globally allowed"), nil
	}

	entries, err := r.fetcher.Permissions(ctx, user)
	if err != nil {
		return Decision{}, fmt.Errorf("permission fetch for %q: %w", user, err)
	}

	letter, hasLetter := MethodLetter(method)
	res := Resolve(pc.Module, pc.Segments[1:])
	if len(res.Modules) == 0 {
		return deny("module has no permission mapping"), nil
	}

	matched := false
	for _, e := range entries {
		if !res.Matches(e.Module) {
			continue
		}
		matched = true
		if hasLetter && e.Grants(letter) {
			logger.From(ctx).Debug("permission granted",
				"user", user, "module", e.Module, "method", method)
			return allow("permission granted"), nil
		}
		if res.Strict {
			// Default branch: the first module match decides alone.
			return deny("method not granted for module"), nil
		}
	}

	if matched {
		return deny("method not granted for module"), nil
	}
	return deny("no permission entry for module"), nil
}
