package permission

import "strings"

// Classification is the per-request view of a path. Computed fresh every
// time; route sets are small and path shapes vary, so nothing is cached.
type Classification struct {
	Module   string
	Segments []string
}

// Classify splits a request path into non-empty segments; the first one
// is the candidate module name.
func Classify(path string) Classification {
	var segments []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	c := Classification{Segments: segments}
	if len(segments) > 0 {
		c.Module = strings.ToLower(segments[0])
	}
	return c
}

// Resolution names the permission modules a request may match against.
//
// Strict marks the default (non-aliased) branch: there the first entry
// whose module matches decides alone, denying immediately when its
// letters lack the required verb. Alias branches keep scanning remaining
// entries instead. The asymmetry is inherited behavior, kept explicit
// here so it stays visible and testable.
type Resolution struct {
	Modules []string
	Strict  bool
}

// Matches reports whether an entry module belongs to the resolution set.
func (r Resolution) Matches(module string) bool {
	for _, m := range r.Modules {
		if m == module {
			return true
		}
	}
	return false
}

// aliasSets folds the business module spellings the identity service
// uses into the names requests arrive with.
var aliasSets = map[string][]string{
	"altan": {"altan", "altans"},
	"odx":   {"odx", "odxs"},
	"odxs":  {"odx", "odxs"},
	"tv":    {"tv", "tvs"},
	"tvs":   {"tv", "tvs"},
}

// Resolve maps a request module (plus the remaining path segments) to
// the permission modules it is checked against.
//
// Reports are sub-routed by the rest of the path: finance/collection
// reports are authorized as payments, finance/billing reports as
// invoices. Anything else under reports resolves to nothing and is
// denied.
func Resolve(module string, rest []string) Resolution {
	if set, ok := aliasSets[module]; ok {
		return Resolution{Modules: set}
	}

	if module == "report" || module == "reports" {
		switch {
		case containsAll(rest, "finance", "collection"):
			return Resolution{Modules: []string{"payment", "payments"}}
		case containsAll(rest, "finance", "billing"):
			return Resolution{Modules: []string{"invoice", "invoices"}}
		default:
			return Resolution{}
		}
	}

	return Resolution{Modules: []string{pluralize(module)}, Strict: true}
}

// pluralize appends "s" unless the name already ends in one. Module
// names are plain English words, so this covers the catalog in use.
func pluralize(module string) string {
	if strings.HasSuffix(module, "s") {
		return module
	}
	return module + "s"
}

func containsAll(segments []string, wanted ...string) bool {
	for _, w := range wanted {
		found := false
		for _, s := range segments {
			if strings.EqualFold(s, w) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
