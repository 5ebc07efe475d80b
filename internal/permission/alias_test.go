package permission

import (
	"reflect"
	"testing"
)

func TestClassify(t *testing.T) {
	c := Classify("/reports/finance/collection")
	if c.Module != "reports" {
		t.Fatalf("expected module reports, got %q", c.Module)
	}
	if !reflect.DeepEqual(c.Segments, []string{"reports", "finance", "collection"}) {
		t.Fatalf("unexpected segments: %v", c.Segments)
	}

	if Classify("//payments//").Module != "payments" {
		t.Fatalf("expected empty segments dropped")
	}
	if Classify("/").Module != "" {
		t.Fatalf("expected empty module for bare slash")
	}
}

func TestResolve_AliasSets(t *testing.T) {
	cases := []struct {
		module string
		want   []string
	}{
		{"altan", []string{"altan", "altans"}},
		{"odx", []string{"odx", "odxs"}},
		{"odxs", []string{"odx", "odxs"}},
		{"tv", []string{"tv", "tvs"}},
		{"tvs", []string{"tv", "tvs"}},
	}
	for _, tc := range cases {
		res := Resolve(tc.module, nil)
		if !reflect.DeepEqual(res.Modules, tc.want) {
			t.Fatalf("Resolve(%q) = %v, want %v", tc.module, res.Modules, tc.want)
		}
		if res.Strict {
			t.Fatalf("alias resolution for %q must not be strict", tc.module)
		}
	}
}

func TestResolve_ReportSubRouting(t *testing.T) {
	res := Resolve("reports", []string{"finance", "collection"})
	if !res.Matches("payment") || !res.Matches("payments") {
		t.Fatalf("collection reports should check payment modules, got %v", res.Modules)
	}

	res = Resolve("report", []string{"finance", "billing"})
	if !res.Matches("invoice") || !res.Matches("invoices") {
		t.Fatalf("billing reports should check invoice modules, got %v", res.Modules)
	}

	if res := Resolve("reports", []string{"finance"}); len(res.Modules) != 0 {
		t.Fatalf("unknown report routes must resolve to nothing, got %v", res.Modules)
	}
}

func TestResolve_DefaultPluralizes(t *testing.T) {
	res := Resolve("client", nil)
	if !reflect.DeepEqual(res.Modules, []string{"clients"}) || !res.Strict {
		t.Fatalf("unexpected default resolution: %+v", res)
	}

	res = Resolve("payments", nil)
	if !reflect.DeepEqual(res.Modules, []string{"payments"}) {
		t.Fatalf("already-plural module must stay put, got %v", res.Modules)
	}
}

func TestMethodLetter(t *testing.T) {
	if l, ok := MethodLetter("get"); !ok || l != LetterRead {
		t.Fatalf("expected GET to map to R")
	}
	if l, ok := MethodLetter("POST"); !ok || l != LetterCreate {
		t.Fatalf("expected POST to map to C")
	}
	if l, ok := MethodLetter("PUT"); !ok || l != LetterUpdate {
		t.Fatalf("expected PUT to map to U")
	}
	// Deletes are deliberately unmapped; see methodLetters.
	if _, ok := MethodLetter("DELETE"); ok {
		t.Fatalf("DELETE must not map to a letter")
	}
}
