package security

import (
	"strings"
	"testing"
)

func TestWhitelistIsAllowed(t *testing.T) {
	w := DefaultWhitelist()

	tests := []struct {
		path string
		want bool
	}{
		{"/clients", true},
		{"/clients/12", true},
		{"/clients/12/bateaux", true},
		{"/ventes/search", true},
		{"/catalogue/moteurs/3", true},
		{"/users", true},
		{"/users-x", false},
		{"/users-extra/1", false},
		{"/catalogue", false},
		{"/catalogue/other", false},
		{"/", false},
		{"", false},
		{"clients", false},
		{"/admin", false},
		{"/Clients", false},
	}
	for _, tt := range tests {
		if got := w.IsAllowed(tt.path); got != tt.want {
			t.Errorf("IsAllowed(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestWhitelistPredicateMatchesDefinition(t *testing.T) {
	w := DefaultWhitelist()
	suffixes := []string{"", "/", "/1", "-x", "x", "/a/b", "?q=1"}
	for _, root := range DefaultRoots {
		for _, s := range suffixes {
			p := root + s
			want := false
			for _, r := range DefaultRoots {
				if p == r || strings.HasPrefix(p, r+"/") {
					want = true
				}
			}
			if got := w.IsAllowed(p); got != want {
				t.Errorf("IsAllowed(%q) = %v, want %v", p, got, want)
			}
		}
	}
}

func TestNewWhitelistValidatesRoots(t *testing.T) {
	bad := [][]string{
		{"clients"},
		{"/clients/"},
		{"/"},
		{""},
	}
	for _, roots := range bad {
		if _, err := NewWhitelist(roots); err == nil {
			t.Errorf("NewWhitelist(%q): expected error", roots)
		}
	}

	w, err := NewWhitelist([]string{"/a", "/b", "/a"})
	if err != nil {
		t.Fatalf("NewWhitelist: %v", err)
	}
	if got := w.Roots(); len(got) != 2 || got[0] != "/a" || got[1] != "/b" {
		t.Errorf("Roots() = %v", got)
	}
}

func TestRootsReturnsCopy(t *testing.T) {
	w := DefaultWhitelist()
	roots := w.Roots()
	roots[0] = "/hacked"
	if w.IsAllowed("/hacked") {
		t.Error("mutating Roots() result must not change the whitelist")
	}
}

func TestParseMethod(t *testing.T) {
	for _, m := range []string{"GET", "POST", "PUT", "DELETE"} {
		if _, ok := ParseMethod(m); !ok {
			t.Errorf("ParseMethod(%q) not ok", m)
		}
	}
	for _, m := range []string{"PATCH", "get", "", "HEAD"} {
		if _, ok := ParseMethod(m); ok {
			t.Errorf("ParseMethod(%q) should fail", m)
		}
	}
	if !MethodPost.HasBody() || !MethodPut.HasBody() || MethodGet.HasBody() || MethodDelete.HasBody() {
		t.Error("HasBody mismatch")
	}
}
