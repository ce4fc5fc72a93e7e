package security

import (
	"fmt"
	"strings"
)

// Whitelist answers whether a path may be reached by a tool call. It is
// built once at startup and never mutated, so it is safe for concurrent use.
type Whitelist struct {
	roots []string
}

// NewWhitelist builds a Whitelist from root paths. Every root must start
// with "/" and must not end with "/". Duplicates are dropped.
func NewWhitelist(roots []string) (*Whitelist, error) {
	for _, r := range roots {
		if err := validateRoot(r); err != nil {
			return nil, err
		}
	}
	return &Whitelist{roots: dedup(roots)}, nil
}

// DefaultWhitelist returns a Whitelist over DefaultRoots.
func DefaultWhitelist() *Whitelist {
	return &Whitelist{roots: dedup(DefaultRoots)}
}

// IsAllowed reports whether path equals a root or lies below one. Only an
// exact match or a "/" boundary counts: "/users-x" does not match "/users".
func (w *Whitelist) IsAllowed(path string) bool {
	for _, root := range w.roots {
		if path == root || strings.HasPrefix(path, root+"/") {
			return true
		}
	}
	return false
}

// Roots returns a copy of the configured roots.
func (w *Whitelist) Roots() []string {
	out := make([]string, len(w.roots))
	copy(out, w.roots)
	return out
}

func validateRoot(root string) error {
	switch {
	case root == "" || root == "/":
		return fmt.Errorf("invalid whitelist root %q: must name a resource", root)
	case !strings.HasPrefix(root, "/"):
		return fmt.Errorf("invalid whitelist root %q: must start with '/'", root)
	case strings.HasSuffix(root, "/"):
		return fmt.Errorf("invalid whitelist root %q: must not end with '/'", root)
	}
	return nil
}

func dedup(items []string) []string {
	seen := make(map[string]bool, len(items))
	result := make([]string, 0, len(items))
	for _, item := range items {
		if item != "" && !seen[item] {
			seen[item] = true
			result = append(result, item)
		}
	}
	return result
}
