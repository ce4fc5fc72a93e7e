// Package builtins provides the fixed tool set served by the gateway.
package builtins

import (
	"fmt"
	"strings"
	"time"

	"github.com/initializ/bosun/security"
	"github.com/initializ/bosun/tools"
)

// Config wires the builtin tools to the internal API.
type Config struct {
	// APIBaseURL is the internal API origin, e.g. http://127.0.0.1:8080.
	APIBaseURL string
	Whitelist  *security.Whitelist
	Timeout    time.Duration
}

// LoopbackURL returns the internal API origin for a local port.
func LoopbackURL(port int) string {
	return fmt.Sprintf("http://127.0.0.1:%d", port)
}

// All returns the builtin tools in tools/list order.
func All(cfg Config) []tools.Tool {
	wl := cfg.Whitelist
	if wl == nil {
		wl = security.DefaultWhitelist()
	}
	return []tools.Tool{
		&listAPIResourcesTool{whitelist: wl},
		&callAPIResourceTool{
			baseURL:   strings.TrimRight(cfg.APIBaseURL, "/"),
			whitelist: wl,
			client:    newHTTPClient(cfg.Timeout),
		},
	}
}

// RegisterAll registers all builtin tools with the given registry.
func RegisterAll(reg *tools.Registry, cfg Config) error {
	for _, t := range All(cfg) {
		if err := reg.Register(t); err != nil {
			return err
		}
	}
	return nil
}

// GetByName returns a builtin tool by name, or nil if not found.
func GetByName(cfg Config, name string) tools.Tool {
	for _, t := range All(cfg) {
		if t.Name() == name {
			return t
		}
	}
	return nil
}
