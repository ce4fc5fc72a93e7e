package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ProviderName identifies a supported LLM provider.
type ProviderName string

// Supported providers.
const (
	ProviderOpenAI    ProviderName = "openai"
	ProviderAnthropic ProviderName = "anthropic"
)

// ProviderNames lists every supported provider.
var ProviderNames = []ProviderName{ProviderOpenAI, ProviderAnthropic}

// ErrUnknownProvider is returned by ParseProviderName for unsupported names.
var ErrUnknownProvider = errors.New("unknown provider")

// ParseProviderName trims and lower-cases s and maps it to a provider.
func ParseProviderName(s string) (ProviderName, error) {
	switch ProviderName(strings.ToLower(strings.TrimSpace(s))) {
	case ProviderOpenAI:
		return ProviderOpenAI, nil
	case ProviderAnthropic:
		return ProviderAnthropic, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownProvider, s)
	}
}

// DisplayName is the human-readable provider name.
func (p ProviderName) DisplayName() string {
	switch p {
	case ProviderOpenAI:
		return "OpenAI"
	case ProviderAnthropic:
		return "Anthropic"
	default:
		return string(p)
	}
}

// NoAnswer is the sentinel answer used when a provider reply has no
// extractable text.
func (p ProviderName) NoAnswer() string {
	return "No answer returned by " + p.DisplayName() + "."
}

// Provider sends one conversation round to an LLM.
type Provider interface {
	// Name returns the provider identifier.
	Name() ProviderName
	// Model returns the model identifier this provider is configured for.
	Model() string
	// SupportsTools reports whether the provider may return tool uses.
	SupportsTools() bool
	// Send posts the request and returns the normalized reply.
	Send(ctx context.Context, req *Request) (*Reply, error)
}

// ClientConfig holds configuration for creating a provider.
type ClientConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	// ToolsEnabled applies to tool-capable providers only.
	ToolsEnabled bool
}
