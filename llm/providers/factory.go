package providers

import (
	"fmt"

	"github.com/initializ/bosun/llm"
)

// NewProvider creates the provider registered under name.
func NewProvider(name llm.ProviderName, cfg llm.ClientConfig) (llm.Provider, error) {
	switch name {
	case llm.ProviderOpenAI:
		return NewOpenAIClient(cfg), nil
	case llm.ProviderAnthropic:
		return NewAnthropicClient(cfg), nil
	default:
		return nil, fmt.Errorf("%w: %q", llm.ErrUnknownProvider, name)
	}
}
