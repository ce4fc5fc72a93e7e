package runtime

import (
	"github.com/initializ/bosun/llm"
	"github.com/initializ/bosun/llm/providers"
	"github.com/initializ/bosun/types"
)

// ClientConfig resolves the client configuration of one provider from the
// bosun config. The provider timeout applies to every adapter.
func ClientConfig(cfg *types.Config, name llm.ProviderName) llm.ClientConfig {
	switch name {
	case llm.ProviderOpenAI:
		return llm.ClientConfig{
			APIKey:      cfg.OpenAI.APIKey,
			BaseURL:     cfg.OpenAI.BaseURL,
			Model:       cfg.OpenAI.Model,
			Temperature: cfg.OpenAI.Temperature,
			Timeout:     cfg.Timeouts.Provider,
		}
	case llm.ProviderAnthropic:
		return llm.ClientConfig{
			APIKey:       cfg.Anthropic.APIKey,
			BaseURL:      cfg.Anthropic.BaseURL,
			Model:        cfg.Anthropic.Model,
			MaxTokens:    cfg.Anthropic.MaxTokens,
			Timeout:      cfg.Timeouts.Provider,
			ToolsEnabled: cfg.Anthropic.ToolsEnabled,
		}
	}
	return llm.ClientConfig{Timeout: cfg.Timeouts.Provider}
}

// ProviderSet holds one adapter per supported provider, built once at
// startup from the resolved config.
type ProviderSet struct {
	byName map[llm.ProviderName]llm.Provider
}

// NewProviderSet builds every provider adapter from cfg. Missing API keys are
// reported when the adapter is first used, not here.
func NewProviderSet(cfg *types.Config) (*ProviderSet, error) {
	set := &ProviderSet{byName: make(map[llm.ProviderName]llm.Provider, len(llm.ProviderNames))}
	for _, name := range llm.ProviderNames {
		p, err := providers.NewProvider(name, ClientConfig(cfg, name))
		if err != nil {
			return nil, err
		}
		set.byName[name] = p
	}
	return set, nil
}

// NewProviderSetFrom wraps already built providers, keyed by their Name.
func NewProviderSetFrom(ps ...llm.Provider) *ProviderSet {
	set := &ProviderSet{byName: make(map[llm.ProviderName]llm.Provider, len(ps))}
	for _, p := range ps {
		set.byName[p.Name()] = p
	}
	return set
}

// Get returns the provider registered under name.
func (s *ProviderSet) Get(name llm.ProviderName) (llm.Provider, bool) {
	p, ok := s.byName[name]
	return p, ok
}
