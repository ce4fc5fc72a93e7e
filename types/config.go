// Package types holds the configuration model for bosun.yaml.
package types

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/initializ/bosun/security"
)

// DefaultSystemPrompt is the system prompt sent to every provider.
const DefaultSystemPrompt = "You are bosun, a boatyard management assistant. Answer clearly and briefly."

// Config is the resolved bosun configuration. It is built once at startup
// and treated as read-only afterwards.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Timeouts  TimeoutConfig   `yaml:"timeouts"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Anthropic AnthropicConfig `yaml:"anthropic"`
	Agent     AgentConfig     `yaml:"agent"`
	Whitelist WhitelistConfig `yaml:"whitelist"`
}

// ServerConfig configures the HTTP listener and the internal API it fronts.
type ServerConfig struct {
	Port            int    `yaml:"port"             env:"BOSUN_PORT"`
	APIPort         int    `yaml:"api_port"         env:"BOSUN_API_PORT"`
	APIBaseURL      string `yaml:"api_base_url"     env:"BOSUN_API_BASE_URL"`
	GatewayEndpoint string `yaml:"gateway_endpoint" env:"AI_MCP_ENDPOINT"`
	CORS            bool   `yaml:"cors"`
}

// TimeoutConfig bounds each kind of outbound call.
type TimeoutConfig struct {
	Provider    time.Duration `yaml:"provider"     env:"BOSUN_PROVIDER_TIMEOUT"`
	InternalAPI time.Duration `yaml:"internal_api" env:"BOSUN_INTERNAL_API_TIMEOUT"`
	Gateway     time.Duration `yaml:"gateway"      env:"BOSUN_GATEWAY_TIMEOUT"`
}

// OpenAIConfig configures the simple-chat provider.
type OpenAIConfig struct {
	APIKey      string  `yaml:"api_key"     env:"OPENAI_API_KEY"`
	Model       string  `yaml:"model"       env:"OPENAI_MODEL"`
	BaseURL     string  `yaml:"base_url"    env:"OPENAI_BASE_URL"`
	Temperature float64 `yaml:"temperature"`
}

// AnthropicConfig configures the tool-capable provider.
type AnthropicConfig struct {
	APIKey       string `yaml:"api_key"       env:"ANTHROPIC_API_KEY"`
	Model        string `yaml:"model"         env:"ANTHROPIC_MODEL"`
	BaseURL      string `yaml:"base_url"      env:"ANTHROPIC_BASE_URL"`
	MaxTokens    int    `yaml:"max_tokens"`
	ToolsEnabled bool   `yaml:"tools_enabled" env:"ANTHROPIC_TOOLS_ENABLED"`
}

// AgentConfig configures the tool-use loop.
type AgentConfig struct {
	MaxToolRounds int    `yaml:"max_tool_rounds" env:"BOSUN_MAX_TOOL_ROUNDS"`
	SystemPrompt  string `yaml:"system_prompt"`
}

// WhitelistConfig lists the internal API roots tools may reach.
type WhitelistConfig struct {
	Roots []string `yaml:"roots" env:"BOSUN_WHITELIST_ROOTS" envSeparator:","`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:    8090,
			APIPort: 8080,
			CORS:    true,
		},
		Timeouts: TimeoutConfig{
			Provider:    60 * time.Second,
			InternalAPI: 30 * time.Second,
			Gateway:     45 * time.Second,
		},
		OpenAI: OpenAIConfig{
			Model:       "gpt-4o-mini",
			BaseURL:     "https://api.openai.com/v1",
			Temperature: 0.2,
		},
		Anthropic: AnthropicConfig{
			Model:        "claude-haiku-4-5-20251001",
			BaseURL:      "https://api.anthropic.com",
			MaxTokens:    700,
			ToolsEnabled: true,
		},
		Agent: AgentConfig{
			MaxToolRounds: 6,
			SystemPrompt:  DefaultSystemPrompt,
		},
		Whitelist: WhitelistConfig{
			Roots: append([]string(nil), security.DefaultRoots...),
		},
	}
}

// ParseConfig parses raw YAML bytes over the defaults. Keys absent from the
// document keep their default value.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing bosun config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overlays process environment variables on cfg. Unset variables
// leave the current value in place.
func (c *Config) ApplyEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ApplyEnvMap overlays the given variables instead of the process
// environment.
func (c *Config) ApplyEnvMap(vars map[string]string) error {
	if err := env.ParseWithOptions(c, env.Options{Environment: vars}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// InternalAPIURL is the base URL tool calls are sent to.
func (c *Config) InternalAPIURL() string {
	if c.Server.APIBaseURL != "" {
		return c.Server.APIBaseURL
	}
	return fmt.Sprintf("http://127.0.0.1:%d", c.Server.APIPort)
}
