package validate

import (
	"fmt"
	"net/url"

	"github.com/initializ/bosun/security"
	"github.com/initializ/bosun/types"
)

// maxReasonableRounds is the round cap above which a warning is emitted.
const maxReasonableRounds = 20

// ValidationResult holds errors and warnings from config validation.
type ValidationResult struct {
	Errors   []string
	Warnings []string
}

// IsValid returns true if there are no validation errors.
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

func (r *ValidationResult) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// ValidateConfig checks a resolved Config for errors and warnings.
func ValidateConfig(cfg *types.Config) *ValidationResult {
	r := &ValidationResult{}

	checkPort(r, "server.port", cfg.Server.Port)
	checkPort(r, "server.api_port", cfg.Server.APIPort)
	checkURL(r, "server.api_base_url", cfg.Server.APIBaseURL, false)
	checkURL(r, "server.gateway_endpoint", cfg.Server.GatewayEndpoint, false)
	checkURL(r, "openai.base_url", cfg.OpenAI.BaseURL, true)
	checkURL(r, "anthropic.base_url", cfg.Anthropic.BaseURL, true)

	if cfg.Timeouts.Provider <= 0 {
		r.errorf("timeouts.provider must be positive")
	}
	if cfg.Timeouts.InternalAPI <= 0 {
		r.errorf("timeouts.internal_api must be positive")
	}
	if cfg.Timeouts.Gateway <= 0 {
		r.errorf("timeouts.gateway must be positive")
	}

	if cfg.OpenAI.Model == "" {
		r.errorf("openai.model is required")
	}
	if cfg.OpenAI.Temperature < 0 || cfg.OpenAI.Temperature > 2 {
		r.errorf("openai.temperature %v must be between 0 and 2", cfg.OpenAI.Temperature)
	}
	if cfg.Anthropic.Model == "" {
		r.errorf("anthropic.model is required")
	}
	if cfg.Anthropic.MaxTokens <= 0 {
		r.errorf("anthropic.max_tokens must be positive")
	}

	if cfg.Agent.MaxToolRounds <= 0 {
		r.errorf("agent.max_tool_rounds must be positive")
	} else if cfg.Agent.MaxToolRounds > maxReasonableRounds {
		r.warnf("agent.max_tool_rounds %d is high; each round is a billed provider call", cfg.Agent.MaxToolRounds)
	}

	if len(cfg.Whitelist.Roots) == 0 {
		r.errorf("whitelist.roots must not be empty")
	} else if _, err := security.NewWhitelist(cfg.Whitelist.Roots); err != nil {
		r.errorf("whitelist.roots: %v", err)
	}

	if cfg.OpenAI.APIKey == "" {
		r.warnf("openai.api_key is empty; openai chat calls will fail (set OPENAI_API_KEY)")
	}
	if cfg.Anthropic.APIKey == "" {
		r.warnf("anthropic.api_key is empty; anthropic chat calls will fail (set ANTHROPIC_API_KEY)")
	}

	return r
}

func checkPort(r *ValidationResult, field string, port int) {
	if port < 1 || port > 65535 {
		r.errorf("%s %d must be between 1 and 65535", field, port)
	}
}

func checkURL(r *ValidationResult, field, raw string, required bool) {
	if raw == "" {
		if required {
			r.errorf("%s is required", field)
		}
		return
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		r.errorf("%s %q must be an absolute http(s) URL", field, raw)
	}
}
