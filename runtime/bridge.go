package runtime

import (
	"context"
	"fmt"
	"strings"

	"github.com/initializ/bosun/llm"
	"github.com/initializ/bosun/observability"
)

// ChatRequest is the inbound chat bridge payload.
type ChatRequest struct {
	Provider string `json:"provider"`
	Message  string `json:"message"`
}

// ChatResponse is the successful chat bridge reply.
type ChatResponse struct {
	Provider llm.ProviderName `json:"provider"`
	Model    string           `json:"model"`
	Answer   string           `json:"answer"`
}

// BridgeConfig configures a Bridge.
type BridgeConfig struct {
	Providers    *ProviderSet
	Gateway      ToolGateway
	Logger       Logger
	Metrics      *observability.Metrics
	SystemPrompt string
	MaxRounds    int
}

// Bridge answers chat requests by running one Controller per call. It holds
// no per-call state and is safe for concurrent use.
type Bridge struct {
	providers    *ProviderSet
	gateway      ToolGateway
	hooks        *HookRegistry
	metrics      *observability.Metrics
	systemPrompt string
	maxRounds    int
}

// NewBridge creates a Bridge. Logging hooks are registered when a logger is
// given.
func NewBridge(cfg BridgeConfig) *Bridge {
	hooks := NewHookRegistry()
	if cfg.Logger != nil {
		RegisterLoggingHooks(hooks, cfg.Logger)
	}
	return &Bridge{
		providers:    cfg.Providers,
		gateway:      cfg.Gateway,
		hooks:        hooks,
		metrics:      cfg.Metrics,
		systemPrompt: cfg.SystemPrompt,
		maxRounds:    cfg.MaxRounds,
	}
}

// Chat validates req, selects the provider and runs the tool-use loop.
func (b *Bridge) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if strings.TrimSpace(req.Provider) == "" {
		return nil, &RequestError{Code: CodeInvalidRequest, Message: "Field 'provider' is required"}
	}
	if strings.TrimSpace(req.Message) == "" {
		return nil, &RequestError{Code: CodeInvalidRequest, Message: "Field 'message' is required"}
	}

	name, err := llm.ParseProviderName(req.Provider)
	if err != nil {
		return nil, fmt.Errorf("%w. Use 'openai' or 'anthropic'", err)
	}
	provider, ok := b.providers.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not configured", llm.ErrUnknownProvider, name)
	}

	ctrl := NewController(ControllerConfig{
		Provider:     provider,
		Gateway:      b.gateway,
		Hooks:        b.hooks,
		Metrics:      b.metrics,
		SystemPrompt: b.systemPrompt,
		MaxRounds:    b.maxRounds,
	})
	answer, err := ctrl.Run(ctx, req.Message)
	if err != nil {
		return nil, err
	}
	return &ChatResponse{Provider: answer.Provider, Model: answer.Model, Answer: answer.Text}, nil
}
