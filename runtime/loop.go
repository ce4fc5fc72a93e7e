package runtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/initializ/bosun/llm"
	"github.com/initializ/bosun/observability"
	"github.com/initializ/bosun/tools"
	"github.com/initializ/bosun/tools/adapters"
)

// DefaultMaxToolRounds is the provider round cap used when none is configured.
const DefaultMaxToolRounds = 6

// ToolGateway discovers and invokes tools. adapters.GatewayClient satisfies
// it.
type ToolGateway interface {
	ListTools(ctx context.Context) ([]tools.Descriptor, error)
	CallTool(ctx context.Context, name string, arguments json.RawMessage) (json.RawMessage, error)
}

// Controller drives the bounded tool-use conversation with one provider.
type Controller struct {
	provider     llm.Provider
	gateway      ToolGateway
	hooks        *HookRegistry
	metrics      *observability.Metrics
	systemPrompt string
	maxRounds    int
}

// ControllerConfig configures a Controller.
type ControllerConfig struct {
	Provider     llm.Provider
	Gateway      ToolGateway
	Hooks        *HookRegistry
	Metrics      *observability.Metrics
	SystemPrompt string
	MaxRounds    int
}

// NewController creates a Controller with the given configuration.
func NewController(cfg ControllerConfig) *Controller {
	maxRounds := cfg.MaxRounds
	if maxRounds <= 0 {
		maxRounds = DefaultMaxToolRounds
	}
	hooks := cfg.Hooks
	if hooks == nil {
		hooks = NewHookRegistry()
	}
	return &Controller{
		provider:     cfg.Provider,
		gateway:      cfg.Gateway,
		hooks:        hooks,
		metrics:      cfg.Metrics,
		systemPrompt: cfg.SystemPrompt,
		maxRounds:    maxRounds,
	}
}

// Answer is the final result of a chat call.
type Answer struct {
	Provider llm.ProviderName
	Model    string
	Text     string
	Rounds   int
}

// Run sends userMessage and keeps executing requested tools until the model
// answers in plain text or the round cap is hit. At most maxRounds provider
// calls are made.
func (c *Controller) Run(ctx context.Context, userMessage string) (*Answer, error) {
	name := c.provider.Name()

	toolDefs, err := c.discoverTools(ctx)
	if err != nil {
		_ = c.hooks.Fire(ctx, OnError, &HookContext{Provider: name, Error: err})
		return nil, err
	}

	conv := NewConversation(userMessage)
	for round := 1; round <= c.maxRounds; round++ {
		messages := conv.Messages()
		if err := c.hooks.Fire(ctx, BeforeLLMCall, &HookContext{Provider: name, Round: round, Messages: messages}); err != nil {
			return nil, fmt.Errorf("before LLM call hook: %w", err)
		}

		start := time.Now()
		reply, err := c.provider.Send(ctx, &llm.Request{
			System:   c.systemPrompt,
			Messages: messages,
			Tools:    toolDefs,
		})
		if err != nil {
			c.metrics.RecordProviderRequest(string(name), "error", time.Since(start).Seconds())
			_ = c.hooks.Fire(ctx, OnError, &HookContext{Provider: name, Round: round, Error: err})
			return nil, err
		}
		c.metrics.RecordProviderRequest(string(name), "success", time.Since(start).Seconds())

		if err := c.hooks.Fire(ctx, AfterLLMCall, &HookContext{Provider: name, Round: round, Messages: messages, Reply: reply}); err != nil {
			return nil, fmt.Errorf("after LLM call hook: %w", err)
		}

		if !reply.HasToolUses() {
			c.metrics.RecordRounds(string(name), round)
			return &Answer{Provider: name, Model: c.provider.Model(), Text: reply.Text, Rounds: round}, nil
		}

		conv.AppendAssistant(reply.Blocks)

		results := make([]llm.ContentBlock, 0, len(reply.ToolUses))
		for _, use := range reply.ToolUses {
			block, err := c.invokeTool(ctx, use)
			if err != nil {
				return nil, err
			}
			results = append(results, block)
		}
		conv.AppendToolResults(results)
	}

	c.metrics.RecordRounds(string(name), c.maxRounds)
	err = &RoundLimitError{MaxRounds: c.maxRounds}
	_ = c.hooks.Fire(ctx, OnError, &HookContext{Provider: name, Round: c.maxRounds, Error: err})
	return nil, err
}

// discoverTools lists the gateway's tools when the provider can use them.
func (c *Controller) discoverTools(ctx context.Context) ([]llm.ToolDefinition, error) {
	if !c.provider.SupportsTools() || c.gateway == nil {
		return nil, nil
	}
	descs, err := c.gateway.ListTools(ctx)
	if err != nil {
		return nil, fmt.Errorf("discovering tools: %w", err)
	}
	defs := make([]llm.ToolDefinition, 0, len(descs))
	for _, d := range descs {
		defs = append(defs, llm.ToolDefinition{
			Name:        d.Name,
			Description: d.Description,
			InputSchema: d.InputSchema,
		})
	}
	return defs, nil
}

// invokeTool runs one tool use through the gateway and turns the outcome into
// a tool_result block. Tool failures become error blocks; only hook errors
// abort the round.
func (c *Controller) invokeTool(ctx context.Context, use llm.ToolUse) (llm.ContentBlock, error) {
	if err := c.hooks.Fire(ctx, BeforeToolExec, &HookContext{
		Provider:  c.provider.Name(),
		ToolName:  use.Name,
		ToolInput: string(use.Input),
	}); err != nil {
		return llm.ContentBlock{}, fmt.Errorf("before tool exec hook: %w", err)
	}

	var (
		content  string
		isError  bool
		toolErr  error
		rawReply json.RawMessage
	)
	if c.gateway == nil {
		toolErr = errors.New("no tool gateway configured")
	} else {
		rawReply, toolErr = c.gateway.CallTool(ctx, use.Name, use.Input)
	}

	if toolErr != nil {
		isError = true
		content = toolFailureContent(toolErr)
	} else {
		content = string(rawReply)
		isError = resultIsError(rawReply)
	}
	content = truncateToolResult(content)

	if err := c.hooks.Fire(ctx, AfterToolExec, &HookContext{
		Provider:   c.provider.Name(),
		ToolName:   use.Name,
		ToolInput:  string(use.Input),
		ToolOutput: content,
		ToolFailed: isError,
		Error:      toolErr,
	}); err != nil {
		return llm.ContentBlock{}, fmt.Errorf("after tool exec hook: %w", err)
	}

	return llm.ToolResultBlock(use.ID, content, isError), nil
}

func toolFailureContent(err error) string {
	msg := "tool invocation failed: " + llm.Sanitize(err.Error())
	if errors.Is(err, adapters.ErrResultMissing) {
		msg = err.Error()
	}
	data, _ := json.Marshal(struct {
		IsError bool   `json:"isError"`
		Message string `json:"message"`
	}{true, msg})
	return string(data)
}

func resultIsError(raw json.RawMessage) bool {
	var probe struct {
		IsError bool `json:"isError"`
	}
	_ = json.Unmarshal(raw, &probe)
	return probe.IsError
}
