package runtime

import (
	"context"

	"github.com/initializ/bosun/llm"
)

// HookPoint identifies when a hook fires in the agent loop.
type HookPoint int

const (
	BeforeLLMCall HookPoint = iota
	AfterLLMCall
	BeforeToolExec
	AfterToolExec
	OnError
)

// HookContext carries data available to hooks at each hook point.
type HookContext struct {
	Provider   llm.ProviderName
	Round      int
	Messages   []llm.Message
	Reply      *llm.Reply
	ToolName   string
	ToolInput  string
	ToolOutput string
	ToolFailed bool
	Error      error
}

// Hook is a function invoked at a specific point in the agent loop.
type Hook func(ctx context.Context, hctx *HookContext) error

// HookRegistry manages registered hooks for each hook point.
type HookRegistry struct {
	hooks map[HookPoint][]Hook
}

// NewHookRegistry creates an empty HookRegistry.
func NewHookRegistry() *HookRegistry {
	return &HookRegistry{
		hooks: make(map[HookPoint][]Hook),
	}
}

// Register adds a hook for the given point. Hooks fire in registration order.
// Registration is not synchronized; register everything before serving.
func (r *HookRegistry) Register(point HookPoint, h Hook) {
	r.hooks[point] = append(r.hooks[point], h)
}

// Fire invokes all hooks registered for the given point in order.
// If any hook returns an error, execution stops and the error is returned.
func (r *HookRegistry) Fire(ctx context.Context, point HookPoint, hctx *HookContext) error {
	for _, h := range r.hooks[point] {
		if err := h(ctx, hctx); err != nil {
			return err
		}
	}
	return nil
}

// RegisterLoggingHooks adds log output for model replies, tool calls and loop
// errors. Logged payloads are clipped.
func RegisterLoggingHooks(hooks *HookRegistry, logger Logger) {
	hooks.Register(AfterLLMCall, func(_ context.Context, hctx *HookContext) error {
		if hctx.Reply == nil {
			return nil
		}
		fields := map[string]any{
			"provider": string(hctx.Provider),
			"round":    hctx.Round,
		}
		if hctx.Reply.StopReason != "" {
			fields["stop_reason"] = hctx.Reply.StopReason
		}
		if len(hctx.Reply.ToolUses) > 0 {
			names := make([]string, len(hctx.Reply.ToolUses))
			for i, use := range hctx.Reply.ToolUses {
				names[i] = use.Name
			}
			fields["tool_calls"] = names
		} else {
			fields["response"] = clip(hctx.Reply.Text, 200)
		}
		logger.Info("llm response", fields)
		return nil
	})

	hooks.Register(BeforeToolExec, func(_ context.Context, hctx *HookContext) error {
		fields := map[string]any{"tool": hctx.ToolName}
		if hctx.ToolInput != "" {
			fields["input"] = clip(hctx.ToolInput, 300)
		}
		logger.Info("tool call", fields)
		return nil
	})

	hooks.Register(AfterToolExec, func(_ context.Context, hctx *HookContext) error {
		fields := map[string]any{"tool": hctx.ToolName}
		if hctx.Error != nil {
			fields["error"] = hctx.Error.Error()
			logger.Error("tool error", fields)
			return nil
		}
		fields["output_length"] = len(hctx.ToolOutput)
		fields["output"] = clip(hctx.ToolOutput, 500)
		fields["is_error"] = hctx.ToolFailed
		logger.Info("tool result", fields)
		return nil
	})

	hooks.Register(OnError, func(_ context.Context, hctx *HookContext) error {
		if hctx.Error != nil {
			logger.Error("agent loop error", map[string]any{
				"provider": string(hctx.Provider),
				"round":    hctx.Round,
				"error":    hctx.Error.Error(),
			})
		}
		return nil
	})
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
