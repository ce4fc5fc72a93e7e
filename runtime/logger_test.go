package runtime

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/initializ/bosun/llm"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("invalid JSON line %q: %v", line, err)
		}
		out = append(out, entry)
	}
	return out
}

func TestJSONLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, false)
	logger.Debug("hidden", nil)
	logger.Info("started", map[string]any{"port": 8080, "cors": true})

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("lines = %d, want 1", len(lines))
	}
	if lines[0]["msg"] != "started" || lines[0]["level"] != "INFO" {
		t.Errorf("entry = %v", lines[0])
	}
	if lines[0]["port"] != float64(8080) || lines[0]["cors"] != true {
		t.Errorf("fields = %v", lines[0])
	}

	buf.Reset()
	verbose := NewJSONLogger(&buf, true)
	verbose.Debug("shown", map[string]any{"k": "v"})
	if lines := decodeLines(t, &buf); len(lines) != 1 || lines[0]["level"] != "DEBUG" {
		t.Errorf("verbose lines = %v", lines)
	}
}

// recordingLogger captures entries for hook tests.
type recordingLogger struct {
	entries []string
	fields  []map[string]any
}

func (r *recordingLogger) record(level, msg string, fields map[string]any) {
	r.entries = append(r.entries, level+" "+msg)
	r.fields = append(r.fields, fields)
}

func (r *recordingLogger) Info(msg string, f map[string]any)  { r.record("info", msg, f) }
func (r *recordingLogger) Warn(msg string, f map[string]any)  { r.record("warn", msg, f) }
func (r *recordingLogger) Error(msg string, f map[string]any) { r.record("error", msg, f) }
func (r *recordingLogger) Debug(msg string, f map[string]any) { r.record("debug", msg, f) }

func TestLoggingHooks(t *testing.T) {
	rec := &recordingLogger{}
	hooks := NewHookRegistry()
	RegisterLoggingHooks(hooks, rec)
	ctx := context.Background()

	_ = hooks.Fire(ctx, AfterLLMCall, &HookContext{
		Provider: llm.ProviderAnthropic,
		Round:    1,
		Reply:    &llm.Reply{ToolUses: []llm.ToolUse{{Name: "call_api_resource"}}, StopReason: "tool_use"},
	})
	_ = hooks.Fire(ctx, BeforeToolExec, &HookContext{ToolName: "call_api_resource", ToolInput: strings.Repeat("i", 400)})
	_ = hooks.Fire(ctx, AfterToolExec, &HookContext{ToolName: "call_api_resource", ToolOutput: "{}"})
	_ = hooks.Fire(ctx, AfterToolExec, &HookContext{ToolName: "call_api_resource", Error: errors.New("refused")})
	_ = hooks.Fire(ctx, OnError, &HookContext{Provider: llm.ProviderAnthropic, Error: errors.New("boom")})

	want := []string{"info llm response", "info tool call", "info tool result", "error tool error", "error agent loop error"}
	if strings.Join(rec.entries, "|") != strings.Join(want, "|") {
		t.Fatalf("entries = %v", rec.entries)
	}

	names, _ := rec.fields[0]["tool_calls"].([]string)
	if len(names) != 1 || names[0] != "call_api_resource" {
		t.Errorf("tool_calls = %v", rec.fields[0]["tool_calls"])
	}
	if input := rec.fields[1]["input"].(string); len(input) != 303 {
		t.Errorf("input should be clipped to 300 chars plus ellipsis, got %d", len(input))
	}
}

func TestHookRegistryOrderAndStop(t *testing.T) {
	hooks := NewHookRegistry()
	var order []int
	hooks.Register(BeforeLLMCall, func(context.Context, *HookContext) error { order = append(order, 1); return nil })
	hooks.Register(BeforeLLMCall, func(context.Context, *HookContext) error { order = append(order, 2); return errors.New("stop") })
	hooks.Register(BeforeLLMCall, func(context.Context, *HookContext) error { order = append(order, 3); return nil })

	if err := hooks.Fire(context.Background(), BeforeLLMCall, &HookContext{}); err == nil {
		t.Fatal("expected error")
	}
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("order = %v", order)
	}
	if err := hooks.Fire(context.Background(), AfterToolExec, &HookContext{}); err != nil {
		t.Errorf("no hooks registered: %v", err)
	}
}
