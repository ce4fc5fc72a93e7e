package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/initializ/bosun/llm"
)

const anthropicVersion = "2023-06-01"

// AnthropicClient implements llm.Provider for the Anthropic Messages API.
type AnthropicClient struct {
	apiKey       string
	baseURL      string
	model        string
	maxTokens    int
	toolsEnabled bool
	client       *http.Client
}

// NewAnthropicClient creates a new Anthropic client.
func NewAnthropicClient(cfg llm.ClientConfig) *AnthropicClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 700
	}
	return &AnthropicClient{
		apiKey:       cfg.APIKey,
		baseURL:      strings.TrimRight(baseURL, "/"),
		model:        cfg.Model,
		maxTokens:    maxTokens,
		toolsEnabled: cfg.ToolsEnabled,
		client:       newHTTPClient(cfg.Timeout),
	}
}

func (c *AnthropicClient) Name() llm.ProviderName { return llm.ProviderAnthropic }
func (c *AnthropicClient) Model() string          { return c.model }
func (c *AnthropicClient) SupportsTools() bool    { return c.toolsEnabled }

// Anthropic-specific request types.
type anthropicRequest struct {
	Model     string               `json:"model"`
	MaxTokens int                  `json:"max_tokens"`
	System    string               `json:"system,omitempty"`
	Messages  []anthropicMessage   `json:"messages"`
	Tools     []llm.ToolDefinition `json:"tools,omitempty"`
}

type anthropicMessage struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

// Send posts the running conversation and splits the reply into text and
// tool_use blocks.
func (c *AnthropicClient) Send(ctx context.Context, req *llm.Request) (*llm.Reply, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return nil, llm.NewConfigError(llm.ProviderAnthropic, "Anthropic API key is missing (anthropic.api_key)")
	}

	payload, err := c.toAnthropicRequest(req)
	if err != nil {
		return nil, err
	}

	endpoint := c.baseURL + "/v1/messages"
	body, err := postJSON(ctx, c.client, llm.ProviderAnthropic, endpoint, map[string]string{
		"x-api-key":         c.apiKey,
		"anthropic-version": anthropicVersion,
	}, payload)
	if err != nil {
		return nil, err
	}
	fields, err := decodeObject(llm.ProviderAnthropic, endpoint, body)
	if err != nil {
		return nil, err
	}
	return parseAnthropicReply(fields), nil
}

func (c *AnthropicClient) toAnthropicRequest(req *llm.Request) (anthropicRequest, error) {
	r := anthropicRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		System:    req.System,
		Messages:  make([]anthropicMessage, 0, len(req.Messages)),
	}
	if c.toolsEnabled && len(req.Tools) > 0 {
		r.Tools = req.Tools
	}

	for _, m := range req.Messages {
		var content any = m.Text
		if len(m.Blocks) > 0 {
			content = m.Blocks
		}
		data, err := json.Marshal(content)
		if err != nil {
			return r, err
		}
		r.Messages = append(r.Messages, anthropicMessage{Role: m.Role, Content: data})
	}
	return r, nil
}

// parseAnthropicReply walks the content array. Elements that are not JSON
// objects are dropped; every other block is kept verbatim in Reply.Blocks.
func parseAnthropicReply(fields map[string]json.RawMessage) *llm.Reply {
	var stopReason string
	_ = json.Unmarshal(fields["stop_reason"], &stopReason)
	reply := &llm.Reply{StopReason: stopReason}

	var elems []json.RawMessage
	_ = json.Unmarshal(fields["content"], &elems)

	for _, raw := range elems {
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(raw, &probe); err != nil || probe == nil {
			continue
		}
		block := llm.ContentBlock{Raw: raw}
		_ = json.Unmarshal(probe["type"], &block.Type)

		switch block.Type {
		case llm.BlockText:
			_ = json.Unmarshal(probe["text"], &block.Text)
		case llm.BlockToolUse:
			_ = json.Unmarshal(probe["id"], &block.ID)
			_ = json.Unmarshal(probe["name"], &block.Name)
			block.Input = objectOrEmpty(probe["input"])
			reply.ToolUses = append(reply.ToolUses, llm.ToolUse{
				ID:    block.ID,
				Name:  block.Name,
				Input: block.Input,
			})
		}
		reply.Blocks = append(reply.Blocks, block)
	}

	reply.Text = llm.JoinText(reply.Blocks)
	if reply.Text == "" {
		reply.Text = llm.ProviderAnthropic.NoAnswer()
	}
	return reply
}

func objectOrEmpty(raw json.RawMessage) json.RawMessage {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return json.RawMessage(`{}`)
	}
	return raw
}
