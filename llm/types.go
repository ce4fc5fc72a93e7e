// Package llm provides the provider-agnostic conversation model used by the
// agent loop. Each provider translates to and from its native API format.
package llm

import (
	"encoding/json"
	"strings"
)

// Role constants for conversation messages.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Content block types.
const (
	BlockText       = "text"
	BlockToolUse    = "tool_use"
	BlockToolResult = "tool_result"
)

// ContentBlock is one element of a structured message.
type ContentBlock struct {
	Type      string          `json:"type"`
	Text      string          `json:"text,omitempty"`
	ID        string          `json:"id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Input     json.RawMessage `json:"input,omitempty"`
	ToolUseID string          `json:"tool_use_id,omitempty"`
	Content   string          `json:"content,omitempty"`
	IsError   bool            `json:"is_error,omitempty"`

	// Raw holds the block exactly as the provider returned it. When set it
	// is sent back unchanged.
	Raw json.RawMessage `json:"-"`
}

// MarshalJSON emits Raw verbatim when present.
func (b ContentBlock) MarshalJSON() ([]byte, error) {
	if len(b.Raw) > 0 {
		return b.Raw, nil
	}
	type plain ContentBlock
	return json.Marshal(plain(b))
}

// Message is one turn of the conversation. A message carries either plain
// Text or a list of Blocks.
type Message struct {
	Role   string
	Text   string
	Blocks []ContentBlock
}

// TextMessage creates a plain text message.
func TextMessage(role, text string) Message {
	return Message{Role: role, Text: text}
}

// BlocksMessage creates a structured message.
func BlocksMessage(role string, blocks []ContentBlock) Message {
	return Message{Role: role, Blocks: blocks}
}

// ToolResultBlock builds the block answering the tool_use with id useID.
func ToolResultBlock(useID, content string, isError bool) ContentBlock {
	return ContentBlock{
		Type:      BlockToolResult,
		ToolUseID: useID,
		Content:   content,
		IsError:   isError,
	}
}

// ToolDefinition describes a tool offered to the model.
type ToolDefinition struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"input_schema"`
}

// ToolUse is a tool invocation requested by the model.
type ToolUse struct {
	ID    string
	Name  string
	Input json.RawMessage
}

// Request is one round sent to a provider.
type Request struct {
	System   string
	Messages []Message
	Tools    []ToolDefinition
}

// LastUserText returns the text of the most recent plain user message.
func (r *Request) LastUserText() string {
	for i := len(r.Messages) - 1; i >= 0; i-- {
		m := r.Messages[i]
		if m.Role == RoleUser && len(m.Blocks) == 0 {
			return m.Text
		}
	}
	return ""
}

// Reply is a provider's answer for one round. When ToolUses is non-empty the
// round is not final and Blocks holds the assistant turn to append.
type Reply struct {
	Text       string
	ToolUses   []ToolUse
	Blocks     []ContentBlock
	StopReason string
}

// HasToolUses reports whether the model asked for tools.
func (r *Reply) HasToolUses() bool {
	return len(r.ToolUses) > 0
}

// JoinText concatenates the text blocks of blocks, newline separated.
func JoinText(blocks []ContentBlock) string {
	var parts []string
	for _, b := range blocks {
		if b.Type == BlockText && b.Text != "" {
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, "\n")
}
