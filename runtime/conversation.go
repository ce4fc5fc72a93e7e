package runtime

import (
	"strconv"
	"unicode/utf8"

	"github.com/initializ/bosun/llm"
)

// maxToolResultChars caps a single tool result before it enters the
// conversation, leaving room for the truncation suffix.
const maxToolResultChars = 49_000

// Conversation is the ordered message history of one chat call. It is owned
// by a single loop invocation and never shared.
type Conversation struct {
	messages []llm.Message
}

// NewConversation starts a conversation with the caller's message.
func NewConversation(userMessage string) *Conversation {
	return &Conversation{
		messages: []llm.Message{llm.TextMessage(llm.RoleUser, userMessage)},
	}
}

// AppendAssistant records the assistant blocks of a tool-use round. Empty
// block lists are skipped.
func (c *Conversation) AppendAssistant(blocks []llm.ContentBlock) {
	if len(blocks) == 0 {
		return
	}
	c.messages = append(c.messages, llm.BlocksMessage(llm.RoleAssistant, blocks))
}

// AppendToolResults records all tool results of a round as one user turn.
func (c *Conversation) AppendToolResults(results []llm.ContentBlock) {
	c.messages = append(c.messages, llm.BlocksMessage(llm.RoleUser, results))
}

// Messages returns a copy of the history.
func (c *Conversation) Messages() []llm.Message {
	out := make([]llm.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Len returns the number of messages.
func (c *Conversation) Len() int { return len(c.messages) }

// truncateToolResult clips oversized output on a rune boundary.
func truncateToolResult(s string) string {
	if len(s) <= maxToolResultChars {
		return s
	}
	cut := maxToolResultChars
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "\n\n[OUTPUT TRUNCATED: original length " + strconv.Itoa(len(s)) + " chars]"
}
