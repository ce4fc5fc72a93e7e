package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/initializ/bosun/llm"
)

// OpenAIClient implements llm.Provider for the OpenAI Chat Completions API.
// It is a simple-chat adapter: only the system prompt and the latest user
// message are sent and tools are never offered.
type OpenAIClient struct {
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	client      *http.Client
}

// NewOpenAIClient creates a new OpenAI client.
func NewOpenAIClient(cfg llm.ClientConfig) *OpenAIClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &OpenAIClient{
		apiKey:      cfg.APIKey,
		baseURL:     strings.TrimRight(baseURL, "/"),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		client:      newHTTPClient(cfg.Timeout),
	}
}

func (c *OpenAIClient) Name() llm.ProviderName { return llm.ProviderOpenAI }
func (c *OpenAIClient) Model() string          { return c.model }
func (c *OpenAIClient) SupportsTools() bool    { return false }

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Temperature float64         `json:"temperature"`
	Messages    []openAIMessage `json:"messages"`
}

// Send posts a two-message chat completion and extracts the first choice.
func (c *OpenAIClient) Send(ctx context.Context, req *llm.Request) (*llm.Reply, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return nil, llm.NewConfigError(llm.ProviderOpenAI, "OpenAI API key is missing (openai.api_key)")
	}

	payload := openAIRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []openAIMessage{
			{Role: "system", Content: req.System},
			{Role: llm.RoleUser, Content: req.LastUserText()},
		},
	}

	endpoint := c.baseURL + "/chat/completions"
	body, err := postJSON(ctx, c.client, llm.ProviderOpenAI, endpoint,
		map[string]string{"Authorization": "Bearer " + c.apiKey}, payload)
	if err != nil {
		return nil, err
	}
	fields, err := decodeObject(llm.ProviderOpenAI, endpoint, body)
	if err != nil {
		return nil, err
	}

	text := extractOpenAIAnswer(fields)
	return &llm.Reply{
		Text:   text,
		Blocks: []llm.ContentBlock{{Type: llm.BlockText, Text: text}},
	}, nil
}

// extractOpenAIAnswer returns choices[0].message.content, or the sentinel
// when the response does not have that shape.
func extractOpenAIAnswer(fields map[string]json.RawMessage) string {
	noAnswer := llm.ProviderOpenAI.NoAnswer()

	var choices []json.RawMessage
	if err := json.Unmarshal(fields["choices"], &choices); err != nil || len(choices) == 0 {
		return noAnswer
	}
	var choice map[string]json.RawMessage
	if err := json.Unmarshal(choices[0], &choice); err != nil || choice == nil {
		return noAnswer
	}
	var message map[string]json.RawMessage
	if err := json.Unmarshal(choice["message"], &message); err != nil || message == nil {
		return noAnswer
	}

	content, ok := message["content"]
	if !ok || string(content) == "null" {
		return noAnswer
	}
	var s string
	if err := json.Unmarshal(content, &s); err == nil {
		return s
	}
	return string(content)
}
