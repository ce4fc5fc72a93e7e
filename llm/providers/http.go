// Package providers implements the LLM providers reachable from the chat
// bridge: a simple-chat OpenAI adapter and a tool-capable Anthropic adapter.
package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/initializ/bosun/llm"
)

const (
	defaultTimeout       = 60 * time.Second
	maxProviderBodyBytes = 16 << 20
)

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// postJSON sends payload to endpoint and returns the response body. Network
// failures and HTTP statuses >= 400 come back as *llm.ProviderError with a
// fresh trace id.
func postJSON(ctx context.Context, client *http.Client, provider llm.ProviderName, endpoint string, headers map[string]string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshalling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	upstreamErr := func(status int, body string, cause error) *llm.ProviderError {
		return &llm.ProviderError{
			Provider:       provider,
			Status:         http.StatusBadGateway,
			TraceID:        uuid.NewString(),
			Endpoint:       llm.SummarizeEndpoint(endpoint),
			UpstreamStatus: status,
			Body:           body,
			Err:            cause,
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, upstreamErr(0, "", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxProviderBodyBytes))
	if err != nil {
		return nil, upstreamErr(resp.StatusCode, "", err)
	}
	if resp.StatusCode >= 400 {
		return nil, upstreamErr(resp.StatusCode, string(body), nil)
	}
	return body, nil
}

// decodeObject parses a successful provider body into its top-level fields.
// Invalid JSON is an upstream failure; valid JSON that is not an object
// yields no fields.
func decodeObject(provider llm.ProviderName, endpoint string, body []byte) (map[string]json.RawMessage, error) {
	if !json.Valid(body) {
		return nil, &llm.ProviderError{
			Provider:       provider,
			Status:         http.StatusBadGateway,
			TraceID:        uuid.NewString(),
			Endpoint:       llm.SummarizeEndpoint(endpoint),
			UpstreamStatus: http.StatusOK,
			Body:           "malformed response: " + string(body),
		}
	}
	var fields map[string]json.RawMessage
	_ = json.Unmarshal(body, &fields)
	return fields, nil
}
