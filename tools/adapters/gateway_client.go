// Package adapters holds clients that reach the tool gateway over its
// JSON-RPC transport.
package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/initializ/bosun/jsonrpc"
	"github.com/initializ/bosun/tools"
)

const maxGatewayResponseBytes = 8 << 20

// ErrResultMissing is returned by CallTool when the gateway answered without
// an error but also without a result object.
var ErrResultMissing = errors.New("invalid gateway response: result missing")

// GatewayError is a JSON-RPC error returned by the gateway.
type GatewayError struct {
	Code    int
	Message string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway error [code=%d, message=%s]", e.Code, e.Message)
}

// GatewayEndpoint returns override when set, otherwise the co-located gateway
// on the loopback interface.
func GatewayEndpoint(override string, port int) string {
	if o := strings.TrimSpace(override); o != "" {
		return o
	}
	return fmt.Sprintf("http://127.0.0.1:%d/mcp", port)
}

// GatewayClient calls tools/list and tools/call on a tool gateway.
type GatewayClient struct {
	endpoint string
	client   *http.Client
}

// NewGatewayClient creates a client for the gateway at endpoint.
func NewGatewayClient(endpoint string, timeout time.Duration) *GatewayClient {
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return &GatewayClient{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// Endpoint returns the gateway URL the client posts to.
func (c *GatewayClient) Endpoint() string { return c.endpoint }

// ListTools discovers the gateway's tools. Descriptors without a name are
// dropped and a missing input schema is replaced by an open object schema.
func (c *GatewayClient) ListTools(ctx context.Context) ([]tools.Descriptor, error) {
	resp, err := c.call(ctx, "tools/list", struct{}{})
	if err != nil {
		return nil, err
	}
	if len(resp.Result) == 0 || string(resp.Result) == "null" {
		return nil, nil
	}

	var result struct {
		Tools []tools.Descriptor `json:"tools"`
	}
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		return nil, fmt.Errorf("decoding tools/list result: %w", err)
	}

	out := make([]tools.Descriptor, 0, len(result.Tools))
	for _, d := range result.Tools {
		if strings.TrimSpace(d.Name) == "" {
			continue
		}
		if isEmptyObject(d.InputSchema) {
			d.InputSchema = json.RawMessage(`{"type":"object","additionalProperties":true}`)
		}
		out = append(out, d)
	}
	return out, nil
}

// CallTool invokes a tool and returns the raw tools/call result object.
func (c *GatewayClient) CallTool(ctx context.Context, name string, arguments json.RawMessage) (json.RawMessage, error) {
	if isEmptyObject(arguments) {
		arguments = json.RawMessage(`{}`)
	}
	params := struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}{name, arguments}

	resp, err := c.call(ctx, "tools/call", params)
	if err != nil {
		return nil, err
	}
	if isEmptyObject(resp.Result) {
		return nil, ErrResultMissing
	}
	return resp.Result, nil
}

func (c *GatewayClient) call(ctx context.Context, method string, params any) (*jsonrpc.RawResponse, error) {
	rpcReq, err := jsonrpc.NewRequest(uuid.NewString(), method, params)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(rpcReq)
	if err != nil {
		return nil, fmt.Errorf("marshalling %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	httpResp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway %s: %w", method, err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxGatewayResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("reading gateway response: %w", err)
	}
	if httpResp.StatusCode >= 400 {
		return nil, fmt.Errorf("gateway %s: HTTP %d: %s", method, httpResp.StatusCode, strings.TrimSpace(string(body)))
	}

	var resp jsonrpc.RawResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decoding gateway response: %w", err)
	}
	if resp.Error != nil {
		return nil, &GatewayError{Code: resp.Error.Code, Message: resp.Error.Message}
	}
	return &resp, nil
}

// isEmptyObject reports whether raw is absent, null or an empty object.
func isEmptyObject(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return true
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return false
	}
	return len(obj) == 0
}
