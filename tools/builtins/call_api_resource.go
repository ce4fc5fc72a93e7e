package builtins

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/initializ/bosun/security"
	"github.com/initializ/bosun/tools"
)

// CallAPIResourceName is the tool that forwards a request to the internal API.
const CallAPIResourceName = "call_api_resource"

const maxAPIResponseBytes = 4 << 20

type callAPIResourceTool struct {
	baseURL   string
	whitelist *security.Whitelist
	client    *http.Client
}

type callAPIResourceInput struct {
	Method string          `json:"method"`
	Path   string          `json:"path"`
	Query  map[string]any  `json:"query,omitempty"`
	Body   json.RawMessage `json:"body,omitempty"`
}

// APIResponse is the payload of a call_api_resource result.
type APIResponse struct {
	Status int    `json:"status"`
	Path   string `json:"path"`
	Method string `json:"method"`
	Body   any    `json:"body"`
}

func (t *callAPIResourceTool) Name() string { return CallAPIResourceName }
func (t *callAPIResourceTool) Description() string {
	return "Call a whitelisted boatyard REST API endpoint (clients, boats, engines, catalogue, sales...)."
}

func (t *callAPIResourceTool) InputSchema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"additionalProperties": false,
		"required": ["method", "path"],
		"properties": {
			"method": {"type": "string", "enum": ["GET", "POST", "PUT", "DELETE"]},
			"path": {"type": "string", "description": "Absolute API path, e.g. /clients, /ventes/search, /forfaits/1"},
			"query": {"type": "object", "description": "Optional query-string key/value map."},
			"body": {"type": "object", "description": "Optional JSON body for POST/PUT."}
		}
	}`)
}

func (t *callAPIResourceTool) Execute(ctx context.Context, args json.RawMessage) (*tools.Result, error) {
	var input callAPIResourceInput
	if len(args) > 0 && string(args) != "null" {
		if err := json.Unmarshal(args, &input); err != nil {
			return nil, tools.ArgumentErrorf("invalid arguments: %v", err)
		}
	}

	rawMethod := strings.TrimSpace(input.Method)
	if rawMethod == "" {
		return nil, tools.ArgumentErrorf("Field 'method' is required")
	}
	if strings.TrimSpace(input.Path) == "" {
		return nil, tools.ArgumentErrorf("Field 'path' is required")
	}
	method, ok := security.ParseMethod(strings.ToUpper(rawMethod))
	if !ok {
		return nil, tools.ArgumentErrorf("Unsupported method: %s", strings.ToUpper(rawMethod))
	}
	path := input.Path
	if !strings.HasPrefix(path, "/") {
		return nil, tools.ArgumentErrorf("Field 'path' must start with '/'")
	}
	if strings.ContainsAny(path, "?#") {
		return nil, tools.ArgumentErrorf("Field 'path' must not contain '?' or '#'; pass parameters in 'query'")
	}
	if !t.pathAllowed(path) {
		return nil, tools.ArgumentErrorf("Path not allowed by API whitelist: %s", path)
	}

	target := t.baseURL + path
	if q := encodeQuery(input.Query); q != "" {
		target += "?" + q
	}

	var bodyReader io.Reader
	if method.HasBody() {
		body := []byte("{}")
		if len(input.Body) > 0 && string(input.Body) != "null" {
			body = input.Body
		}
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, string(method), target, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if method.HasBody() {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call backend API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxAPIResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("reading backend response: %w", err)
	}

	payload := APIResponse{
		Status: resp.StatusCode,
		Path:   path,
		Method: string(method),
		Body:   ParseBody(raw),
	}
	text, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}

	return &tools.Result{
		Content:           []tools.Content{{Type: tools.ContentText, Text: string(text)}},
		StructuredContent: payload,
		IsError:           resp.StatusCode >= 400,
	}, nil
}

// ParseBody returns the decoded JSON value of raw when it is valid JSON and
// the raw text otherwise. Blank input yields "".
func ParseBody(raw []byte) any {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ""
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil || dec.More() {
		return string(raw)
	}
	return v
}

func encodeQuery(query map[string]any) string {
	if len(query) == 0 {
		return ""
	}
	values := url.Values{}
	for k, v := range query {
		if k == "" || v == nil {
			continue
		}
		switch val := v.(type) {
		case string:
			values.Set(k, val)
		default:
			data, err := json.Marshal(val)
			if err != nil {
				continue
			}
			values.Set(k, string(data))
		}
	}
	return values.Encode()
}

// pathAllowed checks the path both as sent and as the internal API sees it
// after percent-decoding. Encoded separators and backslashes are refused.
func (t *callAPIResourceTool) pathAllowed(path string) bool {
	lower := strings.ToLower(path)
	if strings.Contains(lower, "%2f") || strings.Contains(lower, "%5c") || strings.Contains(path, "\\") {
		return false
	}
	decoded, err := url.PathUnescape(path)
	if err != nil {
		return false
	}
	if hasDotSegment(path) || hasDotSegment(decoded) {
		return false
	}
	return t.whitelist.IsAllowed(path) && t.whitelist.IsAllowed(decoded)
}

func hasDotSegment(path string) bool {
	for _, seg := range strings.Split(path, "/") {
		if seg == "." || seg == ".." {
			return true
		}
	}
	return false
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{Timeout: timeout}
}
