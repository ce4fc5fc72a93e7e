// Package gateway implements the JSON-RPC tool gateway: initialize,
// notifications/initialized, tools/list and tools/call over a tool registry.
// The gateway holds no per-caller state; every request is answered on its own.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/initializ/bosun/jsonrpc"
	"github.com/initializ/bosun/observability"
	"github.com/initializ/bosun/tools"
)

// Method names understood by the gateway.
const (
	MethodInitialize  = "initialize"
	MethodInitialized = "notifications/initialized"
	MethodToolsList   = "tools/list"
	MethodToolsCall   = "tools/call"
)

// ProtocolVersion is reported by initialize.
const ProtocolVersion = "2024-11-05"

// ServerInfo identifies the gateway in the initialize result.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// InitializeResult is the static initialize payload.
type InitializeResult struct {
	ProtocolVersion string       `json:"protocolVersion"`
	ServerInfo      ServerInfo   `json:"serverInfo"`
	Capabilities    Capabilities `json:"capabilities"`
}

// Capabilities advertises the tool capability with no options.
type Capabilities struct {
	Tools struct{} `json:"tools"`
}

// ToolsListResult is the tools/list payload.
type ToolsListResult struct {
	Tools []tools.Descriptor `json:"tools"`
}

// CallParams are the tools/call parameters.
type CallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

type handler func(ctx context.Context, params json.RawMessage) (any, error)

// Gateway dispatches JSON-RPC requests to the tool registry.
type Gateway struct {
	registry *tools.Registry
	info     ServerInfo
	metrics  *observability.Metrics
	handlers map[string]handler
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithServerInfo overrides the identity reported by initialize.
func WithServerInfo(info ServerInfo) Option {
	return func(g *Gateway) { g.info = info }
}

// WithMetrics records request and tool outcomes.
func WithMetrics(m *observability.Metrics) Option {
	return func(g *Gateway) { g.metrics = m }
}

// New creates a gateway serving the tools in reg.
func New(reg *tools.Registry, opts ...Option) *Gateway {
	g := &Gateway{
		registry: reg,
		info:     ServerInfo{Name: "bosun-mcp", Version: "0.1.0"},
	}
	for _, opt := range opts {
		opt(g)
	}
	g.handlers = map[string]handler{
		MethodInitialize: g.initialize,
		MethodToolsList:  g.toolsList,
		MethodToolsCall:  g.toolsCall,
	}
	return g
}

// Handle decodes a raw request body and dispatches it. A nil response means
// the request was a notification and nothing must be written back.
func (g *Gateway) Handle(ctx context.Context, body []byte) *jsonrpc.Response {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		g.metrics.RecordRPC("", "error")
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return jsonrpc.NewErrorResponse(nil, jsonrpc.ErrCodeInvalidRequest, "Invalid Request: body must be a JSON object")
		}
		return jsonrpc.NewErrorResponse(nil, jsonrpc.ErrCodeParseError, "Parse error")
	}

	req := &jsonrpc.Request{
		JSONRPC: jsonrpc.Version,
		ID:      fields["id"],
		Params:  fields["params"],
	}
	if raw, ok := fields["method"]; ok {
		_ = json.Unmarshal(raw, &req.Method)
	}
	return g.Dispatch(ctx, req)
}

// Dispatch routes a decoded request to its method.
func (g *Gateway) Dispatch(ctx context.Context, req *jsonrpc.Request) *jsonrpc.Response {
	if strings.TrimSpace(req.Method) == "" {
		g.metrics.RecordRPC("", "error")
		return jsonrpc.NewErrorResponse(req.ID, jsonrpc.ErrCodeInvalidRequest, "Invalid Request: missing 'method'")
	}

	if req.Method == MethodInitialized {
		g.metrics.RecordRPC(req.Method, "notification")
		return nil
	}

	h, ok := g.handlers[req.Method]
	if !ok {
		g.metrics.RecordRPC("unknown", "error")
		return jsonrpc.NewErrorResponse(req.ID, jsonrpc.ErrCodeMethodNotFound, "Method not found: "+req.Method)
	}

	result, err := h(ctx, req.Params)
	if err != nil {
		g.metrics.RecordRPC(req.Method, "error")
		return errorResponse(req.ID, err)
	}
	g.metrics.RecordRPC(req.Method, "ok")
	return jsonrpc.NewResponse(req.ID, result)
}

// Descriptors returns the tools the gateway exposes.
func (g *Gateway) Descriptors() []tools.Descriptor {
	return g.registry.Descriptors()
}

func (g *Gateway) initialize(context.Context, json.RawMessage) (any, error) {
	return InitializeResult{
		ProtocolVersion: ProtocolVersion,
		ServerInfo:      g.info,
	}, nil
}

func (g *Gateway) toolsList(context.Context, json.RawMessage) (any, error) {
	return ToolsListResult{Tools: g.registry.Descriptors()}, nil
}

func (g *Gateway) toolsCall(ctx context.Context, raw json.RawMessage) (any, error) {
	var params CallParams
	if len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, &params); err != nil {
			return nil, tools.ArgumentErrorf("Invalid params: %v", err)
		}
	}
	if strings.TrimSpace(params.Name) == "" {
		return nil, tools.ArgumentErrorf("Field 'name' is required")
	}

	result, err := g.registry.Execute(ctx, params.Name, params.Arguments)
	if err != nil {
		var argErr *tools.ArgumentError
		if errors.As(err, &argErr) {
			g.metrics.RecordToolCall(params.Name, "invalid")
		} else {
			g.metrics.RecordToolCall(params.Name, "failed")
		}
		return nil, err
	}
	if result.IsError {
		g.metrics.RecordToolCall(params.Name, "upstream_error")
	} else {
		g.metrics.RecordToolCall(params.Name, "ok")
	}
	return result, nil
}

// errorResponse maps a handler error to its JSON-RPC error. Argument errors
// carry their message; anything else is reported as an internal error with
// the message in data.
func errorResponse(id json.RawMessage, err error) *jsonrpc.Response {
	var argErr *tools.ArgumentError
	if errors.As(err, &argErr) {
		return jsonrpc.NewErrorResponse(id, jsonrpc.ErrCodeInvalidParams, argErr.Msg)
	}
	var rpcErr *jsonrpc.Error
	if errors.As(err, &rpcErr) {
		return &jsonrpc.Response{JSONRPC: jsonrpc.Version, ID: id, Error: rpcErr}
	}
	return jsonrpc.NewErrorResponseWithData(id, jsonrpc.ErrCodeInternal, "Internal error", err.Error())
}
