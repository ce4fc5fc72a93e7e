package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type capturedRPC struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      string          `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

func rpcServer(t *testing.T, reply func(req capturedRPC) string) (*httptest.Server, *[]capturedRPC) {
	t.Helper()
	var seen []capturedRPC
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		var req capturedRPC
		if err := json.Unmarshal(data, &req); err != nil {
			t.Errorf("bad request body %s: %v", data, err)
		}
		seen = append(seen, req)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(reply(req))) //nolint:errcheck
	}))
	t.Cleanup(ts.Close)
	return ts, &seen
}

func TestGatewayEndpoint(t *testing.T) {
	if got := GatewayEndpoint("", 8080); got != "http://127.0.0.1:8080/mcp" {
		t.Errorf("default endpoint: got %q", got)
	}
	if got := GatewayEndpoint("  http://gw.internal/mcp ", 8080); got != "http://gw.internal/mcp" {
		t.Errorf("override endpoint: got %q", got)
	}
}

func TestListTools(t *testing.T) {
	ts, seen := rpcServer(t, func(req capturedRPC) string {
		return `{"jsonrpc":"2.0","id":"` + req.ID + `","result":{"tools":[
			{"name":"list_api_resources","description":"list","inputSchema":{"type":"object","additionalProperties":false}},
			{"name":"","description":"nameless"},
			{"name":"open","description":"no schema"}
		]}}`
	})

	client := NewGatewayClient(ts.URL, time.Second)
	defs, err := client.ListTools(context.Background())
	if err != nil {
		t.Fatalf("ListTools: %v", err)
	}
	if len(defs) != 2 {
		t.Fatalf("got %d tools, want 2: %+v", len(defs), defs)
	}
	if defs[0].Name != "list_api_resources" {
		t.Errorf("first tool: %q", defs[0].Name)
	}
	if string(defs[1].InputSchema) != `{"type":"object","additionalProperties":true}` {
		t.Errorf("default schema: %s", defs[1].InputSchema)
	}

	req := (*seen)[0]
	if req.Method != "tools/list" || req.JSONRPC != "2.0" {
		t.Errorf("request = %+v", req)
	}
	if len(req.ID) != 36 {
		t.Errorf("expected uuid id, got %q", req.ID)
	}
}

func TestCallTool(t *testing.T) {
	ts, seen := rpcServer(t, func(req capturedRPC) string {
		return `{"jsonrpc":"2.0","id":"x","result":{"content":[{"type":"text","text":"ok"}],"isError":true}}`
	})

	client := NewGatewayClient(ts.URL, time.Second)
	result, err := client.CallTool(context.Background(), "call_api_resource", json.RawMessage(`{"method":"GET","path":"/clients"}`))
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if !strings.Contains(string(result), `"isError":true`) {
		t.Errorf("result = %s", result)
	}

	var params struct {
		Name      string         `json:"name"`
		Arguments map[string]any `json:"arguments"`
	}
	if err := json.Unmarshal((*seen)[0].Params, &params); err != nil {
		t.Fatalf("params: %v", err)
	}
	if params.Name != "call_api_resource" || params.Arguments["path"] != "/clients" {
		t.Errorf("params = %+v", params)
	}
}

func TestCallTool_NilArgumentsSendEmptyObject(t *testing.T) {
	ts, seen := rpcServer(t, func(req capturedRPC) string {
		return `{"jsonrpc":"2.0","id":"x","result":{"content":[]}}`
	})

	client := NewGatewayClient(ts.URL, time.Second)
	if _, err := client.CallTool(context.Background(), "list_api_resources", nil); err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if !strings.Contains(string((*seen)[0].Params), `"arguments":{}`) {
		t.Errorf("params = %s", (*seen)[0].Params)
	}
}

func TestCallTool_Errors(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		check func(t *testing.T, err error)
	}{
		{
			name:  "rpc error",
			reply: `{"jsonrpc":"2.0","id":"x","error":{"code":-32602,"message":"Path not allowed by API whitelist: /admin"}}`,
			check: func(t *testing.T, err error) {
				var gwErr *GatewayError
				if !errors.As(err, &gwErr) {
					t.Fatalf("expected GatewayError, got %v", err)
				}
				if gwErr.Code != -32602 || !strings.Contains(err.Error(), "/admin") {
					t.Errorf("error = %v", err)
				}
			},
		},
		{
			name:  "missing result",
			reply: `{"jsonrpc":"2.0","id":"x"}`,
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrResultMissing) {
					t.Errorf("expected ErrResultMissing, got %v", err)
				}
			},
		},
		{
			name:  "not json",
			reply: `<html>`,
			check: func(t *testing.T, err error) {
				if err == nil || !strings.Contains(err.Error(), "decoding gateway response") {
					t.Errorf("error = %v", err)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, _ := rpcServer(t, func(capturedRPC) string { return tt.reply })
			_, err := NewGatewayClient(ts.URL, time.Second).CallTool(context.Background(), "call_api_resource", nil)
			tt.check(t, err)
		})
	}
}

func TestCallTool_HTTPFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer ts.Close()

	_, err := NewGatewayClient(ts.URL, time.Second).CallTool(context.Background(), "x", nil)
	if err == nil || !strings.Contains(err.Error(), "HTTP 502") {
		t.Errorf("error = %v", err)
	}
}
