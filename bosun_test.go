package bosun

import (
	"context"
	"strings"
	"testing"

	"github.com/initializ/bosun/gateway"
	"github.com/initializ/bosun/jsonrpc"
	"github.com/initializ/bosun/types"
)

func TestNewWiresService(t *testing.T) {
	cfg := types.DefaultConfig()
	s, err := New(cfg, Options{Version: "1.2.3"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.Config != cfg || s.Whitelist == nil || s.Registry == nil || s.Gateway == nil ||
		s.Bridge == nil || s.Metrics == nil || s.Server == nil {
		t.Fatalf("incomplete service: %+v", s)
	}

	names := s.Registry.List()
	if len(names) != 2 {
		t.Fatalf("tools = %v", names)
	}

	req, err := jsonrpc.NewRequest(1, gateway.MethodInitialize, nil)
	if err != nil {
		t.Fatal(err)
	}
	resp := s.Gateway.Dispatch(context.Background(), req)
	if resp == nil || resp.Error != nil {
		t.Fatalf("initialize: %+v", resp)
	}
	result, ok := resp.Result.(gateway.InitializeResult)
	if !ok {
		t.Fatalf("result type %T", resp.Result)
	}
	if result.ServerInfo.Name != ServerName || result.ServerInfo.Version != "1.2.3" {
		t.Errorf("server info = %+v", result.ServerInfo)
	}
}

func TestNewDefaultVersion(t *testing.T) {
	s, err := New(types.DefaultConfig(), Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	req, _ := jsonrpc.NewRequest(1, gateway.MethodInitialize, nil)
	resp := s.Gateway.Dispatch(context.Background(), req)
	result := resp.Result.(gateway.InitializeResult)
	if result.ServerInfo.Version != "dev" {
		t.Errorf("version = %q", result.ServerInfo.Version)
	}
}

func TestNewGatewayEndpoint(t *testing.T) {
	tests := []struct {
		name      string
		inProcess bool
		override  string
		want      string
	}{
		{"http loopback", false, "", "http://127.0.0.1:8090/mcp"},
		{"in process", true, "", InProcessEndpoint},
		{"override wins over in process", true, "http://gw.internal:9000/mcp", "http://gw.internal:9000/mcp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := types.DefaultConfig()
			cfg.Server.GatewayEndpoint = tt.override
			s, err := New(cfg, Options{InProcessTools: tt.inProcess})
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if s.GatewayEndpoint != tt.want {
				t.Errorf("endpoint = %q, want %q", s.GatewayEndpoint, tt.want)
			}
		})
	}
}

func TestNewInvalidWhitelist(t *testing.T) {
	cfg := types.DefaultConfig()
	cfg.Whitelist.Roots = []string{"clients"}
	_, err := New(cfg, Options{})
	if err == nil || !strings.Contains(err.Error(), "whitelist") {
		t.Fatalf("err = %v", err)
	}
}
