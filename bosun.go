// Package bosun provides a high-level API for embedding the tool gateway and
// the chat bridge as a library.
//
// New wires every component from one resolved configuration. The CLI is a
// thin layer over it.
package bosun

import (
	"fmt"

	"github.com/initializ/bosun/gateway"
	"github.com/initializ/bosun/observability"
	"github.com/initializ/bosun/runtime"
	"github.com/initializ/bosun/security"
	"github.com/initializ/bosun/server"
	"github.com/initializ/bosun/tools"
	"github.com/initializ/bosun/tools/adapters"
	"github.com/initializ/bosun/tools/builtins"
	"github.com/initializ/bosun/types"
)

// ServerName is reported by initialize.
const ServerName = "bosun-mcp"

// InProcessEndpoint is reported as the gateway endpoint when tool calls skip
// the HTTP hop.
const InProcessEndpoint = "in-process"

// ─── Service ──────────────────────────────────────────────────────────

// Options tunes New.
type Options struct {
	// Logger receives loop and server logs. Nil disables logging.
	Logger runtime.Logger
	// Version is reported by initialize. Defaults to "dev".
	Version string
	// InProcessTools routes the loop's tool calls straight into the gateway
	// when no gateway endpoint override is configured.
	InProcessTools bool
}

// Service is a fully wired bosun instance.
type Service struct {
	Config          *types.Config
	Whitelist       *security.Whitelist
	Registry        *tools.Registry
	Gateway         *gateway.Gateway
	Bridge          *runtime.Bridge
	Metrics         *observability.Metrics
	Server          *server.Server
	GatewayEndpoint string
}

// New builds a Service from cfg. cfg must not be modified afterwards.
func New(cfg *types.Config, opts Options) (*Service, error) {
	version := opts.Version
	if version == "" {
		version = "dev"
	}

	wl, err := security.NewWhitelist(cfg.Whitelist.Roots)
	if err != nil {
		return nil, fmt.Errorf("building whitelist: %w", err)
	}

	metrics := observability.NewMetrics()

	reg := tools.NewRegistry()
	if err := builtins.RegisterAll(reg, builtins.Config{
		APIBaseURL: cfg.InternalAPIURL(),
		Whitelist:  wl,
		Timeout:    cfg.Timeouts.InternalAPI,
	}); err != nil {
		return nil, fmt.Errorf("registering builtins: %w", err)
	}

	gw := gateway.New(reg,
		gateway.WithServerInfo(gateway.ServerInfo{Name: ServerName, Version: version}),
		gateway.WithMetrics(metrics),
	)

	providers, err := runtime.NewProviderSet(cfg)
	if err != nil {
		return nil, fmt.Errorf("building providers: %w", err)
	}

	s := &Service{
		Config:    cfg,
		Whitelist: wl,
		Registry:  reg,
		Gateway:   gw,
		Metrics:   metrics,
	}

	var toolGateway runtime.ToolGateway
	if opts.InProcessTools && cfg.Server.GatewayEndpoint == "" {
		s.GatewayEndpoint = InProcessEndpoint
		toolGateway = gw.Local()
	} else {
		s.GatewayEndpoint = adapters.GatewayEndpoint(cfg.Server.GatewayEndpoint, cfg.Server.Port)
		toolGateway = adapters.NewGatewayClient(s.GatewayEndpoint, cfg.Timeouts.Gateway)
	}

	s.Bridge = runtime.NewBridge(runtime.BridgeConfig{
		Providers:    providers,
		Gateway:      toolGateway,
		Logger:       opts.Logger,
		Metrics:      metrics,
		SystemPrompt: cfg.Agent.SystemPrompt,
		MaxRounds:    cfg.Agent.MaxToolRounds,
	})

	s.Server = server.New(server.Config{
		Port:    cfg.Server.Port,
		CORS:    cfg.Server.CORS,
		Gateway: gw,
		Chat:    s.Bridge,
		Metrics: metrics,
		Logger:  opts.Logger,
	})
	return s, nil
}
