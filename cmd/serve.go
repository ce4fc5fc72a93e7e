package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/initializ/bosun"
	"github.com/initializ/bosun/runtime"
	"github.com/initializ/bosun/validate"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the tool gateway and the chat bridge",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (overrides server.port)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort > 0 {
		cfg.Server.Port = servePort
	}

	stderr := cmd.ErrOrStderr()
	styles := stylesFor(stderr)

	result := validate.ValidateConfig(cfg)
	for _, w := range result.Warnings {
		fmt.Fprintf(stderr, "%s %s\n", styles.Warn.Render("WARNING:"), w)
	}
	if !result.IsValid() {
		for _, e := range result.Errors {
			fmt.Fprintf(stderr, "%s %s\n", styles.Error.Render("ERROR:"), e)
		}
		return fmt.Errorf("config validation failed: %d error(s)", len(result.Errors))
	}

	logger := runtime.NewJSONLogger(stderr, verbose)
	svc, err := bosun.New(cfg, bosun.Options{Logger: logger, Version: appVersion})
	if err != nil {
		return err
	}

	printBanner(stderr, styles, svc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			fmt.Fprintln(stderr, "\nShutting down...")
			cancel()
		case <-ctx.Done():
		}
	}()

	logger.Info("server starting", map[string]any{
		"port":             cfg.Server.Port,
		"internal_api":     cfg.InternalAPIURL(),
		"gateway_endpoint": svc.GatewayEndpoint,
		"max_tool_rounds":  cfg.Agent.MaxToolRounds,
	})
	if err := svc.Server.Start(ctx); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	logger.Info("server stopped", nil)
	return nil
}

func printBanner(w io.Writer, styles styleSet, svc *bosun.Service) {
	cfg := svc.Config
	rule := styles.Dim.Render("  " + strings.Repeat("─", 44))
	row := func(label, value string) {
		fmt.Fprintf(w, "  %s %s\n", styles.Label.Render(fmt.Sprintf("%-13s", label+":")), value)
	}

	fmt.Fprintf(w, "\n  %s %s\n", styles.Title.Render("bosun"), styles.Dim.Render("v"+appVersion))
	fmt.Fprintln(w, rule)
	row("Port", fmt.Sprintf("%d", cfg.Server.Port))
	row("Internal API", cfg.InternalAPIURL())
	row("Tools", fmt.Sprintf("%d (%s)", len(svc.Registry.List()), strings.Join(svc.Registry.List(), ", ")))
	row("Whitelist", fmt.Sprintf("%d roots", len(cfg.Whitelist.Roots)))
	row("OpenAI", providerStatus(styles, cfg.OpenAI.Model, cfg.OpenAI.APIKey))
	anthropic := providerStatus(styles, cfg.Anthropic.Model, cfg.Anthropic.APIKey)
	if cfg.Anthropic.ToolsEnabled {
		anthropic += ", tools on"
	}
	row("Anthropic", anthropic)
	row("Tool rounds", fmt.Sprintf("%d max", cfg.Agent.MaxToolRounds))
	fmt.Fprintln(w, rule)
	row("Tool gateway", fmt.Sprintf("POST http://localhost:%d/mcp", cfg.Server.Port))
	row("Chat", fmt.Sprintf("POST http://localhost:%d/ai/chat", cfg.Server.Port))
	row("Health", fmt.Sprintf("http://localhost:%d/healthz", cfg.Server.Port))
	row("Metrics", fmt.Sprintf("http://localhost:%d/metrics", cfg.Server.Port))
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "  %s\n\n", styles.Dim.Render("Press Ctrl+C to stop"))
}

func providerStatus(styles styleSet, model, apiKey string) string {
	if apiKey == "" {
		return model + " " + styles.Warn.Render("(no API key)")
	}
	return model + " " + styles.OK.Render("(ready)")
}
