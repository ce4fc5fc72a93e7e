package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/initializ/bosun"
	"github.com/initializ/bosun/jsonrpc"
	"github.com/initializ/bosun/tools/builtins"
)

var toolCmd = &cobra.Command{
	Use:   "tool",
	Short: "Inspect and call gateway tools",
}

var toolListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the tools served by the gateway",
	Args:  cobra.NoArgs,
	RunE:  toolListRun,
}

var toolDescribeCmd = &cobra.Command{
	Use:   "describe <name>",
	Short: "Show tool details and schema",
	Args:  cobra.ExactArgs(1),
	RunE:  toolDescribeRun,
}

var toolCallCmd = &cobra.Command{
	Use:   "call <name> [arguments-json]",
	Short: "Call a tool through an in-process gateway and print the JSON-RPC response",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  toolCallRun,
}

func init() {
	toolCmd.AddCommand(toolListCmd)
	toolCmd.AddCommand(toolDescribeCmd)
	toolCmd.AddCommand(toolCallCmd)
}

func toolListRun(cmd *cobra.Command, args []string) error {
	styles := stylesFor(cmd.OutOrStdout())
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", styles.Label.Render("NAME"), styles.Label.Render("DESCRIPTION"))

	for _, t := range builtins.All(builtins.Config{}) {
		fmt.Fprintf(w, "%s\t%s\n", t.Name(), t.Description())
	}
	return w.Flush()
}

func toolDescribeRun(cmd *cobra.Command, args []string) error {
	name := args[0]
	t := builtins.GetByName(builtins.Config{}, name)
	if t == nil {
		return fmt.Errorf("unknown tool: %q", name)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Name:        %s\n", t.Name())
	fmt.Fprintf(out, "Description: %s\n", t.Description())
	fmt.Fprintf(out, "\nInput Schema:\n")

	var pretty json.RawMessage
	if json.Unmarshal(t.InputSchema(), &pretty) == nil {
		data, _ := json.MarshalIndent(pretty, "", "  ")
		fmt.Fprintf(out, "%s\n", data)
	}
	return nil
}

func toolCallRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	svc, err := bosun.New(cfg, bosun.Options{Version: appVersion, InProcessTools: true})
	if err != nil {
		return err
	}

	arguments := json.RawMessage(`{}`)
	if len(args) == 2 {
		if !json.Valid([]byte(args[1])) {
			return fmt.Errorf("arguments must be valid JSON")
		}
		arguments = json.RawMessage(args[1])
	}

	req, err := jsonrpc.NewRequest(1, "tools/call", map[string]any{
		"name":      args[0],
		"arguments": arguments,
	})
	if err != nil {
		return err
	}
	resp := svc.Gateway.Dispatch(context.Background(), req)

	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding response: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", data)
	if resp.Error != nil {
		return fmt.Errorf("tools/call failed: %s", resp.Error.Message)
	}
	return nil
}
