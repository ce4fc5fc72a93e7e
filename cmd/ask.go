package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/initializ/bosun"
	"github.com/initializ/bosun/llm"
	"github.com/initializ/bosun/runtime"
)

var askProvider string

var askCmd = &cobra.Command{
	Use:   "ask <message...>",
	Short: "Send one chat message and print the answer",
	Long: "ask runs the chat bridge once from the command line. Tool calls go " +
		"straight to an in-process gateway unless server.gateway_endpoint is set.",
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askProvider, "provider", "p", string(llm.ProviderAnthropic), "LLM provider (openai, anthropic)")
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var logger runtime.Logger = runtime.NewJSONLogger(io.Discard, false)
	if verbose {
		logger = runtime.NewJSONLogger(cmd.ErrOrStderr(), true)
	}

	svc, err := bosun.New(cfg, bosun.Options{Logger: logger, Version: appVersion, InProcessTools: true})
	if err != nil {
		return err
	}

	resp, err := svc.Bridge.Chat(context.Background(), runtime.ChatRequest{
		Provider: askProvider,
		Message:  strings.Join(args, " "),
	})
	if err != nil {
		c := runtime.Classify(err)
		return fmt.Errorf("%s (%d): %s", c.Code, c.Status, c.Message)
	}

	fmt.Fprintln(cmd.OutOrStdout(), resp.Answer)
	if verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "provider=%s model=%s\n", resp.Provider, resp.Model)
	}
	return nil
}
