package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/briefly/internal/mcptools"
)

func serveMCPCmd(flags *globalFlags) *cobra.Command {
	var httpAddr string

	cmd := &cobra.Command{
		Use:   "serve-mcp",
		Short: "Expose prep_briefing and classify_request as MCP tools",
		Long: `Expose prep_briefing and classify_request as MCP tools.

Runs on stdio by default. With --http the tools are served over streamable
HTTP instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, flags)
			if err != nil {
				return err
			}
			defer a.Close()

			server := mcptools.NewBriefingMCPServer(
				mcptools.NewBriefingService(a.pipeline, a.pipeline.Coordinator()),
			)
			if httpAddr != "" {
				a.logger.Info("mcp server listening", "addr", httpAddr)
				return mcptools.RunHTTP(ctx, server, httpAddr)
			}
			return mcptools.RunStdio(ctx, server)
		},
	}

	cmd.Flags().StringVar(&httpAddr, "http", "", "serve over streamable HTTP on this address instead of stdio")
	return cmd
}
