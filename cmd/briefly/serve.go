package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/briefly/internal/api"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the briefing HTTP API",
		Long: `Serve the briefing HTTP API.

Routes:
  GET  /health
  POST /summarize      {"transcript": "..."}
  POST /api/prep       {"transcript": "..."}
  POST /api/classify   {"transcript": "..."}
  GET  /metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, flags)
			if err != nil {
				return err
			}
			defer a.Close()

			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			srv := api.NewServer(a.pipeline,
				api.WithLogger(a.logger),
				api.WithClassifier(a.pipeline.Coordinator()),
				api.WithMetrics(a.registry),
			)
			return srv.Run(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8000)")
	return cmd
}
